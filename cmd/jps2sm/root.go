package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	app := &appContext{}

	rootCmd := &cobra.Command{
		Use:           "jps2sm",
		Short:         "Migrate torrent release metadata from JPopSuki to SugoiMusic",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.configDir, "config", "c", "", "Configuration directory (default ~/.config/jps2sm)")
	rootCmd.PersistentFlags().BoolVarP(&app.dryRun, "dry-run", "n", false, "Assemble payloads but do not submit anything")
	rootCmd.PersistentFlags().BoolVar(&app.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newMigrateCommand(app))
	rootCmd.AddCommand(newBatchCommand(app))
	rootCmd.AddCommand(newWatchCommand(app))
	rootCmd.AddCommand(newHistoryCommand(app))

	return rootCmd
}
