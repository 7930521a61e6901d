package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(app *appContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently migrated releases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()

			since := time.Now().AddDate(0, 0, -days)
			recs, err := rt.db.GetRecentMigrated(since)
			if err != nil {
				return fmt.Errorf("failed to read migration history: %w", err)
			}

			if len(recs) == 0 {
				fmt.Printf("No migrations in the last %d days\n", days)
				return nil
			}

			for _, rec := range recs {
				marker := ""
				if rec.DryRun {
					marker = " (dry run)"
				}
				fmt.Printf("%s  [%s] %s - %s (JPS %s -> SM group %s)%s\n",
					rec.MigratedAt.Format("2006-01-02 15:04"),
					rec.Category, rec.Artist, rec.Title,
					rec.JPSTorrentID, rec.SMGroupID, marker)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days back to list")

	return cmd
}
