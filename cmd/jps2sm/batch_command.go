package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/damonjavert/jps2sm-sub000/internal/controllers"
	"github.com/damonjavert/jps2sm-sub000/internal/services/jps"
)

func newBatchCommand(app *appContext) *cobra.Command {
	var (
		firstPage int
		lastPage  int
		sortBy    string
	)

	cmd := &cobra.Command{
		Use:       "batch <uploaded|seeding|snatched|recent>",
		Short:     "Migrate every group found on a personal listing",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"uploaded", "seeding", "snatched", "recent"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := args[0]
			if !jps.ValidBatchMode(mode) {
				return fmt.Errorf("unknown batch mode %q", mode)
			}

			rt, err := app.bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()

			stats, err := rt.batch.Run(controllers.BatchOptions{
				Mode:      jps.BatchMode(mode),
				FirstPage: firstPage,
				LastPage:  lastPage,
				SortBy:    sortBy,
			})
			if err != nil {
				return err
			}

			fmt.Println(stats.Summary())
			return nil
		},
	}

	cmd.Flags().IntVar(&firstPage, "first", 1, "First listing page to process")
	cmd.Flags().IntVar(&lastPage, "last", 1, "Last listing page to process")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Listing sort order (site order_by value)")

	return cmd
}
