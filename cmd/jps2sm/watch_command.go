package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/damonjavert/jps2sm-sub000/internal/scheduler"
)

func newWatchCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically migrate recently uploaded torrents",
		Long:  "Run the recent-uploads batch on the WATCH_CRON schedule until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()

			sched := scheduler.NewScheduler(rt.batch, rt.cfg.WatchCron, rt.logger)
			if err := sched.Start(); err != nil {
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			rt.logger.Info("Shutting down")
			sched.Stop()
			return nil
		},
	}

	return cmd
}
