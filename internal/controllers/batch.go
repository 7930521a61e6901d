package controllers

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/damonjavert/jps2sm-sub000/internal/config"
	"github.com/damonjavert/jps2sm-sub000/internal/models"
	"github.com/damonjavert/jps2sm-sub000/internal/services/jps"
)

// BatchController walks a user's listing pages (uploaded, seeding,
// snatched or recent) and migrates every group it finds.
type BatchController struct {
	cfg     *config.Config
	migrate *MigrateController
	client  *jps.Client
	logger  *logrus.Logger
}

// BatchOptions narrows a batch run to a page range and sort order.
type BatchOptions struct {
	Mode      jps.BatchMode
	FirstPage int
	LastPage  int
	SortBy    string
}

// NewBatchController creates a new batch controller
func NewBatchController(cfg *config.Config, migrate *MigrateController, client *jps.Client, logger *logrus.Logger) *BatchController {
	return &BatchController{
		cfg:     cfg,
		migrate: migrate,
		client:  client,
		logger:  logger,
	}
}

// Run lists the groups for the batch mode and migrates them in listing
// order. An interrupt stops the run at the next group boundary; the
// partial stats are still returned.
func (c *BatchController) Run(opts BatchOptions) (*models.RunStats, error) {
	stats := &models.RunStats{}

	if !jps.ValidBatchMode(string(opts.Mode)) {
		return stats, fmt.Errorf("unknown batch mode %q", opts.Mode)
	}

	delay := time.Duration(c.cfg.BatchDelaySeconds) * time.Second

	pairs, err := c.client.ListGroupTorrents(opts.Mode, opts.FirstPage, opts.LastPage, opts.SortBy, delay)
	if err != nil {
		return stats, fmt.Errorf("failed to list %s torrents: %w", opts.Mode, err)
	}

	groups := groupTorrentIDs(pairs)

	c.logger.WithFields(logrus.Fields{
		"mode":   opts.Mode,
		"groups": len(groups),
	}).Info("Starting batch run")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	for _, g := range groups {
		select {
		case <-interrupt:
			c.logger.Warn("Interrupted, stopping after current group")
			return stats, nil
		default:
		}

		if err := c.migrate.ProcessGroup(g.groupID, g.wantedIDs, stats); err != nil {
			stats.AddFailedGroup(g.groupID)
			c.logger.WithError(err).WithField("group_id", g.groupID).Error("Group failed")
		}

		time.Sleep(delay)
	}

	c.logger.Info(stats.Summary())
	return stats, nil
}

type groupBatch struct {
	groupID   int
	wantedIDs map[string]struct{}
}

// groupTorrentIDs folds the flat (group, torrent) listing pairs into
// one entry per group, preserving first-seen listing order.
func groupTorrentIDs(pairs []jps.GroupTorrent) []groupBatch {
	var order []groupBatch
	index := make(map[int]int)

	for _, p := range pairs {
		i, ok := index[p.GroupID]
		if !ok {
			index[p.GroupID] = len(order)
			order = append(order, groupBatch{
				groupID:   p.GroupID,
				wantedIDs: make(map[string]struct{}),
			})
			i = index[p.GroupID]
		}
		order[i].wantedIDs[p.TorrentID] = struct{}{}
	}

	return order
}
