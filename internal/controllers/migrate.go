package controllers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/damonjavert/jps2sm-sub000/internal/assemble"
	"github.com/damonjavert/jps2sm-sub000/internal/config"
	"github.com/damonjavert/jps2sm-sub000/internal/models"
	"github.com/damonjavert/jps2sm-sub000/internal/normalize"
	"github.com/damonjavert/jps2sm-sub000/internal/services/jps"
	"github.com/damonjavert/jps2sm-sub000/internal/services/sugoi"
	"github.com/damonjavert/jps2sm-sub000/internal/utils"
)

// MigrateController runs the full per-group migration flow: extract,
// parse releases, normalize, filter, duplicate-check, assemble, submit.
type MigrateController struct {
	cfg       *config.Config
	db        *models.Database
	jpsClient *jps.Client
	smClient  *sugoi.Client
	blacklist *utils.Blacklist
	prompt    normalize.PromptFunc
	logger    *logrus.Logger
	dryRun    bool
}

// NewMigrateController creates a new migrate controller
func NewMigrateController(cfg *config.Config, db *models.Database, jpsClient *jps.Client, smClient *sugoi.Client, blacklist *utils.Blacklist, prompt normalize.PromptFunc, dryRun bool, logger *logrus.Logger) *MigrateController {
	return &MigrateController{
		cfg:       cfg,
		db:        db,
		jpsClient: jpsClient,
		smClient:  smClient,
		blacklist: blacklist,
		prompt:    prompt,
		logger:    logger,
		dryRun:    dryRun,
	}
}

// ProcessGroup migrates one release group. wantedIDs limits the releases;
// empty means the whole group. A failure in one release does not abort
// its siblings.
func (c *MigrateController) ProcessGroup(groupID int, wantedIDs map[string]struct{}, stats *models.RunStats) error {
	group, err := c.jpsClient.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, models.ErrGroupNotFound) {
			return fmt.Errorf("group %d does not exist: %w", groupID, err)
		}
		return err
	}

	groupName := strings.Join(group.Artists, ", ") + " - " + group.Title

	c.logger.WithFields(logrus.Fields{
		"group_id": groupID,
		"category": group.Category,
		"name":     groupName,
	}).Info("Processing group")

	if prior, err := c.db.GetMigratedByGroupID(groupID); err == nil && len(prior) > 0 {
		c.logger.WithFields(logrus.Fields{
			"group_id": groupID,
			"count":    len(prior),
		}).Debug("Group has earlier migration records")
	}

	if c.cfg.ExcCategory != "" && string(group.Category) == c.cfg.ExcCategory {
		c.logger.WithField("category", group.Category).Info("Group category excluded by filter")
		stats.Excluded++
		return nil
	}

	if matched, term := c.blacklist.IsBlacklisted(groupName); matched {
		c.logger.WithField("term", term).Info("Group matched blacklist")
		stats.Blacklisted++
		return nil
	}

	releases, err := jps.ExtractReleases(group.TorrentTableFragment, wantedIDs, group.Date)
	if err != nil {
		return err
	}

	if len(releases) == 0 {
		c.logger.WithField("group_id", groupID).Warn("No wanted releases in group")
		return nil
	}

	for _, release := range releases {
		if err := c.processRelease(group, release, stats); err != nil {
			// Siblings in the same group still get their chance.
			stats.Errors++
			c.logger.WithError(err).WithFields(logrus.Fields{
				"group_id":   groupID,
				"torrent_id": release.TorrentID,
			}).Error("Release failed")
		}
	}

	return nil
}

func (c *MigrateController) processRelease(group *models.GroupRecord, release *models.ReleaseRecord, stats *models.RunStats) error {
	logger := c.logger.WithFields(logrus.Fields{
		"group_id":   group.GroupID,
		"torrent_id": release.TorrentID,
		"tokens":     strings.Join(release.SlashTokens, " / "),
	})

	normalized, err := normalize.Classify(release.SlashTokens, group.Category, group.GroupYear())
	if err != nil {
		return err
	}

	if normalize.Excluded(normalized, c.cfg.ExcAudioFormat, c.cfg.ExcMedia) {
		logger.Info("Release excluded by format/media filter")
		stats.Excluded++
		return nil
	}

	if skip, reason := c.filterRelease(release, stats); skip {
		logger.WithField("reason", reason).Info("Release filtered")
		return nil
	}

	if _, err := c.db.GetMigratedByTorrentID(release.TorrentID); err == nil {
		logger.Info("Release already migrated, skipping")
		stats.DuplicateSkipped++
		return nil
	} else if !models.IsNotFound(err) {
		return fmt.Errorf("failed to check migration history: %w", err)
	}

	torrentBytes, err := c.jpsClient.DownloadTorrent(release)
	if err != nil {
		return fmt.Errorf("failed to download torrent: %w", err)
	}

	hash, err := sugoi.CanonicalHash(torrentBytes)
	if err != nil {
		return err
	}

	// The same content can exist on JPS under more than one torrent id.
	if prior, err := c.db.GetMigratedByInfoHash(hash); err == nil {
		logger.WithField("prior_torrent_id", prior.JPSTorrentID).Info("Content already migrated under another torrent id, skipping")
		stats.DuplicateSkipped++
		return nil
	} else if !models.IsNotFound(err) {
		return fmt.Errorf("failed to check migration history: %w", err)
	}

	jpsName := fmt.Sprintf("JPS %s - %s - %s.torrent",
		strings.Join(group.Artists, ", "), group.Title, strings.Join(release.SlashTokens, " "))
	c.saveTorrent(jpsName, torrentBytes)

	dupID, err := sugoi.DetectDuplicate(c.smClient, torrentBytes)
	if err != nil {
		return err
	}
	if dupID != "" {
		if c.cfg.SkipDuplicates {
			logger.WithField("sm_torrent_id", dupID).Info("Duplicate on target site, skipping")
			stats.DuplicateSkipped++
			return nil
		}
		logger.WithField("sm_torrent_id", dupID).Warn("Duplicate on target site, uploading anyway")
	}

	auth, err := c.smClient.Auth()
	if err != nil {
		return err
	}

	files, err := utils.TorrentFiles(torrentBytes)
	if err != nil {
		return fmt.Errorf("failed to read torrent file list: %w", err)
	}

	payload, err := assemble.Assemble(group, normalized, release, auth, nil, assemble.Resolution{
		TorrentFiles: files,
		Prober:       c.jpsClient,
		Prompt:       c.prompt,
	})
	if err != nil {
		return err
	}

	if c.dryRun {
		logger.WithField("payload", payload.Scrubbed()).Info("Dry run, not submitting")
		stats.DryRun++
		return c.record(group, release, "", hash, true)
	}

	debugName := fmt.Sprintf("%s - %s - %s - %s",
		strings.Join(group.Artists, ", "), group.Title, group.Date, release.TorrentID)

	result, err := c.smClient.Upload(payload, torrentBytes, jpsName, c.cfg.ResponseDir, debugName)
	if err != nil {
		return err
	}

	logger.WithField("sm_group_id", result.GroupID).Info("Upload successful")
	stats.Uploaded++

	c.fetchTargetTorrent(group, torrentBytes, logger)

	return c.record(group, release, result.GroupID, hash, false)
}

// filterRelease applies the seeder and size gates. These are control-flow
// skips, not errors.
func (c *MigrateController) filterRelease(release *models.ReleaseRecord, stats *models.RunStats) (bool, string) {
	if c.cfg.MinSeeders > 0 {
		seeders, err := strconv.Atoi(release.Seeders)
		if err == nil && seeders < c.cfg.MinSeeders {
			stats.LowSeeders++
			return true, fmt.Sprintf("seeders %d below minimum %d", seeders, c.cfg.MinSeeders)
		}
	}

	if c.cfg.MaxSizeBytes > 0 {
		size, err := humanize.ParseBytes(release.SizeValue + " " + release.SizeUnit)
		if err == nil && size > c.cfg.MaxSizeBytes {
			stats.Oversize++
			return true, fmt.Sprintf("size %s over limit", humanize.Bytes(size))
		}
	}

	return false, ""
}

// fetchTargetTorrent grabs the target site's own copy of the freshly
// uploaded torrent for cross-seeding. Best-effort.
func (c *MigrateController) fetchTargetTorrent(group *models.GroupRecord, jpsTorrent []byte, logger *logrus.Entry) {
	smTorrentID, err := sugoi.DetectDuplicate(c.smClient, jpsTorrent)
	if err != nil || smTorrentID == "" {
		logger.WithError(err).Debug("Could not locate uploaded torrent on target site")
		return
	}

	data, err := c.smClient.DownloadTorrent(smTorrentID)
	if err != nil {
		logger.WithError(err).Warn("Failed to download target-site torrent")
		return
	}

	name := fmt.Sprintf("SM %s - %s - %s.torrent",
		strings.Join(group.Artists, ", "), group.Title, smTorrentID)
	c.saveTorrent(name, data)
}

func (c *MigrateController) saveTorrent(name string, data []byte) {
	path := filepath.Join(c.cfg.TorrentDir, utils.SafeFilename(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		c.logger.WithError(err).WithField("path", path).Warn("Failed to save torrent file")
	}
}

func (c *MigrateController) record(group *models.GroupRecord, release *models.ReleaseRecord, smGroupID, hash string, dryRun bool) error {
	rec := &models.MigratedRelease{
		JPSGroupID:   group.GroupID,
		JPSTorrentID: release.TorrentID,
		SMGroupID:    smGroupID,
		InfoHash:     hash,
		Artist:       strings.Join(group.Artists, ", "),
		Title:        group.Title,
		Category:     string(group.Category),
		DryRun:       dryRun,
	}

	if err := c.db.CreateMigrated(rec); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}
