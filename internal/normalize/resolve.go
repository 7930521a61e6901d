package normalize

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

// ArtistProber fetches the set of categories an artist has releases under
// on the source site. This is the one classification input that costs a
// network round-trip.
type ArtistProber interface {
	ArtistCategories(artist string) ([]models.Category, error)
}

// PromptFunc asks the operator to pick a category from a fixed candidate
// list. An empty answer means "leave it alone".
type PromptFunc func(candidates []models.Category) (string, error)

// epTrackThreshold: releases with fewer music tracks are EPs.
const epTrackThreshold = 7

// performanceDurationMS: single-file videos longer than this are TV
// broadcasts rather than standalone performances.
const performanceDurationMS = 1500000

var musicExtensions = map[string]bool{
	".flac": true,
	".mp3":  true,
	".m4a":  true,
	".ogg":  true,
	".wav":  true,
	".aac":  true,
	".ape":  true,
	".tak":  true,
	".tta":  true,
	".wv":   true,
}

// offVocalPhrases mark instrumental/karaoke variants that do not count as
// tracks when deciding EP vs Album.
var offVocalPhrases = []string{
	"off vocal",
	"off-vocal",
	"instrumental",
	"inst.",
	"karaoke",
	"カラオケ",
}

// DecideEP resolves the Album/EP ambiguity from the torrent's file list.
// Disc images and disc media are always full albums.
func DecideEP(media string, files []string) models.TargetCategory {
	if media == "Bluray" || media == "Blu-Ray" || media == "DVD" {
		return models.TargetAlbum
	}

	tracks := 0
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), ".iso") {
			return models.TargetAlbum
		}
		if !musicExtensions[strings.ToLower(filepath.Ext(f))] {
			continue
		}
		if isOffVocal(f) {
			continue
		}
		tracks++
	}

	if tracks < epTrackThreshold {
		return models.TargetEP
	}
	return models.TargetAlbum
}

func isOffVocal(name string) bool {
	lower := strings.ToLower(name)
	for _, phrase := range offVocalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// nonTVCategories are the categories an artist page may list without
// implying the artist appears on television.
var nonTVCategories = map[models.Category]bool{
	models.CategoryAlbum:  true,
	models.CategorySingle: true,
	models.CategoryDVD:    true,
	models.CategoryPV:     true,
}

// DecideMusicPerformance resolves TV-Music groups between the target's
// Music Performance and TV Music categories. Probe failures are surfaced
// distinctly from parsing failures so the operator can tell a flaky
// artist-page fetch from bad data.
func DecideMusicPerformance(artists []string, files []string, durationMS int, prober ArtistProber) (models.TargetCategory, error) {
	if len(files) > 1 || durationMS > performanceDurationMS {
		return models.TargetTVMusic, nil
	}

	if len(artists) > 1 {
		return models.TargetMusicPerformance, nil
	}

	if len(artists) == 0 {
		return models.TargetTVMusic, nil
	}

	categories, err := prober.ArtistCategories(artists[0])
	if err != nil {
		return 0, &models.ProtocolError{
			Endpoint: "artist category listing",
			Detail:   fmt.Sprintf("probe for %q failed: %v", artists[0], err),
		}
	}

	for _, c := range categories {
		if !nonTVCategories[c] {
			return models.TargetTVMusic, nil
		}
	}
	return models.TargetMusicPerformance, nil
}

// AlternateFansubsCategory resolves a Fansubs group to a concrete TV
// category. Auto-detection succeeds when the artist's listing shows
// exactly one TV category and no music ones; otherwise the operator is
// prompted. An empty answer keeps Fansubs.
func AlternateFansubsCategory(artist string, prober ArtistProber, prompt PromptFunc) (models.TargetCategory, error) {
	if artist != "" && prober != nil {
		categories, err := prober.ArtistCategories(artist)
		if err == nil {
			if alt, ok := detectSingleTVCategory(categories); ok {
				return alt, nil
			}
		}
	}

	if prompt == nil {
		return models.TargetFansubs, nil
	}

	answer, err := prompt(models.FansubsCandidates)
	if err != nil {
		return 0, fmt.Errorf("fansubs category prompt: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return models.TargetFansubs, nil
	}

	for _, candidate := range models.FansubsCandidates {
		if strings.EqualFold(answer, string(candidate)) {
			return models.CategoryToTarget[candidate], nil
		}
	}
	return 0, fmt.Errorf("unrecognized fansubs category %q", answer)
}

func detectSingleTVCategory(categories []models.Category) (models.TargetCategory, bool) {
	var tv []models.Category
	for _, c := range categories {
		if models.MusicCategories[c] {
			return 0, false
		}
		switch c {
		case models.CategoryTVMusic, models.CategoryTVVariety, models.CategoryTVDrama:
			tv = append(tv, c)
		}
	}
	if len(tv) == 1 {
		return models.CategoryToTarget[tv[0]], true
	}
	return 0, false
}
