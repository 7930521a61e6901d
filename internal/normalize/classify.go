package normalize

import (
	"strings"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

// Classify maps a release's slash tokens to canonical upload fields. The
// five shape rules are tested in fixed priority order; the first match
// wins. groupYear is the 4-digit year prefix of the group's date (may be
// empty) and is used only to suppress redundant remaster years.
//
// A ClassificationError means none of the rules matched. Callers treat it
// as a defensive condition: the release is skipped, the batch continues.
func Classify(tokens []string, groupCategory models.Category, groupYear string) (*models.NormalizedRelease, error) {
	n := &models.NormalizedRelease{CategoryStatus: models.CategoryStatusGood}
	var remasterRaw string

	switch {
	// Rule 1: bad-format first token with a video media second token.
	case len(tokens) >= 2 && IsBadFormat(tokens[0]) && IsVideoMedia(tokens[1]):
		n.IsVideo = true
		mapVideoFormat(n, tokens[0])
		n.Media = tokens[1]
		if len(tokens) >= 3 {
			remasterRaw = tokens[2]
		}

	// Rule 2: bad-format first token with the video media in third
	// position: a video release filed under a non-video category.
	case len(tokens) >= 3 && IsBadFormat(tokens[0]) && IsVideoMedia(tokens[2]):
		n.IsVideo = true
		n.CategoryStatus = models.CategoryStatusBad
		mapVideoFormat(n, tokens[0])
		n.Media = tokens[2]
		if len(tokens) >= 4 {
			remasterRaw = tokens[3]
		}

	// Rule 3: music release in a music category.
	case models.MusicCategories[groupCategory] && len(tokens) >= 3:
		n.AudioFormat = tokens[0]
		n.Bitrate = NormalizeBitrate(tokens[1])
		n.Media = tokens[2]
		if len(tokens) >= 4 {
			remasterRaw = tokens[3]
		}

	// Rule 4: music-shaped tokens in a video category: a music release
	// miscategorized into a video group.
	case models.VideoCategories[groupCategory] && len(tokens) >= 2:
		n.CategoryStatus = models.CategoryStatusBad
		n.AudioFormat = tokens[0]
		n.Media = tokens[1]
		if len(tokens) >= 3 {
			remasterRaw = tokens[2]
		}

	// Rule 5: categories with no per-release format data.
	case models.NoReleaseDataCategories[groupCategory]:
		// No format fields at all.

	default:
		return nil, &models.ClassificationError{Tokens: tokens, Category: groupCategory}
	}

	if remasterRaw != "" {
		applyRemaster(n, remasterRaw, groupYear)
	}

	// Media overrides apply regardless of which rule fired.
	for _, t := range tokens {
		if t == "WEB" {
			n.Media = "Web"
		}
		if t == "Blu-Ray" {
			n.Media = "Bluray"
		}
	}

	return n, nil
}

// mapVideoFormat assigns container/codec/audioformat from a bad-format
// first token. Video audio formats other than AAC cannot be inferred from
// the token and are flagged for manual review.
func mapVideoFormat(n *models.NormalizedRelease, token string) {
	switch {
	case token == "AAC":
		n.AudioFormat = "AAC"
		return
	case containerTokens[token]:
		n.Container = NormalizeContainer(token)
	default:
		n.Codec = NormalizeCodec(token)
	}
	n.AudioFormat = "CHANGEME"
}

// applyRemaster splits a trailing remaster token into title and year. A
// year equal to the group's own release year adds no information: JPS
// makes the year field mandatory, so uploaders stamp the release year even
// when nothing was remastered.
func applyRemaster(n *models.NormalizedRelease, raw, groupYear string) {
	title, year, found := strings.Cut(raw, " - ")
	if !found {
		year = raw
		title = ""
	}

	n.RemasterTitle = title
	if year != groupYear {
		n.RemasterYear = year
	}
}

// Excluded reports whether a release matches the operator's exclusion
// filters. A true result skips the release entirely; it never mutates
// fields.
func Excluded(n *models.NormalizedRelease, excAudioFormat, excMedia string) bool {
	if excAudioFormat != "" && n.AudioFormat == excAudioFormat {
		return true
	}
	if excMedia != "" && n.Media == excMedia {
		return true
	}
	return false
}
