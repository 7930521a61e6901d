package assemble

import (
	"regexp"
	"sort"
	"strings"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
	"github.com/damonjavert/jps2sm-sub000/internal/normalize"
	"github.com/damonjavert/jps2sm-sub000/internal/utils"
)

// Resolution carries the inputs the final type resolution may need beyond
// the records themselves: the torrent's file list and duration for the
// EP and performance heuristics, and the artist probe plus operator
// prompt for Fansubs groups.
type Resolution struct {
	TorrentFiles []string
	DurationMS   int
	Prober       normalize.ArtistProber
	Prompt       normalize.PromptFunc
}

// Assemble merges a group, its normalized release, and the auth context
// into the target site's upload field set. Fields are composed as ordered
// deltas; later steps deliberately overwrite earlier ones. overrides is
// the optional pre-computed mediainfo augmentation, applied before the
// final type resolution.
func Assemble(group *models.GroupRecord, n *models.NormalizedRelease, release *models.ReleaseRecord, auth *models.AuthContext, overrides models.UploadPayload, res Resolution) (models.UploadPayload, error) {
	payload := models.UploadPayload{}

	payload.Apply(baseFields(group, release, auth, n))

	if !models.NoReleaseDataCategories[group.Category] {
		payload.Apply(formatFields(n))
	}

	if group.ImageLink != "" {
		payload.Apply(models.UploadPayload{"image": group.ImageLink})
	}

	if n.IsVideo {
		payload.Apply(videoFields(group, n))
	}

	if models.MusicCategories[group.Category] && n.Bitrate != "" {
		payload.Apply(models.UploadPayload{"bitrate": n.Bitrate})
	}

	if n.RemasterTitle != "" || n.RemasterYear != "" {
		payload.Apply(remasterFields(n))
	}

	if overrides != nil {
		payload.Apply(overrides)
	}

	// Type resolution runs last: it depends on fields set above.
	target, err := resolveType(group, n, res)
	if err != nil {
		return nil, err
	}
	payload.Apply(models.UploadPayload{"type": int(target)})

	stripFields(payload, target)

	if err := applyArtists(payload, group); err != nil {
		return nil, err
	}

	return payload, nil
}

func baseFields(group *models.GroupRecord, release *models.ReleaseRecord, auth *models.AuthContext, n *models.NormalizedRelease) models.UploadPayload {
	year := group.Date
	if year == "" {
		year = utils.ExtractYear(release.UploadDate)
	}

	delta := models.UploadPayload{
		"submit": "true",
		"title":  group.Title,
		"tags":   strings.Join(group.Tags, ","),
		"year":   year,
		"auth":   auth.AuthKey,
	}

	if n.IsVideo {
		delta["release_desc"] = group.Description
	} else {
		delta["album_desc"] = group.Description
	}

	if group.OriginalArtist != "" {
		delta["original_artist"] = group.OriginalArtist
	}
	if group.OriginalTitle != "" {
		delta["original_title"] = group.OriginalTitle
	}

	return delta
}

func formatFields(n *models.NormalizedRelease) models.UploadPayload {
	delta := models.UploadPayload{}
	if n.Media != "" {
		delta["media"] = n.Media
	}
	if n.AudioFormat != "" {
		delta["audioformat"] = n.AudioFormat
	}
	return delta
}

var resolutionPattern = regexp.MustCompile(`\b(\d{3,4}x\d{3,4}|\d{3,4}p)\b`)

func videoFields(group *models.GroupRecord, n *models.NormalizedRelease) models.UploadPayload {
	delta := models.UploadPayload{
		"sub":  "NoSubs",
		"lang": "CHANGEME",
	}

	if n.Container != "" {
		delta["container"] = n.Container
	}
	if n.Codec != "" {
		delta["codec"] = n.Codec
	}

	// Resolution is not part of the slash tokens; the description often
	// mentions it.
	if m := resolutionPattern.FindString(group.Description); m != "" {
		delta["ressel"] = m
	}

	return delta
}

func remasterFields(n *models.NormalizedRelease) models.UploadPayload {
	delta := models.UploadPayload{"remaster": "on"}
	if n.RemasterTitle != "" {
		delta["remastertitle"] = n.RemasterTitle
	}
	if n.RemasterYear != "" {
		delta["remasteryear"] = n.RemasterYear
	}
	return delta
}

// resolveType computes the final target category. Ambiguous categories
// dispatch to their resolver; bad-status releases get the corrective
// re-mapping their token shape implies.
func resolveType(group *models.GroupRecord, n *models.NormalizedRelease, res Resolution) (models.TargetCategory, error) {
	if n.CategoryStatus == models.CategoryStatusBad {
		return resolveBadStatus(n, res)
	}

	switch group.Category {
	case models.CategoryFansubs:
		artist := ""
		if len(group.Artists) > 0 {
			artist = group.Artists[0]
		}
		return normalize.AlternateFansubsCategory(artist, res.Prober, res.Prompt)

	case models.CategoryAlbum:
		return normalize.DecideEP(n.Media, res.TorrentFiles), nil

	case models.CategoryTVMusic:
		return normalize.DecideMusicPerformance(group.Artists, res.TorrentFiles, res.DurationMS, res.Prober)
	}

	return models.CategoryToTarget[group.Category], nil
}

// resolveBadStatus re-maps releases whose token shape contradicts the
// group category. Video-shaped releases follow their media; a DVD-named
// group whose media says Bluray prefers Bluray. Music-shaped releases in
// video groups go through the Album/EP decision.
func resolveBadStatus(n *models.NormalizedRelease, res Resolution) (models.TargetCategory, error) {
	if n.IsVideo {
		switch n.Media {
		case "Bluray", "Blu-Ray":
			return models.TargetBluray, nil
		case "DVD":
			return models.TargetDVD, nil
		default:
			return models.TargetPV, nil
		}
	}

	return normalize.DecideEP(n.Media, res.TorrentFiles), nil
}

// stripFields removes technical metadata from categories that do not
// carry it on the target site. Pictures keeps only the resolution.
func stripFields(payload models.UploadPayload, target models.TargetCategory) {
	if models.StripMediaInfoTargets[target] {
		payload.Strip("container", "codec", "ressel", "mediainfo", "media", "audioformat", "bitrate")
	}

	if target == models.TargetPictures {
		payload.Strip("container", "codec", "mediainfo", "media", "audioformat", "bitrate", "sub", "lang")
	}
}

// applyArtists fills the idols[] field. V.A. groups substitute the
// contributing artists and drop the ordinary contrib field; the group
// validation guarantees the substitution list is non-empty.
func applyArtists(payload models.UploadPayload, group *models.GroupRecord) error {
	if group.IsVariousArtists() {
		if err := group.Validate(); err != nil {
			return err
		}
		names := make([]string, 0, len(group.ContributingArtists))
		for name := range group.ContributingArtists {
			names = append(names, name)
		}
		sort.Strings(names)
		payload["idols[]"] = names
		payload.Strip("contrib_artists[]")
		return nil
	}

	payload["idols[]"] = append([]string(nil), group.Artists...)

	if len(group.ContributingArtists) > 0 {
		names := make([]string, 0, len(group.ContributingArtists))
		for name := range group.ContributingArtists {
			names = append(names, name)
		}
		sort.Strings(names)
		payload["contrib_artists[]"] = names
	}

	return nil
}
