package models

import "fmt"

// GroupRecord is one release-group's constant metadata, extracted once
// from a single group page and immutable afterwards.
type GroupRecord struct {
	GroupID  int
	Category Category

	// Artists preserves the headline display order.
	Artists []string

	// Date is YYYYMMDD or YYYY; empty only for categories in
	// NoDateCategories, in which case it is backfilled from a torrent's
	// upload date during assembly.
	Date string

	Title          string
	OriginalArtist string
	OriginalTitle  string
	Description    string
	ImageLink      string
	Tags           []string

	// ContributingArtists maps artist name to original-script name.
	ContributingArtists map[string]string

	// TorrentTableFragment is the raw torrent-table HTML, kept opaque for
	// downstream row extraction.
	TorrentTableFragment string
}

// Validate enforces the group-level data invariants. A various-artists
// release without per-track attribution cannot be uploaded.
func (g *GroupRecord) Validate() error {
	if len(g.Artists) == 1 && g.Artists[0] == "V.A." && len(g.ContributingArtists) == 0 {
		return &ParseError{
			GroupID: g.GroupID,
			Field:   "contributing_artists",
			Reason:  "V.A. group has no contributing artists",
		}
	}
	return nil
}

// IsVariousArtists reports whether the group is credited to "V.A.".
func (g *GroupRecord) IsVariousArtists() bool {
	for _, a := range g.Artists {
		if a == "V.A." {
			return true
		}
	}
	return false
}

// GroupYear returns the 4-digit year prefix of the group date, or "".
func (g *GroupRecord) GroupYear() string {
	if len(g.Date) >= 4 {
		return g.Date[:4]
	}
	return ""
}

// ReleaseRecord is one torrent (format variant) within a group, as parsed
// from a single torrent-table row. Not mutated after creation.
type ReleaseRecord struct {
	TorrentID string

	// SlashTokens are the raw tokens between the "»" marker and the end of
	// the link text, after freeleech cleanup.
	SlashTokens []string

	UploadDate     string
	SizeValue      string
	SizeUnit       string
	CompletedCount string
	Seeders        string
	Leechers       string
	Uploader       string

	// DownloadPath is the site-relative download link for this torrent.
	DownloadPath string
}

// String implements a short display form used in log lines and filenames.
func (r *ReleaseRecord) String() string {
	return fmt.Sprintf("torrent %s [%s]", r.TorrentID, joinTokens(r.SlashTokens))
}

func joinTokens(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += " / "
		}
		out += t
	}
	return out
}

// NormalizedRelease is the output of classification and field mapping for
// one ReleaseRecord.
type NormalizedRelease struct {
	IsVideo        bool
	CategoryStatus CategoryStatus

	// Video fields.
	Container string
	Codec     string

	// Shared/music fields.
	Media       string
	AudioFormat string
	Bitrate     string

	RemasterTitle string
	RemasterYear  string
}

// AuthContext carries per-run target-site authentication data, threaded
// explicitly through assembly instead of living in package state.
type AuthContext struct {
	AuthKey string
	UserID  string
}
