package jps

import (
	"html"
	"regexp"
	"strings"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

// freeleechMarker is the decoration JPS mixes into slash tokens for
// promoted torrents. It is not a real attribute.
const freeleechMarker = "<strong>Freeleech!</strong>"

// rowPattern is the one comprehensive structural pattern applied per
// torrent-table row: download link (with torrent id), slash-token text up
// to the end of the link, size value and unit, snatch/seed/leech counts,
// uploader, upload timestamp.
var rowPattern = regexp.MustCompile(`(?s)(torrents\.php\?action=download&(?:amp;)?id=(\d+)[^"]*)"[^>]*>.*?(?:»|&raquo;)\s*(.+?)</a>.*?<td class="nobr">([\d.,]+)\s*([KMGT]i?B)</td>\s*<td>(\d+)</td>\s*<td>(\d+)</td>\s*<td>(\d+)</td>\s*<td[^>]*>(?:<a href="user\.php[^"]*">)?([^<]*)(?:</a>)?</td>\s*<td[^>]*>([^<]+)</td>`)

var mergedFreeleechPattern = regexp.MustCompile(`^(.+) - ` + regexp.QuoteMeta(freeleechMarker) + `$`)

// ExtractReleases parses the torrent-table fragment into one ReleaseRecord
// per row, filtered to wantedIDs. An empty wantedIDs means the whole group
// was requested. Zero structurally matching rows is a ParseError: the
// fragment itself is malformed, not merely missing the wanted ids.
func ExtractReleases(tableFragment string, wantedIDs map[string]struct{}, groupDate string) (map[string]*models.ReleaseRecord, error) {
	rows := rowPattern.FindAllStringSubmatch(tableFragment, -1)
	if len(rows) == 0 {
		return nil, &models.ParseError{Field: "torrent_table", Reason: "no rows matched the structural pattern"}
	}

	groupYear := ""
	if len(groupDate) >= 4 {
		groupYear = groupDate[:4]
	}

	releases := make(map[string]*models.ReleaseRecord)
	for _, row := range rows {
		torrentID := row[2]
		if len(wantedIDs) > 0 {
			if _, wanted := wantedIDs[torrentID]; !wanted {
				continue
			}
		}

		tokens, err := cleanSlashTokens(row[3], groupYear)
		if err != nil {
			return nil, err
		}

		releases[torrentID] = &models.ReleaseRecord{
			TorrentID:      torrentID,
			SlashTokens:    tokens,
			SizeValue:      row[4],
			SizeUnit:       row[5],
			CompletedCount: row[6],
			Seeders:        row[7],
			Leechers:       row[8],
			Uploader:       strings.TrimSpace(row[9]),
			UploadDate:     strings.TrimSpace(row[10]),
			DownloadPath:   "/" + html.UnescapeString(row[1]),
		}
	}

	return releases, nil
}

// cleanSlashTokens splits the link text on " / ", drops the standalone
// freeleech decoration, and undoes the damage where the decoration
// overwrote a remaster token's year.
func cleanSlashTokens(raw, groupYear string) ([]string, error) {
	var tokens []string
	for _, part := range strings.Split(strings.TrimSpace(raw), " / ") {
		part = strings.TrimSpace(part)
		if part == "" || part == freeleechMarker {
			continue
		}
		tokens = append(tokens, part)
	}

	if len(tokens) == 0 {
		return nil, &models.ParseError{Field: "slash_tokens", Reason: "row has no attribute tokens"}
	}

	// Freeleech decoration frequently replaces what would otherwise be a
	// remaster year token. The group's own release year is the best
	// available substitute.
	last := len(tokens) - 1
	if m := mergedFreeleechPattern.FindStringSubmatch(tokens[last]); m != nil {
		tokens[last] = m[1] + " - " + groupYear
	}

	for i, t := range tokens {
		tokens[i] = html.UnescapeString(t)
	}

	return tokens, nil
}
