package utils

import (
	"regexp"
	"strings"
)

var yearRegex = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// ExtractYear extracts a 4-digit year from free text such as a torrent
// upload timestamp ("Jan 23 2019, 11:22"). Returns "" if none is found.
func ExtractYear(text string) string {
	matches := yearRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

var unsafeFilename = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SafeFilename strips characters that are invalid in filenames on common
// filesystems.
func SafeFilename(name string) string {
	return strings.TrimSpace(unsafeFilename.ReplaceAllString(name, ""))
}
