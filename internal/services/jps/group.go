package jps

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

// EditFetcher retrieves the privileged BBCode description for a group via
// the edit page. Only operators with edit rights on JPS can use it; its
// failure degrades to the plain-text description, never a hard error.
type EditFetcher func(groupID int) (string, error)

const errorHeadline = "Error"

var (
	categoryPattern = regexp.MustCompile(`^\[([^\]]+)\]`)

	// Dates appear as [2019.01.23] in headlines or as a bare year
	// surrounded by non-digits.
	dottedDatePattern = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})`)
	bareYearPattern   = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)

	picturesArtistPattern = regexp.MustCompile(`^\[Pictures\] (.+?) (?:\d{4}\.\d{2}\.\d{2}|\d{4})`)
	miscArtistPattern     = regexp.MustCompile(`^\[Misc\] (.+?) - `)

	// Title patterns operate on the headline inner HTML so the artist
	// hyperlink is an unambiguous anchor.
	datedTitlePattern    = regexp.MustCompile(`</a> - (.+?) \[\d{4}(?:\.\d{2}\.\d{2})?\]\s*$`)
	parenTitlePattern    = regexp.MustCompile(`</a> - (.+?) \((.+?)\)\s*$`)
	openTitlePattern     = regexp.MustCompile(`</a> - (.+?)\s*$`)
	dashTitlePattern     = regexp.MustCompile(` - (.+?)\s*$`)
	picturesTitlePattern = regexp.MustCompile(`^\[Pictures\] (?:.+? )??(.+? \d{4}(?:\.\d{2}(?:\.\d{2})?)?)\s*$`)
	originalPairPattern  = regexp.MustCompile(`^\((.+?) - (.+)\)$`)
	torrentTablePattern  = regexp.MustCompile(`(?s)<table class="torrent_table[^"]*".*?</table>`)
	artistSplitPattern   = regexp.MustCompile(`, | x | & `)
)

// ExtractGroup parses a JPS group page into a GroupRecord. fetchEdit may
// be nil. It fails with a ParseError when the page is an error page or a
// required field cannot be located after every fallback.
func ExtractGroup(pageHTML string, groupID int, fetchEdit EditFetcher, logger *logrus.Logger) (*models.GroupRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, &models.ParseError{GroupID: groupID, Field: "page", Reason: err.Error()}
	}

	headline := doc.Find("div.thin h2").First()
	if headline.Length() == 0 {
		return nil, &models.ParseError{GroupID: groupID, Field: "headline", Reason: "no headline element"}
	}

	headlineText := strings.TrimSpace(headline.Text())

	if headlineText == errorHeadline {
		secondary := strings.TrimSpace(doc.Find("div.thin h3").First().Text())
		if strings.Contains(strings.ToLower(secondary), "not found") {
			return nil, fmt.Errorf("group %d: %w", groupID, models.ErrGroupNotFound)
		}
		return nil, &models.ParseError{GroupID: groupID, Field: "page", Reason: "error page: " + secondary}
	}

	headlineHTML, err := headline.Html()
	if err != nil {
		return nil, &models.ParseError{GroupID: groupID, Field: "headline", Reason: err.Error()}
	}

	group := &models.GroupRecord{GroupID: groupID}

	// Category has no fallback: without it nothing downstream can run.
	categoryMatch := categoryPattern.FindStringSubmatch(headlineText)
	if categoryMatch == nil || !models.KnownCategory(categoryMatch[1]) {
		return nil, &models.ParseError{GroupID: groupID, Field: "category", Reason: "no recognized category tag in headline"}
	}
	group.Category = models.Category(categoryMatch[1])

	group.Artists, err = extractArtists(headline, headlineText, group.Category, groupID)
	if err != nil {
		return nil, err
	}

	group.Date, err = extractDate(headlineText, group.Category, groupID, logger)
	if err != nil {
		return nil, err
	}

	group.Title, err = extractTitle(headlineHTML, headlineText, group.Category, group.Date, groupID)
	if err != nil {
		return nil, err
	}

	group.OriginalArtist, group.OriginalTitle = extractOriginalPair(doc)

	fragment := torrentTablePattern.FindString(pageHTML)
	if fragment == "" && !models.NoReleaseDataCategories[group.Category] {
		return nil, &models.ParseError{GroupID: groupID, Field: "torrent_table", Reason: "no torrent table in page"}
	}
	group.TorrentTableFragment = fragment

	group.Description = extractDescription(doc, groupID, fetchEdit, logger)
	group.ImageLink = doc.Find("div.box img").First().AttrOr("src", "")
	group.Tags = extractTags(doc)
	group.ContributingArtists = extractContributingArtists(doc)

	if err := group.Validate(); err != nil {
		return nil, err
	}

	return group, nil
}

// extractArtists resolves the artist list. The default path reads the
// artist hyperlinks in the headline; artist-less categories fall back to
// category-specific headline patterns. Anything else is a data-integrity
// failure, not a recoverable one.
func extractArtists(headline *goquery.Selection, headlineText string, category models.Category, groupID int) ([]string, error) {
	var artists []string
	headline.Find(`a[href*="artist.php"]`).Each(func(_ int, link *goquery.Selection) {
		for _, part := range artistSplitPattern.Split(strings.TrimSpace(link.Text()), -1) {
			if part != "" {
				artists = append(artists, part)
			}
		}
	})
	if len(artists) > 0 {
		return artists, nil
	}

	if models.NoArtistCategories[category] {
		switch category {
		case models.CategoryPictures:
			if m := picturesArtistPattern.FindStringSubmatch(headlineText); m != nil {
				return []string{m[1]}, nil
			}
		case models.CategoryMisc:
			if m := miscArtistPattern.FindStringSubmatch(headlineText); m != nil {
				var out []string
				for _, part := range artistSplitPattern.Split(m[1], -1) {
					if part != "" {
						out = append(out, part)
					}
				}
				if len(out) > 0 {
					return out, nil
				}
			}
		}
	}

	return nil, &models.ParseError{GroupID: groupID, Field: "artist", Reason: "no artist link and no category fallback matched"}
}

// extractDate normalizes the headline date to YYYYMMDD, falling back to a
// bare year. Dateless categories get an empty date with a logged warning;
// the date is backfilled later from a torrent's upload date.
func extractDate(headlineText string, category models.Category, groupID int, logger *logrus.Logger) (string, error) {
	if m := dottedDatePattern.FindStringSubmatch(headlineText); m != nil {
		return m[1] + m[2] + m[3], nil
	}

	if m := bareYearPattern.FindStringSubmatch(headlineText); m != nil {
		return m[1], nil
	}

	if models.NoDateCategories[category] {
		logger.WithFields(logrus.Fields{
			"group_id": groupID,
			"category": category,
		}).Warn("No release date in headline, will backfill from upload date")
		return "", nil
	}

	return "", &models.ParseError{GroupID: groupID, Field: "date", Reason: "no date in headline for a dated category"}
}

// extractTitle walks the fallback chain for the group title. Date-bearing
// categories take the text between the artist link and the bracketed date;
// dateless ones try progressively looser patterns before the category
// heuristics.
func extractTitle(headlineHTML, headlineText string, category models.Category, date string, groupID int) (string, error) {
	unescape := func(s string) string { return strings.TrimSpace(html.UnescapeString(s)) }

	if len(date) == 8 || (len(date) == 4 && !models.NoDateCategories[category]) {
		if m := datedTitlePattern.FindStringSubmatch(headlineHTML); m != nil {
			return unescape(m[1]), nil
		}
	}

	if m := parenTitlePattern.FindStringSubmatch(headlineHTML); m != nil {
		return unescape(m[1] + " (" + m[2] + ")"), nil
	}
	if m := openTitlePattern.FindStringSubmatch(headlineHTML); m != nil {
		return unescape(m[1]), nil
	}
	if m := dashTitlePattern.FindStringSubmatch(headlineText); m != nil {
		return unescape(m[1]), nil
	}

	if category == models.CategoryPictures {
		if m := picturesTitlePattern.FindStringSubmatch(headlineText); m != nil {
			return unescape(m[1]), nil
		}
	}

	return "", &models.ParseError{GroupID: groupID, Field: "title", Reason: "no title pattern matched headline"}
}

// extractOriginalPair reads the optional romanization pair from the
// secondary heading. Absence is normal.
func extractOriginalPair(doc *goquery.Document) (string, string) {
	secondary := strings.TrimSpace(doc.Find("div.thin h3").First().Text())
	if m := originalPairPattern.FindStringSubmatch(secondary); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", ""
}

// extractDescription prefers the privileged BBCode edit markup and
// degrades to the stripped visible description.
func extractDescription(doc *goquery.Document, groupID int, fetchEdit EditFetcher, logger *logrus.Logger) string {
	if fetchEdit != nil {
		bbcode, err := fetchEdit(groupID)
		if err == nil && strings.TrimSpace(bbcode) != "" {
			return strings.TrimSpace(bbcode)
		}
		if err != nil {
			logger.WithError(err).WithField("group_id", groupID).
				Debug("Privileged description fetch failed, using visible text")
		}
	}

	return strings.TrimSpace(doc.Find("div.body").First().Text())
}

func extractTags(doc *goquery.Document) []string {
	seen := map[string]bool{}
	var tags []string
	doc.Find(`a[href*="taglist="]`).Each(func(_ int, link *goquery.Selection) {
		tag := strings.TrimSpace(link.Text())
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	})
	return tags
}

var contribOriginalPattern = regexp.MustCompile(`\(([^)]+)\)\s*$`)

// extractContributingArtists reads the per-track attribution list, mapping
// artist name to original-script name where one is given.
func extractContributingArtists(doc *goquery.Document) map[string]string {
	contrib := map[string]string{}
	doc.Find("li.contrib_artist").Each(func(_ int, li *goquery.Selection) {
		name := strings.TrimSpace(li.Find("a").First().Text())
		if name == "" {
			return
		}
		original := name
		rest := strings.TrimSpace(strings.Replace(li.Text(), name, "", 1))
		if m := contribOriginalPattern.FindStringSubmatch(rest); m != nil {
			original = strings.TrimSpace(m[1])
		}
		contrib[name] = original
	})
	return contrib
}
