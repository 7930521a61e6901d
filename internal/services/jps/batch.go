package jps

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
)

// BatchMode selects one of the personal listing views on JPS.
type BatchMode string

const (
	BatchUploaded BatchMode = "uploaded"
	BatchSeeding  BatchMode = "seeding"
	BatchSnatched BatchMode = "snatched"
	BatchRecent   BatchMode = "recent"
)

// ValidBatchMode reports whether s names a batch mode.
func ValidBatchMode(s string) bool {
	switch BatchMode(s) {
	case BatchUploaded, BatchSeeding, BatchSnatched, BatchRecent:
		return true
	}
	return false
}

// GroupTorrent is one (group, torrent) pair discovered on a listing page.
type GroupTorrent struct {
	GroupID   int
	TorrentID string
}

var (
	userIDPattern  = regexp.MustCompile(`user\.php\?id=(\d+)`)
	listingPattern = regexp.MustCompile(`torrents\.php\?id=(\d+)&(?:amp;)?torrentid=(\d+)`)
)

// userID resolves the logged-in user's id from the index page, cached for
// the life of the client.
func (c *Client) userID() (string, error) {
	if c.cachedUserID != "" {
		return c.cachedUserID, nil
	}

	page, err := c.Get("/index.php")
	if err != nil {
		return "", fmt.Errorf("failed to fetch index page: %w", err)
	}

	m := userIDPattern.FindStringSubmatch(page)
	if m == nil {
		return "", fmt.Errorf("no user id on index page")
	}

	c.cachedUserID = m[1]
	return m[1], nil
}

// ListGroupTorrents walks the paginated listing for a batch mode,
// collecting (group, torrent) pairs in page order. A fixed delay between
// page fetches respects the site's rate limit.
func (c *Client) ListGroupTorrents(mode BatchMode, firstPage, lastPage int, sortBy string, delay time.Duration) ([]GroupTorrent, error) {
	if firstPage < 1 {
		firstPage = 1
	}
	if lastPage < firstPage {
		lastPage = firstPage
	}

	var pairs []GroupTorrent
	seen := map[string]bool{}

	for page := firstPage; page <= lastPage; page++ {
		if page > firstPage && delay > 0 {
			time.Sleep(delay)
		}

		path, err := c.listingPath(mode, page, sortBy)
		if err != nil {
			return nil, err
		}

		body, err := c.Get(path)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s listing page %d: %w", mode, page, err)
		}

		matches := listingPattern.FindAllStringSubmatch(body, -1)
		c.logger.WithFields(logrus.Fields{
			"mode":  mode,
			"page":  page,
			"count": len(matches),
		}).Debug("Parsed listing page")

		if len(matches) == 0 {
			// Past the last page with content.
			break
		}

		for _, m := range matches {
			if seen[m[2]] {
				continue
			}
			seen[m[2]] = true
			groupID := 0
			fmt.Sscanf(m[1], "%d", &groupID)
			pairs = append(pairs, GroupTorrent{GroupID: groupID, TorrentID: m[2]})
		}
	}

	return pairs, nil
}

func (c *Client) listingPath(mode BatchMode, page int, sortBy string) (string, error) {
	if mode == BatchRecent {
		path := fmt.Sprintf("/torrents.php?page=%d", page)
		if sortBy != "" {
			path += "&order_by=" + sortBy
		}
		return path, nil
	}

	uid, err := c.userID()
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("/torrents.php?type=%s&userid=%s&page=%d", mode, uid, page)
	if sortBy != "" {
		path += "&order_by=" + sortBy
	}
	return path, nil
}
