package jps

import (
	"fmt"
	"html"
	"net/url"
	"regexp"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

// GetGroup fetches and extracts a release group by id.
func (c *Client) GetGroup(groupID int) (*models.GroupRecord, error) {
	page, err := c.Get(fmt.Sprintf("/torrents.php?id=%d", groupID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group %d: %w", groupID, err)
	}

	return ExtractGroup(page, groupID, c.fetchEditDescription, c.logger)
}

var editBodyPattern = regexp.MustCompile(`(?s)<textarea[^>]*name="body"[^>]*>(.*?)</textarea>`)

// fetchEditDescription retrieves the BBCode description via the privileged
// edit page. Callers treat any failure as a soft degradation.
func (c *Client) fetchEditDescription(groupID int) (string, error) {
	page, err := c.Get(fmt.Sprintf("/torrents.php?action=editgroup&groupid=%d", groupID))
	if err != nil {
		return "", err
	}

	m := editBodyPattern.FindStringSubmatch(page)
	if m == nil {
		return "", fmt.Errorf("no edit form on group %d edit page", groupID)
	}

	return html.UnescapeString(m[1]), nil
}

// DownloadTorrent fetches the torrent file bytes for a parsed release row.
func (c *Client) DownloadTorrent(release *models.ReleaseRecord) ([]byte, error) {
	if release.DownloadPath == "" {
		return nil, fmt.Errorf("release %s has no download link", release.TorrentID)
	}
	return c.GetBytes(release.DownloadPath)
}

var artistCategoryPattern = regexp.MustCompile(`\[([A-Za-z-]+)\]`)

// ArtistCategories fetches the categories an artist has releases under.
// Implements normalize.ArtistProber.
func (c *Client) ArtistCategories(artist string) ([]models.Category, error) {
	page, err := c.Get("/artist.php?artistname=" + url.QueryEscape(artist))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artist page for %q: %w", artist, err)
	}

	seen := map[models.Category]bool{}
	var categories []models.Category
	for _, m := range artistCategoryPattern.FindAllStringSubmatch(page, -1) {
		if !models.KnownCategory(m[1]) {
			continue
		}
		cat := models.Category(m[1])
		if !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}

	return categories, nil
}
