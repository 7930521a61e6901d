package sugoi

import (
	"encoding/json"
	"fmt"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
	"github.com/damonjavert/jps2sm-sub000/internal/utils"
)

// sourceTag is the canonical source written into the info dictionary
// before hashing, so that tracker-specific tags don't change the hash.
const sourceTag = "SugoiMusic"

// torrentInfoEntry is one match from the target site's lookup endpoint.
type torrentInfoEntry struct {
	ID      json.Number `json:"id"`
	GroupID json.Number `json:"groupid"`
}

// DetectDuplicate recomputes the torrent's canonical info hash and asks
// the target site whether it already has the content. Returns the
// matching torrent id, or "" when there is no match. Any response other
// than "no match" or "exactly one match" is a ProtocolError.
func DetectDuplicate(c *Client, torrentBytes []byte) (string, error) {
	hash, err := utils.CanonicalInfoHash(torrentBytes, sourceTag)
	if err != nil {
		return "", fmt.Errorf("failed to hash torrent: %w", err)
	}

	return c.lookupHash(hash)
}

func (c *Client) lookupHash(hash string) (string, error) {
	endpoint := "/ajax.php?action=torrent_info&hash=" + hash

	body, err := c.Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("duplicate lookup failed: %w", err)
	}

	var entries []torrentInfoEntry
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		return "", &models.ProtocolError{
			Endpoint: "ajax.php?action=torrent_info",
			Detail:   fmt.Sprintf("response is not a JSON array: %.120s", body),
		}
	}

	switch len(entries) {
	case 0:
		return "", nil
	case 1:
		if entries[0].ID.String() == "" {
			return "", &models.ProtocolError{
				Endpoint: "ajax.php?action=torrent_info",
				Detail:   "match entry has no torrent id",
			}
		}
		return entries[0].ID.String(), nil
	default:
		return "", &models.ProtocolError{
			Endpoint: "ajax.php?action=torrent_info",
			Detail:   fmt.Sprintf("%d matches for one hash", len(entries)),
		}
	}
}

// CanonicalHash exposes the hash used for duplicate lookups, recorded in
// the local migration history.
func CanonicalHash(torrentBytes []byte) (string, error) {
	return utils.CanonicalInfoHash(torrentBytes, sourceTag)
}
