package sugoi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
	"github.com/damonjavert/jps2sm-sub000/internal/utils"
)

var (
	groupIDFieldPattern = regexp.MustCompile(`name="groupid" value="(\d+)"`)

	// Private trackers refuse foreign torrent files: the upload itself
	// succeeded and the page tells the uploader to re-download.
	privateWarningPattern = regexp.MustCompile(`must download from here[^"]*"(?:[^"]*torrents\.php\?id=)(\d+)`)

	styledErrorPattern  = regexp.MustCompile(`(?s)<p style="color: red;\s*text-align:\s*center;">\s*(.*?)\s*</p>`)
	invalidErrorPattern = regexp.MustCompile(`<p>(Invalid [^<]+)</p>`)
)

// UploadResult carries the target-site group id of a successful upload.
type UploadResult struct {
	GroupID string
}

// Upload POSTs the assembled payload plus the torrent file to the upload
// form and classifies the HTML response. The raw response is saved to
// responseDir for post-hoc debugging under debugName.
func (c *Client) Upload(payload models.UploadPayload, torrent []byte, torrentName string, responseDir, debugName string) (*UploadResult, error) {
	if err := c.ensureSession(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file_input", torrentName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(torrent); err != nil {
		return nil, fmt.Errorf("failed to write torrent data: %w", err)
	}

	if err := writeFields(writer, payload); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"fields":  len(payload),
		"torrent": torrentName,
		"size_kb": len(torrent) / 1024,
	}).Debug("Submitting upload to SugoiMusic")

	req, err := http.NewRequest("POST", c.baseURL+"/upload.php", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", "jps2sm/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	c.saveResponse(responseDir, debugName, body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload returned status %d", resp.StatusCode)
	}

	return ClassifyUploadResponse(string(body))
}

// ClassifyUploadResponse interprets the upload response HTML. Success is a
// groupid hidden field or the private-torrent warning; two error paragraph
// shapes are recognized; anything else is a ProtocolError.
func ClassifyUploadResponse(body string) (*UploadResult, error) {
	if m := groupIDFieldPattern.FindStringSubmatch(body); m != nil {
		return &UploadResult{GroupID: m[1]}, nil
	}

	if m := privateWarningPattern.FindStringSubmatch(body); m != nil {
		return &UploadResult{GroupID: m[1]}, nil
	}

	if m := styledErrorPattern.FindStringSubmatch(body); m != nil {
		return nil, fmt.Errorf("upload rejected: %s", strings.TrimSpace(m[1]))
	}

	if m := invalidErrorPattern.FindStringSubmatch(body); m != nil {
		return nil, fmt.Errorf("upload rejected: %s", strings.TrimSpace(m[1]))
	}

	return nil, &models.ProtocolError{
		Endpoint: "upload.php",
		Detail:   "response matched no known success or error shape",
	}
}

func writeFields(writer *multipart.Writer, payload models.UploadPayload) error {
	for _, key := range payload.Keys() {
		switch v := payload[key].(type) {
		case string:
			if err := writer.WriteField(key, v); err != nil {
				return fmt.Errorf("failed to write field %s: %w", key, err)
			}
		case []string:
			for _, item := range v {
				if err := writer.WriteField(key, item); err != nil {
					return fmt.Errorf("failed to write field %s: %w", key, err)
				}
			}
		case int:
			if err := writer.WriteField(key, strconv.Itoa(v)); err != nil {
				return fmt.Errorf("failed to write field %s: %w", key, err)
			}
		default:
			return fmt.Errorf("field %s has unsupported type %T", key, v)
		}
	}
	return nil
}

// saveResponse persists the raw submission response for debugging. A
// failure to save is never fatal.
func (c *Client) saveResponse(dir, name string, body []byte) {
	if dir == "" {
		return
	}

	path := filepath.Join(dir, utils.SafeFilename(name)+".html")
	if err := os.WriteFile(path, body, 0644); err != nil {
		c.logger.WithError(err).WithField("path", path).Warn("Failed to save response HTML")
	}
}

// DownloadTorrent fetches the target site's own torrent file for a
// freshly uploaded release, saved by the caller for cross-seeding.
func (c *Client) DownloadTorrent(torrentID string) ([]byte, error) {
	auth, err := c.Auth()
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/torrents.php?action=download&id=%s&authkey=%s", torrentID, auth.AuthKey)
	return c.GetBytes(path)
}
