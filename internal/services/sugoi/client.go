package sugoi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/damonjavert/jps2sm-sub000/internal/config"
	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

type sessionCache struct {
	Cookies []*http.Cookie `json:"cookies"`
	SavedAt time.Time      `json:"saved_at"`
}

// Client wraps authenticated HTTP access to SugoiMusic.
type Client struct {
	baseURL     string
	username    string
	password    string
	sessionFile string
	maxAge      time.Duration
	httpClient  *http.Client
	logger      *logrus.Logger
	loggedIn    bool

	auth *models.AuthContext
}

// NewClient creates a new SugoiMusic client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.SMUser == "" || cfg.SMPassword == "" {
		return nil, fmt.Errorf("SugoiMusic credentials are required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.SMBase, "/"),
		username:    cfg.SMUser,
		password:    cfg.SMPassword,
		sessionFile: cfg.SMSessionFile,
		maxAge:      time.Duration(cfg.SessionMaxAgeHours) * time.Hour,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}, nil
}

func (c *Client) ensureSession() error {
	if c.loggedIn {
		return nil
	}

	if c.restoreSession() {
		c.loggedIn = true
		return nil
	}

	return c.login()
}

func (c *Client) restoreSession() bool {
	data, err := os.ReadFile(c.sessionFile)
	if err != nil {
		return false
	}

	var cache sessionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return false
	}

	if time.Since(cache.SavedAt) > c.maxAge {
		c.logger.Debug("Cached SugoiMusic session expired, logging in again")
		return false
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}

	c.httpClient.Jar.SetCookies(base, cache.Cookies)
	c.logger.Debug("Restored cached SugoiMusic session")
	return true
}

func (c *Client) login() error {
	c.logger.WithField("user", c.username).Info("Logging in to SugoiMusic")

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)
	form.Set("keeplogged", "1")

	resp, err := c.httpClient.PostForm(c.baseURL+"/login.php", form)
	if err != nil {
		return fmt.Errorf("SugoiMusic login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SugoiMusic login returned status %d", resp.StatusCode)
	}

	if strings.Contains(string(body), `name="password"`) {
		return fmt.Errorf("SugoiMusic login rejected, check credentials")
	}

	c.loggedIn = true
	c.saveSession()
	c.logger.Info("SugoiMusic login successful")
	return nil
}

func (c *Client) saveSession() {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}

	cache := sessionCache{
		Cookies: c.httpClient.Jar.Cookies(base),
		SavedAt: time.Now(),
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return
	}

	if err := os.WriteFile(c.sessionFile, data, 0600); err != nil {
		c.logger.WithError(err).Warn("Failed to write session cache")
	}
}

// Get performs an authenticated GET against a site-relative path.
func (c *Client) Get(path string) (string, error) {
	if err := c.ensureSession(); err != nil {
		return "", err
	}

	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "jps2sm/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("SugoiMusic request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("SugoiMusic returned status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// GetBytes performs an authenticated GET and returns raw bytes.
func (c *Client) GetBytes(path string) ([]byte, error) {
	if err := c.ensureSession(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "jps2sm/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SugoiMusic download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SugoiMusic returned status %d for %s", resp.StatusCode, path)
	}

	const maxTorrentSize = 10 * 1024 * 1024
	return io.ReadAll(io.LimitReader(resp.Body, maxTorrentSize))
}

var (
	authKeyPattern = regexp.MustCompile(`name="auth" value="([0-9a-f]+)"`)
	smUserPattern  = regexp.MustCompile(`user\.php\?id=(\d+)`)
)

// Auth returns the per-run authentication context, fetched lazily from
// the upload form and cached for the life of the client.
func (c *Client) Auth() (*models.AuthContext, error) {
	if c.auth != nil {
		return c.auth, nil
	}

	page, err := c.Get("/upload.php")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upload form: %w", err)
	}

	keyMatch := authKeyPattern.FindStringSubmatch(page)
	if keyMatch == nil {
		return nil, &models.ProtocolError{
			Endpoint: "upload.php",
			Detail:   "no auth token in upload form",
		}
	}

	userMatch := smUserPattern.FindStringSubmatch(page)
	if userMatch == nil {
		return nil, &models.ProtocolError{
			Endpoint: "upload.php",
			Detail:   "no user id in upload form",
		}
	}

	c.auth = &models.AuthContext{AuthKey: keyMatch[1], UserID: userMatch[1]}
	return c.auth, nil
}
