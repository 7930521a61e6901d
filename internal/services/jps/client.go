package jps

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/damonjavert/jps2sm-sub000/internal/config"
)

// sessionCache is the on-disk form of an authenticated session. A cache
// older than the configured max age triggers a fresh login.
type sessionCache struct {
	Cookies []*http.Cookie `json:"cookies"`
	SavedAt time.Time      `json:"saved_at"`
}

// Client wraps authenticated HTTP access to JPS. The session is lazily
// established on first use.
type Client struct {
	baseURL     string
	username    string
	password    string
	sessionFile string
	maxAge      time.Duration
	httpClient  *http.Client
	logger      *logrus.Logger
	loggedIn    bool

	cachedUserID string
}

// NewClient creates a new JPS client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.JPSUser == "" || cfg.JPSPassword == "" {
		return nil, fmt.Errorf("JPS credentials are required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.JPSBase, "/"),
		username:    cfg.JPSUser,
		password:    cfg.JPSPassword,
		sessionFile: cfg.JPSSessionFile,
		maxAge:      time.Duration(cfg.SessionMaxAgeHours) * time.Hour,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// BaseURL returns the configured site base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ensureSession restores a cached session or logs in.
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

// restoreSession loads cached cookies if they are fresh enough.
func (c *Client) restoreSession() bool {
	data, err := os.ReadFile(c.sessionFile)
	if err != nil {
		return false
	}

	var cache sessionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		c.logger.WithError(err).Debug("Ignoring unreadable session cache")
		return false
	}

	if time.Since(cache.SavedAt) > c.maxAge {
		c.logger.Debug("Cached JPS session expired, logging in again")
		return false
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}

	c.httpClient.Jar.SetCookies(base, cache.Cookies)
	c.logger.Debug("Restored cached JPS session")
	return true
}

// login performs the form login and persists the session cookies.
func (c *Client) login() error {
	c.logger.WithField("user", c.username).Info("Logging in to JPS")

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)
	form.Set("keeploggedin", "1")

	resp, err := c.httpClient.PostForm(c.baseURL+"/login.php", form)
	if err != nil {
		return fmt.Errorf("JPS login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JPS login returned status %d", resp.StatusCode)
	}

	// A failed login lands back on the login form.
	if strings.Contains(string(body), `name="password"`) {
		return fmt.Errorf("JPS login rejected, check credentials")
	}

	c.loggedIn = true
	c.saveSession()
	c.logger.Info("JPS login successful")
	return nil
}

// saveSession writes the current cookies to the session cache.
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

// Get performs an authenticated GET against a site-relative path and
// returns the response body.
func (c *Client) Get(path string) (string, error) {
	return c.fetch("GET", path, nil)
}

// PostForm performs an authenticated form POST against a site-relative
// path and returns the response body.
func (c *Client) PostForm(path string, form url.Values) (string, error) {
	return c.fetch("POST", path, form)
}

func (c *Client) fetch(method, path string, form url.Values) (string, error) {
	return c.fetchSession(method, path, form, true)
}

func (c *Client) fetchSession(method, path string, form url.Values, allowRelogin bool) (string, error) {
	if err := c.ensureSession(); err != nil {
		return "", err
	}

	fullURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("JPS request")

	var req *http.Request
	var err error
	if form != nil {
		req, err = http.NewRequest(method, fullURL, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequest(method, fullURL, nil)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "jps2sm/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("JPS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("JPS returned status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	// Session cookies can expire server-side before the local cache does.
	// One re-login is allowed per request.
	if strings.Contains(string(body), `id="loginform"`) && !strings.Contains(path, "login.php") {
		if !allowRelogin {
			return "", fmt.Errorf("JPS kept serving the login form after re-login for %s", path)
		}
		c.logger.Info("JPS session expired server-side, logging in again")
		c.loggedIn = false
		if err := c.login(); err != nil {
			return "", err
		}
		return c.fetchSession(method, path, form, false)
	}

	return string(body), nil
}

// GetBytes performs an authenticated GET and returns raw bytes, used for
// torrent file downloads.
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
		return nil, fmt.Errorf("JPS download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JPS returned status %d for %s", resp.StatusCode, path)
	}

	const maxTorrentSize = 10 * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTorrentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read torrent bytes: %w", err)
	}

	return data, nil
}
