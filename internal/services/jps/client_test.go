package jps

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/damonjavert/jps2sm-sub000/internal/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := &config.Config{
		JPSUser:            "user",
		JPSPassword:        "pass",
		JPSBase:            baseURL,
		JPSSessionFile:     filepath.Join(t.TempDir(), "session.json"),
		SessionMaxAgeHours: 1,
	}

	client, err := NewClient(cfg, testLogger)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

// An expired server-side session is recovered with one transparent
// re-login.
func TestFetchRecoversExpiredSession(t *testing.T) {
	logins := 0
	pageHits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "login.php") {
			logins++
			fmt.Fprint(w, `<html><body>Welcome back</body></html>`)
			return
		}
		pageHits++
		if pageHits == 1 {
			fmt.Fprint(w, `<html><form id="loginform"></form></html>`)
			return
		}
		fmt.Fprint(w, `<html><body>torrent group page</body></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	body, err := client.Get("/torrents.php?id=1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(body, "torrent group page") {
		t.Errorf("unexpected body after re-login: %q", body)
	}
	if logins != 2 {
		t.Errorf("expected 2 logins (initial plus re-login), got %d", logins)
	}
}

// If the site keeps serving the login form even after a fresh login, the
// request fails instead of looping.
func TestFetchGivesUpAfterOneRelogin(t *testing.T) {
	logins := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "login.php") {
			logins++
			fmt.Fprint(w, `<html><body>Welcome back</body></html>`)
			return
		}
		fmt.Fprint(w, `<html><form id="loginform"></form></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Get("/torrents.php?id=1")
	if err == nil {
		t.Fatal("expected an error when the login form keeps coming back")
	}
	if !strings.Contains(err.Error(), "login form") {
		t.Errorf("unexpected error: %v", err)
	}
	if logins != 2 {
		t.Errorf("expected exactly 2 login attempts, got %d", logins)
	}
}

func TestLoginRejectedOnBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A failed login lands back on the form.
		fmt.Fprint(w, `<html><form><input name="password" /></form></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Get("/index.php")
	if err == nil {
		t.Fatal("expected login rejection")
	}
	if !strings.Contains(err.Error(), "login rejected") {
		t.Errorf("unexpected error: %v", err)
	}
}
