package site

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"valuesnap/internal/waitlist"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	webRoot := filepath.Join(dir, "web")
	imagesDir := filepath.Join(webRoot, "generated_images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(webRoot, "index.html"), []byte("<html><body>ValueSnap</body></html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	wlPath := filepath.Join(dir, "waitlist.txt")
	store, err := waitlist.NewStore(wlPath)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	s := New(webRoot, imagesDir, store)
	s.now = func() time.Time { return time.Date(2023, 10, 27, 14, 30, 22, 0, time.UTC) }
	return s, wlPath
}

func TestServeIndex(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestWaitlistSignup(t *testing.T) {
	s, wlPath := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/waitlist", "application/json",
		strings.NewReader(`{"email":"alice@example.com"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body waitlistResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success {
		t.Fatalf("unexpected response: %+v", body)
	}

	b, err := os.ReadFile(wlPath)
	if err != nil {
		t.Fatalf("read waitlist: %v", err)
	}
	if !strings.Contains(string(b), "2023-10-27 14:30:22 | alice@example.com") {
		t.Fatalf("entry not recorded: %q", string(b))
	}
}

func TestWaitlistRejectsBadEmail(t *testing.T) {
	s, wlPath := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	for _, payload := range []string{`{"email":""}`, `{"email":"not-an-email"}`, `not json`} {
		resp, err := http.Post(srv.URL+"/api/waitlist", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("payload %q: status %d", payload, resp.StatusCode)
		}
	}

	b, err := os.ReadFile(wlPath)
	if err != nil {
		t.Fatalf("read waitlist: %v", err)
	}
	if strings.TrimSpace(string(b)) != "" {
		t.Fatalf("rejected signups were recorded: %q", string(b))
	}
}
