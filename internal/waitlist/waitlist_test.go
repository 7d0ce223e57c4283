package waitlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStoreAppendsEntries(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data", "waitlist.txt")
	s, err := NewStore(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	at := time.Date(2023, 10, 27, 14, 30, 22, 0, time.UTC)
	if err := s.Add("alice@example.com", at); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add("bob@example.com", at.Add(time.Minute)); err != nil {
		t.Fatalf("add: %v", err)
	}

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %q", string(b))
	}
	if lines[0] != "2023-10-27 14:30:22 | alice@example.com" {
		t.Fatalf("unexpected line format: %q", lines[0])
	}

	emails, err := s.Emails()
	if err != nil {
		t.Fatalf("emails: %v", err)
	}
	if len(emails) != 2 || emails[1] != "bob@example.com" {
		t.Fatalf("unexpected emails: %v", emails)
	}
}
