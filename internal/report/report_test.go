package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseImageFilename(t *testing.T) {
	key, ts, ext, ok := ParseImageFilename("estate_inheritor_20231027_143022.png")
	if !ok {
		t.Fatalf("expected match")
	}
	if key != "estate_inheritor" || ts != "20231027_143022" || ext != "png" {
		t.Fatalf("unexpected parse: %s %s %s", key, ts, ext)
	}
	for _, bad := range []string{
		"estate_inheritor.png",
		"Estate_20231027_143022.png",
		"estate_inheritor_20231027_143022.gif",
		"generation_report_20231027_143022.json",
	} {
		if _, _, _, ok := ParseImageFilename(bad); ok {
			t.Fatalf("should not match: %s", bad)
		}
	}
}

func TestParseImageFilenameAcceptsDigitsAndHyphens(t *testing.T) {
	// Any key persona.Validate accepts must be recognizable here.
	key, ts, ext, ok := ParseImageFilename("gen-z-reseller2_20231027_143022.jpg")
	if !ok {
		t.Fatalf("expected match")
	}
	if key != "gen-z-reseller2" || ts != "20231027_143022" || ext != "jpg" {
		t.Fatalf("unexpected parse: %s %s %s", key, ts, ext)
	}
}

func TestScanImagesFindsDigitAndHyphenKeys(t *testing.T) {
	dir := t.TempDir()
	name := "gen-z-reseller2_20231027_143022.png"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ScanImages(dir, []string{"gen-z-reseller2"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got["gen-z-reseller2"].Filename != name {
		t.Fatalf("image not found by scan: %+v", got)
	}
}

func TestSaveAndLoadLatest(t *testing.T) {
	dir := t.TempDir()

	old := &Report{TotalPersonas: 2, Successful: 1}
	if _, err := Save(dir, old, time.Date(2023, 10, 27, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("save old: %v", err)
	}
	fresh := &Report{TotalPersonas: 2, Successful: 2}
	if _, err := Save(dir, fresh, time.Date(2023, 10, 27, 14, 30, 22, 0, time.UTC)); err != nil {
		t.Fatalf("save fresh: %v", err)
	}

	got, err := LoadLatest(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Successful != 2 {
		t.Fatalf("loaded the wrong report: %+v", got)
	}
	if filepath.Base(got.Path) != "generation_report_20231027_143022.json" {
		t.Fatalf("unexpected report path: %s", got.Path)
	}
}

func TestLoadLatestMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLatest(dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want not-exist error, got %v", err)
	}
}

func TestScanImagesNewestByEmbeddedTimestamp(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"estate_inheritor_20231027_120000.png",
		"estate_inheritor_20231027_143022.png",
		"reseller_entrepreneur_20231026_090000.jpg",
		"unrelated_notes.txt",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	// Make the older image the most recently modified file; the scan must
	// still pick by embedded timestamp.
	older := filepath.Join(dir, "estate_inheritor_20231027_120000.png")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(older, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	got, err := ScanImages(dir, []string{"estate_inheritor", "reseller_entrepreneur"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got["estate_inheritor"].Filename != "estate_inheritor_20231027_143022.png" {
		t.Fatalf("wrong estate image: %+v", got["estate_inheritor"])
	}
	if got["reseller_entrepreneur"].Filename != "reseller_entrepreneur_20231026_090000.jpg" {
		t.Fatalf("wrong reseller image: %+v", got["reseller_entrepreneur"])
	}
}

func TestScanImagesIgnoresUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "antique_collector_20231027_120000.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ScanImages(dir, []string{"estate_inheritor"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %+v", got)
	}
}

func TestLatestFromReportDropsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "estate_inheritor_20231027_143022.png")
	if err := os.WriteFile(real, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := &Report{Results: []GeneratedImage{
		{PersonaKey: "estate_inheritor", FilePath: real, Filename: filepath.Base(real), Timestamp: "20231027_143022"},
		{PersonaKey: "reseller_entrepreneur", FilePath: filepath.Join(dir, "gone.png"), Timestamp: "20231027_143022"},
	}}
	got := LatestFromReport(r)
	if len(got) != 1 {
		t.Fatalf("want 1 surviving entry, got %+v", got)
	}
	if _, ok := got["estate_inheritor"]; !ok {
		t.Fatalf("estate_inheritor missing: %+v", got)
	}
}
