package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// TimestampLayout is the timestamp format embedded in generated image and
// report filenames, e.g. estate_inheritor_20231027_143022.png.
const TimestampLayout = "20060102_150405"

type GeneratedImage struct {
	PersonaKey  string `json:"persona_key"`
	PersonaName string `json:"persona_name,omitempty"`
	FilePath    string `json:"file_path"`
	Filename    string `json:"filename"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Format      string `json:"format,omitempty"`
	Timestamp   string `json:"timestamp"`
	Prompt      string `json:"prompt_used,omitempty"`
}

type Failure struct {
	PersonaKey string `json:"persona_key"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
}

// Report records the outcome of one producer run. One file per run,
// append-only across runs.
type Report struct {
	GenerationTimestamp string           `json:"generation_timestamp"`
	TotalPersonas       int              `json:"total_personas"`
	Successful          int              `json:"successful_generations"`
	Failed              int              `json:"failed_generations"`
	Results             []GeneratedImage `json:"results"`
	Failures            []Failure        `json:"failures,omitempty"`

	Path string `json:"-"`
}

// The key charset must stay in sync with what persona.Validate accepts, or
// a valid persona's images become invisible to the directory scan.
var (
	imageNameRe  = regexp.MustCompile(`^([a-z0-9_-]+)_(\d{8}_\d{6})\.(png|jpg)$`)
	reportNameRe = regexp.MustCompile(`^generation_report_(\d{8}_\d{6})\.json$`)
)

// ParseImageFilename splits a generated image filename into persona key,
// embedded timestamp and extension.
func ParseImageFilename(name string) (key, ts, ext string, ok bool) {
	m := imageNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

// Save writes the report as generation_report_{ts}.json in dir and returns
// the file path.
func Save(dir string, r *Report, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("generation_report_%s.json", now.Format(TimestampLayout)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	r.Path = path
	return path, nil
}

// LoadLatest reads the newest generation report in dir, decided by the
// timestamp embedded in the filename. Returns os.ErrNotExist when no report
// is present.
func LoadLatest(dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read images dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && reportNameRe.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no generation report in %s: %w", dir, os.ErrNotExist)
	}
	// Filename timestamps sort lexicographically in time order.
	sort.Strings(names)
	path := filepath.Join(dir, names[len(names)-1])
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	var r Report
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	r.Path = path
	return &r, nil
}

// LatestFromReport maps persona key to the newest generated image recorded
// in the report, dropping entries whose files no longer exist on disk.
func LatestFromReport(r *Report) map[string]GeneratedImage {
	out := map[string]GeneratedImage{}
	for _, img := range r.Results {
		if _, err := os.Stat(img.FilePath); err != nil {
			continue
		}
		prev, ok := out[img.PersonaKey]
		if !ok || img.Timestamp > prev.Timestamp {
			out[img.PersonaKey] = img
		}
	}
	return out
}

// ScanImages maps persona key to the newest image file found in dir for the
// given keys. Newest means the largest timestamp embedded in the filename;
// file modification times are never consulted.
func ScanImages(dir string, keys []string) (map[string]GeneratedImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]GeneratedImage{}, nil
		}
		return nil, fmt.Errorf("read images dir: %w", err)
	}
	wanted := map[string]bool{}
	for _, k := range keys {
		wanted[k] = true
	}
	out := map[string]GeneratedImage{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ts, _, ok := ParseImageFilename(e.Name())
		if !ok || !wanted[key] {
			continue
		}
		prev, seen := out[key]
		if seen && prev.Timestamp >= ts {
			continue
		}
		out[key] = GeneratedImage{
			PersonaKey: key,
			FilePath:   filepath.Join(dir, e.Name()),
			Filename:   e.Name(),
			Timestamp:  ts,
		}
	}
	return out, nil
}
