// Package page splices generated persona images into the landing page
// markup. Edits are byte-exact: only the matched avatar spans change, the
// rest of the document is left untouched, and the original is backed up
// before the first write.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"valuesnap/internal/persona"
	"valuesnap/internal/report"
)

// ErrNoImages means no generated image records were available; apply and
// preview refuse to run (and take no backup) in that case.
var ErrNoImages = errors.New("no generated images available")

type Updater struct {
	PagePath string
	WebRoot  string
	Personas []persona.Persona

	now func() time.Time
}

func New(pagePath, webRoot string, personas []persona.Persona) *Updater {
	return &Updater{
		PagePath: pagePath,
		WebRoot:  webRoot,
		Personas: personas,
		now:      time.Now,
	}
}

// Edit is one planned avatar replacement.
type Edit struct {
	PersonaKey string
	CardName   string
	Filename   string
	WebPath    string
	AltText    string

	innerStart  int
	innerEnd    int
	replacement string
}

type Unresolved struct {
	PersonaKey string
	Reason     string
}

type Result struct {
	Edits      []Edit
	Missing    []string
	Unresolved []Unresolved
	BackupPath string
}

// Preview computes the edits an apply would make without writing anything.
func (u *Updater) Preview(images map[string]report.GeneratedImage) (*Result, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	doc, err := u.readPage()
	if err != nil {
		return nil, err
	}
	res, _, err := u.plan(doc, images)
	return res, err
}

// Apply backs up the page, then rewrites the resolved avatar spans. With
// zero resolved edits nothing is written and no backup is taken.
func (u *Updater) Apply(images map[string]report.GeneratedImage) (*Result, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	doc, err := u.readPage()
	if err != nil {
		return nil, err
	}
	res, patched, err := u.plan(doc, images)
	if err != nil {
		return nil, err
	}
	if len(res.Edits) == 0 {
		return res, nil
	}
	backup, err := u.writeBackup(doc)
	if err != nil {
		// Proceeding without a backup risks losing the page.
		return nil, fmt.Errorf("backup failed, aborting: %w", err)
	}
	res.BackupPath = backup
	if err := os.WriteFile(u.PagePath, patched, 0o644); err != nil {
		return nil, fmt.Errorf("write page: %w", err)
	}
	return res, nil
}

func (u *Updater) readPage() ([]byte, error) {
	doc, err := os.ReadFile(u.PagePath)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return doc, nil
}

// plan matches personas to cards and builds the patched document. The
// matching contract: a persona resolves only when exactly one card heading
// contains its page name; zero or multiple candidates make it unresolved,
// never a guess. The heuristic lives here alone so it can be swapped for
// structural IDs without touching the rest of the workflow.
func (u *Updater) plan(doc []byte, images map[string]report.GeneratedImage) (*Result, []byte, error) {
	cards, err := scanCards(doc)
	if err != nil {
		return nil, nil, err
	}

	res := &Result{}
	for _, p := range u.Personas {
		var idxs []int
		for i, c := range cards {
			if strings.Contains(c.name, p.PageName) {
				idxs = append(idxs, i)
			}
		}
		switch {
		case len(idxs) == 0:
			res.Unresolved = append(res.Unresolved, Unresolved{p.Key, "no persona card matches"})
			continue
		case len(idxs) > 1:
			res.Unresolved = append(res.Unresolved, Unresolved{p.Key, fmt.Sprintf("%d persona cards match", len(idxs))})
			continue
		}
		c := cards[idxs[0]]
		if !c.hasAvatar {
			res.Unresolved = append(res.Unresolved, Unresolved{p.Key, "matched card has no avatar element"})
			continue
		}
		img, ok := images[p.Key]
		if !ok {
			res.Missing = append(res.Missing, p.Key)
			continue
		}

		webPath := u.webImagePath(img.FilePath)
		alt := p.AltText()
		res.Edits = append(res.Edits, Edit{
			PersonaKey: p.Key,
			CardName:   c.name,
			Filename:   img.Filename,
			WebPath:    webPath,
			AltText:    alt,
			innerStart: c.avatarInner.start,
			innerEnd:   c.avatarInner.end,
			replacement: fmt.Sprintf(`<img src="%s" alt="%s" class="persona-image" />`,
				html.EscapeString(webPath), html.EscapeString(alt)),
		})
	}

	sort.Slice(res.Edits, func(i, j int) bool { return res.Edits[i].innerStart < res.Edits[j].innerStart })
	return res, splice(doc, res.Edits), nil
}

// splice rebuilds the document with each edit's inner span replaced,
// copying every byte outside the spans verbatim. Edits must be sorted and
// non-overlapping.
func splice(doc []byte, edits []Edit) []byte {
	var buf bytes.Buffer
	last := 0
	for _, e := range edits {
		buf.Write(doc[last:e.innerStart])
		buf.WriteString(e.replacement)
		last = e.innerEnd
	}
	buf.Write(doc[last:])
	return buf.Bytes()
}

// webImagePath converts an image file path to the path the page should
// reference: relative to the web root when the image lives under it,
// otherwise relative to the page's own directory.
func (u *Updater) webImagePath(imgPath string) string {
	if rel, err := filepath.Rel(u.WebRoot, imgPath); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	if rel, err := filepath.Rel(filepath.Dir(u.PagePath), imgPath); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(imgPath)
}

func (u *Updater) writeBackup(doc []byte) (string, error) {
	ext := filepath.Ext(u.PagePath)
	stem := strings.TrimSuffix(u.PagePath, ext)
	path := fmt.Sprintf("%s.backup_%s%s", stem, u.now().Format(report.TimestampLayout), ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	if _, err := f.Write(doc); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close backup: %w", err)
	}
	return path, nil
}
