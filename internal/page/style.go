package page

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
)

const imageStyle = `
        .persona-image {
            width: 100%;
            height: 100%;
            object-fit: cover;
            border-radius: 50%;
        }
`

var avatarRuleRe = regexp.MustCompile(`(?s)\.persona-avatar\s*\{[^}]*\}`)

// EnsureImageStyle inserts the .persona-image rule right after the
// .persona-avatar rule. Idempotent: a page already mentioning
// .persona-image is left untouched and false is returned. With preview set
// the page is not written.
func (u *Updater) EnsureImageStyle(preview bool) (bool, error) {
	doc, err := u.readPage()
	if err != nil {
		return false, err
	}
	if bytes.Contains(doc, []byte(".persona-image")) {
		return false, nil
	}
	loc := avatarRuleRe.FindIndex(doc)
	if loc == nil {
		return false, fmt.Errorf("no .persona-avatar rule to anchor the image style on")
	}
	if preview {
		return true, nil
	}
	var buf bytes.Buffer
	buf.Write(doc[:loc[1]])
	buf.WriteString(imageStyle)
	buf.Write(doc[loc[1]:])
	if err := os.WriteFile(u.PagePath, buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("write page: %w", err)
	}
	return true, nil
}
