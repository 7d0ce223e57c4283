package page

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/net/html"
)

type ImageRef struct {
	Src string
	Alt string
}

type Validation struct {
	Valid    bool
	Expected int
	Found    []ImageRef
	Issues   []string
}

// Validate parses the current page and checks the persona image state:
// every avatar img must reference an existing file and carry alt text, and
// at least one persona image must be present.
func (u *Updater) Validate() (*Validation, error) {
	doc, err := u.readPage()
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	v := &Validation{Expected: len(u.Personas)}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && nodeHasClass(n, "persona-avatar") {
			if img := findImg(n); img != nil {
				src := attrVal(img, "src")
				alt := attrVal(img, "alt")
				v.Found = append(v.Found, ImageRef{Src: src, Alt: alt})
				if src == "" {
					v.Issues = append(v.Issues, "persona image with empty src")
				} else {
					path := filepath.Join(u.WebRoot, filepath.FromSlash(src))
					if _, err := os.Stat(path); err != nil {
						v.Issues = append(v.Issues, fmt.Sprintf("image file not found: %s", src))
					}
				}
				if alt == "" {
					v.Issues = append(v.Issues, fmt.Sprintf("missing alt text for image: %s", src))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(v.Found) == 0 {
		v.Issues = append(v.Issues, "no persona images found in page")
	}
	v.Valid = len(v.Issues) == 0
	return v, nil
}

func nodeHasClass(n *html.Node, want string) bool {
	return hasClass(attrVal(n, "class"), want)
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findImg(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "img" {
			return c
		}
		if found := findImg(c); found != nil {
			return found
		}
	}
	return nil
}
