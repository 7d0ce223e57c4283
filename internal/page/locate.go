package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// card is one div.persona-card found in the document. avatarInner is the
// byte span of the persona-avatar div's inner markup, so a replacement can
// be spliced in without touching anything outside it.
type card struct {
	name        string
	hasAvatar   bool
	avatarInner span
}

type span struct {
	start, end int
}

// scanCards tokenizes the document and records, for every persona card, the
// heading text and the exact byte span of the avatar's inner content. The
// tokenizer is used instead of html.Parse because parse-and-reserialize
// rewrites the whole document; summing raw token lengths keeps offsets into
// the original bytes.
func scanCards(doc []byte) ([]card, error) {
	z := html.NewTokenizer(bytes.NewReader(doc))

	var cards []card
	var cur *card
	divDepth := 0    // div nesting inside the current card, 0 = outside
	avatarDepth := 0 // div nesting inside the current avatar
	inHeading := false
	offset := 0

	for {
		tt := z.Next()
		raw := z.Raw()
		start := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				for i := range cards {
					cards[i].name = collapseSpace(cards[i].name)
				}
				return cards, nil
			}
			return nil, fmt.Errorf("tokenize page: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}

			switch tag {
			case "div":
				if tt == html.SelfClosingTagToken {
					break
				}
				if cur == nil {
					if hasClass(attrs["class"], "persona-card") {
						cards = append(cards, card{})
						cur = &cards[len(cards)-1]
						divDepth = 1
					}
					break
				}
				divDepth++
				if avatarDepth > 0 {
					avatarDepth++
				} else if hasClass(attrs["class"], "persona-avatar") && !cur.hasAvatar {
					cur.hasAvatar = true
					cur.avatarInner.start = offset
					avatarDepth = 1
				}
			case "h3":
				if cur != nil && tt == html.StartTagToken {
					inHeading = true
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "div":
				if cur == nil {
					break
				}
				if avatarDepth > 0 {
					avatarDepth--
					if avatarDepth == 0 {
						cur.avatarInner.end = start
					}
				}
				divDepth--
				if divDepth == 0 {
					cur = nil
				}
			case "h3":
				inHeading = false
			}

		case html.TextToken:
			if cur != nil && inHeading {
				cur.name += string(z.Text())
			}
		}
	}
}

func hasClass(classAttr, want string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == want {
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
