package html

import (
	"bytes"
	"context"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser reduces HTML pages to their visible text, one line per block.
type Normaliser struct{}

func New() *Normaliser {
	return &Normaliser{}
}

func (n *Normaliser) Format() string {
	return "html"
}

func (n *Normaliser) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Normalise never fails: the tokenizer recovers from any malformed markup.
func (n *Normaliser) Normalise(_ context.Context, content []byte) (string, error) {
	return visibleText(content), nil
}

// hidden elements contribute no text, including everything nested in them.
var hidden = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Title:    true,
}

// blocks start and end on their own line.
var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true,
	atom.Blockquote: true, atom.Br: true, atom.Dd: true,
	atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true,
	atom.Table: true, atom.Tr: true, atom.Ul: true,
}

// cells keep adjacent table cells from running together.
var cells = map[atom.Atom]bool{atom.Td: true, atom.Th: true}

func visibleText(content []byte) string {
	var b strings.Builder
	skip := 0

	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a read error; either way keep what was read.
			break
		}

		switch tt {
		case html.TextToken:
			if skip == 0 {
				b.WriteString(flattenSpace(string(z.Text())))
			}
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if hidden[a] {
				switch tt {
				case html.StartTagToken:
					skip++
				case html.EndTagToken:
					if skip > 0 {
						skip--
					}
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if blocks[a] {
				b.WriteByte('\n')
			} else if cells[a] && tt != html.EndTagToken {
				b.WriteByte(' ')
			}
		}
	}

	return joinLines(b.String())
}

// flattenSpace maps every whitespace rune, newlines included, to a plain
// space so that only block boundaries break lines.
func flattenSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

// joinLines collapses runs of spaces and drops blank lines.
func joinLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
