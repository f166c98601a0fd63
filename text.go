package locate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// textless are the elements whose contents never render as text.
var textless = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Title:    true,
}

// blocks are the elements that break the surrounding text.
var blocks = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Blockquote: true,
	atom.Dd:         true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Fieldset:   true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hr:         true,
	atom.Li:         true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Table:      true,
	atom.Td:         true,
	atom.Th:         true,
	atom.Tr:         true,
	atom.Ul:         true,
}

// VisibleText returns the rendered text of element n: the text of all
// descendant text nodes with formatting tags stripped, script-like content and
// hidden elements skipped, whitespace runs collapsed to a single space and the
// result trimmed. An element that is itself hidden, or sits below a hidden
// element, has no visible text.
func VisibleText(n *html.Node) string {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (textless[p.DataAtom] || hidden(p)) {
			return ""
		}
	}
	if n == nil {
		return ""
	}
	var b strings.Builder
	collectText(goquery.NewDocumentFromNode(n).Selection, &b)
	return normalizeSpace(b.String())
}

func collectText(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		n := c.Get(0)
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if textless[n.DataAtom] || hidden(n) {
				return
			}
			if n.DataAtom == atom.Br {
				b.WriteByte('\n')
				return
			}
			if blocks[n.DataAtom] {
				b.WriteByte('\n')
				defer b.WriteByte('\n')
			}
			collectText(c, b)
		}
	})
}

// hidden reports whether n is hidden by markup alone: the hidden attribute,
// a hidden input, or an inline display:none.
func hidden(n *html.Node) bool {
	if _, ok := rawAttr(n, "hidden"); ok {
		return true
	}
	if n.DataAtom == atom.Input {
		if t, _ := rawAttr(n, "type"); strings.EqualFold(t, "hidden") {
			return true
		}
	}
	style, _ := rawAttr(n, "style")
	style = strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(style, "display:none")
}

// normalizeSpace collapses whitespace runs (including non-breaking spaces)
// into single spaces and trims both ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
