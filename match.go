package locate

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// matcher tests a single element.
type matcher func(*html.Node) bool

// attrMatcher matches elements whose attribute key equals value exactly.
// id and name are distinct search spaces: neither falls back on the other.
func attrMatcher(key, value string) matcher {
	return func(n *html.Node) bool {
		v, ok := Attr(n, key)
		return ok && v == value
	}
}

// classMatcher matches elements carrying class as one full class token.
func classMatcher(class string) matcher {
	return func(n *html.Node) bool {
		for _, tok := range classTokens(n) {
			if tok == class {
				return true
			}
		}
		return false
	}
}

// tagMatcher matches elements by tag name, ignoring case. "*" matches any
// element.
func tagMatcher(tag string) matcher {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "*" {
		return func(*html.Node) bool { return true }
	}
	return func(n *html.Node) bool {
		return strings.ToLower(n.Data) == tag
	}
}

// linkTextMatcher matches anchors by their visible text. When partial is set,
// text only needs to be contained in the anchor's text. Surrounding
// whitespace is ignored on both sides of the comparison.
func linkTextMatcher(text string, partial bool) matcher {
	text = normalizeSpace(text)
	return func(n *html.Node) bool {
		if n.DataAtom != atom.A && !strings.EqualFold(n.Data, "a") {
			return false
		}
		v := VisibleText(n)
		if partial {
			return strings.Contains(v, text)
		}
		return v == text
	}
}

// collect returns the elements below scope accepted by m, in document
// order. The scope itself is never part of the result.
func collect(scope *html.Node, m matcher, limit int) []*html.Node {
	var res []*html.Node
	var visit func(*html.Node) bool
	visit = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if m(c) {
				res = append(res, c)
				if limit > 0 && len(res) >= limit {
					return false
				}
			}
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(scope)
	return res
}
