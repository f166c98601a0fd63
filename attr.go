package locate

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// booleanAttrs are the attributes whose presence, not their value, carries
// meaning. HTML4 pages write them bare (<option selected>), HTML5 and XHTML
// pages repeat the name (selected="selected"); both read back as "true".
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"compact":         true,
	"controls":        true,
	"declare":         true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"inert":           true,
	"ismap":           true,
	"itemscope":       true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"nohref":          true,
	"nomodule":        true,
	"noresize":        true,
	"noshade":         true,
	"novalidate":      true,
	"nowrap":          true,
	"open":            true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// rawAttr returns the value of the attribute key on n as written in the
// document.
func rawAttr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// Attr reads attribute name from element n. The lookup is, in order:
//
//   - the attribute as written in the document (boolean attributes read back
//     as "true" regardless of their written value);
//   - the reflected boolean property, for properties the browser derives
//     without an attribute (an implicitly selected option);
//   - absent.
//
// All structured matchers read attributes through Attr.
func Attr(n *html.Node, name string) (string, bool) {
	name = strings.ToLower(name)
	v, ok := rawAttr(n, name)
	if booleanAttrs[name] {
		if ok || reflectedBool(n, name) {
			return "true", true
		}
		return "", false
	}
	return v, ok
}

// reflectedBool returns the value of a boolean property that is not backed
// by an attribute.
func reflectedBool(n *html.Node, name string) bool {
	if name == "selected" && n.DataAtom == atom.Option {
		return implicitlySelected(n)
	}
	return false
}

// implicitlySelected reports whether option n is the one a single-choice
// select shows when none of its options is marked selected.
func implicitlySelected(n *html.Node) bool {
	sel := n.Parent
	if sel != nil && sel.DataAtom == atom.Optgroup {
		sel = sel.Parent
	}
	if sel == nil || sel.DataAtom != atom.Select {
		return false
	}
	if _, ok := rawAttr(sel, "multiple"); ok {
		return false
	}
	var first *html.Node
	marked := false
	walkElements(sel, func(c *html.Node) bool {
		if c.DataAtom != atom.Option {
			return true
		}
		if first == nil {
			first = c
		}
		if _, ok := rawAttr(c, "selected"); ok {
			marked = true
		}
		return false
	})
	return !marked && first == n
}

// classTokens splits a class attribute value into its tokens.
func classTokens(n *html.Node) []string {
	v, ok := Attr(n, "class")
	if !ok {
		return nil
	}
	return strings.FieldsFunc(v, isSpace)
}

// isSpace reports whether r is HTML ASCII whitespace.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// walkElements calls f for each element below n in document order. Children
// of an element are skipped when f returns false.
func walkElements(n *html.Node, f func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if f(c) {
			walkElements(c, f)
		}
	}
}
