package cdpdom

import (
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Convert builds an html node tree from a DevTools node tree, as returned by
// DOM.getDocument.
//
// Element, text, CDATA, comment, doctype and document nodes are carried
// over; anything else is dropped along with its subtree. Template contents
// become the template's children, the way the html parser lays them out.
// Frame content documents and shadow roots are not inlined.
//
// When root is not a document node, the result is wrapped in one so that
// root itself stays a candidate of every query.
func Convert(root *cdp.Node) *html.Node {
	n, _ := convert(root)
	return n
}

// convert is Convert, also returning the DevTools node each html node was
// built from.
func convert(root *cdp.Node) (*html.Node, map[*html.Node]*cdp.Node) {
	nodes := make(map[*html.Node]*cdp.Node)

	var walk func(*cdp.Node) *html.Node
	walk = func(c *cdp.Node) *html.Node {
		n := newNode(c)
		if n == nil {
			return nil
		}
		nodes[n] = c
		children := c.Children
		if c.TemplateContent != nil {
			children = append(children[:len(children):len(children)], c.TemplateContent.Children...)
		}
		for _, child := range children {
			if m := walk(child); m != nil {
				n.AppendChild(m)
			}
		}
		return n
	}

	doc := &html.Node{Type: html.DocumentNode}
	if root == nil {
		return doc, nodes
	}
	n := walk(root)
	switch {
	case n == nil:
		return doc, nodes
	case n.Type == html.DocumentNode:
		return n, nodes
	}
	doc.AppendChild(n)
	return doc, nodes
}

func newNode(c *cdp.Node) *html.Node {
	switch c.NodeType {
	case cdp.NodeTypeDocument:
		return &html.Node{Type: html.DocumentNode}

	case cdp.NodeTypeDocumentType:
		n := &html.Node{Type: html.DoctypeNode, Data: strings.ToLower(c.NodeName)}
		if c.PublicID != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "public", Val: c.PublicID})
		}
		if c.SystemID != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "system", Val: c.SystemID})
		}
		return n

	case cdp.NodeTypeElement:
		name := c.LocalName
		if name == "" {
			name = strings.ToLower(c.NodeName)
		}
		return &html.Node{
			Type:     html.ElementNode,
			Data:     name,
			DataAtom: atom.Lookup([]byte(name)),
			Attr:     attributes(c.Attributes),
		}

	case cdp.NodeTypeText, cdp.NodeTypeCDATA:
		return &html.Node{Type: html.TextNode, Data: c.NodeValue}

	case cdp.NodeTypeComment:
		return &html.Node{Type: html.CommentNode, Data: c.NodeValue}
	}
	return nil
}

// attributes converts the flat name/value list of a DevTools node.
func attributes(list []string) []html.Attribute {
	if len(list) < 2 {
		return nil
	}
	attrs := make([]html.Attribute, 0, len(list)/2)
	for i := 0; i+1 < len(list); i += 2 {
		attrs = append(attrs, html.Attribute{Key: list[i], Val: list[i+1]})
	}
	return attrs
}
