package locate

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// queryXPath evaluates expr with scope as both the context node and the root
// of the navigable tree, so results never leave the scope's subtree.
//
// The expression must evaluate to a node-set made of elements only; any other
// result type is an invalid selector rather than an empty result.
func queryXPath(expr string, scope *html.Node) (nodes []*html.Node, err error) {
	if err := checkXPath(expr); err != nil {
		return nil, invalidSelector("could not parse xpath expression", err)
	}
	x, err := xpath.Compile(expr)
	if err != nil {
		return nil, invalidSelector("could not compile xpath expression", err)
	}

	// the evaluator panics on some runtime type errors (eg, a function
	// receiving a node-set where it expects a string)
	defer func() {
		if r := recover(); r != nil {
			nodes, err = nil, invalidSelector(fmt.Sprintf("could not evaluate xpath expression: %v", r), nil)
		}
	}()

	switch v := x.Evaluate(htmlquery.CreateXPathNavigator(scope)).(type) {
	case *xpath.NodeIterator:
		for v.MoveNext() {
			nav, ok := v.Current().(*htmlquery.NodeNavigator)
			if !ok || nav.NodeType() != xpath.ElementNode {
				return nil, invalidSelector(fmt.Sprintf("xpath expression selects a %s node, not an element", nodeTypeName(v.Current().NodeType())), nil)
			}
			nodes = append(nodes, nav.Current())
		}
		return nodes, nil

	case float64:
		return nil, invalidSelector("xpath expression evaluates to a number, not elements", nil)
	case string:
		return nil, invalidSelector("xpath expression evaluates to a string, not elements", nil)
	case bool:
		return nil, invalidSelector("xpath expression evaluates to a boolean, not elements", nil)
	default:
		return nil, invalidSelector(fmt.Sprintf("xpath expression evaluates to %T, not elements", v), nil)
	}
}

func nodeTypeName(t xpath.NodeType) string {
	switch t {
	case xpath.RootNode:
		return "document"
	case xpath.ElementNode:
		return "element"
	case xpath.AttributeNode:
		return "attribute"
	case xpath.TextNode:
		return "text"
	case xpath.CommentNode:
		return "comment"
	}
	return "unknown"
}
