package locate

import (
	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
)

// Evaluate runs plan below scope and returns the matching elements in
// document order, without duplicates.
//
// A nil scope, or an empty document, is a valid input with no results.
func Evaluate(plan *QueryPlan, scope *html.Node) ([]*html.Node, error) {
	return evaluate(plan, scope, 0)
}

// evaluate is Evaluate with an optional result limit. The limit only
// short-circuits structured plans; raw plans are always evaluated in full so
// that their errors surface regardless of the limit.
func evaluate(plan *QueryPlan, scope *html.Node, limit int) ([]*html.Node, error) {
	var nodes []*html.Node
	var err error
	switch plan.Kind {
	case PlanStructured:
		if scope == nil {
			return nil, nil
		}
		return collect(scope, plan.match, limit), nil

	case PlanCSS:
		if scope == nil {
			scope = &html.Node{Type: html.DocumentNode}
		}
		nodes, err = queryCSS(plan.Locator.Value, scope)

	case PlanXPath:
		if scope == nil {
			scope = &html.Node{Type: html.DocumentNode}
		}
		nodes, err = queryXPath(plan.Locator.Value, scope)

	default:
		return nil, invalidSelector("unknown plan kind "+plan.Kind.String(), nil)
	}
	if err != nil {
		return nil, withLocator(err, plan.Locator)
	}
	nodes = documentOrder(scope, nodes)
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes, nil
}

// documentOrder sorts nodes into pre-order position below root and drops
// duplicates.
func documentOrder(root *html.Node, nodes []*html.Node) []*html.Node {
	if len(nodes) < 2 {
		return nodes
	}
	pos := make(map[*html.Node]int, len(nodes))
	for _, n := range nodes {
		pos[n] = -1
	}
	i := 0
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if _, ok := pos[n]; ok {
			pos[n] = i
		}
		i++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)

	res := make([]*html.Node, 0, len(pos))
	for n := range pos {
		res = append(res, n)
	}
	slices.SortFunc(res, func(a, b *html.Node) bool {
		return pos[a] < pos[b]
	})
	return res
}
