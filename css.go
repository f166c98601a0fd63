package locate

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// queryCSS evaluates the selector group sel below scope, the way
// querySelectorAll does: the scope itself is not a candidate, but selectors
// may still reference its ancestors.
func queryCSS(sel string, scope *html.Node) ([]*html.Node, error) {
	group, err := cascadia.ParseGroup(sel)
	if err != nil {
		return nil, invalidSelector("could not parse css selector", err)
	}
	return cascadia.QueryAll(scope, group), nil
}
