package locate

import (
	"strings"
)

// Strategy is a locator strategy. The values are the strategy names used on
// the WebDriver wire ("using").
type Strategy string

// Strategy values.
const (
	StrategyID              Strategy = "id"
	StrategyName            Strategy = "name"
	StrategyClassName       Strategy = "class name"
	StrategyLinkText        Strategy = "link text"
	StrategyPartialLinkText Strategy = "partial link text"
	StrategyTagName         Strategy = "tag name"
	StrategyXPath           Strategy = "xpath"
	StrategyCSS             Strategy = "css selector"
)

// String satisfies fmt.Stringer.
func (s Strategy) String() string {
	return string(s)
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyID, StrategyName, StrategyClassName, StrategyLinkText,
		StrategyPartialLinkText, StrategyTagName, StrategyXPath, StrategyCSS:
		return true
	}
	return false
}

// strategyAliases maps the short names accepted by ParseStrategy to their
// strategy.
var strategyAliases = map[string]Strategy{
	"id":                StrategyID,
	"name":              StrategyName,
	"class":             StrategyClassName,
	"class name":        StrategyClassName,
	"classname":         StrategyClassName,
	"link":              StrategyLinkText,
	"link text":         StrategyLinkText,
	"linktext":          StrategyLinkText,
	"partial":           StrategyPartialLinkText,
	"partial link text": StrategyPartialLinkText,
	"partiallinktext":   StrategyPartialLinkText,
	"tag":               StrategyTagName,
	"tag name":          StrategyTagName,
	"tagname":           StrategyTagName,
	"xpath":             StrategyXPath,
	"css":               StrategyCSS,
	"css selector":      StrategyCSS,
}

// ParseStrategy parses a strategy name. Both the wire names ("css selector")
// and the short forms ("css", "class", "tag", ...) are accepted.
func ParseStrategy(s string) (Strategy, error) {
	if st, ok := strategyAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", &LocateError{
		Kind:   ErrInvalidSelector,
		Reason: "unknown locator strategy " + quote(s),
	}
}

// Locator identifies which elements to find: a strategy and the selector value
// it is applied with.
type Locator struct {
	Strategy Strategy
	Value    string
}

// ParseLocator builds a locator from a strategy name and a value.
func ParseLocator(strategy, value string) (Locator, error) {
	st, err := ParseStrategy(strategy)
	if err != nil {
		return Locator{}, err
	}
	return Locator{Strategy: st, Value: value}, nil
}

// String satisfies fmt.Stringer.
func (l Locator) String() string {
	return string(l.Strategy) + "=" + l.Value
}

// ByID locates elements whose id attribute equals id.
func ByID(id string) Locator {
	return Locator{Strategy: StrategyID, Value: id}
}

// ByName locates elements whose name attribute equals name.
func ByName(name string) Locator {
	return Locator{Strategy: StrategyName, Value: name}
}

// ByClassName locates elements that carry class as one of their class
// tokens. Compound class names are rejected; use ByCSS for those.
func ByClassName(class string) Locator {
	return Locator{Strategy: StrategyClassName, Value: class}
}

// ByLinkText locates anchors whose visible text equals text.
func ByLinkText(text string) Locator {
	return Locator{Strategy: StrategyLinkText, Value: text}
}

// ByPartialLinkText locates anchors whose visible text contains text.
func ByPartialLinkText(text string) Locator {
	return Locator{Strategy: StrategyPartialLinkText, Value: text}
}

// ByTagName locates elements by tag name, ignoring case.
func ByTagName(tag string) Locator {
	return Locator{Strategy: StrategyTagName, Value: tag}
}

// ByXPath locates elements with an XPath 1.0 expression.
func ByXPath(expr string) Locator {
	return Locator{Strategy: StrategyXPath, Value: expr}
}

// ByCSS locates elements with a CSS selector group.
func ByCSS(sel string) Locator {
	return Locator{Strategy: StrategyCSS, Value: sel}
}
