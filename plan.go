package locate

import (
	"strings"
)

// PlanKind is the kind of query a locator compiles to.
type PlanKind int

// Plan kinds.
const (
	// PlanStructured plans run a dedicated matcher over the element tree.
	PlanStructured PlanKind = iota

	// PlanCSS plans are raw CSS selector groups.
	PlanCSS

	// PlanXPath plans are raw XPath expressions.
	PlanXPath
)

// String satisfies fmt.Stringer.
func (k PlanKind) String() string {
	switch k {
	case PlanStructured:
		return "structured"
	case PlanCSS:
		return "css"
	case PlanXPath:
		return "xpath"
	}
	return "unknown"
}

// QueryPlan is a translated locator, ready to be evaluated against a
// document.
type QueryPlan struct {
	Kind    PlanKind
	Locator Locator

	match matcher
}

// Translate compiles l into a query plan.
//
// Compound class names fail here with ErrInvalidSelector. CSS and XPath
// syntax is only checked when the plan is evaluated.
func Translate(l Locator) (*QueryPlan, error) {
	p := &QueryPlan{Locator: l}
	switch l.Strategy {
	case StrategyID:
		p.match = attrMatcher("id", l.Value)

	case StrategyName:
		p.match = attrMatcher("name", l.Value)

	case StrategyClassName:
		class := strings.TrimSpace(l.Value)
		switch {
		case class == "":
			return nil, withLocator(invalidSelector("class name cannot be empty", nil), l)
		case strings.IndexFunc(class, isSpace) != -1:
			return nil, withLocator(invalidSelector("compound class names are not permitted", nil), l)
		}
		p.match = classMatcher(class)

	case StrategyTagName:
		if strings.TrimSpace(l.Value) == "" {
			return nil, withLocator(invalidSelector("tag name cannot be empty", nil), l)
		}
		p.match = tagMatcher(l.Value)

	case StrategyLinkText:
		p.match = linkTextMatcher(l.Value, false)

	case StrategyPartialLinkText:
		p.match = linkTextMatcher(l.Value, true)

	case StrategyCSS:
		p.Kind = PlanCSS

	case StrategyXPath:
		p.Kind = PlanXPath

	default:
		return nil, withLocator(invalidSelector("unknown locator strategy "+quote(string(l.Strategy)), nil), l)
	}
	return p, nil
}
