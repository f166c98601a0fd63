package locate

import (
	"testing"
)

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s   string
		exp Strategy
	}{
		{"id", StrategyID},
		{"name", StrategyName},
		{"class name", StrategyClassName},
		{"class", StrategyClassName},
		{"link text", StrategyLinkText},
		{"Partial Link Text", StrategyPartialLinkText},
		{" tag ", StrategyTagName},
		{"xpath", StrategyXPath},
		{"css selector", StrategyCSS},
		{"CSS", StrategyCSS},
	}
	for i, test := range tests {
		st, err := ParseStrategy(test.s)
		if err != nil {
			t.Fatalf("test %d got error: %v", i, err)
		}
		if st != test.exp {
			t.Errorf("test %d expected %q, got %q", i, test.exp, st)
		}
		if !st.Valid() {
			t.Errorf("test %d expected %q to be valid", i, st)
		}
	}

	_, err := ParseStrategy("jquery")
	wantKind(t, err, ErrInvalidSelector)
	if Strategy("jquery").Valid() {
		t.Error("expected unknown strategy to be invalid")
	}
}

func TestParseLocator(t *testing.T) {
	t.Parallel()

	l, err := ParseLocator("css", "div.content")
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if l != ByCSS("div.content") {
		t.Errorf("unexpected locator %v", l)
	}
	if s := l.String(); s != "css selector=div.content" {
		t.Errorf("unexpected string %q", s)
	}

	_, err = ParseLocator("nope", "x")
	wantKind(t, err, ErrInvalidSelector)
}
