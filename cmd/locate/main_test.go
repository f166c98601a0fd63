package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/locate"
)

// setFlags sets the command line flags for one test and restores them after.
func setFlags(t *testing.T, by, value, file string, all bool) {
	t.Helper()
	prevBy, prevValue, prevFile, prevAll, prevWait := *flagBy, *flagValue, *flagFile, *flagAll, *flagWait
	*flagBy, *flagValue, *flagFile, *flagAll, *flagWait = by, value, file, all, 0
	t.Cleanup(func() {
		*flagBy, *flagValue, *flagFile, *flagAll, *flagWait = prevBy, prevValue, prevFile, prevAll, prevWait
	})
}

func TestRun(t *testing.T) {
	tests := []struct {
		by, value, file string
		all             bool
		exp             []string
	}{
		{"id", "checky", "../../testdata/formPage.html", false, []string{`id="checky"`}},
		{"css", "#checky", "../../cdpdom/testdata/snapshot.json", false, []string{`value="furrfu"`}},
		{"tag", "option", "../../cdpdom/testdata/snapshot.json", true, []string{`>One</option>`, `>Two</option>`}},
		{"link", "click me", "../../testdata/xhtmlTest.html", true, []string{`id="linkId"`, `id="anotherClickMe"`}},
	}
	for i, test := range tests {
		setFlags(t, test.by, test.value, test.file, test.all)
		var buf bytes.Buffer
		if err := run(context.Background(), &buf); err != nil {
			t.Fatalf("test %d got error: %v", i, err)
		}
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != len(test.exp) {
			t.Fatalf("test %d expected %d lines, got %d:\n%s", i, len(test.exp), len(lines), buf.String())
		}
		for j, line := range lines {
			id, outer, ok := strings.Cut(line, "\t")
			if !ok || id == "" {
				t.Errorf("test %d line %d has no handle id: %q", i, j, line)
			}
			if !strings.Contains(outer, test.exp[j]) {
				t.Errorf("test %d line %d expected to contain %q, got %q", i, j, test.exp[j], outer)
			}
		}
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		by, value string
		exp       int
	}{
		{"id", "notThere", 2},
		{"xpath", "count(//input)", 3},
		{"class", "a b", 3},
		{"jquery", "$", 3},
	}
	for i, test := range tests {
		setFlags(t, test.by, test.value, "../../testdata/formPage.html", false)
		err := run(context.Background(), new(bytes.Buffer))
		if err == nil {
			t.Fatalf("test %d expected an error", i)
		}
		if code := exitCode(err); code != test.exp {
			t.Errorf("test %d expected exit code %d, got %d (%v)", i, test.exp, code, err)
		}
	}
}

func TestRunWait(t *testing.T) {
	setFlags(t, "id", "notThere", "../../testdata/formPage.html", false)
	*flagWait = 30 * time.Millisecond

	err := run(context.Background(), new(bytes.Buffer))
	if err == nil || exitCode(err) != 1 {
		t.Errorf("expected a timeout, got: %v", err)
	}
	if exitCode(locate.ErrStaleElementReference) != 4 {
		t.Error("expected stale elements to exit with 4")
	}
}
