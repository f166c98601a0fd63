package locate

import (
	"context"
	"testing"
)

func testFrameTree(t *testing.T) (*FrameTree, *Finder) {
	t.Helper()
	tree := NewFrameTree(testParse(t, "missedJsReference.html"), WithFrameLogf(t.Logf))
	tree.AttachFrame(nil, "inner", testParse(t, "missedJsReferenceInner.html"))
	return tree, NewFinder(tree, WithErrorf(t.Logf))
}

func TestElementFoundInADifferentFrameIsStale(t *testing.T) {
	t.Parallel()

	tree, f := testFrameTree(t)
	if err := tree.SwitchToFrame("inner"); err != nil {
		t.Fatalf("got error: %v", err)
	}
	h := mustFindOne(t, f, ByID("oneline"))
	if s := text(t, f, h); s != "Inner line of text" {
		t.Fatalf("expected the inner frame's element, got %q", s)
	}

	tree.SwitchToDefaultContent()
	_, err := f.Text(h)
	wantKind(t, err, ErrStaleElementReference)

	// switching back does not revive the handle
	if err := tree.SwitchToFrame("inner"); err != nil {
		t.Fatalf("got error: %v", err)
	}
	_, err = f.Resolve(h)
	wantKind(t, err, ErrStaleElementReference)

	// but a fresh lookup works
	again := mustFindOne(t, f, ByID("oneline"))
	if again == h {
		t.Error("expected a new handle")
	}
	if s := text(t, f, again); s != "Inner line of text" {
		t.Errorf("unexpected text %q", s)
	}
}

func TestSwitchToFrameByOwnerID(t *testing.T) {
	t.Parallel()

	tree, f := testFrameTree(t)
	if err := tree.SwitchToFrame("innerFrame"); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if tree.Current().Name() != "inner" {
		t.Errorf("expected inner frame, got %q", tree.Current().Name())
	}
	h := mustFindOne(t, f, ByTagName("p"))
	if s := text(t, f, h); s != "Inner line of text" {
		t.Errorf("unexpected text %q", s)
	}
}

func TestSwitchToFrameOnlyAdvancesTheFrameLeft(t *testing.T) {
	t.Parallel()

	tree, _ := testFrameTree(t)
	top := tree.Top().Document()
	inner := tree.Top().children[0].Document()
	topGen, innerGen := top.Generation(), inner.Generation()

	if err := tree.SwitchToFrameIndex(0); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if g := top.Generation(); g != topGen+1 {
		t.Errorf("expected top generation %d, got %d", topGen+1, g)
	}
	if g := inner.Generation(); g != innerGen {
		t.Errorf("expected inner generation %d, got %d", innerGen, g)
	}

	tree.SwitchToParentFrame()
	if g := inner.Generation(); g != innerGen+1 {
		t.Errorf("expected inner generation %d, got %d", innerGen+1, g)
	}
	if tree.Current() != tree.Top() {
		t.Error("expected the top-level frame to be current")
	}

	// no switch, no new generation
	topGen = top.Generation()
	tree.SwitchToDefaultContent()
	tree.SwitchToParentFrame()
	if g := top.Generation(); g != topGen {
		t.Errorf("expected top generation %d, got %d", topGen, g)
	}
}

func TestSwitchToMissingFrame(t *testing.T) {
	t.Parallel()

	tree, _ := testFrameTree(t)
	wantKind(t, tree.SwitchToFrame("nope"), ErrNoSuchFrame)
	wantKind(t, tree.SwitchToFrameIndex(1), ErrNoSuchFrame)
	wantKind(t, tree.SwitchToFrameIndex(-1), ErrNoSuchFrame)
	if tree.Current() != tree.Top() {
		t.Error("expected the top-level frame to stay current")
	}
}

func TestNavigateInvalidatesHandles(t *testing.T) {
	t.Parallel()

	tree, f := testFrameTree(t)
	top := mustFindOne(t, f, ByID("oneline"))
	if err := tree.SwitchToFrame("inner"); err != nil {
		t.Fatalf("got error: %v", err)
	}
	inner := mustFindOne(t, f, ByID("oneline"))

	doc := tree.Navigate(testParse(t, "formPage.html"))
	if tree.Current() != tree.Top() {
		t.Error("expected navigation to make the top-level frame current")
	}
	for _, h := range []ElementHandle{top, inner} {
		_, err := f.Resolve(h)
		wantKind(t, err, ErrStaleElementReference)
	}
	if err := tree.SwitchToFrame("inner"); err == nil {
		t.Error("expected child frames to be discarded")
	}

	h := mustFindOne(t, f, ByID("checky"))
	if h.DocumentID() != doc.ID() {
		t.Errorf("expected handle of document %s, got %s", doc.ID(), h.DocumentID())
	}
	_, err := f.FindOne(context.Background(), ByID("oneline"))
	wantKind(t, err, ErrNoSuchElement)
}

func TestFrameLabel(t *testing.T) {
	t.Parallel()

	tree, _ := testFrameTree(t)
	inner := tree.Top().children[0]
	nested := tree.AttachFrame(inner, "deep", nil)
	if s := frameLabel(nested); s != `top/"inner"/"deep"` {
		t.Errorf("unexpected label %s", s)
	}
	if nested.Parent() != inner {
		t.Error("expected nested frame parent to be inner")
	}
}
