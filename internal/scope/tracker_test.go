package scope

import (
	"testing"

	"github.com/funvibe/qcapcore/internal/ast"
	"github.com/funvibe/qcapcore/internal/types"
)

func TestPushScopeMakesNamesKnown(t *testing.T) {
	tr := NewTracker(nil)
	tr.PushScope([]ast.SymbolName{{Name: "x", Type: types.Base{Kind: types.Int}}})

	known := tr.KnownVariables()
	if _, ok := known["x"]; !ok {
		t.Fatal("expected x to be known after PushScope")
	}
}

func TestPopScopeRemovesNames(t *testing.T) {
	tr := NewTracker(nil)
	tr.PushScope([]ast.SymbolName{{Name: "x", Type: types.Base{Kind: types.Int}}})
	tr.PopScope()

	if _, ok := tr.KnownVariables()["x"]; ok {
		t.Fatal("x should not be known after PopScope")
	}
}

func TestExtendAddsToInnermostFrame(t *testing.T) {
	tr := NewTracker(nil)
	tr.PushScope([]ast.SymbolName{{Name: "outer", Type: types.Base{Kind: types.Int}}})
	tr.PushScope(nil)
	tr.Extend([]ast.SymbolName{{Name: "inner", Type: types.Base{Kind: types.Bool}}})

	known := tr.KnownVariables()
	if _, ok := known["outer"]; !ok {
		t.Error("outer frame binding should still be visible")
	}
	if _, ok := known["inner"]; !ok {
		t.Error("extended binding should be visible")
	}

	tr.PopScope()
	if _, ok := tr.KnownVariables()["inner"]; ok {
		t.Error("inner binding should disappear once its frame pops")
	}
	if _, ok := tr.KnownVariables()["outer"]; !ok {
		t.Error("outer binding should survive popping the inner frame")
	}
}

func TestExtendPushesFrameWhenEmpty(t *testing.T) {
	tr := NewTracker(nil)
	tr.Extend([]ast.SymbolName{{Name: "x", Type: types.Base{Kind: types.Int}}})
	if _, ok := tr.KnownVariables()["x"]; !ok {
		t.Fatal("Extend with no pushed frame should still record the binding")
	}
}

func TestFreshCallableNameStartsAtZero(t *testing.T) {
	tr := NewTracker(nil)
	got := tr.FreshCallableName("NS.Foo", "Lambda")
	want := "__Foo_Lambda_0__"
	if got != want {
		t.Errorf("FreshCallableName = %q, want %q", got, want)
	}
}

func TestFreshCallableNameIncrementsPerEnclosing(t *testing.T) {
	tr := NewTracker(nil)
	first := tr.FreshCallableName("NS.Foo", "Lambda")
	second := tr.FreshCallableName("NS.Foo", "Lambda")
	if first != "__Foo_Lambda_0__" || second != "__Foo_Lambda_1__" {
		t.Errorf("got %q, %q; want __Foo_Lambda_0__, __Foo_Lambda_1__", first, second)
	}

	// A different enclosing callable starts its own counter at 0.
	other := tr.FreshCallableName("NS.Bar", "Lambda")
	if other != "__Bar_Lambda_0__" {
		t.Errorf("FreshCallableName for a different enclosing callable = %q, want __Bar_Lambda_0__", other)
	}
}

func TestFreshCallableNameAvoidsCollision(t *testing.T) {
	namespaceNames := map[string]bool{"__Foo_Lambda_0__": true}
	tr := NewTracker(namespaceNames)

	got := tr.FreshCallableName("NS.Foo", "Lambda")
	if got == "__Foo_Lambda_0__" {
		t.Fatalf("FreshCallableName returned a name already taken: %q", got)
	}

	// The minted name must never be handed out again.
	second := tr.FreshCallableName("NS.Foo", "Lambda")
	if second == got {
		t.Fatalf("FreshCallableName returned the same name twice: %q", got)
	}
}

func TestFreshCallableNameNeverRepeats(t *testing.T) {
	tr := NewTracker(nil)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := tr.FreshCallableName("NS.Foo", "Lambda")
		if seen[name] {
			t.Fatalf("FreshCallableName produced a repeat: %q", name)
		}
		seen[name] = true
	}
}
