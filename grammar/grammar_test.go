package grammar

import (
	"testing"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const (
	symSum leoearley.Symbol = iota
	symPlus
	symNumber
)

func TestAddRuleAndAccessors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.grammar")
	defer teardown()

	g := New("arith", symSum)
	r0, err := g.AddRule(symSum, []leoearley.Symbol{symSum, symPlus, symNumber})
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	r1, err := g.AddRule(symSum, []leoearley.Symbol{symNumber})
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	if g.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", g.Size())
	}
	if g.LHS(r0) != symSum {
		t.Fatalf("LHS(r0) = %v, want symSum", g.LHS(r0))
	}
	rhs := g.RHS(r0)
	want := []leoearley.Symbol{symSum, symPlus, symNumber}
	if len(rhs) != len(want) {
		t.Fatalf("RHS(r0) = %v, want %v", rhs, want)
	}
	for i := range want {
		if rhs[i] != want[i] {
			t.Fatalf("RHS(r0)[%d] = %v, want %v", i, rhs[i], want[i])
		}
	}
	if g.RHSLen(r1) != 1 {
		t.Fatalf("RHSLen(r1) = %d, want 1", g.RHSLen(r1))
	}
}

func TestRuleContainingAndPostdotPredot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.grammar")
	defer teardown()

	g := New("arith", symSum)
	r0, _ := g.AddRule(symSum, []leoearley.Symbol{symSum, symPlus, symNumber})
	start := g.RHSStart(r0)
	lhsPos := g.LHSPosition(r0)

	for pos := start; pos < lhsPos; pos++ {
		if g.RuleContaining(pos) != r0 {
			t.Fatalf("RuleContaining(%d) = %v, want r0", pos, g.RuleContaining(pos))
		}
	}
	if g.RuleContaining(lhsPos) != r0 {
		t.Fatalf("RuleContaining(lhsPos) = %v, want r0 (the LHS slot belongs to its own rule)", g.RuleContaining(lhsPos))
	}

	if sym, ok := g.Postdot(start); !ok || sym != symSum {
		t.Fatalf("Postdot(start) = (%v, %v), want (symSum, true)", sym, ok)
	}
	if _, ok := g.Postdot(lhsPos); ok {
		t.Fatalf("Postdot(lhsPos) should report false (completion position)")
	}
	if _, ok := g.Predot(start); ok {
		t.Fatalf("Predot(start) should report false (dot at RHS start)")
	}
	if sym, ok := g.Predot(start + 1); !ok || sym != symSum {
		t.Fatalf("Predot(start+1) = (%v, %v), want (symSum, true)", sym, ok)
	}
	if lhs, ok := g.Recognized(lhsPos); !ok || lhs != symSum {
		t.Fatalf("Recognized(lhsPos) = (%v, %v), want (symSum, true)", lhs, ok)
	}
	if _, ok := g.Recognized(start); ok {
		t.Fatalf("Recognized(start) should report false (not a completion slot)")
	}
}

func TestInvalidSymbolRejected(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.grammar")
	defer teardown()

	g := New("bad", symSum)
	if _, err := g.AddRule(-1, []leoearley.Symbol{symNumber}); err == nil {
		t.Fatalf("AddRule with negative LHS should fail")
	}
	if _, err := g.AddRule(symSum, []leoearley.Symbol{leoearley.MaxSymbol + 1}); err == nil {
		t.Fatalf("AddRule with over-budget RHS symbol should fail")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.grammar")
	defer teardown()

	g := New("arith", symSum)
	g.AddRule(symSum, []leoearley.Symbol{symSum, symPlus, symNumber})
	g.AddRule(symSum, []leoearley.Symbol{symNumber})
	g.SetSymbolName(symSum, "sum")

	name, start, ruleStore, ruleStart, names := g.Export()
	g2 := Import(name, start, ruleStore, ruleStart, names)

	if g2.Size() != g.Size() {
		t.Fatalf("round-tripped Size() = %d, want %d", g2.Size(), g.Size())
	}
	if g2.StartSymbol() != g.StartSymbol() {
		t.Fatalf("round-tripped StartSymbol() = %v, want %v", g2.StartSymbol(), g.StartSymbol())
	}
	if g2.SymbolName(symSum) != "sum" {
		t.Fatalf("round-tripped SymbolName(symSum) = %q, want %q", g2.SymbolName(symSum), "sum")
	}
	if g2.LHS(0) != g.LHS(0) || g2.LHS(1) != g.LHS(1) {
		t.Fatalf("round-tripped rules do not match originals")
	}
}
