package grammar

import (
	"testing"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestRulesByLHSOrderAndMembership(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.grammar")
	defer teardown()

	const (
		S leoearley.Symbol = iota
		A
		a
		b
	)
	g := New("rules-by-lhs", S)
	r0, _ := g.AddRule(S, []leoearley.Symbol{A, a})
	r1, _ := g.AddRule(S, []leoearley.Symbol{b})
	r2, _ := g.AddRule(A, []leoearley.Symbol{a})

	idx := NewRulesByLHS(g)

	if !idx.Has(S) || !idx.Has(A) {
		t.Fatalf("Has() = false for a symbol that is an LHS")
	}
	if idx.Has(a) {
		t.Fatalf("Has(a) = true, but a is never an LHS")
	}

	sRules := idx.Rules(S)
	if len(sRules) != 2 || sRules[0] != r0 || sRules[1] != r1 {
		t.Fatalf("Rules(S) = %v, want [%d %d] in insertion order", sRules, r0, r1)
	}

	aRules := idx.Rules(A)
	if len(aRules) != 1 || aRules[0] != r2 {
		t.Fatalf("Rules(A) = %v, want [%d]", aRules, r2)
	}

	if got := idx.Rules(a); got != nil {
		t.Fatalf("Rules(a) = %v, want nil for a symbol with no rules", got)
	}
}
