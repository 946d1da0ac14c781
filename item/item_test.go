package item

import (
	"sort"
	"testing"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/leoearley/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const (
	symSum leoearley.Symbol = iota
	symPlus
	symNumber
)

func buildGrammar(t *testing.T) (*grammar.Grammar, grammar.RuleID, grammar.RuleID) {
	t.Helper()
	g := grammar.New("arith", symSum)
	r0, err := g.AddRule(symSum, []leoearley.Symbol{symSum, symPlus, symNumber})
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	r1, err := g.AddRule(symSum, []leoearley.Symbol{symNumber})
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	return g, r0, r1
}

func TestPredictingAndAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.item")
	defer teardown()

	g, r0, _ := buildGrammar(t)
	it := Predicting(g, r0, 3)
	if it.Kind() != Earley {
		t.Fatalf("Kind() = %v, want Earley", it.Kind())
	}
	if it.IsCompletion() {
		t.Fatalf("a fresh prediction should not be a completion")
	}
	if it.Origin() != 3 {
		t.Fatalf("Origin() = %d, want 3", it.Origin())
	}
	if sym, ok := it.TransitionSymbol(); !ok || sym != symSum {
		t.Fatalf("TransitionSymbol() = (%v, %v), want (symSum, true)", sym, ok)
	}

	it = it.Advance(g) // dot after symSum, before symPlus
	if sym, ok := it.TransitionSymbol(); !ok || sym != symPlus {
		t.Fatalf("after first advance, TransitionSymbol() = (%v, %v), want (symPlus, true)", sym, ok)
	}
	it = it.Advance(g) // dot after symPlus, before symNumber
	if sym, ok := it.TransitionSymbol(); !ok || sym != symNumber {
		t.Fatalf("after second advance, TransitionSymbol() = (%v, %v), want (symNumber, true)", sym, ok)
	}
	it = it.Advance(g) // dot past the end: completion
	if !it.IsCompletion() {
		t.Fatalf("after third advance the item should be a completion")
	}
	if lhs, ok := it.LHS(); !ok || lhs != symSum {
		t.Fatalf("LHS() = (%v, %v), want (symSum, true)", lhs, ok)
	}
	if it.Origin() != 3 {
		t.Fatalf("completion should preserve Origin() = 3, got %d", it.Origin())
	}
}

func TestAdvancePanicsOnCompletion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.item")
	defer teardown()

	defer func() {
		if recover() == nil {
			t.Fatalf("Advance on a completed item should panic")
		}
	}()
	g, _, r1 := buildGrammar(t)
	it := Predicting(g, r1, 0)
	it = it.Advance(g) // completes (single-symbol RHS)
	it.Advance(g)
}

func TestAdvancePanicsOnLeoItem(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.item")
	defer teardown()

	defer func() {
		if recover() == nil {
			t.Fatalf("Advance on a Leo item should panic")
		}
	}()
	g, _, _ := buildGrammar(t)
	leo := Memoizing(7, symSum)
	leo.Advance(g)
}

func TestLeoItemAccessorsAndPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.item")
	defer teardown()

	leo := Memoizing(42, symSum)
	if leo.Kind() != Leo {
		t.Fatalf("Kind() = %v, want Leo", leo.Kind())
	}
	if leo.IsCompletion() {
		t.Fatalf("a Leo item is never a completion")
	}
	if sym, ok := leo.TransitionSymbol(); !ok || sym != symSum {
		t.Fatalf("TransitionSymbol() = (%v, %v), want (symSum, true)", sym, ok)
	}
	if leo.MemoizedPenultIndex() != 42 {
		t.Fatalf("MemoizedPenultIndex() = %d, want 42", leo.MemoizedPenultIndex())
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("Origin() on a Leo item should panic")
			}
		}()
		leo.Origin()
	}()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("DotPosition() on a Leo item should panic")
			}
		}()
		leo.DotPosition()
	}()
}

func TestEarleyItemMemoizedPenultIndexPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.item")
	defer teardown()

	defer func() {
		if recover() == nil {
			t.Fatalf("MemoizedPenultIndex() on an Earley item should panic")
		}
	}()
	g, r0, _ := buildGrammar(t)
	it := Predicting(g, r0, 0)
	it.MemoizedPenultIndex()
}

func TestSortKeyOrdering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.item")
	defer teardown()

	g, r0, r1 := buildGrammar(t)
	leo := Memoizing(0, symSum)
	predSum := Predicting(g, r0, 0)   // transitions on symSum, non-completion
	predNum := Predicting(g, r1, 0)   // transitions on symNumber, non-completion
	completion := predNum.Advance(g)  // completes symSum (single-symbol RHS)

	items := []Item{completion, predNum, predSum, leo}
	sort.Slice(items, func(i, j int) bool { return items[i].SortKey() < items[j].SortKey() })

	// Leo items on a given transition symbol sort before Earley items on
	// the same symbol; all non-completions sort before all completions.
	if items[0].Kind() != Leo {
		t.Fatalf("items[0].Kind() = %v, want Leo (Leo items sort first on a shared transition symbol)", items[0].Kind())
	}
	if items[len(items)-1].Kind() != Earley || !items[len(items)-1].IsCompletion() {
		t.Fatalf("the completion should sort last")
	}
	for i := 0; i < len(items)-1; i++ {
		if items[i].IsCompletion() {
			t.Fatalf("a non-completion item sorted after a completion at index %d", i)
		}
	}
}

func TestPredictingPanicsOnEmptyRHS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.item")
	defer teardown()

	defer func() {
		if recover() == nil {
			t.Fatalf("Predicting on a rule with empty RHS should panic (violates NNF invariant)")
		}
	}()
	g := grammar.New("degenerate", symSum)
	r, _ := g.AddRule(symSum, nil)
	Predicting(g, r, 0)
}
