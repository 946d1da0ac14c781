package forest_test

import (
	"testing"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/leoearley/grammar"
	"github.com/npillmayer/leoearley/recognizer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const (
	symS leoearley.Symbol = iota
	symA
	symTermA
	symTermB
)

func feed(r *recognizer.Recognizer, tokens []leoearley.Symbol) error {
	for i, tok := range tokens {
		r.Discover(tok, leoearley.Earleme(i))
		if err := r.FinishEarleme(); err != nil {
			return err
		}
	}
	return nil
}

func TestDerivationsSimpleConcatenation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.forest")
	defer teardown()

	g := grammar.New("concat", symS)
	g.AddRule(symS, []leoearley.Symbol{symTermA, symTermB})

	pg, err := grammar.Preprocess(g)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	r := recognizer.New(pg)
	if err := feed(r, []leoearley.Symbol{symTermA, symTermB}); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if !r.HasCompleteParse() {
		t.Fatalf("HasCompleteParse() = false, want true")
	}

	ds := r.Forest().Derivations(symS, leoearley.Span{0, 2})
	node, ok := ds.First()
	if !ok {
		t.Fatalf("no derivation of S over [0,2)")
	}
	if node.Epsilon {
		t.Fatalf("S's derivation should not be an epsilon node")
	}
	if len(node.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(node.Children))
	}
	if node.Children[0].Symbol != symTermA || node.Children[0].Span != (leoearley.Span{0, 1}) {
		t.Fatalf("first child = %+v, want symTermA over [0,1)", node.Children[0])
	}
	if node.Children[1].Symbol != symTermB || node.Children[1].Span != (leoearley.Span{1, 2}) {
		t.Fatalf("second child = %+v, want symTermB over [1,2)", node.Children[1])
	}
	if len(node.Children[0].Children) != 0 || len(node.Children[1].Children) != 0 {
		t.Fatalf("terminal leaves should have no children")
	}
}

func TestDerivationsSynthesizeEpsilonSubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.forest")
	defer teardown()

	g := grammar.New("epsilon-child", symS)
	g.AddRule(symS, []leoearley.Symbol{symA, symTermA}) // S -> A a
	g.AddRule(symA, nil)                                // A -> ε

	pg, err := grammar.Preprocess(g)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	r := recognizer.New(pg)
	if err := feed(r, []leoearley.Symbol{symTermA}); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if !r.HasCompleteParse() {
		t.Fatalf("HasCompleteParse() = false, want true")
	}

	ds := r.Forest().Derivations(symS, leoearley.Span{0, 1})
	node, ok := ds.First()
	if !ok {
		t.Fatalf("no derivation of S over [0,1)")
	}
	if len(node.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(node.Children))
	}
	nullA := node.Children[0]
	if !nullA.Epsilon {
		t.Fatalf("first child should be synthesized as an epsilon node, got %+v", nullA)
	}
	if nullA.Span != (leoearley.Span{0, 0}) {
		t.Fatalf("epsilon child span = %v, want [0,0)", nullA.Span)
	}
	if !pg.IsNullingIncarnation(nullA.Symbol) {
		t.Fatalf("epsilon child symbol %v is not reported as a nulling incarnation", nullA.Symbol)
	}
	term := node.Children[1]
	if term.Symbol != symTermA || term.Span != (leoearley.Span{0, 1}) {
		t.Fatalf("second child = %+v, want symTermA over [0,1)", term)
	}
}

func TestDerivationSetLenAndRemoveFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "leoearley.forest")
	defer teardown()

	g := grammar.New("ambiguous-leaf", symS)
	g.AddRule(symS, []leoearley.Symbol{symA})
	g.AddRule(symA, []leoearley.Symbol{symTermA})

	pg, err := grammar.Preprocess(g)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	r := recognizer.New(pg)
	if err := feed(r, []leoearley.Symbol{symTermA}); err != nil {
		t.Fatalf("feed: %v", err)
	}

	ds := r.Forest().Derivations(symS, leoearley.Span{0, 1})
	if ds.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ds.Len())
	}
	if _, ok := ds.First(); !ok {
		t.Fatalf("First() should still succeed before RemoveFirst")
	}
	if ds.Len() != 1 {
		t.Fatalf("First() must not consume, Len() = %d, want 1", ds.Len())
	}
	ds.RemoveFirst()
	if ds.Len() != 0 {
		t.Fatalf("Len() after RemoveFirst = %d, want 0", ds.Len())
	}
	if _, ok := ds.First(); ok {
		t.Fatalf("First() after draining the only derivation should report false")
	}
}
