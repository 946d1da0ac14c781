/*
Package forest implements component G: a lazy reader over a finished
recognition, built directly on the chart rather than on a separately
materialized shared packed parse forest arena. A Node is produced only
when a caller asks for it, by walking completions and their mainstem
chains backward (§4.E "mainstems", §4.G), the same "derive a view from
the index on demand" approach the teacher takes in lr/earley/parsetree.go
for building a concrete parse tree from a finished chart.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package forest

import (
	"fmt"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/leoearley/chart"
	"github.com/npillmayer/leoearley/grammar"
)

// Node is one node of a derivation tree: the recognition of Symbol over
// Span, realized either by cooked rule Rule with the listed Children, or
// (when Epsilon is true) by the NNF nulling mechanism rather than by any
// stored chart item.
type Node struct {
	Symbol   leoearley.Symbol
	Span     leoearley.Span
	Rule     grammar.RuleID
	Epsilon  bool
	Children []Node
}

func (n Node) String() string {
	if n.Epsilon {
		return fmt.Sprintf("%s%s=ε", n.Symbol, n.Span)
	}
	return fmt.Sprintf("%s%s[rule %d]", n.Symbol, n.Span, n.Rule)
}

// Forest reads derivations out of a chart built against a preprocessed
// grammar. Create one from a finished (or even in-progress) recognizer
// via Recognizer.Forest, or directly with New.
type Forest struct {
	pg *grammar.Preprocessed
	ch *chart.Chart
}

// New builds a Forest over a chart produced by recognizing against pg.
func New(pg *grammar.Preprocessed, ch *chart.Chart) *Forest {
	return &Forest{pg: pg, ch: ch}
}

// DerivationSet lazily enumerates the alternative derivations of a
// symbol over a span, in the order their completion entries are stored
// in the chart (ascending item key, then Aux). Ambiguous grammars
// surface more than one derivation; unambiguous ones surface exactly
// one.
type DerivationSet struct {
	forest      *Forest
	symbol      leoearley.Symbol
	span        leoearley.Span
	completions []chart.Entry
	pos         int
}

// Derivations returns the lazy set of derivations of symbol over span.
func (f *Forest) Derivations(symbol leoearley.Symbol, span leoearley.Span) *DerivationSet {
	return &DerivationSet{
		forest:      f,
		symbol:      symbol,
		span:        span,
		completions: f.ch.Completions(symbol, span.From(), span.To()),
	}
}

// First returns the next not-yet-consumed derivation, without consuming
// it. Returns false once the set is exhausted.
func (ds *DerivationSet) First() (Node, bool) {
	if ds.pos >= len(ds.completions) {
		return Node{}, false
	}
	return ds.forest.buildNode(ds.completions[ds.pos], ds.span), true
}

// RemoveFirst advances past the derivation First would currently return,
// exposing the next alternative (if any) on the following call to First.
func (ds *DerivationSet) RemoveFirst() {
	if ds.pos < len(ds.completions) {
		ds.pos++
	}
}

// Len returns the number of alternative derivations remaining.
func (ds *DerivationSet) Len() int { return len(ds.completions) - ds.pos }

// Derivations is a convenience that drains a DerivationSet into a slice.
// Exists mainly for tests and diagnostics; production callers that only
// need one parse should prefer First to avoid building alternatives they
// will discard.
func (ds *DerivationSet) Derivations() []Node {
	var out []Node
	for n, ok := ds.First(); ok; n, ok = ds.First() {
		out = append(out, n)
		ds.RemoveFirst()
	}
	return out
}

// buildNode reconstructs the tree rooted at a completion entry by
// walking its rule's RHS positions back to front via the mainstem chain
// recorded at derivation time (§4.E "mainstems"), recursing into
// nonterminal children and synthesizing epsilon leaves for
// nulling-incarnation positions in place (§4.C).
func (f *Forest) buildNode(e chart.Entry, span leoearley.Span) Node {
	lhs, _ := e.Item.LHS()
	rule := e.Item.Rule(f.pg.Grammar)
	rhs := f.pg.Grammar.RHS(rule)

	children := make([]Node, len(rhs))
	cur := e
	curEnd := span.To()
	for i := len(rhs) - 1; i >= 0; i-- {
		sym := rhs[i]
		if f.pg.IsNullingIncarnation(sym) {
			children[i] = f.epsilonLeaf(sym, curEnd)
			cur = f.ch.At(int(cur.Aux))
			continue
		}
		predIndex := int(cur.Aux)
		predEarleme := f.ch.EarlemeOf(predIndex)
		childSpan := leoearley.Span{predEarleme, curEnd}
		if child, ok := f.buildChild(sym, childSpan); ok {
			children[i] = child
		} else {
			children[i] = Node{Symbol: sym, Span: childSpan}
		}
		cur = f.ch.At(predIndex)
		curEnd = predEarleme
	}

	return Node{Symbol: lhs, Span: span, Rule: rule, Children: children}
}

// buildChild resolves a single RHS symbol's subtree: a terminal is
// reported as a leaf (no rule to recurse into), a nonterminal recurses
// through its own completion.
func (f *Forest) buildChild(sym leoearley.Symbol, span leoearley.Span) (Node, bool) {
	if !f.pg.ByLHS.Has(sym) {
		return Node{Symbol: sym, Span: span}, true // terminal leaf
	}
	ds := f.Derivations(sym, span)
	return ds.First()
}

// epsilonLeaf synthesizes the zero-width subtree for a nulling-
// incarnation symbol directly from the grammar, without consulting the
// chart: the recognizer crosses a nulling position with a zero-width
// advance that records no link to any completion of the symbol, so no
// chart entry leads to its subtree (§4.C "the nulling incarnation ...
// stands for derives ε").
func (f *Forest) epsilonLeaf(sym leoearley.Symbol, at leoearley.Earleme) Node {
	span := leoearley.Span{at, at}
	rule, ok := f.pg.EpsilonDerivation(sym)
	if !ok {
		return Node{Symbol: sym, Span: span, Epsilon: true}
	}
	rhs := f.pg.Grammar.RHS(rule)
	children := make([]Node, len(rhs))
	for i, child := range rhs {
		children[i] = f.epsilonLeaf(child, at)
	}
	return Node{Symbol: sym, Span: span, Rule: rule, Epsilon: true, Children: children}
}
