/*
Package recognizer implements the control loop of component F: the
Earley/Leo recognition algorithm driven one discovered symbol at a time,
in the same "driver feeds tokens, recognizer answers in earleme-sized
steps" shape as the teacher's lr/earley.Parser, but built directly on
the packed chart (package chart) instead of boxed iteratable.Set values,
and extended with Joop Leo's right-recursion optimization (§4.F
"createLeoItems") and nihilist-normal-form nulling transitions (§4.C).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package recognizer

import (
	"github.com/google/uuid"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/leoearley/chart"
	"github.com/npillmayer/leoearley/forest"
	"github.com/npillmayer/leoearley/grammar"
	"github.com/npillmayer/leoearley/item"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return leoearley.Tracer("recognizer")
}

// StuckPanicsConfigKey is the schuko/gconf flag consulted by
// FinishEarleme: when set truthy, a call to FinishEarleme that cannot make
// any progress panics instead of returning an error, for use in test
// harnesses and fuzzers that want to fail fast on a malformed grammar
// rather than surface it as ordinary recognizer-user error.
const StuckPanicsConfigKey = "leoearley.recognizer.panicOnStuck"

// Recognizer runs the Earley/Leo/NNF algorithm over a preprocessed
// grammar, one discovered symbol at a time. The zero value is not
// usable; create one with New.
type Recognizer struct {
	pg    *grammar.Preprocessed
	chart *chart.Chart
	id    uuid.UUID // correlates this instance's trace lines across earlemes
}

// New creates a Recognizer for a preprocessed grammar and runs
// Initialize (§4.F.1).
func New(pg *grammar.Preprocessed) *Recognizer {
	r := &Recognizer{pg: pg, chart: chart.New(), id: uuid.New()}
	r.initialize()
	return r
}

// InstanceID returns the correlation id attached to this recognizer's
// trace output.
func (r *Recognizer) InstanceID() uuid.UUID { return r.id }

// Reset reuses this recognizer for a fresh recognition, against pg (which
// may be the same preprocessed grammar or a different one), amortizing
// the chart's backing storage across recognitions instead of allocating
// a new chart per input (§5 "removeAll"). Equivalent to New(pg) but
// without the allocation.
func (r *Recognizer) Reset(pg *grammar.Preprocessed) {
	r.pg = pg
	r.chart.Reset()
	r.id = uuid.New()
	r.initialize()
}

// CurrentEarleme returns the earleme currently open for discovery.
func (r *Recognizer) CurrentEarleme() leoearley.Earleme {
	return r.chart.CurrentEarleme()
}

// Chart exposes the underlying chart, mainly for diagnostics (package
// diag) and for building a forest over the finished recognition.
func (r *Recognizer) Chart() *chart.Chart { return r.chart }

// Grammar returns the preprocessed grammar this recognizer was built
// from.
func (r *Recognizer) Grammar() *grammar.Preprocessed { return r.pg }

// Forest returns a lazy derivation reader over the recognition performed
// so far (§4.G). Safe to call at any earleme, not only once recognition
// is complete.
func (r *Recognizer) Forest() *forest.Forest {
	return forest.New(r.pg, r.chart)
}

// HasParseAt reports whether the accept symbol has a completion spanning
// exactly [0, at).
func (r *Recognizer) HasParseAt(at leoearley.Earleme) bool {
	return len(r.chart.Completions(r.pg.Grammar.StartSymbol(), 0, at)) > 0
}

func (r *Recognizer) initialize() {
	tracer().Debugf("[%s] initialize at accept symbol %s", r.id, r.pg.Grammar.SymbolName(r.pg.Grammar.StartSymbol()))
	r.predict(r.pg.Grammar.StartSymbol())
	r.finishEarlemeOrPanic()
}

// Discover reports that symbol s has been recognized spanning from
// origin to the current (open) earleme (§4.F.2, §6 "discover"). The
// driver calls this once per matched terminal; the recognizer calls it
// recursively for every nonterminal completion, since the operation's
// contract does not distinguish the two.
//
// Every mainstem transitioning on s is advanced, Leo and ordinary Earley
// items alike: a Leo mainstem is advanced via its memoized penult,
// collapsing the chain in O(1) (§4.F "createLeoItems"), but the ordinary
// mainstems alongside it are advanced too rather than skipped, so every
// intermediate completion of a right-recursive chain still lands in the
// chart. The forest (§4.G) recurses into a completion's recursive child
// by looking up a chart completion at that child's span; without the
// ordinary mainstems, that span's completion would never exist and the
// child would have no subtree to build.
func (r *Recognizer) Discover(s leoearley.Symbol, origin leoearley.Earleme) {
	mainstems := r.chart.TransitionItems(r.pg.Grammar, s, origin)
	for _, m := range mainstems {
		if m.Entry.Item.Kind() == item.Leo {
			r.adoptLeoItem(m.Entry)
			continue
		}
		advanced := m.Entry.Item.Advance(r.pg.Grammar)
		r.derive(chart.Entry{Item: advanced, Aux: uint32(m.Index)})
	}
}

// adoptLeoItem advances a Leo item's memoized penult straight to its
// completion, the shortcut that lets a future Discover answer "has s
// been derived from its original origin" without re-walking the
// right-recursive chain one link at a time. The resulting completion
// carries the same Aux (the penult's own chart index) an ordinary
// advance of that penult would, so when both an ordinary mainstem and a
// Leo mainstem lead to the same completion, chart.Insert sees an exact
// duplicate and the second derivation is a no-op.
func (r *Recognizer) adoptLeoItem(leo chart.Entry) {
	penultIdx := leo.Item.MemoizedPenultIndex()
	penult := r.chart.At(int(penultIdx))
	advanced := penult.Item.Advance(r.pg.Grammar)
	r.derive(chart.Entry{Item: advanced, Aux: penultIdx})
}

// predict inserts the prediction item for every rule with LHS s at the
// current earleme, following each newly inserted prediction's first RHS
// symbol (§4.F.4).
func (r *Recognizer) predict(s leoearley.Symbol) {
	for _, rule := range r.pg.ByLHS.Rules(s) {
		origin := r.chart.CurrentEarleme()
		r.derive(chart.Entry{Item: item.Predicting(r.pg.Grammar, rule, origin), Aux: uint32(origin)})
	}
}

// derive inserts an entry and, if its item was not already present in
// the current earleme, continues recognition from it: completions
// trigger discover, non-completions trigger predict, and an Earley item's
// transition on a nulling-incarnation symbol also triggers an immediate
// zero-width advance (§4.F.3, §4.C). A Leo item is never advanced here.
func (r *Recognizer) derive(e chart.Entry) {
	insertedNewItem, index := r.chart.Insert(e)
	if !insertedNewItem {
		return
	}
	it := e.Item
	if it.IsCompletion() {
		lhs, _ := it.LHS()
		r.discoverCompletion(lhs, it.Origin())
		return
	}
	t, _ := it.TransitionSymbol()
	r.predict(t)
	if it.Kind() == item.Earley && r.pg.IsNullingIncarnation(t) {
		advanced := it.Advance(r.pg.Grammar)
		r.derive(chart.Entry{Item: advanced, Aux: uint32(index)})
	}
}

// discoverCompletion is Discover's internal twin, used for completions
// discovered during recognition itself (as opposed to terminals reported
// by the driver). It simply delegates to Discover; it is kept separate
// only to make the recursive completion path and the public
// terminal-reporting entry point independently readable.
func (r *Recognizer) discoverCompletion(s leoearley.Symbol, origin leoearley.Earleme) {
	r.Discover(s, origin)
}

// FinishEarleme closes the current earleme, creates any Leo items the
// just-finished earleme's completions warrant (§4.F "createLeoItems"),
// and opens the next earleme. It returns an UnrecognizedError when no
// progress at all was made at the just-closed earleme.
func (r *Recognizer) FinishEarleme() error {
	r.createLeoItems()
	at := r.chart.CurrentEarleme()
	if !r.chart.FinishEarleme() {
		tracer().Infof("[%s] unrecognized at earleme %d", r.id, at)
		if gconf.GetBool(StuckPanicsConfigKey) {
			panic(&leoearley.UnrecognizedError{AtEarleme: at})
		}
		return &leoearley.UnrecognizedError{AtEarleme: at}
	}
	return nil
}

func (r *Recognizer) finishEarlemeOrPanic() {
	if err := r.FinishEarleme(); err != nil {
		panic(err) // initialize() can only fail on a grammar with no rules for its accept symbol
	}
}

// HasCompleteParse reports whether the last finished earleme contains a
// completion of the accept symbol with origin 0 (§4.F "hasCompleteParse").
// The current (open) earleme is deliberately not consulted: it may not
// have collected anything yet, and the accept completion for a grammar
// whose start symbol accepts the empty string already lands in earleme 0
// itself, during Initialize, via the ordinary nulling free-transition —
// no separate zero-token special case is needed.
func (r *Recognizer) HasCompleteParse() bool {
	lastFinished := r.chart.CurrentEarleme() - 1
	completions := r.chart.Completions(r.pg.Grammar.StartSymbol(), 0, lastFinished)
	return len(completions) > 0
}

// createLeoItems scans the just-finished earleme's completions and, for
// every one whose rule is right recursive, memoizes the mainstem entry
// that produced it (e.Aux) as a Leo item keyed by the rule's LHS, in the
// same earleme. A future Discover on that LHS then has a direct jump to
// the memoized penult available alongside the ordinary mainstem chain
// (§4.C, §4.F "createLeoItems"); see DESIGN.md for why this module keeps
// the ordinary chain fully intact rather than eliding it, trading Leo's
// asymptotic chain-collapse for a chart the forest can always walk.
func (r *Recognizer) createLeoItems() {
	at := r.chart.CurrentEarleme()
	// iterate over a copy: the inserts below shift entries of this earleme
	entries := append([]chart.Entry(nil), r.chart.EarlemeEntries(at)...)
	for _, e := range entries {
		if !e.Item.IsCompletion() {
			continue
		}
		rule := e.Item.Rule(r.pg.Grammar)
		if !r.pg.IsRightRecursive(rule) {
			continue
		}
		lhs, _ := e.Item.LHS()
		r.derive(chart.Entry{
			Item: item.Memoizing(e.Aux, lhs),
			Aux:  uint32(at),
		})
	}
}
