/*
Package grammar implements the grammar store (§4.A), the position map
(§4.B) and the NNF preprocessor (§4.C) of the leoearley core.

A Grammar is an append-only set of rules, packed end-to-end into a single
int32 arena (`ruleStore`), exactly as described in spec.md §3 "Rule
storage invariant": each rule is laid out as its RHS symbols followed by
its LHS symbol with the sign bit set as a marker. A parallel `ruleStart`
array gives the offset of each rule plus a one-past-the-end sentinel, so
rule ordinal and containing rule are recovered by binary search rather
than by following pointers — the same flat-arena discipline the teacher
uses for its CFSM state/edge sets in lr/tables.go, just pushed one layer
deeper into the grammar representation itself.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package grammar

import (
	"fmt"
	"sort"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return leoearley.Tracer("grammar")
}

// lhsMarker has only the sign bit set; ORing it into a symbol value
// marks that ruleStore slot as holding a rule's LHS rather than an RHS
// symbol (§3 "Rule storage invariant").
const lhsMarker int32 = -1 << 31

// RuleID is the dense, insertion-order ordinal of a rule.
type RuleID int32

// Grammar is an append-only, packed context-free grammar (§3 "Raw
// grammar", §4.A "Grammar store"). The zero value is not usable; create
// one with New.
type Grammar struct {
	name      string
	start     leoearley.Symbol
	ruleStore []int32
	ruleStart []int32 // len == Size()+1; last entry is the end-of-arena sentinel

	symbolNames map[leoearley.Symbol]string // optional, for diagnostics only
	maxSymbol   leoearley.Symbol
	sawSymbol   bool
}

// New creates an empty grammar with the given start symbol and a name
// used only for diagnostics (mirrors the teacher's NewGrammarBuilder(name)).
func New(name string, start leoearley.Symbol) *Grammar {
	return &Grammar{
		name:        name,
		start:       start,
		ruleStart:   []int32{0},
		symbolNames: map[leoearley.Symbol]string{},
	}
}

// Export exposes a grammar's raw internal representation, for package
// codec to serialize. The returned slices are copies; mutating them does
// not affect g.
func (g *Grammar) Export() (name string, start leoearley.Symbol, ruleStore, ruleStart []int32, symbolNames map[leoearley.Symbol]string) {
	return g.name, g.start, append([]int32(nil), g.ruleStore...), append([]int32(nil), g.ruleStart...), g.symbolNames
}

// Import reconstructs a Grammar from components produced by a prior
// Export (package codec's deserialization path).
func Import(name string, start leoearley.Symbol, ruleStore, ruleStart []int32, symbolNames map[leoearley.Symbol]string) *Grammar {
	g := &Grammar{name: name, start: start, ruleStore: ruleStore, ruleStart: ruleStart, symbolNames: symbolNames}
	if g.symbolNames == nil {
		g.symbolNames = map[leoearley.Symbol]string{}
	}
	for _, v := range ruleStore {
		g.noteSymbol(leoearley.Symbol(v &^ lhsMarker))
	}
	g.noteSymbol(start)
	return g
}

// Name returns the grammar's diagnostic name.
func (g *Grammar) Name() string { return g.name }

// StartSymbol returns the grammar's designated start symbol.
func (g *Grammar) StartSymbol() leoearley.Symbol { return g.start }

// SetSymbolName attaches a diagnostic name to a symbol. Purely cosmetic;
// never consulted by recognition or forest enumeration.
func (g *Grammar) SetSymbolName(s leoearley.Symbol, name string) {
	g.symbolNames[s] = name
}

// SymbolName returns a symbol's diagnostic name, or its numeric form if
// none was set.
func (g *Grammar) SymbolName(s leoearley.Symbol) string {
	if name, ok := g.symbolNames[s]; ok {
		return name
	}
	return s.String()
}

// EachSymbolName calls fn once for every symbol that was given a
// diagnostic name via SetSymbolName, used by Preprocess to carry a raw
// grammar's names over to its cooked NNF form.
func (g *Grammar) EachSymbolName(fn func(s leoearley.Symbol, name string)) {
	for s, name := range g.symbolNames {
		fn(s, name)
	}
}

// Size returns the number of rules in the grammar.
func (g *Grammar) Size() int {
	return len(g.ruleStart) - 1
}

// AddRule appends a rule lhs → rhs to the grammar and returns its
// ordinal. Rules are numbered densely in insertion order (§3 "Raw
// grammar"). Fails with leoearley.InvalidSymbolError if lhs or any
// element of rhs is negative or exceeds the bit budget reserved by the
// item encoding (§4.A).
func (g *Grammar) AddRule(lhs leoearley.Symbol, rhs []leoearley.Symbol) (RuleID, error) {
	if !lhs.Valid() {
		return 0, &leoearley.InvalidSymbolError{Symbol: lhs}
	}
	for _, s := range rhs {
		if !s.Valid() {
			return 0, &leoearley.InvalidSymbolError{Symbol: s}
		}
	}
	g.noteSymbol(lhs)
	for _, s := range rhs {
		g.noteSymbol(s)
		g.ruleStore = append(g.ruleStore, int32(s))
	}
	g.ruleStore = append(g.ruleStore, int32(lhs)|lhsMarker)
	g.ruleStart = append(g.ruleStart, int32(len(g.ruleStore)))
	id := RuleID(len(g.ruleStart) - 2)
	tracer().Debugf("rule[%d]: %s ::= %v", id, g.SymbolName(lhs), rhs)
	return id, nil
}

func (g *Grammar) noteSymbol(s leoearley.Symbol) {
	if !g.sawSymbol || s > g.maxSymbol {
		g.maxSymbol = s
		g.sawSymbol = true
	}
}

// MaxSymbol returns the largest symbol id used by any rule added so far.
// Used by the NNF preprocessor to allocate fresh nulling-incarnation and
// accept symbols above the raw grammar's symbol range.
func (g *Grammar) MaxSymbol() leoearley.Symbol {
	return g.maxSymbol
}

// RuleContaining binary-searches ruleStart for the rule owning the
// ruleStore slot at position (§4.A "ruleContaining").
func (g *Grammar) RuleContaining(position int) RuleID {
	// first index i such that ruleStart[i] > position
	i := sort.Search(len(g.ruleStart), func(i int) bool {
		return g.ruleStart[i] > position
	})
	return RuleID(i - 1)
}

// RHSStart returns the ruleStore index of a rule's first RHS symbol
// (equivalently, its dot-at-start position).
func (g *Grammar) RHSStart(r RuleID) int {
	return int(g.ruleStart[r])
}

// LHSPosition returns the ruleStore index of a rule's LHS marker slot
// (equivalently, its dot-at-end / completion position).
func (g *Grammar) LHSPosition(r RuleID) int {
	return int(g.ruleStart[r+1]) - 1
}

// RHSLen returns the number of RHS symbols of a rule.
func (g *Grammar) RHSLen(r RuleID) int {
	return g.LHSPosition(r) - g.RHSStart(r)
}

// LHS returns a rule's left-hand-side symbol.
func (g *Grammar) LHS(r RuleID) leoearley.Symbol {
	return leoearley.Symbol(g.ruleStore[g.LHSPosition(r)] &^ lhsMarker)
}

// RHS returns a rule's right-hand-side symbol sequence.
func (g *Grammar) RHS(r RuleID) []leoearley.Symbol {
	start, end := g.RHSStart(r), g.LHSPosition(r)
	rhs := make([]leoearley.Symbol, 0, end-start)
	for i := start; i < end; i++ {
		rhs = append(rhs, leoearley.Symbol(g.ruleStore[i]))
	}
	return rhs
}

// Postdot returns the symbol just after the dot at a grammar position,
// or false if the slot holds the rule's LHS marker (the rule is
// complete at this position; §4.A "postdot").
func (g *Grammar) Postdot(position int) (leoearley.Symbol, bool) {
	v := g.ruleStore[position]
	if v < 0 { // sign bit set: LHS marker
		return 0, false
	}
	return leoearley.Symbol(v), true
}

// Predot returns the symbol just before the dot at a grammar position,
// or false if the dot is at the start of the rule's RHS (§4.A "predot").
func (g *Grammar) Predot(position int) (leoearley.Symbol, bool) {
	r := g.RuleContaining(position)
	if position <= g.RHSStart(r) {
		return 0, false
	}
	return leoearley.Symbol(g.ruleStore[position-1] &^ lhsMarker), true
}

// Recognized returns the LHS symbol recognized at a grammar position, or
// false if position is not a rule's completion position (§4.A
// "recognized").
func (g *Grammar) Recognized(position int) (leoearley.Symbol, bool) {
	v := g.ruleStore[position]
	if v >= 0 {
		return 0, false
	}
	return leoearley.Symbol(v &^ lhsMarker), true
}

// EachRule calls fn for every rule, in insertion order.
func (g *Grammar) EachRule(fn func(RuleID)) {
	for r := RuleID(0); int(r) < g.Size(); r++ {
		fn(r)
	}
}

// Dump writes a human-readable rendering of the grammar's rules to the
// tracer, mirroring the teacher's Grammar.Dump() convention mentioned in
// lr/doc.go.
func (g *Grammar) Dump() {
	g.EachRule(func(r RuleID) {
		rhs := g.RHS(r)
		names := make([]string, len(rhs))
		for i, s := range rhs {
			names[i] = g.SymbolName(s)
		}
		tracer().Infof("%d: %s ::= %v", r, g.SymbolName(g.LHS(r)), names)
	})
}

func (g *Grammar) String() string {
	return fmt.Sprintf("Grammar(%q, %d rules, start=%s)", g.name, g.Size(), g.SymbolName(g.start))
}
