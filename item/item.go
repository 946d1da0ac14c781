/*
Package item implements the 64-bit packed Earley/Leo item encoding
(§4.D). An Item packs into two 32-bit halves so it sits naturally next
to a 32-bit predot-origin/mainstem-index inside a chart.Entry without
paying 64-bit alignment overhead — the same "keep the hot struct small
and flat" discipline the teacher applies to its CFSM states and edges in
lr/tables.go, pushed down to the single item level.

	hi word: [ isCompletion:1 | symbol:14 | isEarley:1 | originHi:16 ]
	lo word: [ originLow:16    | dotPosition:16                    ]  (Earley)
	lo word: [ memoizedPenultIndex:32                              ]  (Leo)

The bit layout itself is not part of the observable contract (spec.md
§4.D, §9): what callers may rely on is the sort order it produces
(§3 "lookup key") and the round-trip accessors below.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package item

import (
	"fmt"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/leoearley/grammar"
)

// Kind distinguishes an Earley item from a Leo item.
type Kind uint8

const (
	// Leo marks a Leo item: a memoized summary of a right-recursive
	// derivation chain. A Leo item is never a completion.
	Leo Kind = 0
	// Earley marks an ordinary Earley item (prediction, scan result,
	// or completion).
	Earley Kind = 1
)

func (k Kind) String() string {
	if k == Earley {
		return "earley"
	}
	return "leo"
}

const symbolBits = 14
const symbolMask = uint32(1)<<symbolBits - 1 // 0x3FFF

const (
	hiCompletionBit = uint32(1) << 31
	hiSymbolShift   = 17
	hiEarleyBit     = uint32(1) << 16
	hiOriginHiMask  = uint32(0xFFFF)
)

// Item is a packed Earley or Leo item (§3 "Item", §4.D).
//
// The zero Item is not meaningful; build one via Predicting, Advance, or
// Memoizing.
type Item struct {
	hi uint32
	lo uint32
}

// Predicting returns the prediction item for rule r at origin i: the
// item with the dot at rule r's RHS start and transition symbol equal
// to r's first RHS symbol (§4.D "predicting"). Every NNF rule has a
// nonempty RHS, so the transition symbol always exists.
func Predicting(g *grammar.Grammar, r grammar.RuleID, origin leoearley.Earleme) Item {
	pos := g.RHSStart(r)
	sym, ok := g.Postdot(pos)
	if !ok {
		panic("item.Predicting: rule has empty RHS, violates NNF invariant")
	}
	return Item{
		hi: packHi(false, sym, Earley, uint16(origin>>16)),
		lo: packLoEarley(uint16(origin&0xFFFF), uint16(pos)),
	}
}

// Advance returns the successor item with the dot moved one grammar
// position forward (§4.D "advanced"). Panics if called on a completion
// or a Leo item (programmer error, §7).
func (it Item) Advance(g *grammar.Grammar) Item {
	if it.Kind() != Earley {
		panic("item.Advance: cannot advance a Leo item")
	}
	if it.IsCompletion() {
		panic("item.Advance: cannot advance a completed item")
	}
	newPos := it.DotPosition() + 1
	origin := it.Origin()
	if sym, ok := g.Postdot(newPos); ok {
		return Item{
			hi: packHi(false, sym, Earley, uint16(origin>>16)),
			lo: packLoEarley(uint16(origin&0xFFFF), uint16(newPos)),
		}
	}
	lhs, ok := g.Recognized(newPos)
	if !ok {
		panic("item.Advance: new dot position is neither a postdot symbol nor a completion")
	}
	return Item{
		hi: packHi(true, lhs, Earley, uint16(origin>>16)),
		lo: packLoEarley(uint16(origin&0xFFFF), uint16(newPos)),
	}
}

// Memoizing returns a Leo item memoizing the chart entry at penultIndex,
// for transitions on transitionSymbol (the LHS of the right-recursive
// rule being summarized; §4.D "memoizing").
func Memoizing(penultIndex uint32, transitionSymbol leoearley.Symbol) Item {
	return Item{
		hi: packHi(false, transitionSymbol, Leo, 0),
		lo: penultIndex,
	}
}

func packHi(isCompletion bool, symbol leoearley.Symbol, kind Kind, originHi uint16) uint32 {
	var hi uint32
	sym := uint32(symbol) & symbolMask
	if isCompletion {
		hi |= hiCompletionBit
		sym = (^uint32(symbol)) & symbolMask // bitwise complement of LHS, §3
	}
	hi |= sym << hiSymbolShift
	if kind == Earley {
		hi |= hiEarleyBit
	}
	hi |= uint32(originHi) & hiOriginHiMask
	return hi
}

func packLoEarley(originLow, dotPosition uint16) uint32 {
	return uint32(originLow)<<16 | uint32(dotPosition)
}

// Kind reports whether it is an Earley or a Leo item.
func (it Item) Kind() Kind {
	if it.hi&hiEarleyBit != 0 {
		return Earley
	}
	return Leo
}

// IsCompletion reports whether it is a completed Earley item (dot past
// the end of its rule's RHS). Always false for Leo items.
func (it Item) IsCompletion() bool {
	return it.hi&hiCompletionBit != 0
}

// TransitionSymbol returns the symbol this item transitions on: the
// postdot symbol for a non-completion Earley item, or the memoized LHS
// for a Leo item. Returns false for completions.
func (it Item) TransitionSymbol() (leoearley.Symbol, bool) {
	if it.IsCompletion() {
		return 0, false
	}
	return leoearley.Symbol((it.hi >> hiSymbolShift) & symbolMask), true
}

// LHS returns the left-hand-side symbol of a completion. Returns false
// for non-completions (including all Leo items).
func (it Item) LHS() (leoearley.Symbol, bool) {
	if !it.IsCompletion() {
		return 0, false
	}
	raw := (it.hi >> hiSymbolShift) & symbolMask
	return leoearley.Symbol((^raw) & symbolMask), true
}

// Origin returns the earleme at which this Earley item's partial parse
// began. Panics for Leo items (§7: "asking for origin ... of a Leo item"
// is a contract violation).
func (it Item) Origin() leoearley.Earleme {
	if it.Kind() != Earley {
		panic("item.Origin: Leo items have no origin")
	}
	originHi := it.hi & hiOriginHiMask
	originLow := it.lo >> 16
	return leoearley.Earleme(originHi<<16 | originLow)
}

// DotPosition returns the grammar position (ruleStore index) the dot
// sits at. Panics for Leo items.
func (it Item) DotPosition() int {
	if it.Kind() != Earley {
		panic("item.DotPosition: Leo items have no dot position")
	}
	return int(it.lo & 0xFFFF)
}

// MemoizedPenultIndex returns the chart entry index of the penultimate
// Earley item this Leo item memoizes. Panics for Earley items.
func (it Item) MemoizedPenultIndex() uint32 {
	if it.Kind() != Leo {
		panic("item.MemoizedPenultIndex: only Leo items memoize a penult")
	}
	return it.lo
}

// Rule returns the grammar rule this Earley item belongs to. Panics for
// Leo items.
func (it Item) Rule(g *grammar.Grammar) grammar.RuleID {
	return g.RuleContaining(it.DotPosition())
}

// SortKey returns the 64-bit value whose ascending order realizes the
// ordering contract of §3 "lookup key": within an earleme, Leo items
// sort immediately before Earley items sharing the same transition
// symbol, all non-completions sort before all completions, and
// completions group by LHS.
func (it Item) SortKey() uint64 {
	return uint64(it.hi)<<32 | uint64(it.lo)
}

func (it Item) String() string {
	if it.Kind() == Leo {
		sym, _ := it.TransitionSymbol()
		return fmt.Sprintf("Leo[-> %s, memo@%d]", sym, it.MemoizedPenultIndex())
	}
	if it.IsCompletion() {
		lhs, _ := it.LHS()
		return fmt.Sprintf("[%s ::= ... @%d, %d]", lhs, it.DotPosition(), it.Origin())
	}
	sym, _ := it.TransitionSymbol()
	return fmt.Sprintf("[... * %s @%d, %d]", sym, it.DotPosition(), it.Origin())
}
