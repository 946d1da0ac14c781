/*
Package chart implements the Earley/Leo chart (§4.E): a single flat,
per-earleme-sorted array of entries, with binary search standing in for
the hash-set lookups the teacher's lr/earley package performs through
iteratable.Set. Earley's original formulation keeps one set per earleme;
here all earlemes live in one backing slice and setStart records where
each one begins, the same "one arena, offset table on the side" shape
component A's Grammar uses for its rule store.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package chart

import (
	"sort"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/leoearley/grammar"
	"github.com/npillmayer/leoearley/item"
)

// Entry is an item together with either its predot origin (for ordinary
// Earley entries created by prediction or advance) or a mainstem entry
// index (for Leo entries, and for Earley entries whose derivation passed
// through a Leo item). The field is deliberately dual-purpose, mirroring
// spec.md §3's own description of the overload.
type Entry struct {
	Item item.Item
	Aux  uint32
}

// PredotOrigin reads Aux as a predot origin.
func (e Entry) PredotOrigin() leoearley.Earleme { return leoearley.Earleme(e.Aux) }

// MainstemIndex reads Aux as a mainstem chart-entry index.
func (e Entry) MainstemIndex() uint32 { return e.Aux }

// Chart is the flat, per-earleme-sorted entry array (§4.E).
type Chart struct {
	entries  []Entry
	setStart []int // len == number of finished earlemes + 1; last is the open earleme's start
}

// New creates an empty chart with earleme 0 open for insertion.
func New() *Chart {
	return &Chart{setStart: []int{0}}
}

// CurrentEarleme returns the index of the earleme currently being built
// (not yet finished).
func (c *Chart) CurrentEarleme() leoearley.Earleme {
	return leoearley.Earleme(len(c.setStart) - 1)
}

// currentRange returns [start, end) of the open earleme within entries.
func (c *Chart) currentRange() (int, int) {
	return c.setStart[len(c.setStart)-1], len(c.entries)
}

// earlemeRange returns [start, end) of a finished or open earleme.
func (c *Chart) earlemeRange(e leoearley.Earleme) (int, int) {
	i := int(e)
	start := c.setStart[i]
	var end int
	if i+1 < len(c.setStart) {
		end = c.setStart[i+1]
	} else {
		end = len(c.entries)
	}
	return start, end
}

func cmpEntry(a, b Entry) int {
	ak, bk := a.Item.SortKey(), b.Item.SortKey()
	switch {
	case ak < bk:
		return -1
	case ak > bk:
		return 1
	case a.Aux < b.Aux:
		return -1
	case a.Aux > b.Aux:
		return 1
	default:
		return 0
	}
}

// Insert binary-searches the current (open) earleme for e's sort
// position and inserts it there if not already present, maintaining
// ascending (item key, Aux) order (§4.E "insert").
//
// insertedNewItem reports whether this call is the first time the
// current earleme has seen this *item* (ignoring Aux): callers use this
// to decide whether to continue deriving from it (predicting its
// transition symbol, or discovering its LHS), since re-deriving from an
// item already present would loop forever on ambiguous or cyclic
// grammars without changing the chart.
func (c *Chart) Insert(e Entry) (insertedNewItem bool, index int) {
	start, end := c.currentRange()
	cur := c.entries[start:end]
	i := sort.Search(len(cur), func(i int) bool {
		return cmpEntry(cur[i], e) >= 0
	})
	pos := start + i
	if i < len(cur) && cmpEntry(cur[i], e) == 0 {
		return false, pos // exact duplicate
	}
	itemAlreadyPresent := (i < len(cur) && cur[i].Item.SortKey() == e.Item.SortKey()) ||
		(i > 0 && cur[i-1].Item.SortKey() == e.Item.SortKey())
	c.entries = append(c.entries, Entry{})
	copy(c.entries[pos+1:], c.entries[pos:])
	c.entries[pos] = e
	return !itemAlreadyPresent, pos
}

// At returns the entry stored at a chart-wide index.
func (c *Chart) At(index int) Entry {
	return c.entries[index]
}

// FinishEarleme closes the current earleme and opens the next one. It
// returns false iff the just-closed earleme collected no entries at
// all — the sole recognition-failure signal (§4.E, §6 "the driver calls
// finishEarleme after each discover").
func (c *Chart) FinishEarleme() bool {
	start := c.setStart[len(c.setStart)-1]
	end := len(c.entries)
	c.setStart = append(c.setStart, end)
	return end != start
}

// Reset clears the chart back to an empty state with earleme 0 open,
// reusing the backing arrays instead of reallocating them so a
// recognizer can be reused across recognitions without growing the
// garbage collector's workload on every input (§5 "removeAll").
func (c *Chart) Reset() {
	c.entries = c.entries[:0]
	c.setStart = append(c.setStart[:0], 0)
}

// Hit pairs a chart entry with its chart-wide index, so callers that
// need to memoize a pointer back into the chart (Leo-item creation,
// derivation bookkeeping) don't have to re-search for it.
type Hit struct {
	Entry Entry
	Index int
}

// TransitionItems returns the distinct items (Leo items sort first, by
// item encoding, then Earley items by origin) that transition on symbol
// s within earleme origin (§4.E "transitionItems"). Used by discover.
func (c *Chart) TransitionItems(pg *grammar.Grammar, s leoearley.Symbol, origin leoearley.Earleme) []Hit {
	start, end := c.earlemeRange(origin)
	cur := c.entries[start:end]
	lo := sort.Search(len(cur), func(i int) bool {
		sym, ok := cur[i].Item.TransitionSymbol()
		if !ok {
			return true // completions sort after all transitions
		}
		return sym >= s
	})
	var out []Hit
	var lastKey uint64
	haveLast := false
	for i := lo; i < len(cur); i++ {
		sym, ok := cur[i].Item.TransitionSymbol()
		if !ok || sym != s {
			break
		}
		key := cur[i].Item.SortKey()
		if haveLast && key == lastKey {
			continue // dedupe distinct derivations (different Aux) of the same item
		}
		out = append(out, Hit{Entry: cur[i], Index: start + i})
		lastKey = key
		haveLast = true
	}
	return out
}

// Completions returns the completions of lhs that began at earleme
// start, as recorded in the earleme ending at end (§4.E "completions").
func (c *Chart) Completions(lhs leoearley.Symbol, start, end leoearley.Earleme) []Entry {
	rangeStart, rangeEnd := c.earlemeRange(end)
	cur := c.entries[rangeStart:rangeEnd]
	lo := sort.Search(len(cur), func(i int) bool {
		l, ok := cur[i].Item.LHS()
		if !ok {
			return false // non-completions sort before all completions
		}
		// completion keys hold the complemented LHS, so completions
		// appear in descending LHS order
		return l <= lhs
	})
	var out []Entry
	for i := lo; i < len(cur); i++ {
		l, ok := cur[i].Item.LHS()
		if !ok || l != lhs {
			break
		}
		if cur[i].Item.Origin() != start {
			continue
		}
		out = append(out, cur[i])
	}
	return out
}

// Mainstems returns the entries, within the earleme the item originated
// in, whose item equals e's item with its dot moved back one position
// (its "mainstem"; §4.E "mainstems"). Recognition and forest
// reconstruction both resolve a mainstem more cheaply, from the Aux
// index recorded at derivation time, so this is a diagnostic/debugging
// entry point — reconstructing what derive already knew, for callers
// (package diag, tests) without access to it — rather than one exercised
// on the hot recognition path.
func (c *Chart) Mainstems(pg *grammar.Grammar, e Entry) []Hit {
	origin := e.Item.Origin()
	pos := e.Item.DotPosition()
	r := pg.RuleContaining(pos)
	if pos <= pg.RHSStart(r) {
		return nil // dot was already at rule start; no mainstem
	}
	predotSym, _ := pg.Predot(pos)
	target := mainstemKey(pg, r, pos-1, origin)

	start, end := c.earlemeRange(origin)
	cur := c.entries[start:end]
	lo := sort.Search(len(cur), func(i int) bool {
		sym, ok := cur[i].Item.TransitionSymbol()
		if !ok {
			return true
		}
		return sym >= predotSym
	})
	var out []Hit
	for i := lo; i < len(cur); i++ {
		sym, ok := cur[i].Item.TransitionSymbol()
		if !ok || sym != predotSym {
			break
		}
		if cur[i].Item.SortKey() == target {
			out = append(out, Hit{Entry: cur[i], Index: start + i})
		}
	}
	return out
}

func mainstemKey(pg *grammar.Grammar, r grammar.RuleID, predotPos int, origin leoearley.Earleme) uint64 {
	predicted := item.Predicting(pg, r, origin)
	it := predicted
	for it.DotPosition() < predotPos {
		it = it.Advance(pg)
	}
	return it.SortKey()
}

// Len returns the total number of entries ever inserted (across all
// earlemes, finished and open).
func (c *Chart) Len() int { return len(c.entries) }

// EarlemeOf returns the earleme a chart-wide entry index falls in.
func (c *Chart) EarlemeOf(index int) leoearley.Earleme {
	// last i such that setStart[i] <= index
	i := sort.Search(len(c.setStart), func(i int) bool {
		return c.setStart[i] > index
	})
	return leoearley.Earleme(i - 1)
}

// EarlemeEntries returns the entries of a finished or open earleme, for
// diagnostics.
func (c *Chart) EarlemeEntries(e leoearley.Earleme) []Entry {
	start, end := c.earlemeRange(e)
	return c.entries[start:end]
}
