/*
Package diag provides human-facing dumps of a chart and a derivation
tree, for use in tests and interactive debugging sessions. It follows
the teacher's own diagnostic conventions: structhash-based fingerprints
for regression-style "did this chart change" assertions (the same
technique the teacher applies to individual items in
lr/earley/earley.go's hash helper), and pterm tree rendering for
derivation trees, the way terex/terexlang/trepl/repl.go renders list
structures interactively.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package diag

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/pterm/pterm"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/leoearley/chart"
	"github.com/npillmayer/leoearley/forest"
	"github.com/npillmayer/leoearley/grammar"
	"github.com/npillmayer/leoearley/item"
)

// DumpChart renders every earleme of ch, the finished ones and the open
// one, as indented text lines, one entry per line, using g to resolve
// symbol names.
func DumpChart(g *grammar.Grammar, ch *chart.Chart) string {
	var b strings.Builder
	for e := leoearley.Earleme(0); e <= ch.CurrentEarleme(); e++ {
		fmt.Fprintf(&b, "=== earleme %d ===\n", e)
		for _, entry := range ch.EarlemeEntries(e) {
			fmt.Fprintf(&b, "  %s\n", describe(g, entry))
		}
	}
	return b.String()
}

func describe(g *grammar.Grammar, e chart.Entry) string {
	it := e.Item
	if it.Kind() == item.Leo {
		sym, _ := it.TransitionSymbol()
		return fmt.Sprintf("Leo -> %s  (memo@%d)", g.SymbolName(sym), it.MemoizedPenultIndex())
	}
	if it.IsCompletion() {
		lhs, _ := it.LHS()
		return fmt.Sprintf("%s ::= ... .   [origin %d]", g.SymbolName(lhs), it.Origin())
	}
	sym, _ := it.TransitionSymbol()
	return fmt.Sprintf("... * %s ...   [origin %d]", g.SymbolName(sym), it.Origin())
}

// ChartFingerprint returns a stable hash of a chart's entries, suitable
// for "the chart did not change" regression assertions in tests without
// comparing the full dump text.
func ChartFingerprint(ch *chart.Chart) (string, error) {
	type snapshot struct {
		Earlemes int
		Entries  int
		Keys     []uint64
		Aux      []uint32
	}
	s := snapshot{
		Earlemes: int(ch.CurrentEarleme()),
		Entries:  ch.Len(),
	}
	for e := leoearley.Earleme(0); e <= ch.CurrentEarleme(); e++ {
		for _, entry := range ch.EarlemeEntries(e) {
			s.Keys = append(s.Keys, entry.Item.SortKey())
			s.Aux = append(s.Aux, entry.Aux)
		}
	}
	return structhash.Hash(s, 1)
}

// RenderDerivationTree renders a derivation tree as a styled tree using
// pterm, in the same LeveledList idiom the teacher's REPL uses for list
// structures.
func RenderDerivationTree(g *grammar.Grammar, root forest.Node) string {
	var ll pterm.LeveledList
	appendNode(&ll, g, root, 0)
	tree := pterm.NewTreeFromLeveledList(ll)
	rendered, err := pterm.DefaultTree.WithRoot(tree).Srender()
	if err != nil {
		return fmt.Sprintf("<tree render error: %v>", err)
	}
	return rendered
}

func appendNode(ll *pterm.LeveledList, g *grammar.Grammar, n forest.Node, level int) {
	label := fmt.Sprintf("%s %s", g.SymbolName(n.Symbol), n.Span)
	if n.Epsilon {
		label += " =ε"
	}
	*ll = append(*ll, pterm.LeveledListItem{Level: level, Text: label})
	for _, child := range n.Children {
		appendNode(ll, g, child, level+1)
	}
}
