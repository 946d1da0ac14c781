package grammar

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"github.com/npillmayer/leoearley"
)

// RulesByLHS is a multimap from a (cooked) symbol to the ordinals of the
// rules it is the left-hand side of, in insertion order. The recognizer's
// predict step (component F) consults it each time a newly inserted item
// transitions on a symbol, so a balanced tree keyed by the int32 symbol value — rather
// than a plain Go map — gives it the same predictable, ordered iteration
// the teacher relies on for its CFSM construction in lr/tables.go (built
// there from emirpasic/gods treeset/arraylist in the same way).
type RulesByLHS struct {
	index *treemap.Map // leoearley.Symbol -> *arraylist.List of RuleID
}

// NewRulesByLHS builds the index by scanning every rule of g once.
func NewRulesByLHS(g *Grammar) *RulesByLHS {
	idx := &RulesByLHS{index: treemap.NewWith(utils.Int32Comparator)}
	g.EachRule(func(r RuleID) {
		idx.add(g.LHS(r), r)
	})
	return idx
}

func (idx *RulesByLHS) add(lhs leoearley.Symbol, r RuleID) {
	key := int32(lhs)
	var list *arraylist.List
	if v, ok := idx.index.Get(key); ok {
		list = v.(*arraylist.List)
	} else {
		list = arraylist.New()
		idx.index.Put(key, list)
	}
	list.Add(r)
}

// Rules returns the rules with the given LHS, in insertion order. The
// returned slice is freshly allocated; callers may not mutate the index
// through it.
func (idx *RulesByLHS) Rules(lhs leoearley.Symbol) []RuleID {
	v, ok := idx.index.Get(int32(lhs))
	if !ok {
		return nil
	}
	list := v.(*arraylist.List)
	out := make([]RuleID, list.Size())
	for i := 0; i < list.Size(); i++ {
		rv, _ := list.Get(i)
		out[i] = rv.(RuleID)
	}
	return out
}

// Has reports whether any rule has lhs as its left-hand side.
func (idx *RulesByLHS) Has(lhs leoearley.Symbol) bool {
	_, ok := idx.index.Get(int32(lhs))
	return ok
}
