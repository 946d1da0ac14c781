package grammar

import (
	"github.com/npillmayer/leoearley"
)

// Preprocessed is the output of Preprocess (§4.C): a nihilist-normal-form
// grammar ready for recognition, together with everything the recognizer
// and forest need that is cheaper to precompute once than to rediscover
// per earleme.
type Preprocessed struct {
	Grammar *Grammar     // the cooked (NNF) grammar; its StartSymbol is the accept symbol S'
	RawMap  *DiscreteMap // cooked grammar position -> raw grammar position
	ByLHS   *RulesByLHS  // cooked LHS -> rule ordinals, for predict

	acceptsNull bool

	// nullingSymbols holds every cooked symbol that is a nulling
	// incarnation. Besides predicting it like any other transition
	// symbol, the recognizer advances an Earley item over a transition on
	// one of these immediately, with zero width (§4.C "nulling
	// incarnation stands for derives ε").
	nullingSymbols map[leoearley.Symbol]bool

	// rightRecursive holds the cooked rule ordinals detected as directly
	// or indirectly right-recursive (§4.C "right-recursion detection").
	// The recognizer's createLeoItems consults this per completion
	// directly; see DESIGN.md for why the separately-computed penult
	// grammar-position set described by §4.C was dropped rather than
	// wired in as a second, redundant way to ask the same question.
	rightRecursive map[RuleID]bool

	// epsilonWitness records, keyed by the nulling incarnation of every
	// nullable raw symbol that has an all-nullable rule, the raw rule id
	// that witnesses it (the smallest such rule id),
	// together with the cooked rule id realizing the same derivation in
	// NNF, if one was emitted. Used by the forest to synthesize nulling
	// subtrees without chart storage (§4.G, DESIGN.md open question).
	epsilonWitness map[leoearley.Symbol]epsilonWitness
}

type epsilonWitness struct {
	rawRuleID   int
	cookedRule  RuleID
	hasCooked   bool
}

// AcceptsNull reports whether the raw start symbol derives the empty
// string, i.e. whether the accept symbol has a direct S' → S_nulling
// alternative (§4.C "start-symbol wrapping").
func (p *Preprocessed) AcceptsNull() bool { return p.acceptsNull }

// IsNullingIncarnation reports whether the cooked symbol s is a nulling
// incarnation: a symbol guaranteed by construction to derive only the
// empty string.
func (p *Preprocessed) IsNullingIncarnation(s leoearley.Symbol) bool {
	return p.nullingSymbols[s]
}

// IsRightRecursive reports whether cooked rule r was classified as
// (directly or indirectly) right recursive.
func (p *Preprocessed) IsRightRecursive(r RuleID) bool {
	return p.rightRecursive[r]
}

// EpsilonDerivation returns the cooked rule id realizing the nulling
// derivation of cooked nulling symbol s, if the preprocessor emitted one.
// Returns false when s's recorded witness (its lowest-numbered witnessing
// raw rule) is a direct empty-RHS rule, for which NNF emits no cooked
// rule (§4.C "Empty rules are never emitted"), even if a later raw rule
// would have had a cooked counterpart.
func (p *Preprocessed) EpsilonDerivation(s leoearley.Symbol) (RuleID, bool) {
	w, ok := p.epsilonWitness[s]
	if !ok || !w.hasCooked {
		return 0, false
	}
	return w.cookedRule, true
}

// nullability holds, per raw symbol, whether it derives the empty string
// at all ("nullable") and whether every one of its rules does
// ("nulling", §4.C).
type nullability struct {
	nullable map[leoearley.Symbol]bool
	nulling  map[leoearley.Symbol]bool
}

// analyzeNullability runs the standard two-phase fixpoint over the raw
// grammar (§4.C): a symbol is nullable if some rule's RHS is entirely
// nullable symbols (including the empty RHS); it is nulling if *every*
// one of its rules has that property. A simple repeat-to-fixpoint pass is
// used rather than a worklist with counters — easier to verify by
// inspection, and correctness does not depend on iteration order, at the
// cost of repeated passes over the grammar instead of a single O(size)
// pass.
func analyzeNullability(g *Grammar) *nullability {
	n := &nullability{nullable: map[leoearley.Symbol]bool{}, nulling: map[leoearley.Symbol]bool{}}
	changed := true
	for changed {
		changed = false
		g.EachRule(func(r RuleID) {
			lhs := g.LHS(r)
			rhs := g.RHS(r)
			allNullable := true
			for _, s := range rhs {
				if !n.nullable[s] {
					allNullable = false
					break
				}
			}
			if allNullable && !n.nullable[lhs] {
				n.nullable[lhs] = true
				changed = true
			}
		})
	}
	// nulling: a symbol is nulling iff EVERY one of its rules has an
	// all-nulling (or empty) RHS. Start by assuming every nullable
	// symbol is nulling, then disqualify any with a counterexample rule.
	for s := range n.nullable {
		n.nulling[s] = true
	}
	disqualifyChanged := true
	for disqualifyChanged {
		disqualifyChanged = false
		g.EachRule(func(r RuleID) {
			lhs := g.LHS(r)
			if !n.nulling[lhs] {
				return
			}
			rhs := g.RHS(r)
			for _, s := range rhs {
				if !n.nulling[s] {
					n.nulling[lhs] = false
					disqualifyChanged = true
					return
				}
			}
		})
	}
	return n
}

// symbolAllocator hands out fresh cooked symbol ids above the raw
// grammar's range, one per nullable raw symbol (its nulling incarnation)
// plus one for the accept symbol.
type symbolAllocator struct {
	next leoearley.Symbol
}

func newSymbolAllocator(raw *Grammar) *symbolAllocator {
	return &symbolAllocator{next: raw.MaxSymbol() + 1}
}

func (a *symbolAllocator) alloc() leoearley.Symbol {
	s := a.next
	a.next++
	return s
}

// Preprocess compiles a raw grammar into nihilist normal form (§4.C).
//
// Every nullable raw symbol gets two cooked incarnations: its "proper"
// incarnation reuses the raw symbol id directly and never derives ε; its
// "nulling" incarnation is a freshly allocated id that always derives ε.
// Non-nullable symbols keep their raw id as their only incarnation.
func Preprocess(raw *Grammar) (*Preprocessed, error) {
	n := analyzeNullability(raw)
	alloc := newSymbolAllocator(raw)

	nullingOf := map[leoearley.Symbol]leoearley.Symbol{}
	for s := range n.nullable {
		nullingOf[s] = alloc.alloc()
	}
	properOf := func(s leoearley.Symbol) leoearley.Symbol { return s }

	cooked := New(raw.Name()+".nnf", raw.StartSymbol())
	posMap := NewDiscreteMap()
	nullingSymbols := map[leoearley.Symbol]bool{}
	for _, cs := range nullingOf {
		nullingSymbols[cs] = true
	}
	epsilonWitness := map[leoearley.Symbol]epsilonWitness{}

	raw.EachRule(func(r RuleID) {
		lhs := raw.LHS(r)
		rhs := raw.RHS(r)

		// Every rule whose own RHS is entirely nullable witnesses lhs's
		// nulling incarnation, whether or not lhs is *globally* nulling
		// (some other rule of lhs may still reach a non-ε derivation).
		// Gating this on the rule itself rather than on lhs as a whole is
		// what lets a nullable-but-not-nulling symbol (one rule empty or
		// all-nullable, another rule not) still contribute a witnessed
		// nulling derivation instead of silently falling back to a bare
		// epsilon leaf in the forest.
		ruleIsNulling := true
		for _, s := range rhs {
			if !n.nullable[s] {
				ruleIsNulling = false
				break
			}
		}
		if ruleIsNulling {
			if len(rhs) == 0 {
				recordEpsilonWitness(epsilonWitness, nullingOf[lhs], int(r), 0, false)
			} else {
				cookedRHS := make([]leoearley.Symbol, len(rhs))
				for i, s := range rhs {
					cookedRHS[i] = nullingOf[s]
				}
				emitCookedRule(cooked, posMap, raw, r, nullingOf[lhs], cookedRHS)
				cr := RuleID(cooked.Size() - 1)
				recordEpsilonWitness(epsilonWitness, nullingOf[lhs], int(r), cr, true)
			}
		}

		if n.nulling[lhs] {
			// lhs never derives anything but ε: its proper incarnation is
			// dead and gets no cooked rules at all.
			return
		}

		// Proper (never-ε) incarnation of lhs: enumerate every subset of
		// nullable-but-not-nulling RHS positions, substituting the
		// nulling incarnation for chosen positions and forcing it for any
		// RHS symbol that is itself always-nulling.
		varPositions := make([]int, 0)
		for i, s := range rhs {
			if n.nullable[s] && !n.nulling[s] {
				varPositions = append(varPositions, i)
			}
		}
		k := len(varPositions)
		for mask := 0; mask < (1 << uint(k)); mask++ {
			cookedRHS := make([]leoearley.Symbol, len(rhs))
			allForcedOrChosenNulling := true
			varIdx := 0
			for i, s := range rhs {
				switch {
				case n.nulling[s]:
					cookedRHS[i] = nullingOf[s]
				case n.nullable[s] && !n.nulling[s]:
					bit := (mask >> uint(varIdx)) & 1
					varIdx++
					if bit == 1 {
						cookedRHS[i] = nullingOf[s]
					} else {
						cookedRHS[i] = properOf(s)
						allForcedOrChosenNulling = false
					}
				default:
					cookedRHS[i] = properOf(s)
					allForcedOrChosenNulling = false
				}
			}
			if len(cookedRHS) == 0 || allForcedOrChosenNulling {
				// Either a direct empty rule, or this subset would make
				// the proper (never-ε) incarnation of lhs derive ε:
				// both are forbidden in NNF (§4.C).
				continue
			}
			emitCookedRule(cooked, posMap, raw, r, properOf(lhs), cookedRHS)
		}
	})

	// Start-symbol wrapping (§4.C): a fresh accept symbol S' with S' → S,
	// and S' → S_nulling when the raw start symbol is nullable.
	rawStart := raw.StartSymbol()
	accept := alloc.alloc()
	cooked.start = accept
	if _, err := cooked.AddRule(accept, []leoearley.Symbol{properOf(rawStart)}); err != nil {
		return nil, err
	}
	acceptsNull := n.nullable[rawStart]
	if acceptsNull {
		if _, err := cooked.AddRule(accept, []leoearley.Symbol{nullingOf[rawStart]}); err != nil {
			return nil, err
		}
	}

	copySymbolNames(raw, cooked, nullingOf, accept)

	byLHS := NewRulesByLHS(cooked)
	rightRecursive := detectRightRecursion(cooked, byLHS, nullingSymbols)

	return &Preprocessed{
		Grammar:        cooked,
		RawMap:         posMap,
		ByLHS:          byLHS,
		acceptsNull:    acceptsNull,
		nullingSymbols: nullingSymbols,
		rightRecursive: rightRecursive,
		epsilonWitness: epsilonWitness,
	}, nil
}

// copySymbolNames carries a raw grammar's diagnostic names over to its
// cooked NNF form: a proper incarnation reuses its raw symbol id
// directly, so its name transfers unchanged; a nulling incarnation gets
// a derived "<name>.ε" label; the accept symbol is named after the raw
// start symbol it wraps. Purely cosmetic (package diag, error messages);
// never consulted by recognition.
func copySymbolNames(raw, cooked *Grammar, nullingOf map[leoearley.Symbol]leoearley.Symbol, accept leoearley.Symbol) {
	raw.EachSymbolName(func(s leoearley.Symbol, name string) {
		cooked.SetSymbolName(s, name)
		if ns, ok := nullingOf[s]; ok {
			cooked.SetSymbolName(ns, name+".ε")
		}
	})
	cooked.SetSymbolName(accept, raw.SymbolName(raw.StartSymbol())+"'")
}

func recordEpsilonWitness(table map[leoearley.Symbol]epsilonWitness, nullingSym leoearley.Symbol, rawRuleID int, cookedRule RuleID, hasCooked bool) {
	if existing, ok := table[nullingSym]; ok && existing.rawRuleID <= rawRuleID {
		return // keep the smallest raw rule id as the canonical witness
	}
	table[nullingSym] = epsilonWitness{rawRuleID: rawRuleID, cookedRule: cookedRule, hasCooked: hasCooked}
}

// emitCookedRule appends a cooked rule and records the position-map entry
// mapping its RHS-start grammar position back to the raw rule's RHS
// start (§4.B). Interior positions of the cooked rule fall on the
// implied linear run from that single entry whenever the cooked and raw
// RHS lengths match, which is always true here since NNF substitutes
// symbols in place rather than deleting positions.
func emitCookedRule(cooked *Grammar, posMap *DiscreteMap, raw *Grammar, rawRule RuleID, lhs leoearley.Symbol, rhs []leoearley.Symbol) {
	cr, err := cooked.AddRule(lhs, rhs)
	if err != nil {
		panic(err) // cooked symbols are always valid by construction
	}
	posMap.Append(cooked.RHSStart(cr), raw.RHSStart(rawRule))
}

// rightmostNonNulling returns the index within rhs of its rightmost
// symbol that is not a nulling incarnation, or 0 if every symbol is (a
// cooked rule only reaches that degenerate case as a nulling-incarnation
// witness rule, never as a proper incarnation; see Preprocess's
// allForcedOrChosenNulling guard).
func rightmostNonNulling(rhs []leoearley.Symbol, nullingSymbols map[leoearley.Symbol]bool) int {
	i := len(rhs) - 1
	for i > 0 && nullingSymbols[rhs[i]] {
		i--
	}
	return i
}

// detectRightRecursion classifies every cooked rule as right recursive
// when its LHS reappears, directly or transitively, as the rule's
// rightmost non-nulling RHS symbol (§3 "Leo positions": "the rule's
// rightmost non-nulling symbol immediately precedes the dot and
// everything after is nulling") — trailing nulling-incarnation positions
// (forced substitutions for an always-nulling RHS symbol) are skipped
// rather than treated as the recursive tail, since they never derive
// anything a Leo chain could be built over.
//
// "symbol s feeds the tail of rule r" if r's tail symbol is s, or is some
// t whose own rules all eventually feed a tail ending in s. We compute
// the relation "t can end a derivation chain rooted at s" via closure
// over the tail-symbol edges, then mark a rule right recursive when its
// LHS is reachable from its own tail symbol.
func detectRightRecursion(g *Grammar, byLHS *RulesByLHS, nullingSymbols map[leoearley.Symbol]bool) map[RuleID]bool {
	// lastSymOf[r] = rightmost non-nulling RHS symbol of rule r.
	lastSymOf := make(map[RuleID]leoearley.Symbol, g.Size())
	g.EachRule(func(r RuleID) {
		rhs := g.RHS(r)
		lastSymOf[r] = rhs[rightmostNonNulling(rhs, nullingSymbols)]
	})

	// reaches[s] = set of symbols t such that some chain of "last RHS
	// symbol" edges leads from s to t (s itself included).
	reaches := map[leoearley.Symbol]map[leoearley.Symbol]bool{}
	var closure func(s leoearley.Symbol) map[leoearley.Symbol]bool
	closure = func(s leoearley.Symbol) map[leoearley.Symbol]bool {
		if r, ok := reaches[s]; ok {
			return r
		}
		visited := map[leoearley.Symbol]bool{s: true}
		reaches[s] = visited // break cycles before recursing
		queue := []leoearley.Symbol{s}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, r := range byLHS.Rules(cur) {
				t := lastSymOf[r]
				if !visited[t] {
					visited[t] = true
					queue = append(queue, t)
				}
			}
		}
		return visited
	}

	result := map[RuleID]bool{}
	g.EachRule(func(r RuleID) {
		lhs := g.LHS(r)
		last := lastSymOf[r]
		if closure(last)[lhs] {
			result[r] = true
		}
	})
	return result
}
