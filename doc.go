/*
Package leoearley provides shared value types and the tracing/error
plumbing used by its sibling packages (grammar, item, chart, recognizer,
forest) to implement Earley parsing with Joop Leo's right-recursion
optimization and Aycock & Horspool's nihilist normal form (NNF)
preprocessing.

The package itself holds no parsing logic. It exists so that `Symbol`,
`Span` and the error taxonomy have a single, cycle-free home that every
other package can import.

Earley's algorithm parses any context-free grammar in O(n^3) worst case
and O(n) for the LR-regular subset, producing every parse for ambiguous
input rather than failing or picking one arbitrarily. Leo's optimization
collapses the right-recursive chains that would otherwise make Earley
quadratic on "nice" (LR-regular) right-recursive grammars, restoring
linear time and space. NNF preprocessing removes empty (epsilon)
productions from the grammar ahead of time, by splitting every nullable
symbol into a "proper" and a "nulling" incarnation, so the recognizer
never has to special-case empty right-hand sides.

References:

  - Jay Earley, "An Efficient Context-Free Parsing Algorithm", 1970.
  - Joop Leo, "A general context-free parsing algorithm running in
    linear time on every LR(k) grammar without using lookahead",
    Theoretical Computer Science 82, 1991.
  - John Aycock & R. Nigel Horspool, "Practical Earley Parsing",
    The Computer Journal 45(6), 2002.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package leoearley

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// Tracer returns the package-level tracer for a given component name,
// e.g. Tracer("grammar"), Tracer("recognizer"). Components are expected
// to memoize the result in a small tracer() helper, following the
// teacher's convention of a single tracer() func per package.
func Tracer(component string) tracing.Trace {
	return gtrace.SyntaxTracer.P("component", component)
}
