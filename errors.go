package leoearley

import "fmt"

// Error kinds surfaced at the system boundary (§6 "Error kinds", §7).
// Programmer errors (violated preconditions) are not part of this
// taxonomy; they panic instead, following the teacher's stuck()/panic
// idiom in lr/earley/parsetree.go.

// InvalidSymbolError is returned when a symbol is negative or does not
// fit the bit budget reserved by the item encoding.
type InvalidSymbolError struct {
	Symbol Symbol
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol %s: must be in [0, %d]", e.Symbol, MaxSymbol)
}

// UnrecognizedError is returned when FinishEarleme could not carry the
// current earleme forward: the input up to and including this earleme
// cannot be derived from the grammar.
type UnrecognizedError struct {
	AtEarleme Earleme
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("input unrecognized at earleme %d", e.AtEarleme)
}

// PartialParseError describes recognition that finished without a
// syntax error, but with no completion of the start symbol spanning the
// whole input. No function of this module returns it; the recognizer's
// HasCompleteParse reports that case as false.
type PartialParseError struct {
	ConsumedEarlemes Earleme
}

func (e *PartialParseError) Error() string {
	return fmt.Sprintf("no complete parse after %d earlemes (partial parse only)", e.ConsumedEarlemes)
}
