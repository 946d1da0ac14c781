package leoearley

import "fmt"

// Symbol is a grammar symbol identifier. Negative values are reserved by
// the grammar store to mark the LHS slot of a rule (§3 "Symbol"); valid
// symbol ids handed to AddRule must be non-negative and fit the bit
// budget reserved by the item encoding (14 bits, see package item).
type Symbol int32

// MaxSymbol is the largest symbol id that fits the item encoding's
// symbol field (14 bits, §4.D).
const MaxSymbol Symbol = 1<<14 - 1

// Valid reports whether s is usable as a grammar symbol: non-negative
// and within the bit budget reserved by the item encoding.
func (s Symbol) Valid() bool {
	return s >= 0 && s <= MaxSymbol
}

func (s Symbol) String() string {
	return fmt.Sprintf("#%d", int32(s))
}

// Earleme is a nonnegative index into the token stream. Earleme 0 is the
// position before the first token; tokens are discovered between
// earlemes (§3 "Earleme").
type Earleme uint32

// Span denotes an interval [From, To) of earlemes covered by a symbol or
// a derivation, mirroring the teacher's gorgo.Span.
type Span [2]Earleme

// From returns the start of the span.
func (s Span) From() Earleme { return s[0] }

// To returns the earleme just behind the end of the span.
func (s Span) To() Earleme { return s[1] }

// Len returns the number of earlemes covered.
func (s Span) Len() Earleme { return s[1] - s[0] }

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
