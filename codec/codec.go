/*
Package codec serializes a compiled grammar to and from a compact binary
form using github.com/dekarrin/rezi, the same REZI binary codec the
teacher's retrieval-pack sibling project uses for persisting structured
game state (dekarrin/tunaq's server/dao/sqlite layer). Storing a
grammar this way lets a long-lived service build it once and ship it to
worker processes instead of re-running whatever built it in every one of
them. Only a grammar.Grammar is encoded; the side tables of a
grammar.Preprocessed are not, so a worker still runs grammar.Preprocess
on the decoded grammar.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package codec

import (
	"fmt"

	"github.com/dekarrin/rezi"

	"github.com/npillmayer/leoearley"
	"github.com/npillmayer/leoearley/grammar"
)

// grammarDTO is the REZI wire shape for a Grammar: plain exported fields
// with int32 map keys, since Grammar itself keeps its arena fields
// unexported.
type grammarDTO struct {
	Name        string
	Start       int32
	RuleStore   []int32
	RuleStart   []int32
	SymbolNames map[int32]string
}

// MarshalGrammar encodes a grammar's raw representation as REZI binary.
// Typically called once, on the raw (pre-NNF) grammar, right after it is
// built, so that the preprocessor can be re-run against a shipped
// grammar without re-parsing whatever built it in the first place.
func MarshalGrammar(g *grammar.Grammar) []byte {
	name, start, ruleStore, ruleStart, names := g.Export()
	dto := grammarDTO{
		Name:        name,
		Start:       int32(start),
		RuleStore:   ruleStore,
		RuleStart:   ruleStart,
		SymbolNames: toInt32Keys(names),
	}
	return rezi.EncBinary(dto)
}

// UnmarshalGrammar decodes a grammar previously produced by
// MarshalGrammar.
func UnmarshalGrammar(data []byte) (*grammar.Grammar, error) {
	var dto grammarDTO
	n, err := rezi.DecBinary(data, &dto)
	if err != nil {
		return nil, fmt.Errorf("codec: REZI decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("codec: decoded %d/%d bytes, trailing garbage", n, len(data))
	}
	return grammar.Import(
		dto.Name,
		leoearley.Symbol(dto.Start),
		dto.RuleStore,
		dto.RuleStart,
		fromInt32Keys(dto.SymbolNames),
	), nil
}

func toInt32Keys(m map[leoearley.Symbol]string) map[int32]string {
	out := make(map[int32]string, len(m))
	for k, v := range m {
		out[int32(k)] = v
	}
	return out
}

func fromInt32Keys(m map[int32]string) map[leoearley.Symbol]string {
	out := make(map[leoearley.Symbol]string, len(m))
	for k, v := range m {
		out[leoearley.Symbol(k)] = v
	}
	return out
}
