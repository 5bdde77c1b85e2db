// Package query implements the LiQuers query grammar: parsing, encoding,
// and the Key/Query/Plan-adjacent value types that make up a textual
// pipeline description.
package query

import "fmt"

// Position marks where a syntactic element came from in its source text.
// Line == 0 means the line/column are unknown; only Offset is meaningful
// in that case.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NoPosition is the zero Position: unknown location.
var NoPosition = Position{}

// Known reports whether the position carries line/column information.
func (p Position) Known() bool {
	return p.Line != 0
}

func (p Position) String() string {
	if !p.Known() {
		return fmt.Sprintf("<offset %d>", p.Offset)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
