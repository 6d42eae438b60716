package model

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Position is an index into lamp space. It may be negative or past the end of
// the board while text is scrolling.
type Position int

// Language selects a glyph table.
type Language string

const (
	LanguageEnglish   Language = "eng"
	LanguageUkrainian Language = "ua"
)

// Coordinates are the lit positions of the rendered text, in converter order.
type Coordinates []Position

func (c Coordinates) Min() (Position, bool) {
	if len(c) == 0 {
		return 0, false
	}

	return slices.Min(c), true
}

func (c Coordinates) Max() (Position, bool) {
	if len(c) == 0 {
		return 0, false
	}

	return slices.Max(c), true
}

// Shift returns a copy with delta added to every position.
func (c Coordinates) Shift(delta int) Coordinates {
	result := make(Coordinates, len(c))
	for i, p := range c {
		result[i] = p + Position(delta)
	}

	return result
}

func (c Coordinates) Clone() Coordinates {
	return slices.Clone(c)
}

// Glyph is a lamp pattern for one character. Lamps are column-major offsets
// (col*rows + row) inside a cell Width columns wide.
type Glyph struct {
	Width int
	Lamps []int
}

// BoardSpec is what a board builder needs to lay out lamps.
type BoardSpec struct {
	Columns    int
	Rows       int
	Height     int
	Background colorful.Color
	LampOff    colorful.Color
}

func (s BoardSpec) Lamps() int {
	return s.Columns * s.Rows
}

// LampChange is one lamp switching colour.
type LampChange struct {
	Index int    `json:"index"`
	Color string `json:"color"`
}

// StoredGlyph is a hand-authored glyph as kept in storage.
type StoredGlyph struct {
	Language Language
	Rune     rune
	Glyph    Glyph
}
