package glyph

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/dasdy/timetable/model"
)

// AuthoringColumns is the width of the calibration board used to draw new glyphs.
const AuthoringColumns = 7

// Authoring collects lamps clicked on a calibration board. The sorted indices
// are what goes into a font as a glyph pattern.
type Authoring struct {
	lit []int
}

func NewAuthoring() *Authoring {
	return &Authoring{lit: make([]int, 0)}
}

func (a *Authoring) Lamps() int {
	return AuthoringColumns * Rows
}

// Toggle flips one lamp and returns the sorted set of lit lamps.
func (a *Authoring) Toggle(index int) ([]int, error) {
	if index < 0 || index >= a.Lamps() {
		return nil, fmt.Errorf("lamp %d is outside the calibration board (0..%d)", index, a.Lamps()-1)
	}

	if i, found := slices.BinarySearch(a.lit, index); found {
		a.lit = slices.Delete(a.lit, i, i+1)
	} else {
		a.lit = slices.Insert(a.lit, i, index)
	}

	slog.InfoContext(logCtx, "Calibration lamps", "lit", a.lit)

	return a.Lit(), nil
}

func (a *Authoring) Lit() []int {
	return slices.Clone(a.lit)
}

func (a *Authoring) Reset() {
	a.lit = a.lit[:0]
}

// Glyph is the drawn pattern, narrowed to the rightmost lit column.
func (a *Authoring) Glyph() model.Glyph {
	width := 0
	if len(a.lit) > 0 {
		width = a.lit[len(a.lit)-1]/Rows + 1
	}

	return model.Glyph{Width: width, Lamps: a.Lit()}
}
