package components

import "fmt"

// Lamp is one lamp as drawn on a page.
type Lamp struct {
	Index int
	Color string
}

// RenderContext is everything a board page needs.
type RenderContext struct {
	TotalCols  int
	TotalRows  int
	Lamps      []Lamp
	Background string
	LampOn     string
	LampOff    string
	Text       string
	Animating  bool
	Page       PageType
	// Language and LastSaved only matter on the authoring page.
	Language  string
	LastSaved string
}

type PageType int

const (
	PageTypeBoard PageType = iota
	PageTypeAuthoring
)

// ViewBoxSize is the SVG view box that fits every lamp.
func (c *RenderContext) ViewBoxSize() string {
	if c.TotalCols == 0 || c.TotalRows == 0 {
		return "0 0 0 0"
	}

	return fmt.Sprintf("0 0 %d %d", c.TotalCols*LampPitch, c.TotalRows*LampPitch)
}
