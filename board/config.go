package board

import (
	"fmt"
	"time"

	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/model"
	"github.com/lucasb-eyer/go-colorful"
)

// Config holds the construction options of a board. Start from DefaultConfig:
// zero numeric fields fall back to the defaults, colours are used as given.
type Config struct {
	Language model.Language
	// Board height in pixels, used by builders that size lamps.
	BoardHeight    int
	BoardBgColor   colorful.Color
	LampColorOn    colorful.Color
	LampColorOff   colorful.Color
	TickInterval   time.Duration
	ColumnsInBoard int

	// Table overrides the built-in table for Language.
	Table *glyph.Table
	// NewTicker drives animations, time.NewTicker when nil.
	NewTicker TickerFactory
	// OnError receives errors of failed ticks after the animation was stopped.
	OnError func(err error)
}

const (
	DefaultLanguage     = model.LanguageEnglish
	DefaultBoardHeight  = 100
	DefaultBoardBgColor = "#1b1b1b"
	DefaultLampColorOn  = "#ffcc00"
	DefaultLampColorOff = "#3a3a3a"
	DefaultTickInterval = 100 * time.Millisecond
	DefaultColumns      = 30
)

func DefaultConfig() Config {
	return Config{
		Language:       DefaultLanguage,
		BoardHeight:    DefaultBoardHeight,
		BoardBgColor:   mustParseColor(DefaultBoardBgColor),
		LampColorOn:    mustParseColor(DefaultLampColorOn),
		LampColorOff:   mustParseColor(DefaultLampColorOff),
		TickInterval:   DefaultTickInterval,
		ColumnsInBoard: DefaultColumns,
	}
}

// ParseColor reads a "#rrggbb" colour.
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return c, nil
}

func mustParseColor(s string) colorful.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}

	return c
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.Language == "" {
		c.Language = d.Language
	}

	if c.BoardHeight == 0 {
		c.BoardHeight = d.BoardHeight
	}

	if c.TickInterval == 0 {
		c.TickInterval = d.TickInterval
	}

	if c.ColumnsInBoard == 0 {
		c.ColumnsInBoard = d.ColumnsInBoard
	}

	if c.NewTicker == nil {
		c.NewTicker = NewTimeTicker
	}

	return c
}

// Spec is what the board builder receives on Init.
func (c Config) Spec() model.BoardSpec {
	return model.BoardSpec{
		Columns:    c.ColumnsInBoard,
		Rows:       RowCount,
		Height:     c.BoardHeight,
		Background: c.BoardBgColor,
		LampOff:    c.LampColorOff,
	}
}
