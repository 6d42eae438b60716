// Package glyph turns text into lamp positions on a timetable board.
package glyph

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dasdy/timetable/logging"
	"github.com/dasdy/timetable/model"
	"gopkg.in/yaml.v3"
)

// Rows is the number of lamps in one board column.
const Rows = 7

// Characters are separated by one dark column.
const gap = 1

var ErrUnknownLanguage = errors.New("unknown language")

//go:embed fonts/*.yaml
var fonts embed.FS

var logCtx = logging.PackageCtx("glyph")

type Table struct {
	language model.Language
	glyphs   map[rune]model.Glyph
}

func New(language model.Language, glyphs map[rune]model.Glyph) *Table {
	cloned := make(map[rune]model.Glyph, len(glyphs))
	maps.Copy(cloned, glyphs)

	return &Table{language: language, glyphs: cloned}
}

func (t *Table) Language() model.Language {
	return t.language
}

// Lookup finds the glyph for r, falling back to its upper-case form.
func (t *Table) Lookup(r rune) (model.Glyph, bool) {
	if g, ok := t.glyphs[r]; ok {
		return g, true
	}

	g, ok := t.glyphs[unicode.ToUpper(r)]

	return g, ok
}

// Runes lists the characters the table can draw, sorted.
func (t *Table) Runes() []rune {
	return slices.Sorted(maps.Keys(t.glyphs))
}

// Merge returns a copy of the table with custom glyphs replacing built-in ones.
func (t *Table) Merge(custom map[rune]model.Glyph) *Table {
	merged := New(t.language, t.glyphs)
	for r, g := range custom {
		merged.glyphs[r] = g
	}

	return merged
}

// Convert lays text out left to right starting at column 0. Characters
// missing from the table are skipped: they take one dark column and light
// nothing.
func (t *Table) Convert(text string) model.Coordinates {
	result := make(model.Coordinates, 0, len(text)*Rows)
	column := 0

	for _, r := range text {
		g, ok := t.Lookup(r)
		if !ok {
			slog.DebugContext(logCtx, "Skipping unknown character", "rune", string(r), "language", t.language)

			column += gap

			continue
		}

		for _, offset := range g.Lamps {
			result = append(result, model.Position(column*Rows+offset))
		}

		column += g.Width + gap
	}

	return result
}

// Columns is the number of board columns Convert uses for text.
func (t *Table) Columns(text string) int {
	columns := 0

	for _, r := range text {
		g, _ := t.Lookup(r)
		columns += g.Width + gap
	}

	return columns
}

// ColumnsByText is the board width needed to fit text in the given language.
func ColumnsByText(text string, language model.Language) (int, error) {
	table, err := Builtin(language)
	if err != nil {
		return 0, err
	}

	return table.Columns(text), nil
}

// ColumnsFullWidth is how many columns fit into width pixels when the board is
// height pixels tall. Lamps are square, so a lamp is height/Rows wide.
func ColumnsFullWidth(height, width int) int {
	if height <= 0 || width <= 0 {
		return 0
	}

	return width * Rows / height
}

// ParseArt reads a glyph drawn as Rows strings of equal width, where '#' or
// '@' is a lit lamp and anything else is dark.
func ParseArt(rows []string) (model.Glyph, error) {
	if len(rows) != Rows {
		return model.Glyph{}, fmt.Errorf("expected %d rows, got %d", Rows, len(rows))
	}

	width := utf8.RuneCountInString(rows[0])
	for i, row := range rows {
		if n := utf8.RuneCountInString(row); n != width {
			return model.Glyph{}, fmt.Errorf("row %d is %d wide, expected %d", i, n, width)
		}
	}

	grid := make([][]rune, Rows)
	for i, row := range rows {
		grid[i] = []rune(row)
	}

	g := model.Glyph{Width: width, Lamps: make([]int, 0)}

	for col := range width {
		for row := range Rows {
			if c := grid[row][col]; c == '#' || c == '@' {
				g.Lamps = append(g.Lamps, col*Rows+row)
			}
		}
	}

	return g, nil
}

// Art draws a glyph back as rows of '#' and '.'.
func Art(g model.Glyph) []string {
	grid := make([][]byte, Rows)
	for row := range grid {
		grid[row] = []byte(strings.Repeat(".", g.Width))
	}

	for _, offset := range g.Lamps {
		col, row := offset/Rows, offset%Rows
		if col < g.Width {
			grid[row][col] = '#'
		}
	}

	result := make([]string, Rows)
	for i, row := range grid {
		result[i] = string(row)
	}

	return result
}

type fontFile struct {
	Language string              `yaml:"language"`
	Extends  string              `yaml:"extends,omitempty"`
	Aliases  map[string]string   `yaml:"aliases,omitempty"`
	Glyphs   map[string][]string `yaml:"glyphs"`
}

// Builtin returns one of the embedded tables.
func Builtin(language model.Language) (*Table, error) {
	file, err := fonts.Open("fonts/" + string(language) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	defer file.Close()

	return Load(file)
}

// Load parses a YAML font. A font may extend a built-in table and alias
// characters to glyphs it already has.
func Load(reader io.Reader) (*Table, error) {
	var font fontFile

	if err := yaml.NewDecoder(reader).Decode(&font); err != nil {
		return nil, fmt.Errorf("could not decode font: %w", err)
	}

	glyphs := make(map[rune]model.Glyph)

	if font.Extends != "" {
		base, err := Builtin(model.Language(font.Extends))
		if err != nil {
			return nil, fmt.Errorf("could not load base font: %w", err)
		}

		maps.Copy(glyphs, base.glyphs)
	}

	for key, rows := range font.Glyphs {
		r, err := singleRune(key)
		if err != nil {
			return nil, err
		}

		g, err := ParseArt(rows)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", key, err)
		}

		glyphs[r] = g
	}

	for alias, target := range font.Aliases {
		r, err := singleRune(alias)
		if err != nil {
			return nil, err
		}

		t, err := singleRune(target)
		if err != nil {
			return nil, err
		}

		g, ok := glyphs[t]
		if !ok {
			return nil, fmt.Errorf("alias %q points to missing glyph %q", alias, target)
		}

		glyphs[r] = g
	}

	return &Table{language: model.Language(font.Language), glyphs: glyphs}, nil
}

// Save writes glyphs as a YAML font that Load reads back.
func Save(w io.Writer, language model.Language, glyphs map[rune]model.Glyph) error {
	font := fontFile{Language: string(language), Glyphs: make(map[string][]string, len(glyphs))}
	for r, g := range glyphs {
		font.Glyphs[string(r)] = Art(g)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(font); err != nil {
		return fmt.Errorf("could not encode font: %w", err)
	}

	return encoder.Close()
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("glyph key %q must be a single character", s)
	}

	r, _ := utf8.DecodeRuneInString(s)

	return r, nil
}
