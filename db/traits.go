package db

import (
	"iter"

	"github.com/dasdy/timetable/model"
)

// Storage keeps glyphs drawn by hand, per language.
type Storage interface {
	Store(glyph model.StoredGlyph) error
	GatherAll(language model.Language) (map[rune]model.Glyph, error)
	AllIterator() (iter.Seq[model.StoredGlyph], error)
	Close()
}
