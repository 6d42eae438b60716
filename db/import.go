package db

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/model"
	"github.com/schollz/progressbar/v3"
)

// ImportYAML loads a YAML font and stores every glyph in it under the font's
// language. It returns how many glyphs were stored.
func ImportYAML(storage Storage, reader io.Reader, progress io.Writer) (int, error) {
	table, err := glyph.Load(reader)
	if err != nil {
		return 0, err
	}

	if table.Language() == "" {
		return 0, fmt.Errorf("%w: font has no language", glyph.ErrUnknownLanguage)
	}

	runes := table.Runes()
	bar := progressbar.NewOptions(len(runes),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Importing glyphs..."),
	)

	for _, r := range runes {
		g, _ := table.Lookup(r)

		err := storage.Store(model.StoredGlyph{Language: table.Language(), Rune: r, Glyph: g})
		if err != nil {
			return 0, err
		}

		err = bar.Add(1)
		if err != nil {
			slog.ErrorContext(logCtx, "could not update progress bar", "error", err)
		}
	}

	err = bar.Finish()
	if err != nil {
		slog.ErrorContext(logCtx, "could not finish progress bar", "error", err)
	}

	slog.InfoContext(logCtx, "Imported glyphs", "language", table.Language(), "count", len(runes))

	return len(runes), nil
}
