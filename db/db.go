package db

import (
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dasdy/timetable/logging"
	"github.com/dasdy/timetable/model"

	_ "github.com/mattn/go-sqlite3"
)

var logCtx = logging.PackageCtx("db")

type SQLiteStorage struct {
	db *sql.DB
}

func NewStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db}
}

func InitDbStorage(db *sql.DB) error {
	sqlStmt := `
	create table if not exists glyphs(language text, rune int, width int, lamps text, ts datetime);`

	_, err := db.Exec(sqlStmt)
	if err != nil {
		slog.ErrorContext(logCtx, "Could not create table", "statement", sqlStmt, "error", err)

		return err
	}

	sqlStmt = `create unique index if not exists glyphs_language_rune on glyphs (language, rune);`

	_, err = db.Exec(sqlStmt)
	if err != nil {
		slog.ErrorContext(logCtx, "Could not create index", "statement", sqlStmt, "error", err)

		return err
	}

	return nil
}

func ConnectDB(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	// every connection to ":memory:" gets its own database
	db.SetMaxOpenConns(1)

	err = InitDbStorage(db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return NewStorage(db), nil
}

// Store saves a glyph, replacing an earlier one for the same character.
func (s *SQLiteStorage) Store(glyph model.StoredGlyph) error {
	_, err := s.db.Exec(`insert into glyphs(language, rune, width, lamps, ts)
	    values(?, ?, ?, ?, datetime('now', 'subsec'))
	    on conflict(language, rune) do update
	    set width = excluded.width, lamps = excluded.lamps, ts = excluded.ts`,
		string(glyph.Language), int(glyph.Rune), glyph.Glyph.Width, encodeLamps(glyph.Glyph.Lamps))
	if err != nil {
		return fmt.Errorf("could not store glyph %q: %w", glyph.Rune, err)
	}

	return nil
}

func (s *SQLiteStorage) GatherAll(language model.Language) (map[rune]model.Glyph, error) {
	rows, err := s.db.Query(
		`select language, rune, width, lamps
        from glyphs
        where language = ?`, string(language))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	result := make(map[rune]model.Glyph)

	for rows.Next() {
		item, err := scanGlyph(rows)
		if err != nil {
			return nil, err
		}

		result[item.Rune] = item.Glyph
	}

	return result, rows.Err()
}

// AllIterator walks every stored glyph ordered by language and character.
func (s *SQLiteStorage) AllIterator() (iter.Seq[model.StoredGlyph], error) {
	rows, err := s.db.Query(
		`select language, rune, width, lamps
        from glyphs
        order by language, rune`)
	if err != nil {
		return nil, err
	}

	return func(yield func(model.StoredGlyph) bool) {
		defer rows.Close()

		for rows.Next() {
			item, err := scanGlyph(rows)
			if err != nil {
				slog.ErrorContext(logCtx, "Could not read glyph", "error", err)

				return
			}

			if !yield(item) {
				return
			}
		}
	}, nil
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		slog.ErrorContext(logCtx, "Could not close storage", "error", err)
	}
}

func scanGlyph(rows *sql.Rows) (model.StoredGlyph, error) {
	var (
		language    string
		r, width    int
		lampsColumn string
	)

	if err := rows.Scan(&language, &r, &width, &lampsColumn); err != nil {
		return model.StoredGlyph{}, err
	}

	lamps, err := decodeLamps(lampsColumn)
	if err != nil {
		return model.StoredGlyph{}, fmt.Errorf("glyph %q: %w", rune(r), err)
	}

	return model.StoredGlyph{
		Language: model.Language(language),
		Rune:     rune(r),
		Glyph:    model.Glyph{Width: width, Lamps: lamps},
	}, nil
}

// Lamps are kept as a space separated list of offsets.
func encodeLamps(lamps []int) string {
	parts := make([]string, len(lamps))
	for i, l := range lamps {
		parts[i] = strconv.Itoa(l)
	}

	return strings.Join(parts, " ")
}

func decodeLamps(s string) ([]int, error) {
	fields := strings.Fields(s)
	result := make([]int, len(fields))

	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad lamp offset %q: %w", f, err)
		}

		result[i] = v
	}

	return result, nil
}
