package timetable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dasdy/timetable/db"
	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/model"
	"github.com/spf13/cobra"
)

// glyphCmd groups commands around glyph tables.
var glyphCmd = &cobra.Command{
	Use:   "glyph",
	Short: "Draw, import and list glyphs",
}

var glyphAuthorCmd = &cobra.Command{
	Use:   "author [INDEX...]",
	Short: "Toggle lamps of the 7x7 calibration board and print the lit ones",
	Long: `Every INDEX flips one lamp of a 7 column calibration board. Without arguments
indices are read from stdin, one or more per line. The sorted lit lamps are
printed after each toggle, ready to be used as a glyph pattern.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		authoring := glyph.NewAuthoring()

		if len(args) == 0 {
			return authorFrom(cmd.InOrStdin(), cmd.OutOrStdout(), authoring)
		}

		for _, a := range args {
			if err := toggle(cmd.OutOrStdout(), authoring, a); err != nil {
				return err
			}
		}

		return printGlyph(cmd.OutOrStdout(), authoring.Glyph())
	},
}

var glyphImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Store every glyph of a YAML font in the glyph database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("could not open %s: %w", args[0], err)
		}
		defer file.Close()

		storage, err := db.ConnectDB(storagePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		count, err := db.ImportYAML(storage, file, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d glyphs\n", count)

		return err
	},
}

var glyphListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every glyph of a language, hand-drawn ones included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := loadTable(model.Language(language))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		for _, r := range table.Runes() {
			g, _ := table.Lookup(r)

			if _, err := fmt.Fprintf(out, "%q width %d\n", r, g.Width); err != nil {
				return err
			}

			if err := printGlyph(out, g); err != nil {
				return err
			}
		}

		return nil
	},
}

var glyphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print hand-drawn glyphs of a language as a YAML font",
	Long: `Prints every glyph stored in the glyph database for --language in the same
YAML format that "glyph import" reads, so drawings can be moved between
databases or turned into a font file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		storage, err := db.ConnectDB(storagePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		return exportGlyphs(storage, model.Language(language), cmd.OutOrStdout())
	},
}

func exportGlyphs(storage db.Storage, lang model.Language, out io.Writer) error {
	stored, err := storage.AllIterator()
	if err != nil {
		return fmt.Errorf("could not read glyphs: %w", err)
	}

	glyphs := make(map[rune]model.Glyph)

	for item := range stored {
		if item.Language == lang {
			glyphs[item.Rune] = item.Glyph
		}
	}

	if len(glyphs) == 0 {
		return fmt.Errorf("no hand-drawn glyphs for language %q", lang)
	}

	return glyph.Save(out, lang, glyphs)
}

func authorFrom(in io.Reader, out io.Writer, authoring *glyph.Authoring) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		for _, field := range strings.Fields(scanner.Text()) {
			if err := toggle(out, authoring, field); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	return printGlyph(out, authoring.Glyph())
}

func toggle(out io.Writer, authoring *glyph.Authoring, value string) error {
	index, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("bad lamp index %q: %w", value, err)
	}

	lit, err := authoring.Toggle(index)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, lit)

	return err
}

func printGlyph(out io.Writer, g model.Glyph) error {
	for _, row := range glyph.Art(g) {
		if _, err := fmt.Fprintln(out, row); err != nil {
			return err
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(glyphCmd)
	glyphCmd.AddCommand(glyphAuthorCmd, glyphImportCmd, glyphListCmd, glyphExportCmd)

	addStorageFlag(glyphImportCmd)

	addStorageFlag(glyphListCmd)
	glyphListCmd.Flags().StringVarP(&language, "language", "l", "eng", "Glyph table: eng or ua")

	addStorageFlag(glyphExportCmd)
	glyphExportCmd.Flags().StringVarP(&language, "language", "l", "eng", "Language of the glyphs to export")
}
