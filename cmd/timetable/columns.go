package timetable

import (
	"fmt"

	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/model"
	"github.com/spf13/cobra"
)

var (
	pixelHeight int
	pixelWidth  int
)

// columnsCmd groups the board sizing helpers.
var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Work out how many lamp columns a board needs",
}

var columnsByTextCmd = &cobra.Command{
	Use:   "by-text TEXT",
	Short: "Columns needed to show TEXT without scrolling",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		columns, err := glyph.ColumnsByText(args[0], model.Language(language))
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), columns)

		return err
	},
}

var columnsFullWidthCmd = &cobra.Command{
	Use:   "full-width",
	Short: "Columns that fit a board of the given size in pixels with square lamps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), glyph.ColumnsFullWidth(pixelHeight, pixelWidth))

		return err
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.AddCommand(columnsByTextCmd, columnsFullWidthCmd)

	columnsByTextCmd.Flags().StringVarP(&language, "language", "l", "eng", "Glyph table: eng or ua")

	columnsFullWidthCmd.Flags().IntVar(&pixelHeight, "height", 100, "Board height in pixels")
	columnsFullWidthCmd.Flags().IntVar(&pixelWidth, "width", 0, "Board width in pixels")
	_ = columnsFullWidthCmd.MarkFlagRequired("width")
}
