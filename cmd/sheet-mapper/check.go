package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"sheet-mapper/mapper"
	"sheet-mapper/sheet"
)

var errWarnings = errors.New("mapping has warnings")

const checkLong = `Check resolves the columns of a sheet against its header, optionally
through one type of a mapping file, and reports the columns that could
not be bound.`

type checkOptions struct {
	sheetFlags

	strict bool
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Show how the columns of a sheet resolve",
		Long:  checkLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, &opts, args[0])
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when the resolution has warnings")

	return cmd
}

func runCheck(cmd *cobra.Command, root *rootOptions, opts *checkOptions, path string) error {
	book, err := sheet.OpenExcel(path)
	if err != nil {
		return err
	}
	defer book.Close()

	m := mapper.New(book, opts.config(root.log))

	if err := opts.applyMapping(m); err != nil {
		return err
	}

	index, err := opts.sheetIndex(m)
	if err != nil {
		return err
	}

	res, err := mapper.Resolve[map[string]any](m, index)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "sheet %q\n\n", res.Sheet)

	rows := make([][]string, 0, len(res.Columns))
	for _, c := range res.Columns {
		rows = append(rows, []string{c.Letter, c.Header, c.Key, c.Source, c.Match, c.Format})
	}

	writeTable(w, []string{"COLUMN", "HEADER", "KEY", "SOURCE", "MATCH", "FORMAT"}, rows)

	warnings := res.Warnings()
	warn := color.New(color.FgYellow)

	for _, msg := range warnings {
		warn.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}

	if opts.strict && len(warnings) > 0 {
		return fmt.Errorf("%w: %d", errWarnings, len(warnings))
	}

	return nil
}

// writeTable prints left-aligned columns padded by display width, so wide
// header text keeps the columns straight.
func writeTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))

	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string) {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			padded[i] = runewidth.FillRight(cell, widths[i])
		}

		fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, "  "), " "))
	}

	line(header)

	for _, row := range rows {
		line(row)
	}
}
