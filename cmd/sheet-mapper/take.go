package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sheet-mapper/mapper"
	"sheet-mapper/sheet"
)

type takeOptions struct {
	sheetFlags

	format string
	limit  int
}

// takenRow is the printed form of one row. Row is the one-based row number
// shown by spreadsheet applications.
type takenRow struct {
	Row    int            `json:"row"              yaml:"row"`
	Values map[string]any `json:"values"           yaml:"values"`
	Errors []string       `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newTakeCmd(root *rootOptions) *cobra.Command {
	var opts takeOptions

	cmd := &cobra.Command{
		Use:   "take FILE",
		Short: "Print the rows of a sheet as records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTake(cmd, root, &opts, args[0])
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Stop after this many rows (0 prints all)")

	return cmd
}

func runTake(cmd *cobra.Command, root *rootOptions, opts *takeOptions, path string) error {
	if opts.format != "yaml" && opts.format != "json" {
		return fmt.Errorf("unknown output format %q", opts.format)
	}

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

	rows, err := mapper.Take[map[string]any](m, index)
	if err != nil {
		return err
	}

	var (
		out    []takenRow
		failed int
	)

	warn := color.New(color.FgRed)

	for r := range rows {
		row := takenRow{Row: r.RowNumber + 1, Values: r.Value}

		for _, e := range r.Errors {
			row.Errors = append(row.Errors, e.Error())
			warn.Fprintf(cmd.ErrOrStderr(), "row %d: %s\n", row.Row, e.Error())
		}

		if r.HasError() {
			failed++
		}

		out = append(out, row)

		if opts.limit > 0 && len(out) == opts.limit {
			break
		}
	}

	if err := writeRows(cmd.OutOrStdout(), opts.format, out); err != nil {
		return err
	}

	summary := color.New(color.FgGreen)
	if failed > 0 {
		summary = color.New(color.FgYellow)
	}

	summary.Fprintf(cmd.ErrOrStderr(), "%s rows, %s with errors\n",
		humanize.Comma(int64(len(out))), humanize.Comma(int64(failed)))

	return nil
}

func writeRows(w io.Writer, format string, rows []takenRow) error {
	if rows == nil {
		rows = []takenRow{}
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(rows)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(rows); err != nil {
		return err
	}

	return enc.Close()
}
