package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sheet-mapper/mapper"
)

type rootOptions struct {
	verbose bool
	noColor bool
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:          "sheet-mapper",
		Short:        "Map spreadsheet rows to records",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}

			if !opts.verbose {
				return nil
			}

			log, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}

			opts.log = log

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.log.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log column resolution and row errors")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newTakeCmd(opts), newCheckCmd(opts), newScaffoldCmd(opts))

	return cmd
}

// sheetFlags are shared by the commands that read a workbook.
type sheetFlags struct {
	sheet     string
	noHeader  bool
	headerRow int
	mapping   string
	typeName  string
}

func (f *sheetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "0", "Sheet name or zero-based index")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "The sheet has no header row")
	cmd.Flags().IntVar(&f.headerRow, "header-row", 0, "Zero-based header row")
	cmd.Flags().StringVar(&f.mapping, "mapping", "", "Mapping file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&f.typeName, "type", "", "Type in the mapping file to apply")
}

func (f *sheetFlags) config(log *zap.Logger) mapper.Config {
	cfg := mapper.DefaultConfig()
	cfg.HasHeader = !f.noHeader
	cfg.HeaderRow = f.headerRow
	cfg.Logger = log

	return cfg
}

// sheetIndex accepts either a sheet name or its index.
func (f *sheetFlags) sheetIndex(m *mapper.Mapper) (int, error) {
	if i, err := strconv.Atoi(f.sheet); err == nil {
		return i, nil
	}

	return m.SheetIndex(f.sheet)
}
