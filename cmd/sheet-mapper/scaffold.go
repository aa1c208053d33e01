package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sheet-mapper/internal/analyze"
	"sheet-mapper/internal/mapping"
)

type scaffoldOptions struct {
	pkg      string
	typeName string
	out      string
	format   string
}

func newScaffoldCmd(root *rootOptions) *cobra.Command {
	var opts scaffoldOptions

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Write a mapping file skeleton for a struct",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, root, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.pkg, "pkg", ".", "Package pattern holding the struct")
	cmd.Flags().StringVar(&opts.typeName, "type", "", "Struct type name (required)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file; the extension picks the format (default: YAML to stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "yaml", "Format for stdout: yaml or toml")

	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runScaffold(cmd *cobra.Command, root *rootOptions, opts *scaffoldOptions) error {
	root.log.Debug("loading struct", zap.String("pkg", opts.pkg), zap.String("type", opts.typeName))

	info, err := analyze.LoadStruct(opts.pkg, opts.typeName)
	if err != nil {
		return err
	}

	tm, err := mapping.Scaffold(info)
	if err != nil {
		return err
	}

	mf := mapping.NewFile(tm)

	if opts.out != "" {
		if err := mapping.WriteFile(mf, opts.out); err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.out)

		return nil
	}

	data, err := mapping.Marshal(mf, mapping.Format(opts.format))
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}
