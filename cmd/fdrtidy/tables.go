package main

import (
	"fmt"

	"fdrtidy/adapters/codec"
	"fdrtidy/adapters/excel"
	"fdrtidy/domain/fdr"
	"fdrtidy/ports"

	"github.com/spf13/cobra"
)

func newTidyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tidy <result.json>",
		Short: "Print the lambda sweep table",
		Long: `Print one row per lambda with the raw pi0 estimate, followed by one row per
lambda with the smoothed estimate when the result has one.

Use "-" to read the result from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.tabulateFile(cmd, args[0], ports.KindSweep, ports.RecordOptions{})
		},
	}
}

func newAugmentCmd(c *cli) *cobra.Command {
	var (
		auxPath string
		sheet   string
		extras  []string
	)

	cmd := &cobra.Command{
		Use:   "augment <result.json>",
		Short: "Print the per-record table",
		Long: `Print one row per tested record with p.value, q.value and lfdr.

Columns of an auxiliary CSV or XLSX file are placed first and win name
collisions. Each --extra name=value adds a constant column after the computed
ones.

Example: fdrtidy augment result.json --aux genes.csv --extra batch=3 --format md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			readerConfig := excel.DefaultReaderConfig()
			readerConfig.Sheet = sheet

			var opts ports.RecordOptions
			if auxPath != "" {
				aux, err := excel.NewDataReader(auxPath, readerConfig).ReadFrame()
				if err != nil {
					return fmt.Errorf("failed to read auxiliary table: %w", err)
				}
				opts.Aux = aux
			}
			for _, assignment := range extras {
				col, err := excel.ParseAssignment(assignment, readerConfig)
				if err != nil {
					return fmt.Errorf("invalid --extra: %w", err)
				}
				opts.Extra = append(opts.Extra, col)
			}

			return c.tabulateFile(cmd, args[0], ports.KindRecords, opts)
		},
	}

	cmd.Flags().StringVar(&auxPath, "aux", "", "auxiliary CSV or XLSX table, one row per record")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet of the auxiliary workbook (default: first)")
	cmd.Flags().StringArrayVar(&extras, "extra", nil, "extra column as name=value (repeatable)")

	return cmd
}

func newGlanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "glance <result.json>",
		Short: "Print the one-row summary table",
		Long: `Print pi0 and the lambda it was chosen at. The lambda is NA when pi0 does not
appear in the smoothed (or, without smoothing, the raw) estimates, which is
the case when pi0 was capped at 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.tabulateFile(cmd, args[0], ports.KindSummary, ports.RecordOptions{})
		},
	}
}

func (c *cli) tabulateFile(cmd *cobra.Command, path string, kind ports.TableKind, opts ports.RecordOptions) error {
	res, err := c.readResult(cmd, path)
	if err != nil {
		return err
	}

	svc, _ := c.service()
	t, err := svc.TabulateResult(res, kind, opts, "")
	if err != nil {
		return err
	}
	return c.write(cmd, t)
}

func (c *cli) readResult(cmd *cobra.Command, path string) (*fdr.Result, error) {
	var (
		res *fdr.Result
		err error
	)
	if path == "-" {
		res, err = codec.DecodeResult(cmd.InOrStdin())
	} else {
		res, err = codec.ReadResultFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, issue := range res.Check() {
		c.logger.Warn("[CLI] %s: %s", path, issue)
	}
	return res, nil
}
