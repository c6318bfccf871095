package main

import (
	"fmt"
	"io"
	"os"

	"fdrtidy/adapters/memory"
	"fdrtidy/adapters/render"
	"fdrtidy/adapters/tidy"
	"fdrtidy/app"
	"fdrtidy/domain/table"
	"fdrtidy/internal"
	"fdrtidy/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli carries state shared by all subcommands
type cli struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *internal.Logger
	out    string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "fdrtidy",
		Short: "Tabulate q-value results as sweep, record and summary tables",
		Long: `fdrtidy turns the result of a q-value analysis into three tables:

  tidy     one row per lambda and estimate (raw and, when present, smoothed pi0)
  augment  one row per tested record with p.value, q.value and lfdr
  glance   one row with pi0 and the lambda it was chosen at

Results are JSON documents with pvalues, qvalues, lfdr, lambda, pi0_lambda,
pi0_smooth and pi0 fields. Settings come from flags, then the environment
(TIDY_FLAVOR, TIDY_FORMAT, TIDY_STRICT_ROWS, ...), then defaults.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(c.v)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = internal.NewLoggerFromConfig(cfg.Log)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("flavor", "", "table flavor: plain, rows or columnar")
	flags.String("format", "", "output format: csv, json, markdown, html or xlsx")
	flags.Bool("strict", false, "reject auxiliary data whose row count differs from the records")
	flags.StringVarP(&c.out, "out", "o", "", "write output to this file instead of stdout")
	_ = c.v.BindPFlag("TIDY_FLAVOR", flags.Lookup("flavor"))
	_ = c.v.BindPFlag("TIDY_FORMAT", flags.Lookup("format"))
	_ = c.v.BindPFlag("TIDY_STRICT_ROWS", flags.Lookup("strict"))

	root.AddCommand(
		newTidyCmd(c),
		newAugmentCmd(c),
		newGlanceCmd(c),
		newReportCmd(c),
		newExportCmd(c),
		newDemoCmd(c),
		newServeCmd(c),
		newMigrateCmd(c),
	)

	return root
}

// service builds a tabulation service over a fresh in-memory store
func (c *cli) service() (*app.TabulationService, *memory.ResultRepository) {
	repo := memory.NewResultRepository()
	return app.NewTabulationService(repo, tidy.NewQValueTabulator(), c.logger, app.ServiceConfig{
		Flavor:      c.cfg.Output.Flavor,
		StrictRows:  c.cfg.Output.StrictRows,
		Concurrency: c.cfg.Export.Concurrency,
	}), repo
}

// output opens --out, or wraps the command's stdout
func (c *cli) output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if c.out == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(c.out)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// write renders t in the configured format to the command output
func (c *cli) write(cmd *cobra.Command, t table.Table) error {
	w, closeFn, err := c.output(cmd)
	if err != nil {
		return err
	}
	if err := render.Render(w, t, c.cfg.Output.Format); err != nil {
		closeFn()
		return fmt.Errorf("failed to render table: %w", err)
	}
	return closeFn()
}
