package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fdrtidy/internal/container"
	apperrors "fdrtidy/internal/errors"
	"fdrtidy/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and HTML report pages",
		Long: `Serve the JSON API under /api and HTML reports under /reports on PORT.
Results are stored in PostgreSQL when DATABASE_URL is set, in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := container.New(c.cfg, c.logger)
			if err != nil {
				return err
			}
			if err := app.Init(ctx); err != nil {
				return err
			}
			defer app.Shutdown(context.Background())

			return app.Serve(ctx)
		},
	}

	cmd.Flags().String("port", "", "port to listen on (default from PORT)")
	_ = c.v.BindPFlag("PORT", cmd.Flags().Lookup("port"))

	return cmd
}

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the result tables in the database named by DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.UsesDatabase() {
				return apperrors.ConfigInvalid("DATABASE_URL is required")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			db, err := sqlx.ConnectContext(ctx, "postgres", c.cfg.Database.URL)
			if err != nil {
				return apperrors.DatabaseError("failed to connect to database", err)
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(ctx, db); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s applied\n", runner.Version())
			return nil
		},
	}
}
