package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fdrtidy/adapters/render"
	"fdrtidy/domain/core"
	"fdrtidy/ports"

	"github.com/spf13/cobra"
)

func newReportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "report <result.json>",
		Short: "Print summary, sweep and record tables as one Markdown or HTML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.readResult(cmd, args[0])
			if err != nil {
				return err
			}

			svc, repo := c.service()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			id, err := repo.Save(ctx, res)
			if err != nil {
				return err
			}
			md, err := svc.Report(ctx, id)
			if err != nil {
				return err
			}

			w, closeFn, err := c.output(cmd)
			if err != nil {
				return err
			}
			if c.cfg.Output.Format == render.FormatHTML {
				_, err = w.Write(render.HTMLPage(res.Label, []byte(md)))
			} else {
				_, err = io.WriteString(w, md)
			}
			if err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		kindName string
		dir      string
	)

	cmd := &cobra.Command{
		Use:   "export <result.json>...",
		Short: "Render one table of many results concurrently into a directory",
		Long: `Render the chosen table of every given result into its own file under --dir.
Files are named after the result label, or the result file name when the
label is empty. The work is spread over EXPORT_CONCURRENCY workers and stops
at the first failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := ports.ParseTableKind(kindName)
			if !ok {
				return fmt.Errorf("%w: %q", core.ErrUnknownKind, kindName)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create export directory: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			svc, repo := c.service()
			names := make(map[core.ResultID]string, len(args))
			used := make(map[string]int, len(args))
			ids := make([]core.ResultID, 0, len(args))
			for _, path := range args {
				res, err := c.readResult(cmd, path)
				if err != nil {
					return err
				}
				id, err := repo.Save(ctx, res)
				if err != nil {
					return err
				}
				name := res.Label
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
				if n := used[name]; n > 0 {
					used[name]++
					name = fmt.Sprintf("%s-%d", name, n+1)
				} else {
					used[name] = 1
				}
				names[id] = name
				ids = append(ids, id)
			}

			format := c.cfg.Output.Format
			sink := func(id core.ResultID, body []byte) error {
				target := filepath.Join(dir, fmt.Sprintf("%s-%s%s", names[id], kind, format.Extension()))
				return os.WriteFile(target, body, 0o644)
			}
			if err := svc.ExportBatch(ctx, ids, kind, format, sink); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d %s tables to %s\n", len(ids), kind, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "tidy", "table to export: tidy, augment or glance")
	cmd.Flags().StringVar(&dir, "dir", "export", "directory to write into")

	return cmd
}
