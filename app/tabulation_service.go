package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"fdrtidy/adapters/render"
	"fdrtidy/domain/core"
	"fdrtidy/domain/fdr"
	"fdrtidy/domain/table"
	"fdrtidy/internal"
	"fdrtidy/ports"

	"golang.org/x/sync/errgroup"
)

// ServiceConfig holds the defaults a TabulationService applies
type ServiceConfig struct {
	Flavor      table.Flavor
	StrictRows  bool
	Concurrency int
}

// ExportSink receives one rendered table per exported result. It is called
// from several goroutines at once.
type ExportSink func(id core.ResultID, body []byte) error

// TabulationService loads stored results and turns them into tables
type TabulationService struct {
	repo      ports.ResultRepository
	tabulator ports.Tabulator
	logger    *internal.Logger
	config    ServiceConfig
}

// NewTabulationService creates a tabulation service
func NewTabulationService(repo ports.ResultRepository, tabulator ports.Tabulator, logger *internal.Logger, config ServiceConfig) *TabulationService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if config.Flavor == "" {
		config.Flavor = table.DefaultFlavor
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &TabulationService{
		repo:      repo,
		tabulator: tabulator,
		logger:    logger,
		config:    config,
	}
}

// Repository returns the result store the service reads from
func (s *TabulationService) Repository() ports.ResultRepository {
	return s.repo
}

// Save stores a result and reports inconsistencies without rejecting it
func (s *TabulationService) Save(ctx context.Context, res *fdr.Result) (core.ResultID, error) {
	for _, issue := range res.Check() {
		s.logger.Warn("[TabulationService] result %q: %s", res.Label, issue)
	}
	id, err := s.repo.Save(ctx, res)
	if err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}
	s.logger.Debug("[TabulationService] stored result %s (%d records)", id, len(res.PValues))
	return id, nil
}

// Tidy returns the lambda-sweep table of a stored result
func (s *TabulationService) Tidy(ctx context.Context, id core.ResultID, flavor table.Flavor) (table.Table, error) {
	return s.Tabulate(ctx, id, ports.KindSweep, ports.RecordOptions{}, flavor)
}

// Augment returns the per-record table of a stored result
func (s *TabulationService) Augment(ctx context.Context, id core.ResultID, opts ports.RecordOptions, flavor table.Flavor) (table.Table, error) {
	return s.Tabulate(ctx, id, ports.KindRecords, opts, flavor)
}

// Glance returns the one-row summary of a stored result
func (s *TabulationService) Glance(ctx context.Context, id core.ResultID, flavor table.Flavor) (table.Table, error) {
	return s.Tabulate(ctx, id, ports.KindSummary, ports.RecordOptions{}, flavor)
}

// Tabulate loads a result and builds the requested table. An empty flavor
// selects the configured default.
func (s *TabulationService) Tabulate(ctx context.Context, id core.ResultID, kind ports.TableKind, opts ports.RecordOptions, flavor table.Flavor) (table.Table, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load result %s: %w", id, err)
	}
	return s.TabulateResult(res, kind, opts, flavor)
}

// TabulateResult builds the requested table from an in-memory result
func (s *TabulationService) TabulateResult(res *fdr.Result, kind ports.TableKind, opts ports.RecordOptions, flavor table.Flavor) (table.Table, error) {
	if flavor == "" {
		flavor = s.config.Flavor
	}

	var (
		t   table.Table
		err error
	)
	switch kind {
	case ports.KindSweep:
		t, err = s.tabulator.Sweep(res, flavor)
	case ports.KindRecords:
		opts.StrictRows = opts.StrictRows || s.config.StrictRows
		t, err = s.tabulator.Records(res, opts, flavor)
	case ports.KindSummary:
		t, err = s.tabulator.Summary(res, flavor)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s table: %w", kind, err)
	}
	return t, nil
}

// Report renders the summary, sweep and record tables of one result as a
// Markdown document. Tables that cannot be built are noted in place.
func (s *TabulationService) Report(ctx context.Context, id core.ResultID) (string, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to load result %s: %w", id, err)
	}

	title := res.Label
	if title == "" {
		title = id.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Result `%s`, %d records", id, len(res.PValues))
	if !res.CreatedAt.IsZero() {
		fmt.Fprintf(&b, ", stored %s", res.CreatedAt)
	}
	b.WriteString(".\n")

	sections := []struct {
		heading string
		kind    ports.TableKind
	}{
		{"Summary", ports.KindSummary},
		{"Lambda sweep", ports.KindSweep},
		{"Records", ports.KindRecords},
	}
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n## %s\n\n", sec.heading)
		t, err := s.TabulateResult(res, sec.kind, ports.RecordOptions{}, table.FlavorPlain)
		if err != nil {
			if !core.IsInputError(err) {
				return "", err
			}
			s.logger.Debug("[TabulationService] report %s: %v", id, err)
			fmt.Fprintf(&b, "_Not available: %v._\n", err)
			continue
		}
		b.WriteString(render.Markdown(t))
	}

	return b.String(), nil
}

// ExportBatch tabulates and renders many results concurrently, bounded by the
// configured concurrency. The first failure cancels the remaining work.
func (s *TabulationService) ExportBatch(ctx context.Context, ids []core.ResultID, kind ports.TableKind, format render.Format, sink ExportSink) error {
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)

	s.logger.Info("[TabulationService] exporting %d results as %s/%s", len(ids), kind, format)

	for _, id := range ids {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			t, err := s.Tabulate(groupCtx, id, kind, ports.RecordOptions{}, "")
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := render.Render(&buf, t, format); err != nil {
				return fmt.Errorf("failed to render result %s: %w", id, err)
			}
			if err := sink(id, buf.Bytes()); err != nil {
				return fmt.Errorf("failed to deliver result %s: %w", id, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("[TabulationService] export failed: %v", err)
		return err
	}
	return nil
}
