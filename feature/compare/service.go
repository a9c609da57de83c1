package compare

import (
	"context"
	"fmt"

	"github.com/devandanger/firebase-utils/core/canonical"
	"github.com/devandanger/firebase-utils/core/diff"
	"github.com/devandanger/firebase-utils/core/filter"
	"github.com/devandanger/firebase-utils/core/firestore"
	"github.com/devandanger/firebase-utils/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls one comparison run.
type Options struct {
	// Fields is an allow-list of fields to compare. Empty keeps all.
	Fields []string
	// IgnoreFields is a deny-list of fields to drop before comparing.
	// Ignore wins when a field appears in both lists.
	IgnoreFields []string
	// KeyPath is the dotted comparison-key path for collection
	// reconciliation. Empty means the record ID.
	KeyPath string
	// Filters restrict collection fetches on both sides.
	Filters []filter.Filter
	// OrderBy is an optional server-side ordering field.
	OrderBy string
	// Limit caps the number of fetched records per side. Zero means no
	// limit.
	Limit int
	// Streaming consumes collection records incrementally instead of
	// buffering each side in full before normalization.
	Streaming bool
	// IncludeMetadata compares record provenance as well.
	IncludeMetadata bool
}

func (o Options) normalizeOptions() canonical.Options {
	return canonical.Options{
		Fields:          o.Fields,
		IgnoreFields:    o.IgnoreFields,
		IncludeMetadata: o.IncludeMetadata,
	}
}

// DocumentResult is the outcome of a single-document comparison.
type DocumentResult struct {
	// Path is the compared document path.
	Path string `json:"path"`
	// Source is the source side's canonical value (nil when absent).
	Source any `json:"source"`
	// Target is the target side's canonical value (nil when absent).
	Target any `json:"target"`
	// Differences is the ordered difference list. Empty means the
	// documents are identical.
	Differences []diff.Difference `json:"differences"`
}

// HasDifferences reports whether the documents differ.
func (r *DocumentResult) HasDifferences() bool {
	return len(r.Differences) > 0
}

// CollectionResult is the outcome of a collection comparison.
type CollectionResult struct {
	// Path is the compared collection path.
	Path string `json:"path"`
	// SourceCount is the number of records fetched from the source.
	SourceCount int `json:"source_count"`
	// TargetCount is the number of records fetched from the target.
	TargetCount int `json:"target_count"`
	// Report is the added/removed/changed partition.
	Report *reconcile.Report `json:"report"`
}

// HasDifferences reports whether the collections differ.
func (r *CollectionResult) HasDifferences() bool {
	return r.Report.HasDifferences()
}

// Service runs comparisons between a source and a target project.
type Service struct {
	source firestore.Client
	target firestore.Client
	opts   Options
	log    *zap.Logger
}

// NewService wires a comparison service.
func NewService(source, target firestore.Client, opts Options, log *zap.Logger) *Service {
	return &Service{source: source, target: target, opts: opts, log: log}
}

// CompareDocument fetches one document from both sides concurrently and
// diffs the normalized pair.
func (s *Service) CompareDocument(ctx context.Context, path string) (*DocumentResult, error) {
	var srcRec, tgtRec *firestore.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.source.GetDocument(gctx, path)
		if err != nil {
			return fmt.Errorf("source fetch failed: %w", err)
		}
		srcRec = rec
		return nil
	})
	g.Go(func() error {
		rec, err := s.target.GetDocument(gctx, path)
		if err != nil {
			return fmt.Errorf("target fetch failed: %w", err)
		}
		tgtRec = rec
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts := s.opts.normalizeOptions()
	src := canonical.NormalizeDocument(srcRec.Document(), opts)
	tgt := canonical.NormalizeDocument(tgtRec.Document(), opts)

	result := &DocumentResult{
		Path:        path,
		Source:      src,
		Target:      tgt,
		Differences: diff.Compare(src, tgt),
	}

	s.log.Debug("document comparison finished",
		zap.String("path", path),
		zap.Int("differences", len(result.Differences)),
	)
	return result, nil
}

// CompareCollection fetches one collection from both sides concurrently,
// normalizes, and reconciles by comparison key. In streaming mode each
// side's records are normalized as they arrive; reconciliation still
// waits for both streams to drain, there is no partial report.
func (s *Service) CompareCollection(ctx context.Context, path string) (*CollectionResult, error) {
	spec := firestore.CollectionSpec{
		Path:    path,
		Filters: s.opts.Filters,
		OrderBy: s.opts.OrderBy,
		Limit:   s.opts.Limit,
	}

	var src, tgt []any

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		values, err := s.fetchSide(gctx, s.source, spec)
		if err != nil {
			return fmt.Errorf("source fetch failed: %w", err)
		}
		src = values
		return nil
	})
	g.Go(func() error {
		values, err := s.fetchSide(gctx, s.target, spec)
		if err != nil {
			return fmt.Errorf("target fetch failed: %w", err)
		}
		tgt = values
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	canonical.SortCollection(src, s.opts.KeyPath)
	canonical.SortCollection(tgt, s.opts.KeyPath)

	result := &CollectionResult{
		Path:        path,
		SourceCount: len(src),
		TargetCount: len(tgt),
		Report:      reconcile.Reconcile(src, tgt, s.opts.KeyPath),
	}

	s.log.Debug("collection comparison finished",
		zap.String("path", path),
		zap.Int("source_count", result.SourceCount),
		zap.Int("target_count", result.TargetCount),
		zap.Int("added", len(result.Report.Added)),
		zap.Int("removed", len(result.Report.Removed)),
		zap.Int("changed", len(result.Report.Changed)),
	)
	return result, nil
}

// fetchSide loads one side's records and normalizes each one. Streaming
// mode normalizes incrementally as records arrive instead of buffering
// the raw collection first.
func (s *Service) fetchSide(ctx context.Context, client firestore.Client, spec firestore.CollectionSpec) ([]any, error) {
	opts := s.opts.normalizeOptions()

	if s.opts.Streaming {
		recordCh, errCh := client.StreamCollection(ctx, spec)

		var values []any
		for rec := range recordCh {
			if v := canonical.NormalizeDocument(rec.Document(), opts); v != nil {
				values = append(values, v)
			}
		}
		if err := <-errCh; err != nil {
			return nil, err
		}
		return values, nil
	}

	records, err := client.ListCollection(ctx, spec)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, len(records))
	for _, rec := range records {
		if v := canonical.NormalizeDocument(rec.Document(), opts); v != nil {
			values = append(values, v)
		}
	}
	return values, nil
}
