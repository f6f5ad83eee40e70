// Package traitmap reconciles automatically generated trait-to-ontology
// candidate mappings with historically accepted mappings and live
// ontology-containment lookups, producing the prioritized table that
// drives human curation and, after review, the final authoritative
// trait mapping table.
package traitmap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/opencurate/traitmap/pkg/curation"
	"github.com/opencurate/traitmap/pkg/logging"
	"github.com/opencurate/traitmap/pkg/mapping"
	"github.com/opencurate/traitmap/pkg/merge"
	"github.com/opencurate/traitmap/pkg/ontology"
	"github.com/opencurate/traitmap/pkg/resolve"
	"github.com/opencurate/traitmap/pkg/tsvio"
)

// Pipeline is one configured reconciliation engine. All state is
// rebuilt from the input streams on every run; nothing persists across
// invocations.
type Pipeline struct {
	classifier *ontology.Classifier
	resolver   *resolve.Resolver
	builder    *curation.Builder
}

// New creates a Pipeline with the given options.
func New(opts ...Option) (*Pipeline, error) {
	cfg := &config{
		reviewFloor: resolve.DefaultReviewFloor,
		maxColumns:  curation.DefaultMaxColumns,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	lookup := cfg.lookup
	if lookup == nil {
		// Without a lookup service everything classifies UNKNOWN and
		// the resolver routes accordingly.
		lookup = ontology.LookupFunc(func(ctx context.Context, uri string) (bool, error) {
			return false, fmt.Errorf("no ontology lookup configured")
		})
	}

	var copts []ontology.ClassifierOption
	if cfg.lookupTimeout > 0 {
		copts = append(copts, ontology.WithTimeout(cfg.lookupTimeout))
	}
	if cfg.lookupWorkers > 0 {
		copts = append(copts, ontology.WithWorkers(cfg.lookupWorkers))
	}

	resolver := resolve.New()
	if cfg.reviewFloor > 0 {
		resolver.ReviewFloor = cfg.reviewFloor
	}

	builder := curation.NewBuilder()
	if cfg.maxColumns > 0 {
		builder.MaxColumns = cfg.maxColumns
	}

	return &Pipeline{
		classifier: ontology.NewClassifier(lookup, copts...),
		resolver:   resolver,
		builder:    builder,
	}, nil
}

// CurateInput names the two input streams of the curate step.
type CurateInput struct {
	Traits       io.Reader
	TraitsPath   string
	Previous     io.Reader
	PreviousPath string
}

// CurateResult is everything the curate step produces: the annotated
// candidate sets, the per-trait recommendations, the review table, the
// auto-accepted subset, and the run report.
type CurateResult struct {
	Sets            []*mapping.TraitCandidateSet
	Recommendations []resolve.Recommendation
	Table           *curation.Table
	AutoAccepted    []mapping.FinalMapping
	Report          *Report
}

// Curate runs the reconciliation pass: read the trait source and
// previous-mapping streams, build candidate sets, classify containment,
// resolve recommended actions, and assemble the curation table.
// Per-row problems are skipped with diagnostics; only structural
// failures and cancellation return an error.
func (p *Pipeline) Curate(ctx context.Context, in CurateInput) (*CurateResult, error) {
	start := time.Now()
	report := newReport()
	ctx = logging.WithRunID(ctx, fmt.Sprintf("curate-%d", start.UnixNano()))

	setBuilder := mapping.NewSetBuilder()

	traitStats, err := tsvio.ReadTraits(in.Traits, in.TraitsPath, setBuilder)
	if err != nil {
		return nil, err
	}
	report.TraitRows = traitStats.Rows
	report.RowsSkipped += traitStats.Skipped

	if in.Previous != nil {
		prevStats, err := tsvio.ReadPrevious(in.Previous, in.PreviousPath, setBuilder)
		if err != nil {
			return nil, err
		}
		report.PreviousRows = prevStats.Rows
		report.RowsSkipped += prevStats.Skipped
	}

	sets := setBuilder.Build()
	report.Traits = len(sets)
	report.DroppedCands = setBuilder.Dropped()
	for _, set := range sets {
		report.Candidates += len(set.Candidates)
	}

	if err := p.classifier.Annotate(logging.WithStage(ctx, "classify"), sets); err != nil {
		return nil, err
	}
	report.LookupFailures = p.classifier.Failures()

	resolveCtx := logging.WithStage(ctx, "resolve")
	recs := p.resolver.ResolveAll(sets)
	for _, rec := range recs {
		report.ByAction[rec.Action]++
		if rec.NeedsReview {
			report.ReviewRequired++
			traitCtx := logging.WithTrait(resolveCtx, string(rec.Trait()))
			logging.Ctx(traitCtx).Debug().
				Str("action", rec.Action.String()).
				Str("reason", rec.Reason).
				Msg("Routed to manual review")
		}
	}
	report.MustVisit = len(p.resolver.MustVisit(recs))

	auto := merge.FromRecommendations(recs)
	report.AutoAccepted = len(auto)

	table := p.builder.Build(sets)
	report.TruncatedGroups = table.Truncated
	report.Elapsed = time.Since(start)

	logging.Ctx(ctx).Info().
		Int("traits", report.Traits).
		Int("auto_accepted", report.AutoAccepted).
		Int("review_required", report.ReviewRequired).
		Dur("elapsed", report.Elapsed).
		Msg("Curation pass complete")

	return &CurateResult{
		Sets:            sets,
		Recommendations: recs,
		Table:           table,
		AutoAccepted:    auto,
		Report:          report,
	}, nil
}

// MergeInput names the two input streams of the merge step.
type MergeInput struct {
	Decisions     io.Reader
	DecisionsPath string
	Auto          io.Reader
	AutoPath      string
}

// Merge combines the reviewed decision stream with the auto-accepted
// stream written by the curate step into the final mapping table.
// Duplicate traits fail the run; malformed rows are dropped with a
// diagnostic and counted in the report.
func (p *Pipeline) Merge(ctx context.Context, in MergeInput) ([]mapping.FinalMapping, *Report, error) {
	start := time.Now()
	report := newReport()
	ctx = logging.WithRunID(ctx, fmt.Sprintf("merge-%d", start.UnixNano()))

	decisions, decisionStats, err := tsvio.ReadDecisions(in.Decisions, in.DecisionsPath)
	if err != nil {
		return nil, nil, err
	}
	report.RowsSkipped += decisionStats.Skipped

	var auto []mapping.FinalMapping
	if in.Auto != nil {
		var autoStats *tsvio.ReadStats
		auto, autoStats, err = tsvio.ReadFinal(in.Auto, in.AutoPath)
		if err != nil {
			return nil, nil, err
		}
		report.RowsSkipped += autoStats.Skipped
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	merger := merge.New()
	final, err := merger.Merge(decisions, auto)
	if err != nil {
		return nil, nil, err
	}

	report.Traits = len(final)
	report.InvalidRows = merger.Invalid
	report.Elapsed = time.Since(start)

	logging.Ctx(ctx).Info().
		Int("decisions", len(decisions)).
		Int("auto_accepted", len(auto)).
		Int("final_mappings", len(final)).
		Int("excluded", merger.Excluded).
		Int("invalid", merger.Invalid).
		Dur("elapsed", report.Elapsed).
		Msg("Merge complete")

	return final, report, nil
}
