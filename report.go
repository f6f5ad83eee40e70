package traitmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/opencurate/traitmap/pkg/resolve"
)

// Report holds the counters and records of one pipeline run. One
// instance is built per invocation and its String form is the
// end-of-run summary.
type Report struct {
	// Input accounting
	TraitRows     int
	PreviousRows  int
	RowsSkipped   int
	DroppedCands  int

	// Reconciliation accounting
	Traits         int
	Candidates     int
	LookupFailures int
	ByAction       map[resolve.Action]int
	AutoAccepted   int
	ReviewRequired int
	MustVisit      int

	// Output accounting
	TruncatedGroups int
	InvalidRows     int
	Elapsed         time.Duration
}

// newReport creates an empty report.
func newReport() *Report {
	return &Report{ByAction: make(map[resolve.Action]int)}
}

// String renders the run summary, one finding per line.
func (r *Report) String() string {
	lines := []string{
		fmt.Sprintf("%d trait rows and %d previous-mapping rows read (%d malformed rows skipped)",
			r.TraitRows, r.PreviousRows, r.RowsSkipped),
		fmt.Sprintf("%d distinct traits with %d candidate mappings (%d candidates dropped for missing uri or label)",
			r.Traits, r.Candidates, r.DroppedCands),
		fmt.Sprintf("%d containment lookups failed and degraded to UNKNOWN", r.LookupFailures),
		fmt.Sprintf("%d traits auto-accepted without review", r.AutoAccepted),
		fmt.Sprintf("%d traits routed to manual review, of which %d are at or above the occurrence floor and must be visited",
			r.ReviewRequired, r.MustVisit),
	}
	for _, action := range []resolve.Action{
		resolve.ActionDone,
		resolve.ActionDoneReview,
		resolve.ActionSubstitute,
		resolve.ActionImport,
		resolve.ActionUnsure,
	} {
		if n := r.ByAction[action]; n > 0 {
			lines = append(lines, fmt.Sprintf("  %s: %d", action, n))
		}
	}
	if r.TruncatedGroups > 0 {
		lines = append(lines, fmt.Sprintf("%d low-priority candidate groups truncated by the column cap", r.TruncatedGroups))
	}
	if r.InvalidRows > 0 {
		lines = append(lines, fmt.Sprintf("%d final rows rejected for contaminated uri or label or a missing mapping", r.InvalidRows))
	}
	lines = append(lines, fmt.Sprintf("completed in %s", r.Elapsed.Round(time.Millisecond)))
	return strings.Join(lines, "\n")
}
