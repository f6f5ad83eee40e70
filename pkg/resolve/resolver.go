// Package resolve implements the curation decision policy: given a
// trait's full candidate set, it computes the recommended action by
// evaluating a strict first-match-wins rule ladder over the previous /
// exact / contained axes, and orders the traits that need human review.
//
// The ladder deliberately automates only what is mechanically decidable
// from those axes. Semantic specificity judgments (subtype versus
// parent term, familial versus susceptibility forms) are routed to
// UNSURE for a curator rather than guessed at.
package resolve

import (
	"fmt"
	"sort"

	"github.com/opencurate/traitmap/pkg/mapping"
)

// Action is the recommended handling for a trait.
type Action string

const (
	// ActionDone accepts a candidate with no further review.
	ActionDone Action = "DONE"
	// ActionDoneReview accepts a candidate pending human confirmation
	// of specificity.
	ActionDoneReview Action = "DONE_REVIEW"
	// ActionSubstitute replaces a previous mapping whose term left the
	// ontology with a currently-contained candidate.
	ActionSubstitute Action = "SUBSTITUTE"
	// ActionImport keeps a candidate whose term must first be imported
	// into the target ontology.
	ActionImport Action = "IMPORT"
	// ActionUnsure routes the trait to full manual curation.
	ActionUnsure Action = "UNSURE"
)

// String returns the string representation of an action.
func (a Action) String() string {
	return string(a)
}

// Recommendation is the resolver's verdict for one trait.
type Recommendation struct {
	// Set is the candidate set the verdict applies to.
	Set *mapping.TraitCandidateSet
	// Action is the recommended handling.
	Action Action
	// Candidate is the recommended mapping, nil for ActionUnsure.
	Candidate *mapping.CandidateMapping
	// Reason is a human-readable explanation of which rule fired.
	Reason string
	// NeedsReview reports whether a curator must confirm the verdict.
	NeedsReview bool
}

// Trait returns the trait the recommendation applies to.
func (r Recommendation) Trait() mapping.TraitName {
	return r.Set.Trait
}

// AutoAccepted reports whether the recommendation may flow straight to
// the final mapping table without human review.
func (r Recommendation) AutoAccepted() bool {
	return r.Action == ActionDone && !r.NeedsReview
}

// DefaultReviewFloor is the occurrence count at or above which every
// trait must be visited during manual curation.
const DefaultReviewFloor = 10

// Resolver applies the decision ladder to candidate sets.
type Resolver struct {
	// ReviewFloor is the completeness floor for manual review.
	ReviewFloor int
}

// New creates a Resolver with the default review floor.
func New() *Resolver {
	return &Resolver{ReviewFloor: DefaultReviewFloor}
}

// Resolve computes the recommendation for one candidate set. It is a
// pure function: first matching rule wins, and every set receives an
// actionable recommendation.
func (r *Resolver) Resolve(set *mapping.TraitCandidateSet) Recommendation {
	rec := Recommendation{Set: set}

	if prev := set.Previous(); prev != nil {
		switch prev.Containment {
		case mapping.ContainmentCurrent:
			if prev.Exact {
				// Rule 1: previous mapping still current and exact.
				rec.Action = ActionDone
				rec.Candidate = prev
				rec.Reason = "previous mapping is current and exact"
				return rec
			}
			// Rule 2: current but not exact, confirm specificity.
			rec.Action = ActionDoneReview
			rec.Candidate = prev
			rec.Reason = "previous mapping is current but not exact"
			rec.NeedsReview = true
			return rec

		case mapping.ContainmentAbsent:
			// Rule 3: the previous term left the ontology. A contained
			// candidate is preferred over an exact-but-absent one;
			// among contained candidates, exact wins.
			if sub := substituteFor(set, prev); sub != nil {
				rec.Action = ActionSubstitute
				rec.Candidate = sub
				rec.Reason = fmt.Sprintf("previous term %s not contained, substituting current candidate", prev.URI)
				rec.NeedsReview = true
				return rec
			}
			rec.Action = ActionImport
			rec.Candidate = prev
			rec.Reason = "previous term not contained and no current candidate exists, import required"
			rec.NeedsReview = true
			return rec

		default:
			// Containment could not be verified this run; the previous
			// mapping stays recommended but a curator must confirm.
			rec.Action = ActionDoneReview
			rec.Candidate = prev
			rec.Reason = "previous mapping containment unknown"
			rec.NeedsReview = true
			return rec
		}
	}

	// Rule 4: no previous mapping, but an automated candidate is both
	// current and exact.
	for i := range set.Candidates {
		c := &set.Candidates[i]
		if c.Exact && c.Containment == mapping.ContainmentCurrent {
			rec.Action = ActionDone
			rec.Candidate = c
			rec.Reason = "exact candidate contained in current release"
			return rec
		}
	}

	// Rule 5: an exact candidate exists but its term is not contained.
	for i := range set.Candidates {
		c := &set.Candidates[i]
		if c.Exact && c.Containment == mapping.ContainmentAbsent {
			rec.Action = ActionImport
			rec.Candidate = c
			rec.Reason = "exact candidate not contained, find alternative or accept for import"
			rec.NeedsReview = true
			return rec
		}
	}

	// Rule 6: nothing decidable, full manual curation.
	rec.Action = ActionUnsure
	rec.Reason = "no previous mapping and no usable exact candidate"
	rec.NeedsReview = true
	return rec
}

// substituteFor finds the best currently-contained replacement for an
// absent previous mapping: exact contained candidates first, then any
// contained candidate, in discovery order.
func substituteFor(set *mapping.TraitCandidateSet, prev *mapping.CandidateMapping) *mapping.CandidateMapping {
	var fallback *mapping.CandidateMapping
	for i := range set.Candidates {
		c := &set.Candidates[i]
		if c.URI == prev.URI || c.Containment != mapping.ContainmentCurrent {
			continue
		}
		if c.Exact {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

// ResolveAll resolves every set, preserving input order.
func (r *Resolver) ResolveAll(sets []*mapping.TraitCandidateSet) []Recommendation {
	recs := make([]Recommendation, 0, len(sets))
	for _, set := range sets {
		recs = append(recs, r.Resolve(set))
	}
	return recs
}

// Reviews returns the recommendations that need a curator, ordered for
// manual effort: occurrence count descending, stable on ties. The
// ordering is advisory output; it does not gate anything.
func Reviews(recs []Recommendation) []Recommendation {
	var reviews []Recommendation
	for _, rec := range recs {
		if rec.NeedsReview {
			reviews = append(reviews, rec)
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Set.OccurrenceCount > reviews[j].Set.OccurrenceCount
	})
	return reviews
}

// AutoAccepted returns the recommendations that bypass review.
func AutoAccepted(recs []Recommendation) []Recommendation {
	var accepted []Recommendation
	for _, rec := range recs {
		if rec.AutoAccepted() {
			accepted = append(accepted, rec)
		}
	}
	return accepted
}

// MustVisit returns the review-needed traits at or above the resolver's
// occurrence floor. The curation process is expected to cover every one
// of them; the run report surfaces the count.
func (r *Resolver) MustVisit(recs []Recommendation) []Recommendation {
	floor := r.ReviewFloor
	if floor <= 0 {
		floor = DefaultReviewFloor
	}
	var must []Recommendation
	for _, rec := range Reviews(recs) {
		if rec.Set.OccurrenceCount >= floor {
			must = append(must, rec)
		}
	}
	return must
}
