package mapping

import (
	"sort"

	"github.com/opencurate/traitmap/pkg/logging"
)

// SetBuilder accumulates automated and historical candidates and builds
// one read-only TraitCandidateSet per distinct trait. Construction is
// pure: candidates with an empty URI or label are dropped with a
// diagnostic, never fatally.
type SetBuilder struct {
	occurrences map[TraitName]int
	candidates  map[TraitName][]CandidateMapping
	order       []TraitName
	dropped     int
}

// NewSetBuilder creates an empty SetBuilder.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{
		occurrences: make(map[TraitName]int),
		candidates:  make(map[TraitName][]CandidateMapping),
	}
}

// AddTrait registers a trait with its occurrence count. Re-adding a
// trait keeps the higher count.
func (b *SetBuilder) AddTrait(trait TraitName, occurrenceCount int) {
	if _, seen := b.occurrences[trait]; !seen {
		b.order = append(b.order, trait)
	}
	if occurrenceCount > b.occurrences[trait] {
		b.occurrences[trait] = occurrenceCount
	}
}

// AddAutomated adds a candidate produced by the automated mapper.
func (b *SetBuilder) AddAutomated(trait TraitName, uri, label string, score float64) {
	b.add(trait, CandidateMapping{
		URI:    uri,
		Label:  label,
		Source: SourceAutomated,
		Score:  score,
	})
}

// AddHistorical adds a mapping accepted in a prior run. When the same
// URI was also produced by the automated mapper the candidate keeps the
// HISTORICAL source tag.
func (b *SetBuilder) AddHistorical(trait TraitName, uri, label string) {
	b.add(trait, CandidateMapping{
		URI:    uri,
		Label:  label,
		Source: SourceHistorical,
	})
}

// Dropped returns the number of candidates discarded for missing a URI
// or label.
func (b *SetBuilder) Dropped() int {
	return b.dropped
}

func (b *SetBuilder) add(trait TraitName, cand CandidateMapping) {
	if cand.URI == "" || cand.Label == "" {
		b.dropped++
		logging.Warn().
			Str("trait", string(trait)).
			Str("uri", cand.URI).
			Str("label", cand.Label).
			Str("source", string(cand.Source)).
			Msg("Dropping candidate with empty uri or label")
		return
	}

	b.AddTrait(trait, 0)

	// Exactness is recomputed fresh from string comparison, never
	// trusted from input.
	cand.Exact = IsExact(trait, cand.Label)
	cand.Containment = ContainmentUnknown

	existing := b.candidates[trait]
	for i := range existing {
		if existing[i].URI != cand.URI {
			continue
		}
		// Duplicate URI across sources: merge, keeping the
		// highest-priority source tag and any supplied score.
		if sourceRank(cand.Source) > sourceRank(existing[i].Source) {
			existing[i].Source = cand.Source
		}
		if cand.Score > existing[i].Score {
			existing[i].Score = cand.Score
		}
		return
	}

	b.candidates[trait] = append(existing, cand)
}

// sourceRank orders source tags for duplicate resolution. Historical
// beats automated; manual entries never reach the builder.
func sourceRank(s Source) int {
	switch s {
	case SourceHistorical:
		return 2
	case SourceManual:
		return 1
	default:
		return 0
	}
}

// Build assembles the accumulated candidates into read-only sets,
// sorted by trait name for deterministic output. Candidate order within
// a set is discovery order.
func (b *SetBuilder) Build() []*TraitCandidateSet {
	sets := make([]*TraitCandidateSet, 0, len(b.order))
	for _, trait := range b.order {
		set := &TraitCandidateSet{
			Trait:           trait,
			OccurrenceCount: b.occurrences[trait],
			Candidates:      b.candidates[trait],
		}
		for i := range set.Candidates {
			if set.Candidates[i].Source == SourceHistorical {
				set.HasPrevious = true
			}
			if set.Candidates[i].Exact {
				set.HasExact = true
			}
		}
		sets = append(sets, set)
	}

	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Trait < sets[j].Trait
	})

	return sets
}
