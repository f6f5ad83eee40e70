package curation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencurate/traitmap/pkg/curation"
	"github.com/opencurate/traitmap/pkg/mapping"
)

func candidate(uri string, source mapping.Source, exact bool, containment mapping.Containment, score float64) mapping.CandidateMapping {
	return mapping.CandidateMapping{
		URI:         uri,
		Label:       "label for " + uri,
		Source:      source,
		Exact:       exact,
		Containment: containment,
		Score:       score,
	}
}

func set(trait mapping.TraitName, occurrences int, cands ...mapping.CandidateMapping) *mapping.TraitCandidateSet {
	return &mapping.TraitCandidateSet{
		Trait:           trait,
		OccurrenceCount: occurrences,
		Candidates:      cands,
	}
}

func TestBuildRowsOrderedByOccurrence(t *testing.T) {
	table := curation.NewBuilder().Build([]*mapping.TraitCandidateSet{
		set("rare", 1, candidate("http://example.org/T_1", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.5)),
		set("common", 40, candidate("http://example.org/T_2", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.5)),
		set("medium", 12, candidate("http://example.org/T_3", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.5)),
	})

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "common", table.Rows[0][0])
	assert.Equal(t, "40", table.Rows[0][1])
	assert.Equal(t, "medium", table.Rows[1][0])
	assert.Equal(t, "rare", table.Rows[2][0])
}

func TestBuildHeaderMatchesWidestRow(t *testing.T) {
	table := curation.NewBuilder().Build([]*mapping.TraitCandidateSet{
		set("one candidate", 5, candidate("http://example.org/T_1", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.5)),
		set("three candidates", 2,
			candidate("http://example.org/T_2", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.9),
			candidate("http://example.org/T_3", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.8),
			candidate("http://example.org/T_4", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.7),
		),
	})

	// 2 fixed columns + 3 groups of 5.
	assert.Len(t, table.Headers, 17)
	assert.Equal(t, []string{"Trait", "Occurrences", "URI 1", "Label 1", "Source 1", "Exact 1", "Containment 1"}, table.Headers[:7])

	// Every row padded to header geometry.
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Headers))
	}
}

func TestBuildCandidateOrdering(t *testing.T) {
	table := curation.NewBuilder().Build([]*mapping.TraitCandidateSet{
		set("anemia", 5,
			candidate("http://example.org/low", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.3),
			candidate("http://example.org/high", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.9),
			candidate("http://example.org/exact", mapping.SourceAutomated, true, mapping.ContainmentCurrent, 0.1),
			candidate("http://example.org/previous", mapping.SourceHistorical, false, mapping.ContainmentCurrent, 0),
		),
	})

	require.Len(t, table.Rows, 1)
	row := table.Rows[0]

	// HISTORICAL leads, then contained exact, then the rest by score.
	assert.Equal(t, "http://example.org/previous", row[2])
	assert.Equal(t, "http://example.org/exact", row[7])
	assert.Equal(t, "http://example.org/high", row[12])
	assert.Equal(t, "http://example.org/low", row[17])
}

func TestBuildTruncatesTrailingGroups(t *testing.T) {
	cands := []mapping.CandidateMapping{
		candidate("http://example.org/previous", mapping.SourceHistorical, false, mapping.ContainmentCurrent, 0),
		candidate("http://example.org/c1", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.9),
		candidate("http://example.org/c2", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.8),
		candidate("http://example.org/c3", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.7),
	}

	b := &curation.Builder{MaxColumns: 2 + 2*5} // room for two groups
	table := b.Build([]*mapping.TraitCandidateSet{set("wide", 5, cands...)})

	assert.Equal(t, 2, table.Truncated)
	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Rows[0], 12)

	// The highest-priority groups survive.
	assert.Equal(t, "http://example.org/previous", table.Rows[0][2])
	assert.Equal(t, "http://example.org/c1", table.Rows[0][7])
}

func TestBuildDeterministic(t *testing.T) {
	sets := []*mapping.TraitCandidateSet{
		set("tie a", 5,
			candidate("http://example.org/T_1", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.5),
			candidate("http://example.org/T_2", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.5),
		),
		set("tie b", 5, candidate("http://example.org/T_3", mapping.SourceAutomated, false, mapping.ContainmentCurrent, 0.5)),
	}

	b := curation.NewBuilder()
	first := b.Build(sets)
	second := b.Build(sets)

	assert.Equal(t, first.Headers, second.Headers)
	assert.Equal(t, first.Rows, second.Rows)

	// Equal occurrence counts keep input order.
	assert.Equal(t, "tie a", first.Rows[0][0])
	assert.Equal(t, "tie b", first.Rows[1][0])
}

func TestBuildEmptyInput(t *testing.T) {
	table := curation.NewBuilder().Build(nil)
	assert.Equal(t, []string{"Trait", "Occurrences"}, table.Headers)
	assert.Empty(t, table.Rows)
	assert.Zero(t, table.Truncated)
}
