package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencurate/traitmap/pkg/mapping"
)

func TestSetBuilderBuildsOneSetPerTrait(t *testing.T) {
	b := mapping.NewSetBuilder()
	b.AddTrait("anemia", 12)
	b.AddAutomated("anemia", "http://purl.obolibrary.org/obo/MONDO_0002280", "anemia", 0.95)
	b.AddTrait("hemochromatosis", 3)
	b.AddAutomated("hemochromatosis", "http://www.ebi.ac.uk/efo/EFO_0004229", "iron overload", 0.60)

	sets := b.Build()
	require.Len(t, sets, 2)

	// Sets come out sorted by trait name.
	assert.Equal(t, mapping.TraitName("anemia"), sets[0].Trait)
	assert.Equal(t, 12, sets[0].OccurrenceCount)
	assert.Equal(t, mapping.TraitName("hemochromatosis"), sets[1].Trait)

	require.Len(t, sets[0].Candidates, 1)
	assert.True(t, sets[0].HasExact)
	assert.False(t, sets[0].HasPrevious)
	assert.False(t, sets[1].HasExact)
}

func TestSetBuilderRecomputesExactness(t *testing.T) {
	b := mapping.NewSetBuilder()
	b.AddAutomated("ACHROMATOPSIA 3", "http://www.ebi.ac.uk/efo/EFO_0009284", "achromatopsia 3", 0.99)

	sets := b.Build()
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Candidates, 1)
	assert.True(t, sets[0].Candidates[0].Exact)
	assert.Equal(t, mapping.ContainmentUnknown, sets[0].Candidates[0].Containment)
}

func TestSetBuilderDeduplicatesByURI(t *testing.T) {
	const uri = "http://www.ebi.ac.uk/efo/EFO_0004229"

	b := mapping.NewSetBuilder()
	b.AddAutomated("hemochromatosis", uri, "iron overload", 0.80)
	b.AddHistorical("hemochromatosis", uri, "iron overload")

	sets := b.Build()
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Candidates, 1)

	// The merged candidate keeps the HISTORICAL tag and the score.
	cand := sets[0].Candidates[0]
	assert.Equal(t, mapping.SourceHistorical, cand.Source)
	assert.Equal(t, 0.80, cand.Score)
	assert.True(t, sets[0].HasPrevious)
}

func TestSetBuilderHistoricalTagSurvivesLaterAutomated(t *testing.T) {
	const uri = "http://www.ebi.ac.uk/efo/EFO_0004229"

	b := mapping.NewSetBuilder()
	b.AddHistorical("hemochromatosis", uri, "iron overload")
	b.AddAutomated("hemochromatosis", uri, "iron overload", 0.80)

	sets := b.Build()
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Candidates, 1)
	assert.Equal(t, mapping.SourceHistorical, sets[0].Candidates[0].Source)
	assert.Equal(t, 0.80, sets[0].Candidates[0].Score)
}

func TestSetBuilderDropsEmptyURIOrLabel(t *testing.T) {
	b := mapping.NewSetBuilder()
	b.AddTrait("anemia", 5)
	b.AddAutomated("anemia", "", "anemia", 0.9)
	b.AddAutomated("anemia", "http://purl.obolibrary.org/obo/MONDO_0002280", "", 0.9)
	b.AddAutomated("anemia", "http://purl.obolibrary.org/obo/MONDO_0002280", "anemia", 0.9)

	assert.Equal(t, 2, b.Dropped())

	sets := b.Build()
	require.Len(t, sets, 1)
	assert.Len(t, sets[0].Candidates, 1)
}

func TestSetBuilderKeepsHigherOccurrenceCount(t *testing.T) {
	b := mapping.NewSetBuilder()
	b.AddTrait("anemia", 3)
	b.AddTrait("anemia", 12)
	b.AddTrait("anemia", 7)

	sets := b.Build()
	require.Len(t, sets, 1)
	assert.Equal(t, 12, sets[0].OccurrenceCount)
}

func TestSetBuilderPreservesDiscoveryOrderWithinSet(t *testing.T) {
	b := mapping.NewSetBuilder()
	b.AddAutomated("anemia", "http://purl.obolibrary.org/obo/MONDO_0002280", "anemia", 0.9)
	b.AddAutomated("anemia", "http://www.ebi.ac.uk/efo/EFO_0004272", "anemia (disease)", 0.7)
	b.AddHistorical("anemia", "http://www.orpha.net/ORDO/Orphanet_300298", "rare anemia")

	sets := b.Build()
	require.Len(t, sets, 1)
	assert.Equal(t, []string{
		"http://purl.obolibrary.org/obo/MONDO_0002280",
		"http://www.ebi.ac.uk/efo/EFO_0004272",
		"http://www.orpha.net/ORDO/Orphanet_300298",
	}, sets[0].URIs())
}

func TestTraitCandidateSetPrevious(t *testing.T) {
	b := mapping.NewSetBuilder()
	b.AddAutomated("anemia", "http://purl.obolibrary.org/obo/MONDO_0002280", "anemia", 0.9)
	b.AddHistorical("anemia", "http://www.ebi.ac.uk/efo/EFO_0004272", "anemia (disease)")

	sets := b.Build()
	require.Len(t, sets, 1)

	prev := sets[0].Previous()
	require.NotNil(t, prev)
	assert.Equal(t, "http://www.ebi.ac.uk/efo/EFO_0004272", prev.URI)

	noPrev := &mapping.TraitCandidateSet{Trait: "x"}
	assert.Nil(t, noPrev.Previous())
}
