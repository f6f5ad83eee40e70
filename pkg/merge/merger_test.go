package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencurate/traitmap/pkg/errors"
	"github.com/opencurate/traitmap/pkg/logging"
	"github.com/opencurate/traitmap/pkg/mapping"
	"github.com/opencurate/traitmap/pkg/merge"
	"github.com/opencurate/traitmap/pkg/resolve"
)

func decision(trait mapping.TraitName, status mapping.Status, uri, label string) mapping.CurationDecision {
	d := mapping.CurationDecision{Trait: trait, Status: status}
	if uri != "" {
		d.Chosen = &mapping.CandidateMapping{URI: uri, Label: label}
	}
	return d
}

func TestMergeCombinesBothInputs(t *testing.T) {
	decisions := []mapping.CurationDecision{
		decision("hemochromatosis", mapping.StatusDone, "http://www.ebi.ac.uk/efo/EFO_0004229", "hemochromatosis"),
		decision("novel trait", mapping.StatusImport, "http://purl.obolibrary.org/obo/HP_0000505", "visual impairment"),
	}
	auto := []mapping.FinalMapping{
		{Trait: "anemia", URI: "http://purl.obolibrary.org/obo/MONDO_0002280", Label: "anemia"},
	}

	final, err := merge.New().Merge(decisions, auto)
	require.NoError(t, err)
	require.Len(t, final, 3)

	// Output sorted by trait name, one row per trait.
	assert.Equal(t, mapping.TraitName("anemia"), final[0].Trait)
	assert.Equal(t, mapping.TraitName("hemochromatosis"), final[1].Trait)
	assert.Equal(t, mapping.TraitName("novel trait"), final[2].Trait)
}

func TestMergeExcludesNonEmittableStatuses(t *testing.T) {
	decisions := []mapping.CurationDecision{
		decision("kept", mapping.StatusDone, "http://www.ebi.ac.uk/efo/EFO_0004229", "hemochromatosis"),
		decision("skipped", mapping.StatusSkip, "", ""),
		decision("unsure", mapping.StatusUnsure, "", ""),
		decision("new term", mapping.StatusNew, "", ""),
	}

	m := merge.New()
	final, err := m.Merge(decisions, nil)
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, mapping.TraitName("kept"), final[0].Trait)
	assert.Equal(t, 3, m.Excluded)
}

func TestMergeDuplicateTraitFailsClosed(t *testing.T) {
	decisions := []mapping.CurationDecision{
		decision("anemia", mapping.StatusDone, "http://www.ebi.ac.uk/efo/EFO_0004272", "anaemia"),
	}
	auto := []mapping.FinalMapping{
		{Trait: "anemia", URI: "http://purl.obolibrary.org/obo/MONDO_0002280", Label: "anemia"},
	}

	final, err := merge.New().Merge(decisions, auto)
	require.Error(t, err)
	assert.Nil(t, final)
	assert.True(t, errors.IsDuplicateTrait(err))

	var mergeErr *errors.MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, []string{"anemia"}, mergeErr.Traits)
}

func TestMergeDuplicateWithinAutoFailsClosed(t *testing.T) {
	auto := []mapping.FinalMapping{
		{Trait: "anemia", URI: "http://purl.obolibrary.org/obo/MONDO_0002280", Label: "anemia"},
		{Trait: "anemia", URI: "http://www.ebi.ac.uk/efo/EFO_0004272", Label: "anaemia"},
	}

	_, err := merge.New().Merge(nil, auto)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateTrait(err))
	assert.Contains(t, err.Error(), "within auto-accepted mappings")
}

func TestMergeDuplicateWithinDecisionsFailsClosed(t *testing.T) {
	decisions := []mapping.CurationDecision{
		decision("anemia", mapping.StatusDone, "http://purl.obolibrary.org/obo/MONDO_0002280", "anemia"),
		decision("anemia", mapping.StatusDone, "http://www.ebi.ac.uk/efo/EFO_0004272", "anaemia"),
	}

	_, err := merge.New().Merge(decisions, nil)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateTrait(err))
	assert.Contains(t, err.Error(), "within curated decisions")
	assert.NotContains(t, err.Error(), "auto-accepted")
}

func TestMergeSkipsEmittableDecisionWithoutMapping(t *testing.T) {
	decisions := []mapping.CurationDecision{
		{Trait: "anemia", Status: mapping.StatusDone},
	}

	m := merge.New()
	final, err := m.Merge(decisions, nil)
	require.NoError(t, err)
	assert.Empty(t, final)
	assert.Equal(t, 1, m.Invalid)
}

func TestMergeDropsContaminatedRowsAndKeepsTheRest(t *testing.T) {
	clean := mapping.FinalMapping{
		Trait: "anemia",
		URI:   "http://purl.obolibrary.org/obo/MONDO_0002280",
		Label: "anemia",
	}
	tests := []struct {
		name string
		fm   mapping.FinalMapping
	}{
		{"uri with space", mapping.FinalMapping{Trait: "t", URI: "http://example.org/a b", Label: "x"}},
		{"uri with tab", mapping.FinalMapping{Trait: "t", URI: "http://example.org/a\tb", Label: "x"}},
		{"relative uri", mapping.FinalMapping{Trait: "t", URI: "efo/EFO_0004229", Label: "x"}},
		{"empty label", mapping.FinalMapping{Trait: "t", URI: "http://example.org/a", Label: ""}},
		{"label leading space", mapping.FinalMapping{Trait: "t", URI: "http://example.org/a", Label: " x"}},
		{"label trailing space", mapping.FinalMapping{Trait: "t", URI: "http://example.org/a", Label: "x "}},
		{"label newline", mapping.FinalMapping{Trait: "t", URI: "http://example.org/a", Label: "x\ny"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, merge.Validate(tt.fm))

			// A bad row drops with a diagnostic; clean rows still come out.
			m := merge.New()
			final, err := m.Merge(nil, []mapping.FinalMapping{clean, tt.fm})
			require.NoError(t, err)
			require.Len(t, final, 1)
			assert.Equal(t, mapping.TraitName("anemia"), final[0].Trait)
			assert.Equal(t, 1, m.Invalid)
		})
	}
}

func TestMergeWarnsWhenDecisionContradictsAutoAccepted(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	decisions := []mapping.CurationDecision{
		decision("anemia", mapping.StatusSkip, "", ""),
	}
	auto := []mapping.FinalMapping{
		{Trait: "anemia", URI: "http://purl.obolibrary.org/obo/MONDO_0002280", Label: "anemia"},
	}

	m := merge.New()
	final, err := m.Merge(decisions, auto)
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, mapping.TraitName("anemia"), final[0].Trait)
	assert.Equal(t, 1, m.Excluded)

	if !captured.Contains("anemia") || !captured.Contains("auto-accepted") {
		t.Errorf("expected a warning naming the trait and the auto-accepted row, got %q", captured.Output())
	}
}

func TestValidateAcceptsCleanRow(t *testing.T) {
	fm := mapping.FinalMapping{
		Trait: "hemochromatosis",
		URI:   "http://www.ebi.ac.uk/efo/EFO_0004229",
		Label: "hemochromatosis",
	}
	assert.NoError(t, merge.Validate(fm))
}

func TestFromRecommendations(t *testing.T) {
	cand := mapping.CandidateMapping{
		URI:         "http://purl.obolibrary.org/obo/MONDO_0002280",
		Label:       "anemia",
		Exact:       true,
		Containment: mapping.ContainmentCurrent,
	}

	recs := []resolve.Recommendation{
		{
			Set:       &mapping.TraitCandidateSet{Trait: "anemia"},
			Action:    resolve.ActionDone,
			Candidate: &cand,
		},
		{
			Set:         &mapping.TraitCandidateSet{Trait: "reviewed"},
			Action:      resolve.ActionDoneReview,
			Candidate:   &cand,
			NeedsReview: true,
		},
		{
			Set:    &mapping.TraitCandidateSet{Trait: "unsure"},
			Action: resolve.ActionUnsure,
		},
	}

	final := merge.FromRecommendations(recs)
	require.Len(t, final, 1)
	assert.Equal(t, mapping.TraitName("anemia"), final[0].Trait)
	assert.Equal(t, cand.URI, final[0].URI)
}
