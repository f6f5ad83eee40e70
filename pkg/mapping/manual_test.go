package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencurate/traitmap/pkg/mapping"
)

func TestParseManualEntry(t *testing.T) {
	cand, err := mapping.ParseManualEntry(
		"http://www.ebi.ac.uk/efo/EFO_0006329|response to citalopram|||EFO_CURRENT")
	require.NoError(t, err)

	assert.Equal(t, "http://www.ebi.ac.uk/efo/EFO_0006329", cand.URI)
	assert.Equal(t, "response to citalopram", cand.Label)
	assert.Equal(t, mapping.SourceManual, cand.Source)
	assert.Equal(t, mapping.ContainmentCurrent, cand.Containment)
}

func TestParseManualEntryNotContained(t *testing.T) {
	cand, err := mapping.ParseManualEntry(
		"http://purl.obolibrary.org/obo/HP_0000505|visual impairment|||NOT_CONTAINED")
	require.NoError(t, err)
	assert.Equal(t, mapping.ContainmentAbsent, cand.Containment)
}

func TestParseManualEntryRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"too few segments", "http://example.org/T_1|label|EFO_CURRENT"},
		{"too many segments", "http://example.org/T_1|label||||EFO_CURRENT"},
		{"reserved field populated", "http://example.org/T_1|label|x||EFO_CURRENT"},
		{"second reserved field populated", "http://example.org/T_1|label||x|EFO_CURRENT"},
		{"empty url", "|label|||EFO_CURRENT"},
		{"empty label", "http://example.org/T_1||||EFO_CURRENT"},
		{"unknown status", "http://example.org/T_1|label|||EFO_OBSOLETE"},
		{"unknown not allowed", "http://example.org/T_1|label|||UNKNOWN"},
		{"empty entry", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand, err := mapping.ParseManualEntry(tt.entry)
			require.Error(t, err)
			assert.Nil(t, cand)
		})
	}
}

func TestParseContainment(t *testing.T) {
	c, err := mapping.ParseContainment("efo_current")
	require.NoError(t, err)
	assert.Equal(t, mapping.ContainmentCurrent, c)

	c, err = mapping.ParseContainment(" NOT_CONTAINED ")
	require.NoError(t, err)
	assert.Equal(t, mapping.ContainmentAbsent, c)

	_, err = mapping.ParseContainment("CONTAINED")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"DONE", "IMPORT", "NEW", "SKIP", "UNSURE"} {
		status, err := mapping.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, status.String())
	}

	_, err := mapping.ParseStatus("MAYBE")
	assert.Error(t, err)
}

func TestStatusEmittable(t *testing.T) {
	assert.True(t, mapping.StatusDone.Emittable())
	assert.True(t, mapping.StatusImport.Emittable())
	assert.False(t, mapping.StatusNew.Emittable())
	assert.False(t, mapping.StatusSkip.Emittable())
	assert.False(t, mapping.StatusUnsure.Emittable())
}
