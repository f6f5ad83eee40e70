package tsvio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencurate/traitmap/pkg/curation"
	"github.com/opencurate/traitmap/pkg/mapping"
	"github.com/opencurate/traitmap/pkg/resolve"
	"github.com/opencurate/traitmap/pkg/tsvio"
)

func TestWriteTable(t *testing.T) {
	table := &curation.Table{
		Headers: []string{"Trait", "Occurrences", "URI 1"},
		Rows: [][]string{
			{"anemia", "12", "http://purl.obolibrary.org/obo/MONDO_0002280"},
			{"orphan", "1", ""},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, tsvio.WriteTable(&buf, table))

	assert.Equal(t,
		"Trait\tOccurrences\tURI 1\n"+
			"anemia\t12\thttp://purl.obolibrary.org/obo/MONDO_0002280\n"+
			"orphan\t1\t\n",
		buf.String())
}

func TestWriteFinal(t *testing.T) {
	final := []mapping.FinalMapping{
		{Trait: "anemia", URI: "http://purl.obolibrary.org/obo/MONDO_0002280", Label: "anemia"},
		{Trait: "hemochromatosis", URI: "http://www.ebi.ac.uk/efo/EFO_0004229", Label: "hemochromatosis"},
	}

	var buf bytes.Buffer
	require.NoError(t, tsvio.WriteFinal(&buf, final))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "anemia\thttp://purl.obolibrary.org/obo/MONDO_0002280\tanemia", lines[0])
}

func TestWriteFinalRoundTrip(t *testing.T) {
	final := []mapping.FinalMapping{
		{Trait: "anemia", URI: "http://purl.obolibrary.org/obo/MONDO_0002280", Label: "anemia"},
	}

	var buf bytes.Buffer
	require.NoError(t, tsvio.WriteFinal(&buf, final))

	got, stats, err := tsvio.ReadFinal(&buf, "round-trip")
	require.NoError(t, err)
	assert.Zero(t, stats.Skipped)
	assert.Equal(t, final, got)
}

func TestWriteUnmapped(t *testing.T) {
	recs := []resolve.Recommendation{
		{
			Set:    &mapping.TraitCandidateSet{Trait: "mystery trait", OccurrenceCount: 7},
			Action: resolve.ActionUnsure,
		},
		{
			Set:    &mapping.TraitCandidateSet{Trait: "resolved trait", OccurrenceCount: 3},
			Action: resolve.ActionDone,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, tsvio.WriteUnmapped(&buf, recs))
	assert.Equal(t, "mystery trait\t7\n", buf.String())
}

func TestWriteRejectsContaminatedCells(t *testing.T) {
	var buf bytes.Buffer
	err := tsvio.WriteFinal(&buf, []mapping.FinalMapping{
		{Trait: "bad\ttrait", URI: "http://example.org/T_1", Label: "x"},
	})
	assert.Error(t, err)
}
