package tsvio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/opencurate/traitmap/pkg/curation"
	"github.com/opencurate/traitmap/pkg/errors"
	"github.com/opencurate/traitmap/pkg/mapping"
	"github.com/opencurate/traitmap/pkg/resolve"
)

// WriteTable writes the curation table as TSV with a header row.
func WriteTable(w io.Writer, table *curation.Table) error {
	if err := writeRow(w, table.Headers); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// WriteFinal writes the final mapping table: one (trait, uri, label)
// row per resolved trait, no header so the data is unambiguous to
// downstream consumers.
func WriteFinal(w io.Writer, final []mapping.FinalMapping) error {
	for _, fm := range final {
		if err := writeRow(w, []string{string(fm.Trait), fm.URI, fm.Label}); err != nil {
			return err
		}
	}
	return nil
}

// WriteUnmapped writes the traits routed to full manual curation with
// their occurrence counts, occurrence order preserved from the input.
func WriteUnmapped(w io.Writer, recs []resolve.Recommendation) error {
	for _, rec := range recs {
		if rec.Action != resolve.ActionUnsure {
			continue
		}
		row := []string{string(rec.Trait()), strconv.Itoa(rec.Set.OccurrenceCount)}
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// writeRow emits one newline-terminated TSV row. Cells must not carry
// tabs or newlines; merge-time validation guarantees that for output
// tables, and anything else indicates caller error.
func writeRow(w io.Writer, cells []string) error {
	for _, cell := range cells {
		if strings.ContainsAny(cell, "\t\n\r") {
			return errors.NewValidationError("cell", cell, "cell contains tab or newline")
		}
	}
	if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
		return errors.WrapIO("write", "", err)
	}
	return nil
}
