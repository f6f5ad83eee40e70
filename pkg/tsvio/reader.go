// Package tsvio reads and writes the tab-separated streams the
// reconciliation engine exchanges with its collaborators: the trait
// source stream, the previous-mapping stream, the curation-decision
// stream, and the output tables.
//
// Readers split raw lines on tabs rather than going through
// encoding/csv: trait and term labels routinely contain double quotes,
// which CSV readers would misinterpret as quoting. Malformed rows are
// skipped with a diagnostic; only structural failures are fatal.
package tsvio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/opencurate/traitmap/pkg/errors"
	"github.com/opencurate/traitmap/pkg/logging"
	"github.com/opencurate/traitmap/pkg/mapping"
)

// ReadStats reports what a reader consumed.
type ReadStats struct {
	// Rows is the number of data rows accepted.
	Rows int
	// Skipped is the number of rows dropped with a diagnostic.
	Skipped int
}

// ReadTraits feeds the trait source stream into a set builder. Rows are
//
//	trait <TAB> occurrenceCount [<TAB> uri <TAB> label <TAB> score]...
//
// with the score field optional per candidate tuple (empty means no
// similarity was computed).
func ReadTraits(r io.Reader, path string, b *mapping.SetBuilder) (*ReadStats, error) {
	stats := &ReadStats{}

	err := eachRow(r, path, func(line int, fields []string) {
		if len(fields) < 2 || fields[0] == "" {
			skipRow(stats, path, line, "expected at least trait and occurrence count")
			return
		}
		occurrences, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil || occurrences < 0 {
			skipRow(stats, path, line, "occurrence count is not a non-negative integer: "+fields[1])
			return
		}

		candidates := fields[2:]
		if len(candidates)%3 != 0 {
			skipRow(stats, path, line, "candidate tuples must be (uri, label, score) triples")
			return
		}

		// Validate every tuple before touching the builder so a skipped
		// row leaves no partial trait behind.
		scores := make([]float64, 0, len(candidates)/3)
		for i := 0; i < len(candidates); i += 3 {
			score := 0.0
			if raw := strings.TrimSpace(candidates[i+2]); raw != "" {
				score, err = strconv.ParseFloat(raw, 64)
				if err != nil {
					skipRow(stats, path, line, "similarity score is not numeric: "+raw)
					return
				}
			}
			scores = append(scores, score)
		}

		trait := mapping.TraitName(strings.TrimSpace(fields[0]))
		b.AddTrait(trait, occurrences)
		for i := 0; i < len(candidates); i += 3 {
			b.AddAutomated(trait, strings.TrimSpace(candidates[i]), strings.TrimSpace(candidates[i+1]), scores[i/3])
		}
		stats.Rows++
	})
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// ReadPrevious feeds the previous-mapping stream into a set builder.
// Rows are (trait, uri) pairs with an optional third label column;
// when the label is absent the URI stands in for it. Duplicate pairs
// are collapsed by the builder.
func ReadPrevious(r io.Reader, path string, b *mapping.SetBuilder) (*ReadStats, error) {
	stats := &ReadStats{}

	err := eachRow(r, path, func(line int, fields []string) {
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			skipRow(stats, path, line, "expected (trait, uri) pair")
			return
		}
		trait := mapping.TraitName(strings.TrimSpace(fields[0]))
		uri := strings.TrimSpace(fields[1])
		label := uri
		if len(fields) >= 3 && strings.TrimSpace(fields[2]) != "" {
			label = strings.TrimSpace(fields[2])
		}
		b.AddHistorical(trait, uri, label)
		stats.Rows++
	})
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// decisionColumns is the minimum column count of the curation-decision
// stream: trait label, chosen URI, chosen label, status. A fifth
// comment column and any curator scratch columns beyond it are
// accepted and ignored.
const decisionColumns = 4

// ReadDecisions parses the post-review curation-decision stream. The
// chosen-URI column may instead hold a manual new-mapping entry in the
// URL|LABEL|||EFO_STATUS grammar; malformed entries skip that row only.
func ReadDecisions(r io.Reader, path string) ([]mapping.CurationDecision, *ReadStats, error) {
	stats := &ReadStats{}
	var decisions []mapping.CurationDecision

	err := eachRow(r, path, func(line int, fields []string) {
		if len(fields) < decisionColumns || fields[0] == "" {
			skipRow(stats, path, line, "expected trait, uri, label, status columns")
			return
		}

		status, err := mapping.ParseStatus(fields[3])
		if err != nil {
			skipRow(stats, path, line, "unrecognized status: "+fields[3])
			return
		}

		decision := mapping.CurationDecision{
			Trait:  mapping.TraitName(strings.TrimSpace(fields[0])),
			Status: status,
		}
		if len(fields) > decisionColumns {
			decision.Comment = strings.TrimSpace(fields[4])
		}

		uriField := strings.TrimSpace(fields[1])
		switch {
		case strings.Contains(uriField, "|"):
			chosen, err := mapping.ParseManualEntry(uriField)
			if err != nil {
				skipRow(stats, path, line, "invalid manual entry: "+err.Error())
				return
			}
			decision.Chosen = chosen
		case uriField != "":
			decision.Chosen = &mapping.CandidateMapping{
				URI:    uriField,
				Label:  strings.TrimSpace(fields[2]),
				Source: mapping.SourceAutomated,
			}
		}

		decisions = append(decisions, decision)
		stats.Rows++
	})
	if err != nil {
		return nil, stats, err
	}
	return decisions, stats, nil
}

// ReadFinal parses a final-mapping-shaped stream: (trait, uri, label)
// rows with no header. The curate step writes the auto-accepted subset
// in this shape for the merge step to consume.
func ReadFinal(r io.Reader, path string) ([]mapping.FinalMapping, *ReadStats, error) {
	stats := &ReadStats{}
	var final []mapping.FinalMapping

	err := eachRow(r, path, func(line int, fields []string) {
		if len(fields) < 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
			skipRow(stats, path, line, "expected (trait, uri, label) row")
			return
		}
		final = append(final, mapping.FinalMapping{
			Trait: mapping.TraitName(strings.TrimSpace(fields[0])),
			URI:   strings.TrimSpace(fields[1]),
			Label: strings.TrimSpace(fields[2]),
		})
		stats.Rows++
	})
	if err != nil {
		return nil, stats, err
	}
	return final, stats, nil
}

// eachRow streams tab-split rows to fn, skipping blank lines. A read
// failure on the underlying stream is structural and fatal.
func eachRow(r io.Reader, path string, fn func(line int, fields []string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fn(line, strings.Split(text, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return errors.WrapIO("read", path, err)
	}
	return nil
}

// skipRow records and logs a skipped row.
func skipRow(stats *ReadStats, path string, line int, message string) {
	stats.Skipped++
	logging.Warn().
		Str("file", path).
		Int("line", line).
		Msg("Skipping malformed row: " + message)
}
