// Package curation projects resolved trait candidate sets into the
// wide, rank-ordered review table consumed by human curators.
package curation

import (
	"sort"
	"strconv"

	"github.com/opencurate/traitmap/pkg/mapping"
)

const (
	// fixedColumns are the leading columns present in every row:
	// trait name and occurrence count. Truncation never drops them.
	fixedColumns = 2

	// candidateColumns is the width of one candidate column group:
	// uri, label, source, exact, containment.
	candidateColumns = 5

	// DefaultMaxColumns caps total table width to keep the spreadsheet
	// consumer responsive: the fixed columns plus ten candidate groups.
	DefaultMaxColumns = fixedColumns + 10*candidateColumns
)

// Table is the assembled curation table. Rows are sorted by occurrence
// count descending; candidate column groups within a row are ordered
// highest priority first.
type Table struct {
	Headers   []string
	Rows      [][]string
	Truncated int // candidate groups dropped by the column cap
}

// Builder assembles curation tables.
type Builder struct {
	// MaxColumns bounds the total column count. Values below the fixed
	// column width fall back to DefaultMaxColumns.
	MaxColumns int
}

// NewBuilder creates a Builder with the default column cap.
func NewBuilder() *Builder {
	return &Builder{MaxColumns: DefaultMaxColumns}
}

// maxGroups returns how many candidate groups fit under the cap.
func (b *Builder) maxGroups() int {
	max := b.MaxColumns
	if max <= fixedColumns {
		max = DefaultMaxColumns
	}
	return (max - fixedColumns) / candidateColumns
}

// Build projects the candidate sets into a table. The projection is
// deterministic: the same input always yields byte-identical output.
func (b *Builder) Build(sets []*mapping.TraitCandidateSet) *Table {
	groups := b.maxGroups()

	// Widest row determines how many candidate groups the header carries.
	headerGroups := 0
	for _, set := range sets {
		n := len(set.Candidates)
		if n > groups {
			n = groups
		}
		if n > headerGroups {
			headerGroups = n
		}
	}

	table := &Table{Headers: headers(headerGroups)}

	ordered := make([]*mapping.TraitCandidateSet, len(sets))
	copy(ordered, sets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurrenceCount > ordered[j].OccurrenceCount
	})

	for _, set := range ordered {
		row, dropped := b.row(set, headerGroups)
		table.Rows = append(table.Rows, row)
		table.Truncated += dropped
	}

	return table
}

// headers builds the header row for the given candidate group count.
func headers(groups int) []string {
	h := make([]string, 0, fixedColumns+groups*candidateColumns)
	h = append(h, "Trait", "Occurrences")
	for i := 1; i <= groups; i++ {
		n := strconv.Itoa(i)
		h = append(h, "URI "+n, "Label "+n, "Source "+n, "Exact "+n, "Containment "+n)
	}
	return h
}

// row projects one set, returning the row and the count of candidate
// groups dropped by the cap. Dropped groups are always the trailing,
// lowest-priority ones.
func (b *Builder) row(set *mapping.TraitCandidateSet, headerGroups int) ([]string, int) {
	ranked := rankCandidates(set.Candidates)

	dropped := 0
	if len(ranked) > headerGroups {
		dropped = len(ranked) - headerGroups
		ranked = ranked[:headerGroups]
	}

	row := make([]string, 0, fixedColumns+headerGroups*candidateColumns)
	row = append(row, string(set.Trait), strconv.Itoa(set.OccurrenceCount))
	for _, c := range ranked {
		row = append(row,
			c.URI,
			c.Label,
			string(c.Source),
			strconv.FormatBool(c.Exact),
			string(c.Containment),
		)
	}
	// Pad short rows so every row has the header's geometry.
	for len(row) < fixedColumns+headerGroups*candidateColumns {
		row = append(row, "")
	}
	return row, dropped
}

// rankCandidates orders candidates for review: HISTORICAL first, then
// contained exact matches, then the rest by descending similarity
// score, stable on ties by discovery order.
func rankCandidates(candidates []mapping.CandidateMapping) []mapping.CandidateMapping {
	ranked := make([]mapping.CandidateMapping, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := candidateRank(ranked[i]), candidateRank(ranked[j])
		if ri != rj {
			return ri < rj
		}
		if ri == 2 {
			return ranked[i].Score > ranked[j].Score
		}
		return false
	})

	return ranked
}

func candidateRank(c mapping.CandidateMapping) int {
	switch {
	case c.Source == mapping.SourceHistorical:
		return 0
	case c.Exact && c.Containment == mapping.ContainmentCurrent:
		return 1
	default:
		return 2
	}
}
