// Package table provides terminal table rendering for CLI commands.
package table

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/opencurate/traitmap/pkg/curation"
)

// previewGroups bounds how many candidate column groups a terminal
// preview shows; the full width only makes sense in a spreadsheet.
const previewGroups = 2

// previewColumns is the preview's total column count: the two fixed
// columns plus previewGroups five-column candidate groups.
const previewColumns = 2 + previewGroups*5

// RenderPreview writes a narrowed terminal rendering of a curation
// table: the fixed columns plus the top candidate groups.
func RenderPreview(w io.Writer, t *curation.Table) error {
	width := len(t.Headers)
	if width > previewColumns {
		width = previewColumns
	}

	titled := cases.Title(language.English)
	headers := make([]any, 0, width)
	for _, h := range t.Headers[:width] {
		headers = append(headers, titled.String(h))
	}

	tw := tablewriter.NewTable(w)
	tw.Header(headers...)

	for _, row := range t.Rows {
		cells := make([]any, 0, width)
		for _, cell := range row[:width] {
			if cell == "" {
				cell = "-"
			}
			cells = append(cells, cell)
		}
		if err := tw.Append(cells...); err != nil {
			return err
		}
	}

	return tw.Render()
}
