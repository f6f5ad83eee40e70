package mapping

import (
	"fmt"
	"strings"

	"github.com/opencurate/traitmap/pkg/errors"
)

// Manual new-mapping entries are supplied by curators when the chosen
// term is not among the automated candidates. The grammar is
//
//	URL|LABEL|||EFO_STATUS
//
// with EFO_STATUS one of EFO_CURRENT or NOT_CONTAINED. The two middle
// fields are reserved and must be empty. Malformed entries are a
// reportable, non-fatal skip at the call site.

const manualEntrySegments = 5

// ParseManualEntry parses a manual new-mapping entry into a candidate
// mapping with SourceManual.
func ParseManualEntry(entry string) (*CandidateMapping, error) {
	parts := strings.Split(entry, "|")
	if len(parts) != manualEntrySegments {
		return nil, errors.NewParseError("manual-entry", "",
			fmt.Sprintf("expected URL|LABEL|||EFO_STATUS, got %d segment(s)", len(parts)), nil)
	}
	if parts[2] != "" || parts[3] != "" {
		return nil, errors.NewParseError("manual-entry", "",
			"reserved fields between LABEL and EFO_STATUS must be empty", nil)
	}

	uri := strings.TrimSpace(parts[0])
	label := strings.TrimSpace(parts[1])
	if uri == "" {
		return nil, errors.NewParseError("manual-entry", "", "empty URL field", nil)
	}
	if label == "" {
		return nil, errors.NewParseError("manual-entry", "", "empty LABEL field", nil)
	}

	containment, err := ParseContainment(parts[4])
	if err != nil || containment == ContainmentUnknown {
		return nil, errors.NewParseError("manual-entry", "",
			fmt.Sprintf("EFO_STATUS must be EFO_CURRENT or NOT_CONTAINED, got %q", parts[4]), err)
	}

	return &CandidateMapping{
		URI:         uri,
		Label:       label,
		Source:      SourceManual,
		Containment: containment,
	}, nil
}
