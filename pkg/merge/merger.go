// Package merge combines human-approved curation decisions with the
// automatically accepted mapping set into the final authoritative
// trait to ontology term table. It enforces one decision per trait:
// a trait decided by both inputs fails the run, since silently picking
// a side would risk a mapping regression in the published table.
// Malformed rows are dropped with a diagnostic naming the trait; the
// remaining rows are still emitted.
package merge

import (
	"net/url"
	"sort"
	"strings"

	"github.com/opencurate/traitmap/pkg/errors"
	"github.com/opencurate/traitmap/pkg/logging"
	"github.com/opencurate/traitmap/pkg/mapping"
	"github.com/opencurate/traitmap/pkg/resolve"
)

// Input source labels used in conflict diagnostics.
const (
	sourceCurated      = "curated decisions"
	sourceAutoAccepted = "auto-accepted mappings"
)

// FromRecommendations extracts the final-mapping rows for the
// recommendations that bypass review (resolver auto-accepts).
func FromRecommendations(recs []resolve.Recommendation) []mapping.FinalMapping {
	var final []mapping.FinalMapping
	for _, rec := range recs {
		if !rec.AutoAccepted() || rec.Candidate == nil {
			continue
		}
		final = append(final, mapping.FinalMapping{
			Trait: rec.Trait(),
			URI:   rec.Candidate.URI,
			Label: rec.Candidate.Label,
		})
	}
	return final
}

// Merger produces the final mapping table.
type Merger struct {
	// Excluded counts decisions dropped for a non-emittable status.
	Excluded int
	// Invalid counts rows rejected for a missing chosen mapping or a
	// contaminated URI or label.
	Invalid int
}

// New creates a Merger.
func New() *Merger {
	return &Merger{}
}

// Merge combines curated decisions with the auto-accepted mappings that
// were never routed to review. The result is sorted by trait name, at
// most one row per trait.
//
// A trait present in both inputs is fatal: the merger fails closed
// rather than picking a side. Everything else recoverable is per-row:
// a decision with no chosen mapping, or a contaminated URI or label
// (embedded whitespace, newlines, non-absolute identifier), drops that
// row with a diagnostic naming the trait while the remaining rows are
// emitted.
func (m *Merger) Merge(decisions []mapping.CurationDecision, auto []mapping.FinalMapping) ([]mapping.FinalMapping, error) {
	byTrait := make(map[mapping.TraitName]mapping.FinalMapping)
	fromAuto := make(map[mapping.TraitName]bool)
	var autoConflicts []string

	for _, fm := range auto {
		if fromAuto[fm.Trait] {
			autoConflicts = append(autoConflicts, string(fm.Trait))
			continue
		}
		fromAuto[fm.Trait] = true
		byTrait[fm.Trait] = fm
	}
	if len(autoConflicts) > 0 {
		sort.Strings(autoConflicts)
		return nil, errors.NewMergeError(sourceAutoAccepted, sourceAutoAccepted, autoConflicts, errors.ErrDuplicateTrait)
	}

	fromDecisions := make(map[mapping.TraitName]bool)
	var crossConflicts, curatedConflicts []string

	for _, decision := range decisions {
		if !decision.Status.Emittable() {
			m.Excluded++
			if fromAuto[decision.Trait] {
				// The curator marked a trait that the resolver accepted
				// without review. The auto-accepted row stands; a human
				// should reconcile the disagreement.
				logging.Warn().
					Str("trait", string(decision.Trait)).
					Str("status", string(decision.Status)).
					Msg("Curator decision contradicts an auto-accepted mapping, keeping the auto-accepted row")
				continue
			}
			logging.Debug().
				Str("trait", string(decision.Trait)).
				Str("status", string(decision.Status)).
				Msg("Excluding decision from final table")
			continue
		}
		if decision.Chosen == nil {
			m.Invalid++
			logging.Warn().
				Str("trait", string(decision.Trait)).
				Str("status", string(decision.Status)).
				Msg("Skipping decision with no chosen mapping")
			continue
		}
		switch {
		case fromAuto[decision.Trait]:
			crossConflicts = append(crossConflicts, string(decision.Trait))
		case fromDecisions[decision.Trait]:
			curatedConflicts = append(curatedConflicts, string(decision.Trait))
		default:
			fromDecisions[decision.Trait] = true
			byTrait[decision.Trait] = mapping.FinalMapping{
				Trait: decision.Trait,
				URI:   decision.Chosen.URI,
				Label: decision.Chosen.Label,
			}
		}
	}

	if len(crossConflicts) > 0 {
		sort.Strings(crossConflicts)
		return nil, errors.NewMergeError(sourceCurated, sourceAutoAccepted, crossConflicts, errors.ErrDuplicateTrait)
	}
	if len(curatedConflicts) > 0 {
		sort.Strings(curatedConflicts)
		return nil, errors.NewMergeError(sourceCurated, sourceCurated, curatedConflicts, errors.ErrDuplicateTrait)
	}

	final := make([]mapping.FinalMapping, 0, len(byTrait))
	for _, fm := range byTrait {
		if err := Validate(fm); err != nil {
			m.Invalid++
			logging.Warn().
				Str("trait", string(fm.Trait)).
				Err(err).
				Msg("Rejecting contaminated row from final table")
			continue
		}
		final = append(final, fm)
	}

	sort.Slice(final, func(i, j int) bool {
		return final[i].Trait < final[j].Trait
	})

	return final, nil
}

// Validate checks a final mapping row against the output invariants:
// the URI must be a syntactically valid absolute identifier with no
// embedded whitespace, and the label must carry no leading/trailing
// whitespace or embedded newlines.
func Validate(fm mapping.FinalMapping) error {
	if strings.ContainsAny(fm.URI, " \t\n\r") {
		return errors.NewValidationError("uri", fm.Trait, "uri contains whitespace")
	}
	parsed, err := url.Parse(fm.URI)
	if err != nil {
		return errors.NewValidationError("uri", fm.Trait, "uri does not parse: "+err.Error())
	}
	if !parsed.IsAbs() || parsed.Scheme == "" || (parsed.Host == "" && parsed.Opaque == "" && parsed.Path == "") {
		return errors.NewValidationError("uri", fm.Trait, "uri is not an absolute identifier: "+fm.URI)
	}

	if fm.Label == "" {
		return errors.NewValidationError("label", fm.Trait, "label is empty")
	}
	if strings.TrimSpace(fm.Label) != fm.Label {
		return errors.NewValidationError("label", fm.Trait, "label has leading or trailing whitespace")
	}
	if strings.ContainsAny(fm.Label, "\n\r") {
		return errors.NewValidationError("label", fm.Trait, "label contains newline characters")
	}

	return nil
}
