// Package mapping defines the candidate model for trait to ontology term
// mappings: the trait names reported by the source registry, the candidate
// ontology mappings proposed for each trait, and the curation decisions
// and final mappings that result from reviewing them.
package mapping

import (
	"strings"

	"github.com/opencurate/traitmap/pkg/errors"
)

// TraitName is a normalized string identifying a clinical trait as
// reported by the source registry. It is the unique key for all
// downstream joins and is immutable once extracted.
type TraitName string

// String returns the string representation of a trait name.
func (t TraitName) String() string {
	return string(t)
}

// Source identifies where a candidate mapping came from.
type Source string

const (
	// SourceAutomated marks candidates produced by the automated mapper.
	SourceAutomated Source = "AUTOMATED"
	// SourceHistorical marks mappings accepted in a prior run. Historical
	// mappings are presumed validated and take annotation precedence.
	SourceHistorical Source = "HISTORICAL"
	// SourceManual marks mappings supplied out-of-band by a curator.
	SourceManual Source = "MANUAL"
)

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// Containment describes whether a candidate's ontology term exists in
// the current target ontology release.
type Containment string

const (
	// ContainmentCurrent means the term resolves in the current release.
	ContainmentCurrent Containment = "EFO_CURRENT"
	// ContainmentAbsent means the term does not resolve in the current release.
	ContainmentAbsent Containment = "NOT_CONTAINED"
	// ContainmentUnknown means no definitive answer was obtained.
	ContainmentUnknown Containment = "UNKNOWN"
)

// String returns the string representation of a containment state.
func (c Containment) String() string {
	return string(c)
}

// ParseContainment parses a containment string as it appears in input
// streams and the manual-entry grammar.
func ParseContainment(s string) (Containment, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EFO_CURRENT":
		return ContainmentCurrent, nil
	case "NOT_CONTAINED":
		return ContainmentAbsent, nil
	case "UNKNOWN":
		return ContainmentUnknown, nil
	default:
		return "", errors.NewValidationError("containment", s, "unrecognized containment status")
	}
}

// CandidateMapping is one proposed ontology mapping for a trait.
// Uniqueness within a trait's candidate set is by URI; duplicates from
// different sources are merged, keeping the highest-priority source tag.
type CandidateMapping struct {
	// URI is the ontology term identifier.
	URI string
	// Label is the term's display label.
	Label string
	// Source records where the candidate came from.
	Source Source
	// Exact reports whether the normalized trait label equals the
	// normalized ontology label. Recomputed during set construction,
	// never trusted from input.
	Exact bool
	// Containment is computed lazily by the containment classifier.
	Containment Containment
	// Score is an optional similarity score supplied by the external
	// automated matcher. Zero when not provided.
	Score float64
}

// TraitCandidateSet owns all candidate mappings for one trait, plus
// aggregate flags used by the priority resolver. Candidates preserve
// discovery order. A set is read-only once built.
type TraitCandidateSet struct {
	// Trait is the trait name this set belongs to.
	Trait TraitName
	// OccurrenceCount is the frequency of the trait in source data,
	// used for prioritizing manual effort.
	OccurrenceCount int
	// Candidates holds the deduplicated candidate mappings in
	// discovery order.
	Candidates []CandidateMapping
	// HasPrevious reports whether any HISTORICAL candidate exists.
	HasPrevious bool
	// HasExact reports whether any candidate with Exact=true exists.
	HasExact bool
}

// Previous returns the first HISTORICAL candidate, or nil.
func (s *TraitCandidateSet) Previous() *CandidateMapping {
	for i := range s.Candidates {
		if s.Candidates[i].Source == SourceHistorical {
			return &s.Candidates[i]
		}
	}
	return nil
}

// URIs returns the URIs of all candidates in discovery order.
func (s *TraitCandidateSet) URIs() []string {
	uris := make([]string, 0, len(s.Candidates))
	for i := range s.Candidates {
		uris = append(uris, s.Candidates[i].URI)
	}
	return uris
}

// Status is the outcome class of a curation decision.
type Status string

const (
	// StatusDone means a mapping was confirmed and needs no further work.
	StatusDone Status = "DONE"
	// StatusImport means the chosen term must be imported into the
	// target ontology before the mapping becomes current.
	StatusImport Status = "IMPORT"
	// StatusNew means a new ontology term must be created first.
	StatusNew Status = "NEW"
	// StatusSkip means the trait was deliberately left unmapped.
	StatusSkip Status = "SKIP"
	// StatusUnsure means the curator could not decide.
	StatusUnsure Status = "UNSURE"
)

// String returns the string representation of a status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a curation status string.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DONE":
		return StatusDone, nil
	case "IMPORT":
		return StatusImport, nil
	case "NEW":
		return StatusNew, nil
	case "SKIP":
		return StatusSkip, nil
	case "UNSURE":
		return StatusUnsure, nil
	default:
		return "", errors.NewValidationError("status", s, "unrecognized curation status")
	}
}

// Emittable reports whether decisions with this status may produce a
// final mapping. SKIP, NEW and UNSURE are never emitted.
func (s Status) Emittable() bool {
	return s == StatusDone || s == StatusImport
}

// CurationDecision is the human- or policy-assigned outcome for a trait.
type CurationDecision struct {
	// Trait is the trait the decision applies to.
	Trait TraitName
	// Status classifies the outcome.
	Status Status
	// Chosen is the selected candidate, if any. It may be a mapping
	// supplied out-of-band via the manual-entry grammar.
	Chosen *CandidateMapping
	// Comment is free text from the curator.
	Comment string
}

// FinalMapping is one row of the authoritative output table. At most
// one final mapping exists per trait; absence means the trait remains
// unmapped.
type FinalMapping struct {
	Trait TraitName
	URI   string
	Label string
}
