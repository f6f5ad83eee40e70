package mapping

import (
	"strings"
)

// normalizeReplacer folds cosmetic punctuation differences before
// comparison. Internal hyphens and underscores compare equal to spaces.
// This is a fixed fold, not a fuzzy matcher; similarity scoring is
// supplied by the external automated mapper.
var normalizeReplacer = strings.NewReplacer(
	"-", " ",
	"_", " ",
)

// Normalize returns the canonical comparison form of a trait or term
// label: lowercased, whitespace-trimmed, punctuation folded, and with
// internal runs of whitespace collapsed to single spaces.
func Normalize(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = normalizeReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// IsExact reports whether a trait name and an ontology term label are
// an exact mapping under the normalization fold.
func IsExact(trait TraitName, label string) bool {
	return Normalize(string(trait)) == Normalize(label)
}
