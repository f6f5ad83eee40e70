package ontology

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/opencurate/traitmap/pkg/errors"
)

// StaticLookup answers containment queries from an in-memory snapshot
// of the target ontology release's term identifiers. It is the offline
// counterpart to a live lookup service: a term is contained exactly
// when its URI appears in the snapshot.
type StaticLookup struct {
	terms map[string]struct{}
}

// NewStaticLookup creates a StaticLookup over the given term URIs.
func NewStaticLookup(uris []string) *StaticLookup {
	terms := make(map[string]struct{}, len(uris))
	for _, uri := range uris {
		terms[uri] = struct{}{}
	}
	return &StaticLookup{terms: terms}
}

// Contains implements Lookup.
func (s *StaticLookup) Contains(_ context.Context, uri string) (bool, error) {
	_, ok := s.terms[uri]
	return ok, nil
}

// Len returns the number of terms in the snapshot.
func (s *StaticLookup) Len() int {
	return len(s.terms)
}

// LoadTermList reads a release term list, one URI per line, and builds
// a StaticLookup from it. Blank lines and lines starting with '#' are
// ignored.
func LoadTermList(r io.Reader, path string) (*StaticLookup, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var uris []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		uris = append(uris, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	return NewStaticLookup(uris), nil
}
