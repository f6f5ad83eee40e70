package traitmap

import (
	"time"

	"github.com/opencurate/traitmap/pkg/errors"
	"github.com/opencurate/traitmap/pkg/ontology"
)

// Option is a function that configures a Pipeline instance
type Option func(*config) error

// config holds pipeline construction parameters
type config struct {
	lookup        ontology.Lookup
	reviewFloor   int
	maxColumns    int
	lookupTimeout time.Duration
	lookupWorkers int
}

// WithLookup injects the ontology lookup service used for containment
// classification. Without one, every candidate classifies as UNKNOWN.
func WithLookup(lookup ontology.Lookup) Option {
	return func(c *config) error {
		if lookup == nil {
			return errors.New("lookup cannot be nil")
		}
		c.lookup = lookup
		return nil
	}
}

// WithReviewFloor sets the occurrence count at or above which every
// trait must be covered by manual review.
func WithReviewFloor(floor int) Option {
	return func(c *config) error {
		if floor < 0 {
			return errors.New("review floor cannot be negative")
		}
		c.reviewFloor = floor
		return nil
	}
}

// WithMaxColumns bounds the curation table's total column count.
func WithMaxColumns(max int) Option {
	return func(c *config) error {
		if max < 0 {
			return errors.New("column cap cannot be negative")
		}
		c.maxColumns = max
		return nil
	}
}

// WithLookupTimeout sets the per-lookup timeout for containment
// queries; on expiry the result degrades to UNKNOWN.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return errors.New("lookup timeout cannot be negative")
		}
		c.lookupTimeout = d
		return nil
	}
}

// WithLookupWorkers bounds concurrent containment lookups.
func WithLookupWorkers(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return errors.New("worker count cannot be negative")
		}
		c.lookupWorkers = n
		return nil
	}
}

// WithPolicy applies a curation policy file's settings in one call.
func WithPolicy(p *Policy) Option {
	return func(c *config) error {
		if p == nil {
			return nil
		}
		if p.ReviewFloor > 0 {
			c.reviewFloor = p.ReviewFloor
		}
		if p.MaxColumns > 0 {
			c.maxColumns = p.MaxColumns
		}
		if p.LookupTimeout > 0 {
			c.lookupTimeout = p.LookupTimeout
		}
		if p.LookupWorkers > 0 {
			c.lookupWorkers = p.LookupWorkers
		}
		return nil
	}
}
