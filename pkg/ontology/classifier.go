// Package ontology classifies candidate mappings by whether their term
// currently exists in the target ontology release. The lookup service
// itself is an injected collaborator; this package adds memoization,
// bounded concurrency, and graceful degradation on lookup failure.
package ontology

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/opencurate/traitmap/pkg/errors"
	"github.com/opencurate/traitmap/pkg/logging"
	"github.com/opencurate/traitmap/pkg/mapping"
)

// Lookup answers whether an ontology term identifier resolves in the
// current target ontology release.
type Lookup interface {
	Contains(ctx context.Context, uri string) (bool, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, uri string) (bool, error)

// Contains implements Lookup.
func (f LookupFunc) Contains(ctx context.Context, uri string) (bool, error) {
	return f(ctx, uri)
}

const (
	// DefaultTimeout bounds a single containment query. On expiry the
	// result degrades to UNKNOWN rather than blocking the run.
	DefaultTimeout = 10 * time.Second

	// DefaultWorkers bounds concurrent lookups during batch annotation.
	DefaultWorkers = 8
)

// Classifier determines containment for candidate mappings, memoizing
// results per URI. Containment is invariant across traits within one
// run, so the cache never expires or evicts.
type Classifier struct {
	lookup   Lookup
	cache    *gocache.Cache
	timeout  time.Duration
	workers  int
	failures atomic.Int64
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithTimeout sets the per-lookup timeout.
func WithTimeout(d time.Duration) ClassifierOption {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithWorkers sets the maximum number of concurrent lookups.
func WithWorkers(n int) ClassifierOption {
	return func(c *Classifier) {
		if n > 0 {
			c.workers = n
		}
	}
}

// NewClassifier creates a Classifier over the given lookup service.
func NewClassifier(lookup Lookup, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		lookup:  lookup,
		cache:   gocache.New(gocache.NoExpiration, 0),
		timeout: DefaultTimeout,
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the containment state for a single URI. Results are
// memoized per URI for the life of the classifier; a failed or
// timed-out lookup yields UNKNOWN and is logged as recoverable.
func (c *Classifier) Classify(ctx context.Context, uri string) mapping.Containment {
	if cached, found := c.cache.Get(uri); found {
		return cached.(mapping.Containment)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := mapping.ContainmentUnknown
	contained, err := c.lookup.Contains(lookupCtx, uri)
	switch {
	case err != nil:
		c.failures.Add(1)
		wrapped := errors.WrapLookup(uri, err)
		if lookupCtx.Err() == context.DeadlineExceeded {
			wrapped = errors.NewTimeoutError("containment lookup", c.timeout.String(), "no answer for "+uri)
		}
		logging.Ctx(logging.WithURI(ctx, uri)).Warn().
			Err(wrapped).
			Msg("Containment lookup failed, degrading to UNKNOWN")
	case contained:
		result = mapping.ContainmentCurrent
	default:
		result = mapping.ContainmentAbsent
	}

	c.cache.Set(uri, result, gocache.NoExpiration)
	return result
}

// Failures returns the number of lookups that degraded to UNKNOWN.
func (c *Classifier) Failures() int {
	return int(c.failures.Load())
}

// Annotate resolves containment for every candidate in the given sets,
// running lookups through a bounded worker pool. Lookup failures never
// abort the run; the only error returned is context cancellation.
func (c *Classifier) Annotate(ctx context.Context, sets []*mapping.TraitCandidateSet) error {
	// Distinct URIs only; containment does not vary by trait.
	seen := make(map[string]struct{})
	var uris []string
	for _, set := range sets {
		for i := range set.Candidates {
			uri := set.Candidates[i].URI
			if _, ok := seen[uri]; ok {
				continue
			}
			seen[uri] = struct{}{}
			uris = append(uris, uri)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, uri := range uris {
		uri := uri
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.ErrCanceled
			}
			c.Classify(gctx, uri)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, set := range sets {
		for i := range set.Candidates {
			// Manual statuses are curator-asserted and not reclassified.
			if set.Candidates[i].Source == mapping.SourceManual {
				continue
			}
			set.Candidates[i].Containment = c.Classify(ctx, set.Candidates[i].URI)
		}
	}

	return nil
}
