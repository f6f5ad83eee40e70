package traitmap

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/opencurate/traitmap/pkg/errors"
)

// Policy is the tunable curation policy, loadable from a YAML file.
// Zero values mean "use the default".
type Policy struct {
	// ReviewFloor is the occurrence count at or above which every trait
	// must be visited during manual curation.
	ReviewFloor int `yaml:"review_floor"`

	// MaxColumns caps the curation table's total column count.
	MaxColumns int `yaml:"max_columns"`

	// LookupTimeout bounds a single containment query.
	LookupTimeout time.Duration `yaml:"lookup_timeout"`

	// LookupWorkers bounds concurrent containment lookups.
	LookupWorkers int `yaml:"lookup_workers"`
}

// LoadPolicy reads a curation policy from a YAML file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return &policy, nil
}
