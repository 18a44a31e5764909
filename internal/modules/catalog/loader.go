package catalog

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// SeedFile is the on-disk catalog format: a YAML document carrying the
// full list of plans offered in a region.
type SeedFile struct {
	Region string `yaml:"region"`
	Plans  []Plan `yaml:"plans"`
}

// UnmarshalYAML defaults Active to true: a plan listed in a seed file is
// on offer unless it explicitly says otherwise.
func (p *Plan) UnmarshalYAML(value *yaml.Node) error {
	type planAlias Plan
	aux := planAlias{Active: true}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*p = Plan(aux)
	return nil
}

// Loader reads plan catalogs from YAML seed files
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new catalog loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "catalog_loader").Logger(),
	}
}

// LoadFromFile parses a YAML seed file. Plans that fail validation are
// dropped with a warning; the rest load normally.
func (l *Loader) LoadFromFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed %s: %w", path, err)
	}

	return l.LoadFromBytes(data)
}

// LoadFromBytes parses a YAML catalog document
func (l *Loader) LoadFromBytes(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}

	valid := seed.Plans[:0]
	for _, plan := range seed.Plans {
		if plan.Region == "" {
			plan.Region = seed.Region
		}
		if err := plan.Validate(); err != nil {
			l.log.Warn().Err(err).Str("plan_id", plan.ID).Msg("Dropping invalid plan from seed")
			continue
		}
		valid = append(valid, plan)
	}
	seed.Plans = valid

	l.log.Info().
		Str("region", seed.Region).
		Int("plans", len(seed.Plans)).
		Msg("Catalog seed loaded")

	return &seed, nil
}
