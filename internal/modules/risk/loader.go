package risk

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Loader reads rule thresholds from TOML files so deployments can tune
// boundaries without a rebuild.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new threshold loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "risk_threshold_loader").Logger(),
	}
}

// LoadFromFile loads thresholds from a TOML file. Fields absent from
// the file keep their documented defaults.
func (l *Loader) LoadFromFile(path string) (Thresholds, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Thresholds{}, fmt.Errorf("thresholds file not found: %s", path)
	}

	thresholds := DefaultThresholds()
	if _, err := toml.DecodeFile(path, &thresholds); err != nil {
		return Thresholds{}, fmt.Errorf("failed to parse thresholds TOML: %w", err)
	}

	l.log.Info().Str("path", path).Msg("Risk thresholds loaded")
	return thresholds, nil
}

// LoadFromString loads thresholds from a TOML string
func (l *Loader) LoadFromString(tomlString string) (Thresholds, error) {
	thresholds := DefaultThresholds()
	if _, err := toml.Decode(tomlString, &thresholds); err != nil {
		return Thresholds{}, fmt.Errorf("failed to parse thresholds TOML: %w", err)
	}
	return thresholds, nil
}
