// Package config loads the planning run's tunables from a JSON or YAML
// file on disk, the way the teacher loads its human-authored deployment
// config: a flat struct decoded straight off the file, then overridden
// by command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/alns"
)

// Config holds one plansolve run's tunables: where its input/output live,
// the SQLite database to record into, and the ALNS search parameters.
type Config struct {
	InputPath    string `json:"input_path" yaml:"input_path"`
	DBPath       string `json:"db_path" yaml:"db_path"`
	RunName      string `json:"run_name" yaml:"run_name"`
	PeriodeStart string `json:"periode_start" yaml:"periode_start"`

	Iterations          int     `json:"iterations" yaml:"iterations"`
	DegreeOfDestruction float64 `json:"degree_of_destruction" yaml:"degree_of_destruction"`
	OperatorDecay       float64 `json:"operator_decay" yaml:"operator_decay"`
	Seed                int64   `json:"seed" yaml:"seed"`
	Acceptance          string  `json:"acceptance" yaml:"acceptance"` // "hill_climbing" or "simulated_annealing"
	InitialTemperature  float64 `json:"initial_temperature" yaml:"initial_temperature"`
	EndTemperature      float64 `json:"end_temperature" yaml:"end_temperature"`
	CoolingStep         float64 `json:"cooling_step" yaml:"cooling_step"`
}

// Default returns a Config matching alns.DefaultConfig, with plansolve's
// own I/O defaults layered on top.
func Default() Config {
	d := alns.DefaultConfig()
	return Config{
		InputPath:           "input.json",
		DBPath:              "planning.db",
		RunName:             "planning run",
		PeriodeStart:        "",
		Iterations:          d.Iterations,
		DegreeOfDestruction: d.DegreeOfDestruction,
		OperatorDecay:       d.OperatorDecay,
		Acceptance:          "hill_climbing",
		InitialTemperature:  100,
		EndTemperature:      0.1,
		CoolingStep:         0.995,
	}
}

// Load reads a Config from path, dispatching on its extension: ".yaml"
// or ".yml" decode as YAML, everything else as JSON.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing yaml %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing json %s: %w", path, err)
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks that a Config's tunables make sense to feed into an
// ALNS run.
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be positive, got %d", c.Iterations)
	}
	if c.DegreeOfDestruction <= 0 || c.DegreeOfDestruction >= 1 {
		return fmt.Errorf("config: degree_of_destruction must be in (0,1), got %.3f", c.DegreeOfDestruction)
	}
	if c.OperatorDecay <= 0 || c.OperatorDecay >= 1 {
		return fmt.Errorf("config: operator_decay must be in (0,1), got %.3f", c.OperatorDecay)
	}
	switch c.Acceptance {
	case "hill_climbing", "simulated_annealing":
	default:
		return fmt.Errorf("config: unknown acceptance criterion %q", c.Acceptance)
	}
	return nil
}

// ALNSConfig builds the pkg/alns.Config this Config describes.
func (c Config) ALNSConfig() alns.Config {
	acfg := alns.DefaultConfig()
	acfg.Iterations = c.Iterations
	acfg.DegreeOfDestruction = c.DegreeOfDestruction
	acfg.OperatorDecay = c.OperatorDecay
	acfg.Seed = c.Seed

	if c.Acceptance == "simulated_annealing" {
		acfg.Criterion = alns.NewSimulatedAnnealing(c.InitialTemperature, c.EndTemperature, c.CoolingStep, alns.Exponential)
	} else {
		acfg.Criterion = alns.HillClimbing{}
	}
	return acfg
}
