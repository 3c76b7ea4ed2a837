package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one benchmark workload.
type Scenario struct {
	Name string `yaml:"name"`
	// Slots is the growth increment (and initial length) of each table.
	Slots int `yaml:"slots"`
	// Objects is the number of live objects each worker keeps in its table.
	Objects int `yaml:"objects"`
	// Iterations is the number of workload steps per worker.
	Iterations int `yaml:"iterations"`
	// Churn is the fraction of steps that release one handle and acquire a
	// replacement, in [0, 1]. The rest of a step is pure dereferencing.
	Churn float64 `yaml:"churn"`
	// Reads is the number of dereferences per step.
	Reads int `yaml:"reads"`
	// Workers is the number of independent tables, one goroutine each. A
	// table is single-threaded; parallelism is across table instances.
	Workers int `yaml:"workers"`
	// Seed feeds the per-worker RNGs. Runs with the same seed replay the
	// same handle churn.
	Seed int64 `yaml:"seed"`
}

// DefaultScenario is the workload used when no scenario file is given.
func DefaultScenario() Scenario {
	return Scenario{
		Name:       "churn",
		Slots:      1024,
		Objects:    100000,
		Iterations: 1000000,
		Churn:      0.25,
		Reads:      4,
		Workers:    1,
		Seed:       1,
	}
}

// LoadScenario reads a scenario from a YAML file and validates it.
func LoadScenario(path string) (Scenario, error) {
	s := DefaultScenario()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse scenario: %w", err)
	}

	return s, s.Validate()
}

// Validate checks the scenario parameters.
func (s Scenario) Validate() error {
	if s.Objects <= 0 {
		return fmt.Errorf("objects must be positive, got %d", s.Objects)
	}
	if s.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", s.Iterations)
	}
	if s.Churn < 0 || s.Churn > 1 {
		return fmt.Errorf("churn must be in [0, 1], got %g", s.Churn)
	}
	if s.Reads < 0 {
		return fmt.Errorf("reads must be non-negative, got %d", s.Reads)
	}
	if s.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", s.Workers)
	}
	return nil
}
