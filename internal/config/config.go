// Package config defines the parameters of single runs and batch sweeps.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sim holds the parameters of a single model run.
type Sim struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	People int `yaml:"people"`

	// InitialCash is each person's starting wallet. With RandomWallets
	// set, wallets are drawn uniformly from [1, InitialCash] instead.
	InitialCash   int  `yaml:"initial_cash"`
	RandomWallets bool `yaml:"random_wallets"`

	// RichThreshold is the working-cash level people keep on hand; it is
	// also the savings level above which a person counts as rich.
	RichThreshold int     `yaml:"rich_threshold"`
	ReserveRatio  float64 `yaml:"reserve_ratio"`

	Steps int   `yaml:"steps"`
	Seed  int64 `yaml:"seed"`
	Torus bool  `yaml:"torus"`
}

// DefaultSim returns the canonical single-run parameters.
func DefaultSim() Sim {
	return Sim{
		Width:         20,
		Height:        20,
		People:        25,
		InitialCash:   10,
		RichThreshold: 10,
		ReserveRatio:  0.5,
		Steps:         1000,
		Seed:          42,
	}
}

// Validate reports the first invalid parameter.
func (c Sim) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid dimensions %dx%d: both must be positive", c.Width, c.Height)
	}
	if c.People <= 0 {
		return fmt.Errorf("people %d: must be positive", c.People)
	}
	if c.InitialCash < 0 {
		return fmt.Errorf("initial cash %d: must be non-negative", c.InitialCash)
	}
	if c.RandomWallets && c.InitialCash < 1 {
		return fmt.Errorf("random wallets need initial cash >= 1, got %d", c.InitialCash)
	}
	if c.RichThreshold < 0 {
		return fmt.Errorf("rich threshold %d: must be non-negative", c.RichThreshold)
	}
	if c.ReserveRatio < 0 || c.ReserveRatio > 1 {
		return fmt.Errorf("reserve ratio %v: must be in [0,1]", c.ReserveRatio)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps %d: must be non-negative", c.Steps)
	}
	return nil
}

// GridSize pairs the two grid dimensions for sweeping.
type GridSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// String formats the size as WxH.
func (g GridSize) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

// Batch describes a parameter sweep. Every combination of the enumerated
// axes runs Iterations times, with seeds BaseSeed, BaseSeed+1, and so on.
type Batch struct {
	GridSizes      []GridSize `yaml:"grid_sizes"`
	AgentCounts    []int      `yaml:"agent_counts"`
	ReserveRatios  []float64  `yaml:"reserve_ratios"`
	InitialCash    []int      `yaml:"initial_cash"`
	RichThresholds []int      `yaml:"rich_thresholds"`

	Steps         int   `yaml:"steps"`
	Iterations    int   `yaml:"iterations"`
	BaseSeed      int64 `yaml:"base_seed"`
	Torus         bool  `yaml:"torus"`
	RandomWallets bool  `yaml:"random_wallets"`

	Workers  int    `yaml:"workers"`
	Output   string `yaml:"output"`
	Database string `yaml:"database"`
}

// DefaultBatch mirrors the single-run defaults as a one-combination sweep.
func DefaultBatch() Batch {
	return Batch{
		GridSizes:      []GridSize{{Width: 20, Height: 20}},
		AgentCounts:    []int{25},
		ReserveRatios:  []float64{0.5},
		InitialCash:    []int{10},
		RichThresholds: []int{10},
		Steps:          1000,
		Iterations:     1,
		BaseSeed:       42,
		Workers:        4,
		Output:         "reserves.csv",
	}
}

// LoadBatch reads a sweep description from a YAML file. Missing keys keep
// their defaults.
func LoadBatch(path string) (Batch, error) {
	cfg := DefaultBatch()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading sweep config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing sweep config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid sweep parameter.
func (b Batch) Validate() error {
	if len(b.GridSizes) == 0 {
		return fmt.Errorf("grid_sizes: at least one size required")
	}
	for _, gs := range b.GridSizes {
		if gs.Width <= 0 || gs.Height <= 0 {
			return fmt.Errorf("grid size %s: both dimensions must be positive", gs)
		}
	}
	if len(b.AgentCounts) == 0 {
		return fmt.Errorf("agent_counts: at least one count required")
	}
	for _, n := range b.AgentCounts {
		if n <= 0 {
			return fmt.Errorf("agent count %d: must be positive", n)
		}
	}
	if len(b.ReserveRatios) == 0 {
		return fmt.Errorf("reserve_ratios: at least one ratio required")
	}
	for _, r := range b.ReserveRatios {
		if r < 0 || r > 1 {
			return fmt.Errorf("reserve ratio %v: must be in [0,1]", r)
		}
	}
	if len(b.InitialCash) == 0 {
		return fmt.Errorf("initial_cash: at least one amount required")
	}
	for _, c := range b.InitialCash {
		if c < 0 {
			return fmt.Errorf("initial cash %d: must be non-negative", c)
		}
		if b.RandomWallets && c < 1 {
			return fmt.Errorf("random wallets need initial cash >= 1, got %d", c)
		}
	}
	if len(b.RichThresholds) == 0 {
		return fmt.Errorf("rich_thresholds: at least one threshold required")
	}
	for _, rt := range b.RichThresholds {
		if rt < 0 {
			return fmt.Errorf("rich threshold %d: must be non-negative", rt)
		}
	}
	if b.Steps <= 0 {
		return fmt.Errorf("steps %d: must be positive", b.Steps)
	}
	if b.Iterations <= 0 {
		return fmt.Errorf("iterations %d: must be positive", b.Iterations)
	}
	if b.Workers <= 0 {
		return fmt.Errorf("workers %d: must be positive", b.Workers)
	}
	if b.Output == "" {
		return fmt.Errorf("output: path required")
	}
	return nil
}

// Combinations returns the size of the cartesian parameter space,
// excluding iterations.
func (b Batch) Combinations() int {
	return len(b.GridSizes) * len(b.AgentCounts) * len(b.ReserveRatios) * len(b.InitialCash) * len(b.RichThresholds)
}
