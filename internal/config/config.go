// Package config loads waresim configuration from file, environment
// and flags through viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

// Config is the complete waresim configuration.
type Config struct {
	Grid   GridConfig   `mapstructure:"grid"`
	Fleet  FleetConfig  `mapstructure:"fleet"`
	Items  ItemsConfig  `mapstructure:"items"`
	Assign AssignConfig `mapstructure:"assign"`
	Path   PathConfig   `mapstructure:"path"`
	Stall  StallConfig  `mapstructure:"stall"`
	Run    RunConfig    `mapstructure:"run"`
	Server ServerConfig `mapstructure:"server"`
}

// GridConfig shapes the warehouse floor.
type GridConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// ObstacleDensity is the fraction of cells seeded with permanent
	// obstacles on reset.
	ObstacleDensity float64 `mapstructure:"obstacle_density"`
}

// FleetConfig sizes the robot fleet.
type FleetConfig struct {
	Robots   int `mapstructure:"robots"`
	Capacity int `mapstructure:"capacity"`
}

// ItemsConfig sizes the item population.
type ItemsConfig struct {
	Count     int `mapstructure:"count"`
	MaxWeight int `mapstructure:"max_weight"`
}

// AssignConfig controls item assignment.
type AssignConfig struct {
	// Clustering lets a robot claim a group of nearby items per trip.
	Clustering bool `mapstructure:"clustering"`
}

// PathConfig selects the path strategy ("astar" or "dijkstra").
type PathConfig struct {
	Strategy string `mapstructure:"strategy"`
}

// StallConfig tunes stall detection.
type StallConfig struct {
	SampleEvery     int `mapstructure:"sample_every"`
	MinDisplacement int `mapstructure:"min_displacement"`
	StuckAfter      int `mapstructure:"stuck_after"`
	ReplanCooldown  int `mapstructure:"replan_cooldown"`
}

// RunConfig controls run length and reproducibility.
type RunConfig struct {
	Seed     int64 `mapstructure:"seed"`
	MaxTicks int   `mapstructure:"max_ticks"`
	// TickMs is the wall-clock pacing for served and visualized runs;
	// headless runs ignore it.
	TickMs  int  `mapstructure:"tick_ms"`
	Verbose bool `mapstructure:"verbose"`
}

// ServerConfig controls the websocket server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	stall := sim.DefaultStallPolicy()
	return &Config{
		Grid:   GridConfig{Width: 20, Height: 15, ObstacleDensity: 0.08},
		Fleet:  FleetConfig{Robots: 4, Capacity: 15},
		Items:  ItemsConfig{Count: 12, MaxWeight: 8},
		Assign: AssignConfig{Clustering: true},
		Path:   PathConfig{Strategy: "astar"},
		Stall: StallConfig{
			SampleEvery:     stall.SampleEvery,
			MinDisplacement: stall.MinDisplacement,
			StuckAfter:      stall.StuckAfter,
			ReplanCooldown:  stall.ReplanCooldown,
		},
		Run:    RunConfig{Seed: 42, MaxTicks: 2000, TickMs: 100},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// SetDefaults registers every default value with viper.
func SetDefaults() {
	d := Default()

	viper.SetDefault("grid.width", d.Grid.Width)
	viper.SetDefault("grid.height", d.Grid.Height)
	viper.SetDefault("grid.obstacle_density", d.Grid.ObstacleDensity)

	viper.SetDefault("fleet.robots", d.Fleet.Robots)
	viper.SetDefault("fleet.capacity", d.Fleet.Capacity)

	viper.SetDefault("items.count", d.Items.Count)
	viper.SetDefault("items.max_weight", d.Items.MaxWeight)

	viper.SetDefault("assign.clustering", d.Assign.Clustering)
	viper.SetDefault("path.strategy", d.Path.Strategy)

	viper.SetDefault("stall.sample_every", d.Stall.SampleEvery)
	viper.SetDefault("stall.min_displacement", d.Stall.MinDisplacement)
	viper.SetDefault("stall.stuck_after", d.Stall.StuckAfter)
	viper.SetDefault("stall.replan_cooldown", d.Stall.ReplanCooldown)

	viper.SetDefault("run.seed", d.Run.Seed)
	viper.SetDefault("run.max_ticks", d.Run.MaxTicks)
	viper.SetDefault("run.tick_ms", d.Run.TickMs)
	viper.SetDefault("run.verbose", d.Run.Verbose)

	viper.SetDefault("server.addr", d.Server.Addr)
}

// Load reads the configuration from viper and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the simulation cannot start from. A
// zero-sized grid is the one fatal error; everything else is clamped
// or tolerated at runtime.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid size %dx%d must be positive", c.Grid.Width, c.Grid.Height)
	}
	return nil
}

// Params converts the configuration into simulation parameters.
func (c *Config) Params() sim.Params {
	return sim.Params{
		Width:           c.Grid.Width,
		Height:          c.Grid.Height,
		Robots:          c.Fleet.Robots,
		RobotCapacity:   c.Fleet.Capacity,
		Items:           c.Items.Count,
		MaxItemWeight:   c.Items.MaxWeight,
		ObstacleDensity: c.Grid.ObstacleDensity,
		Clustering:      c.Assign.Clustering,
		Strategy:        c.Path.Strategy,
		Seed:            c.Run.Seed,
		MaxTicks:        c.Run.MaxTicks,
		Verbose:         c.Run.Verbose,
		Stall: sim.StallPolicy{
			SampleEvery:     c.Stall.SampleEvery,
			MinDisplacement: c.Stall.MinDisplacement,
			StuckAfter:      c.Stall.StuckAfter,
			ReplanCooldown:  c.Stall.ReplanCooldown,
		},
	}
}
