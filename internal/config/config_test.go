package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsZeroGrid(t *testing.T) {
	cfg := Default()
	cfg.Grid.Width = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Grid.Height = -3
	assert.Error(t, cfg.Validate())
}

func TestLoadUsesDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()
	viper.Set("grid.width", 40)
	viper.Set("fleet.robots", 9)
	viper.Set("path.strategy", "dijkstra")
	viper.Set("assign.clustering", false)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Grid.Width)
	assert.Equal(t, 9, cfg.Fleet.Robots)
	assert.Equal(t, "dijkstra", cfg.Path.Strategy)
	assert.False(t, cfg.Assign.Clustering)
}

func TestLoadRejectsInvalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()
	viper.Set("grid.height", 0)

	_, err := Load()
	assert.Error(t, err)
}

func TestParamsMapping(t *testing.T) {
	cfg := Default()
	cfg.Grid.Width = 30
	cfg.Fleet.Capacity = 22
	cfg.Items.MaxWeight = 5
	cfg.Run.Seed = 99
	cfg.Stall.StuckAfter = 48

	p := cfg.Params()
	assert.Equal(t, 30, p.Width)
	assert.Equal(t, cfg.Grid.Height, p.Height)
	assert.Equal(t, 22, p.RobotCapacity)
	assert.Equal(t, 5, p.MaxItemWeight)
	assert.Equal(t, int64(99), p.Seed)
	assert.Equal(t, 48, p.Stall.StuckAfter)
	assert.Equal(t, cfg.Path.Strategy, p.Strategy)
}
