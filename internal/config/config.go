// Package config loads the on-disk YAML configuration, including battery
// preset files and their override merge.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/logger"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/optimizer"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/prices"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML preset
	// (e.g. examples/batteries/*.yaml). Non-zero fields under battery
	// override the preset.
	BatteryFile string          `yaml:"battery_file"`
	Battery     BatteryPreset   `yaml:"battery"`
	Optimizer   OptimizerConfig `yaml:"optimizer"`
	Prices      PricesConfig    `yaml:"prices"`
	Server      ServerConfig    `yaml:"server"`
	Log         logger.Config   `yaml:"log"`
}

// BatteryPreset is a named battery parameter set.
type BatteryPreset struct {
	Name                string `yaml:"name" json:"name"`
	model.BatteryConfig `yaml:",inline"`
}

type OptimizerConfig struct {
	Name           string   `yaml:"name"`
	SoCLevels      int      `yaml:"soc_levels"`
	SalvageRate    *float64 `yaml:"salvage_rate"`
	ThroughputCost *float64 `yaml:"throughput_cost"`
	MaxIterations  int      `yaml:"max_iterations"`
	CycleTolerance float64  `yaml:"cycle_tolerance"`
}

// Params maps the YAML block onto solver parameters.
func (o OptimizerConfig) Params() optimizer.Params {
	return optimizer.Params{
		SoCLevels:      o.SoCLevels,
		SalvageRate:    o.SalvageRate,
		ThroughputCost: o.ThroughputCost,
		MaxIterations:  o.MaxIterations,
		CycleTolerance: o.CycleTolerance,
	}
}

type PricesConfig struct {
	Mode string `yaml:"mode"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	StaticDir   string   `yaml:"static_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config but does not validate it. Useful
// for debugging and printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			// Relative paths resolve against the config file's directory
			// first, falling back to the working directory.
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		preset, err := LoadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(preset, c.Battery)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := optimizer.New(c.Optimizer.Name, c.Optimizer.Params()); err != nil {
		return err
	}
	if !prices.Mode(c.Prices.Mode).Valid() {
		return fmt.Errorf("unknown price mode %q", c.Prices.Mode)
	}
	if err := c.Battery.Validate(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	return nil
}

type batteryFileWrapper struct {
	Battery BatteryPreset `yaml:"battery"`
}

// LoadBatteryFile reads one battery preset. The file may wrap the preset
// under a battery: key or carry the fields at the top level.
func LoadBatteryFile(path string) (BatteryPreset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryPreset{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryPreset{}, err
	}
	if w.Battery == (BatteryPreset{}) {
		var p BatteryPreset
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return BatteryPreset{}, err
		}
		return p, nil
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base. Used when
// a preset file provides the baseline and the config or request tweaks it.
func MergeBattery(base, override BatteryPreset) BatteryPreset {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityMWh != 0 {
		out.CapacityMWh = override.CapacityMWh
	}
	if override.PowerMW != 0 {
		out.PowerMW = override.PowerMW
	}
	if override.RoundTripEfficiency != 0 {
		out.RoundTripEfficiency = override.RoundTripEfficiency
	}
	if override.ChargeEfficiency != 0 {
		out.ChargeEfficiency = override.ChargeEfficiency
	}
	if override.DischargeEfficiency != 0 {
		out.DischargeEfficiency = override.DischargeEfficiency
	}
	if override.MaxCycles != 0 {
		out.MaxCycles = override.MaxCycles
	}
	if override.InitialSoCMWh != 0 {
		out.InitialSoCMWh = override.InitialSoCMWh
	}
	return out
}
