package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml.
type Config struct {
	TickMS          int `yaml:"tick_ms"`            // 1 (by default)
	MaxTasks        int `yaml:"max_tasks"`          // 8 (by default)
	SlotsPerCycle   int `yaml:"slots_per_cycle"`    // 10 (by default)
	MaxTasksPerSlot int `yaml:"max_tasks_per_slot"` // 4 (by default)
	SlotDurationMS  int `yaml:"slot_duration_ms"`   // 10 (by default)

	// Tasks feeds the demo harness and the schedulability analyzer; the
	// schedulers themselves only ever see registered Task values.
	Tasks []TaskConfig `yaml:"tasks"`
}

// TaskConfig declares one periodic task in the config file.
type TaskConfig struct {
	Name     string `yaml:"name"`
	PeriodMS int    `yaml:"period_ms"`
	WCETUS   int    `yaml:"wcet_us"` // worst-case execution time, microseconds
	Slot     int    `yaml:"slot"`    // slot binding for the time-slot demo
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		TickMS:          1,
		MaxTasks:        8,
		SlotsPerCycle:   10,
		MaxTasksPerSlot: 4,
		SlotDurationMS:  10,
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.TickMS <= 0 {
		cfg.TickMS = 1
	}
	if cfg.MaxTasks <= 0 {
		cfg.MaxTasks = 8
	}
	if cfg.SlotsPerCycle <= 0 {
		cfg.SlotsPerCycle = 10
	}
	if cfg.MaxTasksPerSlot <= 0 {
		cfg.MaxTasksPerSlot = 4
	}
	if cfg.SlotDurationMS <= 0 {
		cfg.SlotDurationMS = 10
	}

	return cfg
}
