package config

import (
	"math"
	"sort"
)

// Presets override the spawn section of DefaultConfig.
var Presets = map[string]SpawnConfig{
	"classic": defaultSpawn(),
	"fountain": {
		Rate: 60, AngleMin: -math.Pi*3/4, AngleMax: -math.Pi/4, Speed: 7,
		AccAngleMax: 0.01, AccSpeedMin: -0.05, Scale: 12,
		GrowthMin: -0.12, GrowthMax: -0.06, HueRate: 0.05, Chroma: 1,
	},
	"embers": {
		Rate: 30, AngleMin: 0, AngleMax: 2 * math.Pi, Speed: 1.5,
		AccAngleMax: 0.2, AccSpeedMin: -0.01, Scale: 8,
		GrowthMin: -0.05, GrowthMax: -0.02, HueRate: 0.01, Chroma: 0.5,
	},
	"storm": {
		Rate: 1000, AngleMin: 0, AngleMax: 2 * math.Pi, Speed: 9,
		AccAngleMax: 0.08, AccSpeedMin: -0.2, Scale: 6,
		GrowthMin: -0.1, GrowthMax: -0.05, HueRate: 0.3, Chroma: 6,
	},
}

func defaultSpawn() SpawnConfig {
	return DefaultConfig().Spawn
}

// GetPreset returns DefaultConfig with the named spawn preset applied, or
// nil if there is no such preset.
func GetPreset(name string) *Config {
	spawn, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Spawn = spawn
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
