package config

import "sort"

var Presets = map[string]map[string]*Config{
	"ballistic": {
		"pistol": {
			Scenario: "ballistic", Dt: 0.01, Duration: 10.0,
			Params: map[string]float64{"shot": 1, "interval": 0.5},
		},
		"artillery": {
			Scenario: "ballistic", Dt: 0.01, Duration: 10.0,
			Params: map[string]float64{"shot": 2, "interval": 1.0},
		},
		"fireball": {
			Scenario: "ballistic", Dt: 0.01, Duration: 10.0,
			Params: map[string]float64{"shot": 3, "interval": 0.5},
		},
		"laser": {
			Scenario: "ballistic", Dt: 0.005, Duration: 5.0,
			Params: map[string]float64{"shot": 4, "interval": 0.1},
		},
	},
	"fireworks": {
		"classic": {
			Scenario: "fireworks", Dt: 0.01, Duration: 20.0, SampleEvery: 5,
			Params: map[string]float64{"type": 1, "interval": 2.0},
		},
		"rocket": {
			Scenario: "fireworks", Dt: 0.01, Duration: 20.0, SampleEvery: 5,
			Params: map[string]float64{"type": 7, "interval": 3.0},
		},
		"fountain": {
			Scenario: "fireworks", Dt: 0.01, Duration: 15.0, SampleEvery: 5,
			Params: map[string]float64{"type": 9, "interval": 0.25},
		},
	},
	"springs": {
		"soft": {
			Scenario: "springs", Dt: 0.01, Duration: 20.0,
			Params: map[string]float64{"k": 2, "rest": 1},
		},
		"stiff": {
			Scenario: "springs", Dt: 0.001, Duration: 10.0,
			Params: map[string]float64{"k": 200, "rest": 1},
		},
	},
	"bungee": {
		"jump": {
			Scenario: "bungee", Dt: 0.01, Duration: 20.0,
			Params: map[string]float64{"k": 20, "rest": 3},
		},
		"heavy": {
			Scenario: "bungee", Dt: 0.01, Duration: 20.0,
			Params: map[string]float64{"k": 20, "rest": 3, "mass": 6},
		},
	},
	"buoyancy": {
		"float": {
			Scenario: "buoyancy", Dt: 0.01, Duration: 20.0,
		},
		"drop": {
			Scenario: "buoyancy", Dt: 0.01, Duration: 20.0,
			Params: map[string]float64{"height": 10},
		},
	},
	"fakespring": {
		"stiff": {
			Scenario: "fakespring", Dt: 0.1, Duration: 20.0,
			Params: map[string]float64{"k": 1000, "damping": 2},
		},
		"loose": {
			Scenario: "fakespring", Dt: 0.05, Duration: 20.0,
			Params: map[string]float64{"k": 5, "damping": 0.2},
		},
	},
	"drag": {
		"lob": {
			Scenario: "drag", Dt: 0.01, Duration: 6.0,
			Params: map[string]float64{"vy": 20, "vz": 30},
		},
		"vacuum": {
			Scenario: "drag", Dt: 0.01, Duration: 6.0,
			Params: map[string]float64{"k1": 0, "k2": 0},
		},
	},
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
