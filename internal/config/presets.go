package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preset is a saved forward the operator launches from the presets popup.
type Preset struct {
	Name       string `yaml:"name"`
	Key        string `yaml:"key,omitempty"`
	LocalPort  uint16 `yaml:"local_port"`
	RemoteHost string `yaml:"remote_host"`
	RemotePort uint16 `yaml:"remote_port"`
	SSHHost    string `yaml:"ssh_host"`
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets reads presets.yaml from the config directory. No file means no
// presets.
func LoadPresets() []Preset {
	return loadPresetsFrom(filepath.Join(Dir(), "presets.yaml"))
}

func loadPresetsFrom(path string) []Preset {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var f presetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil
	}
	return f.Presets
}
