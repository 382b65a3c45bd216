package audio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ----- Config ----- //

// Config ...
type Config struct {
	SampleRate int    `yaml:"sampleRate"`
	BufferSize int    `yaml:"bufferSize"` // samples per cycle
	Socket     string `yaml:"socket"`
	MidiIn     string `yaml:"midiIn"` // port name prefix, "" takes the first port
	PresetDir  string `yaml:"presetDir"`
	Preset     string `yaml:"preset"`
	Stutter    bool   `yaml:"stutter"`
}

// DefaultConfig ...
func DefaultConfig() *Config {
	return &Config{
		SampleRate: 48000,
		BufferSize: 1024,
		Socket:     "/tmp/pisynth.sock",
		PresetDir:  "presets",
		Stutter:    true,
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %v: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sampleRate must be positive, got %d", c.SampleRate)
	}
	// oto needs at least 4096 bytes
	if c.BufferSize*bytesPerSample < 4096 {
		return fmt.Errorf("bufferSize must be >= %d, got %d", 4096/bytesPerSample, c.BufferSize)
	}
	return nil
}
