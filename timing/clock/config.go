package clock

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the oscillator parameters for real-time clocking.
// Values are based on the chip's internal 4 MHz oscillator.
type Config struct {
	// FrequencyHz is the oscillator frequency. Default: 4 MHz.
	FrequencyHz uint64 `json:"frequency_hz"`

	// PhasesPerCycle is the number of quadrature phases (Q1..Q4)
	// making up one instruction cycle. Default: 4, so a 4 MHz
	// oscillator executes one instruction per microsecond.
	PhasesPerCycle int `json:"phases_per_cycle"`
}

// DefaultConfig returns a Config with the internal-oscillator defaults.
func DefaultConfig() *Config {
	return &Config{
		FrequencyHz:    4_000_000,
		PhasesPerCycle: 4,
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clock config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse clock config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize clock config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write clock config file: %w", err)
	}

	return nil
}

// Validate checks that the oscillator parameters are usable.
func (c *Config) Validate() error {
	if c.FrequencyHz == 0 {
		return fmt.Errorf("frequency_hz must be > 0")
	}
	if c.PhasesPerCycle <= 0 {
		return fmt.Errorf("phases_per_cycle must be > 0")
	}
	return nil
}
