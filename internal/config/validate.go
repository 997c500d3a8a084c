// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/openhru/brinkd/internal/registry"
)

// supportedBauds are the rates the BRINK unit can be configured for.
var supportedBauds = map[int]bool{
	9600:   true,
	19200:  true,
	38400:  true,
	57600:  true,
	115200: true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	u := cfg.HRU

	if u.Serial.Device == "" {
		return fmt.Errorf("hru: serial.device is required")
	}

	if u.Serial.SlaveID != 0 && (u.Serial.SlaveID < 1 || u.Serial.SlaveID > 247) {
		return fmt.Errorf("hru: serial.slave_id %d out of range 1-247", u.Serial.SlaveID)
	}

	if u.Serial.BaudRate != 0 && !supportedBauds[u.Serial.BaudRate] {
		return fmt.Errorf("hru: serial.baud_rate %d not supported", u.Serial.BaudRate)
	}

	if u.Serial.TimeoutMs < 0 {
		return fmt.Errorf("hru: serial.timeout_ms must be >= 0")
	}

	if u.Model != "" {
		if _, err := registry.ParseModel(u.Model); err != nil {
			return fmt.Errorf("hru: %w", err)
		}
	}

	if u.Poll.FastIntervalMs < 0 || u.Poll.SlowIntervalMs < 0 {
		return fmt.Errorf("hru: poll intervals must be >= 0")
	}

	return nil
}
