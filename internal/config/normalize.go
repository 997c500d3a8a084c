// internal/config/normalize.go
package config

// Defaults match the BRINK factory settings: slave id 20, 19200 baud, the
// 325 Plus register map, 10 s / 60 s cadences.
const (
	DefaultSlaveID        = 20
	DefaultBaudRate       = 19200
	DefaultModel          = "flair_325_plus"
	DefaultFastIntervalMs = 10000
	DefaultSlowIntervalMs = 60000
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	u := &cfg.HRU

	if u.Serial.SlaveID == 0 {
		u.Serial.SlaveID = DefaultSlaveID
	}
	if u.Serial.BaudRate == 0 {
		u.Serial.BaudRate = DefaultBaudRate
	}
	if u.Model == "" {
		u.Model = DefaultModel
	}
	if u.Poll.FastIntervalMs == 0 {
		u.Poll.FastIntervalMs = DefaultFastIntervalMs
	}
	if u.Poll.SlowIntervalMs == 0 {
		u.Poll.SlowIntervalMs = DefaultSlowIntervalMs
	}
}
