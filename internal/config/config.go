// internal/config/config.go
package config

type Config struct {
	HRU HRUConfig `yaml:"hru"`
}

// ---- UNIT ----

type HRUConfig struct {
	Serial SerialConfig `yaml:"serial"`
	Model  string       `yaml:"model"`
	Poll   PollConfig   `yaml:"poll"`
}

// ---- SERIAL LINK ----

type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
	SlaveID  int    `yaml:"slave_id"`

	// TimeoutMs overrides the baud-derived response timeout when > 0.
	TimeoutMs int `yaml:"timeout_ms"`
}

// ---- POLL CADENCES ----

type PollConfig struct {
	FastIntervalMs int `yaml:"fast_interval_ms"`
	SlowIntervalMs int `yaml:"slow_interval_ms"`
}
