// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Service       ServiceConfig      `mapstructure:"service"`
	UI            UIConfig           `mapstructure:"ui"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Charts        ChartsConfig       `mapstructure:"charts"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServiceConfig points at the remote scoring service.
type ServiceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// UIConfig holds the timings and presentation constants of the session.
type UIConfig struct {
	FrameInterval      int    `mapstructure:"frame_interval"`       // milliseconds
	ScoreDuration      int    `mapstructure:"score_duration"`       // milliseconds
	CreditStatDuration int    `mapstructure:"credit_stat_duration"` // milliseconds
	FieldStatDuration  int    `mapstructure:"field_stat_duration"`  // milliseconds
	RevealStep         int    `mapstructure:"reveal_step"`          // milliseconds per recommendation
	BarFillDelay       int    `mapstructure:"bar_fill_delay"`       // milliseconds
	SectionRevealDelay int    `mapstructure:"section_reveal_delay"` // milliseconds
	SectionHideDelay   int    `mapstructure:"section_hide_delay"`   // milliseconds
	TopN               int    `mapstructure:"top_n"`
	Unit               string `mapstructure:"unit"`
	LabelMaxLength     int    `mapstructure:"label_max_length"`
}

// NotificationConfig controls transient notifications.
type NotificationConfig struct {
	DismissAfter int `mapstructure:"dismiss_after"` // milliseconds
	ExitDuration int `mapstructure:"exit_duration"` // milliseconds
}

// ChartsConfig controls the PNG chart engine.
type ChartsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	OutputDir string `mapstructure:"output_dir"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
