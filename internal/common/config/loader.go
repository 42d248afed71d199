// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<env>.yaml and applies
// environment overrides (SERVICE_BASE_URL, LOGGING_LEVEL, ...).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"service.base_url", "service.timeout",
		"logging.level", "logging.format", "logging.output",
		"metrics.enabled", "metrics.address",
		"charts.enabled", "charts.output_dir",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up to the project root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "credit-console"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = "http://localhost:5000"
	}
	if cfg.Service.Timeout == 0 {
		cfg.Service.Timeout = 30000
	}

	ui := &cfg.UI
	if ui.FrameInterval == 0 {
		ui.FrameInterval = 16
	}
	if ui.ScoreDuration == 0 {
		ui.ScoreDuration = 2000
	}
	if ui.CreditStatDuration == 0 {
		ui.CreditStatDuration = 2000
	}
	if ui.FieldStatDuration == 0 {
		ui.FieldStatDuration = 1500
	}
	if ui.RevealStep == 0 {
		ui.RevealStep = 100
	}
	if ui.BarFillDelay == 0 {
		ui.BarFillDelay = 100
	}
	if ui.SectionRevealDelay == 0 {
		ui.SectionRevealDelay = 100
	}
	if ui.SectionHideDelay == 0 {
		ui.SectionHideDelay = 300
	}
	if ui.TopN == 0 {
		ui.TopN = 10
	}
	if ui.Unit == "" {
		ui.Unit = "Miliar"
	}
	if ui.LabelMaxLength == 0 {
		ui.LabelMaxLength = 20
	}

	if cfg.Notifications.DismissAfter == 0 {
		cfg.Notifications.DismissAfter = 5000
	}
	if cfg.Notifications.ExitDuration == 0 {
		cfg.Notifications.ExitDuration = 300
	}

	if cfg.Charts.OutputDir == "" {
		cfg.Charts.OutputDir = "charts"
	}
	if cfg.Charts.Width == 0 {
		cfg.Charts.Width = 800
	}
	if cfg.Charts.Height == 0 {
		cfg.Charts.Height = 480
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9102"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.Service.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("service.base_url must be an absolute URL, got %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout < 0 {
		return fmt.Errorf("service.timeout must not be negative")
	}
	if cfg.UI.TopN < 0 {
		return fmt.Errorf("ui.top_n must not be negative")
	}
	if cfg.UI.FrameInterval < 0 {
		return fmt.Errorf("ui.frame_interval must not be negative")
	}
	return nil
}
