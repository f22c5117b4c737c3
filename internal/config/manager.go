package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Manager loads configuration through Viper and exposes live reload.
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
	watchChan  chan Config
}

// NewManager creates a manager reading the given YAML file. The file is
// optional; defaults plus environment variables are enough to run.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		config:     DefaultConfig(),
		watchChan:  make(chan Config, 1),
	}
}

// Load reads configuration from file, environment and defaults.
func (m *Manager) Load() error {
	m.viper = viper.New()

	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix("FIVEWHYS")
	m.viper.AutomaticEnv()
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	m.setDefaults()

	if m.configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				// No file, use defaults + env
			} else if os.IsNotExist(err) {
				// Same
			} else {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	if err := m.unmarshalConfig(); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.applyEnvOverrides()
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// Validate validates the loaded configuration.
func (m *Manager) Validate() error {
	errs := m.config.Validate()
	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, err := range errs {
			msgs = append(msgs, err.Error())
		}
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
	}
	return nil
}

// Watch reloads the config when the file changes and delivers the new value.
func (m *Manager) Watch() <-chan Config {
	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(e fsnotify.Event) {
		if err := m.unmarshalConfig(); err != nil {
			return
		}
		m.applyEnvOverrides()
		select {
		case m.watchChan <- *m.config:
		default:
		}
	})
	return m.watchChan
}

func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("server.host", d.Server.Host)
	m.viper.SetDefault("server.port", d.Server.Port)
	m.viper.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	m.viper.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	m.viper.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	m.viper.SetDefault("server.static_dir", d.Server.StaticDir)

	m.viper.SetDefault("oracle.base_url", d.Oracle.BaseURL)
	m.viper.SetDefault("oracle.api_key", "")
	m.viper.SetDefault("oracle.model", d.Oracle.Model)

	m.viper.SetDefault("analysis.max_depth", d.Analysis.MaxDepth)

	m.viper.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	m.viper.SetDefault("rate_limit.requests_per_min", d.RateLimit.RequestsPerMin)

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.file", d.Logging.File)
	m.viper.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	m.viper.SetDefault("logging.compress", d.Logging.Compress)
}

func (m *Manager) unmarshalConfig() error {
	cfg := &Config{}

	cfg.Server.Host = m.viper.GetString("server.host")
	cfg.Server.Port = m.viper.GetInt("server.port")
	cfg.Server.ReadTimeout = m.viper.GetInt("server.read_timeout")
	cfg.Server.WriteTimeout = m.viper.GetInt("server.write_timeout")
	cfg.Server.ShutdownTimeout = m.viper.GetInt("server.shutdown_timeout")
	cfg.Server.StaticDir = m.viper.GetString("server.static_dir")

	cfg.Oracle.BaseURL = m.viper.GetString("oracle.base_url")
	cfg.Oracle.APIKey = m.viper.GetString("oracle.api_key")
	cfg.Oracle.Model = m.viper.GetString("oracle.model")

	cfg.Analysis.MaxDepth = m.viper.GetInt("analysis.max_depth")

	cfg.RateLimit.Enabled = m.viper.GetBool("rate_limit.enabled")
	cfg.RateLimit.RequestsPerMin = m.viper.GetInt("rate_limit.requests_per_min")

	cfg.Logging.Level = m.viper.GetString("logging.level")
	cfg.Logging.Format = m.viper.GetString("logging.format")
	cfg.Logging.File = m.viper.GetString("logging.file")
	cfg.Logging.MaxSizeMB = m.viper.GetInt("logging.max_size_mb")
	cfg.Logging.MaxBackups = m.viper.GetInt("logging.max_backups")
	cfg.Logging.MaxAgeDays = m.viper.GetInt("logging.max_age_days")
	cfg.Logging.Compress = m.viper.GetBool("logging.compress")

	m.config = cfg
	return nil
}

// applyEnvOverrides honors the plain AI_* variable names the original
// deployment used for oracle credentials, so existing .env files keep
// working.
func (m *Manager) applyEnvOverrides() {
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		m.config.Oracle.BaseURL = v
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		m.config.Oracle.APIKey = v
	}
	if v := os.Getenv("AI_MODEL_ID"); v != "" {
		m.config.Oracle.Model = v
	}
}
