// Package config loads and validates kbreport configuration.
//
// Precedence, highest first: an explicit --config file, environment
// variables with the KBREPORT_ prefix, a .env file in the working
// directory, the config file in the XDG config directory, defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "kbreport"

	// ConfigFile is the default config filename inside the config dir.
	ConfigFile = "config.yaml"

	// DefaultModel is the chat-completion model used when none is configured.
	DefaultModel = "meta-llama/Meta-Llama-3-8B-Instruct"

	// DefaultPromptByteLimit caps the prompt size sent to the model.
	// Oversized prompts fail with an input-too-large error rather than
	// being truncated.
	DefaultPromptByteLimit = 64 * 1024
)

// Config holds the resolved configuration for one run.
type Config struct {
	Kanboard    KanboardConfig    `mapstructure:",squash"`
	HuggingFace HuggingFaceConfig `mapstructure:",squash"`
	Email       EmailConfig       `mapstructure:",squash"`

	// OutputPath is the report destination: a file path, or a directory
	// in which a timestamped report file is created.
	OutputPath string `mapstructure:"output_path"`

	// StatusInProgress is the status label for the in-progress bucket.
	// Matching is exact and case-sensitive.
	StatusInProgress string `mapstructure:"status_in_progress"`

	// StatusBlocked is the status label for the blocked bucket.
	StatusBlocked string `mapstructure:"status_blocked"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `mapstructure:"log_level"`

	// Quiet suppresses informational output. Set from the CLI, not the file.
	Quiet bool `mapstructure:"-"`

	// Debug enables debug logging. Set from the CLI, not the file.
	Debug bool `mapstructure:"-"`
}

// KanboardConfig holds the project tool connection settings.
type KanboardConfig struct {
	// URL is the Kanboard JSON-RPC endpoint.
	URL string `mapstructure:"kanboard_url"`

	// User is the HTTP basic-auth user. Kanboard's convention for
	// application API tokens is the reserved user "jsonrpc".
	User string `mapstructure:"kanboard_user"`

	// Token is the pre-issued API token.
	Token string `mapstructure:"kanboard_token"`

	// ProjectID is the single project to report on.
	ProjectID int `mapstructure:"kanboard_project_id"`
}

// HuggingFaceConfig holds the model endpoint settings.
type HuggingFaceConfig struct {
	APIKey string `mapstructure:"huggingface_api_key"`
	Model  string `mapstructure:"huggingface_model"`

	// PromptByteLimit is the maximum prompt size in bytes.
	PromptByteLimit int `mapstructure:"prompt_byte_limit"`
}

// EmailConfig holds the optional SMTP notifier settings.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"email_enabled"`
	Host     string `mapstructure:"smtp_host"`
	Port     int    `mapstructure:"smtp_port"`
	User     string `mapstructure:"smtp_user"`
	Password string `mapstructure:"smtp_password"`

	// Recipients is a comma-separated address list.
	Recipients string `mapstructure:"email_recipients"`
}

// RecipientList splits the configured recipients, trimming whitespace
// and dropping empty entries.
func (e EmailConfig) RecipientList() []string {
	var out []string
	for _, r := range strings.Split(e.Recipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load resolves the configuration. configFile overrides the default
// config file location when non-empty; its values win over the
// environment. Load does not validate; call Validate before running
// the pipeline.
func Load(configFile string) (*Config, error) {
	// .env in the working directory, if present. Real environment
	// variables win over .env entries.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper already knows about, so keys
	// without defaults must be bound explicitly for env lookup.
	for _, key := range allKeys {
		_ = v.BindEnv(key)
	}

	if configFile != "" {
		// The explicit file outranks the environment. Viper's config
		// layer sits below env, so the file's values go through the
		// override layer instead.
		fv := viper.New()
		fv.SetConfigFile(configFile)
		if err := fv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
		for _, key := range fv.AllKeys() {
			v.Set(key, fv.Get(key))
		}
	} else if path := filepath.Join(DefaultConfigDir(), ConfigFile); fileExists(path) {
		// The default config file is optional.
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// allKeys lists every recognized configuration key.
var allKeys = []string{
	"kanboard_url",
	"kanboard_user",
	"kanboard_token",
	"kanboard_project_id",
	"huggingface_api_key",
	"huggingface_model",
	"prompt_byte_limit",
	"output_path",
	"email_enabled",
	"smtp_host",
	"smtp_port",
	"smtp_user",
	"smtp_password",
	"email_recipients",
	"status_in_progress",
	"status_blocked",
	"log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("kanboard_user", "jsonrpc")
	v.SetDefault("huggingface_model", DefaultModel)
	v.SetDefault("prompt_byte_limit", DefaultPromptByteLimit)
	v.SetDefault("output_path", "reports")
	v.SetDefault("email_enabled", false)
	v.SetDefault("smtp_port", 587)
	v.SetDefault("status_in_progress", "in-progress")
	v.SetDefault("status_blocked", "blocked")
	v.SetDefault("log_level", "INFO")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate checks that everything a full pipeline run needs is present.
func (c *Config) Validate() error {
	var missing []string
	if c.Kanboard.URL == "" {
		missing = append(missing, "kanboard_url")
	}
	if c.Kanboard.Token == "" {
		missing = append(missing, "kanboard_token")
	}
	if c.HuggingFace.APIKey == "" {
		missing = append(missing, "huggingface_api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Kanboard.ProjectID <= 0 {
		return fmt.Errorf("kanboard_project_id must be a positive integer, got %d", c.Kanboard.ProjectID)
	}
	if c.Email.Enabled {
		if c.Email.Host == "" {
			return fmt.Errorf("email_enabled is set but smtp_host is empty")
		}
		if len(c.Email.RecipientList()) == 0 {
			return fmt.Errorf("email_enabled is set but email_recipients is empty")
		}
	}
	return nil
}

// ValidateFetch checks the subset of configuration needed to fetch and
// classify tasks (the tasks and preview commands).
func (c *Config) ValidateFetch() error {
	var missing []string
	if c.Kanboard.URL == "" {
		missing = append(missing, "kanboard_url")
	}
	if c.Kanboard.Token == "" {
		missing = append(missing, "kanboard_token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Kanboard.ProjectID <= 0 {
		return fmt.Errorf("kanboard_project_id must be a positive integer, got %d", c.Kanboard.ProjectID)
	}
	return nil
}
