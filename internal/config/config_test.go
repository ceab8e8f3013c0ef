package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbreport/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	// Point XDG at an empty dir so no real config file is picked up.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "jsonrpc", cfg.Kanboard.User)
	assert.Equal(t, config.DefaultModel, cfg.HuggingFace.Model)
	assert.Equal(t, config.DefaultPromptByteLimit, cfg.HuggingFace.PromptByteLimit)
	assert.Equal(t, "reports", cfg.OutputPath)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, 587, cfg.Email.Port)
	assert.Equal(t, "in-progress", cfg.StatusInProgress)
	assert.Equal(t, "blocked", cfg.StatusBlocked)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("KBREPORT_KANBOARD_URL", "https://kb.example.com/jsonrpc.php")
	t.Setenv("KBREPORT_KANBOARD_TOKEN", "secret")
	t.Setenv("KBREPORT_KANBOARD_PROJECT_ID", "16")
	t.Setenv("KBREPORT_HUGGINGFACE_API_KEY", "hf_test")
	t.Setenv("KBREPORT_EMAIL_ENABLED", "true")
	t.Setenv("KBREPORT_SMTP_HOST", "smtp.example.com")
	t.Setenv("KBREPORT_EMAIL_RECIPIENTS", "a@example.com, b@example.com")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://kb.example.com/jsonrpc.php", cfg.Kanboard.URL)
	assert.Equal(t, "secret", cfg.Kanboard.Token)
	assert.Equal(t, 16, cfg.Kanboard.ProjectID)
	assert.Equal(t, "hf_test", cfg.HuggingFace.APIKey)
	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.RecipientList())

	require.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("kanboard_url: https://file.example.com/jsonrpc.php\n" +
		"kanboard_token: filetoken\n" +
		"kanboard_project_id: 3\n" +
		"huggingface_api_key: hf_file\n" +
		"huggingface_model: mistralai/Mistral-7B-Instruct-v0.3\n" +
		"output_path: /tmp/report.txt\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com/jsonrpc.php", cfg.Kanboard.URL)
	assert.Equal(t, 3, cfg.Kanboard.ProjectID)
	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.3", cfg.HuggingFace.Model)
	assert.Equal(t, "/tmp/report.txt", cfg.OutputPath)
}

func TestLoad_ExplicitFileOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kanboard_token: filetoken\n"), 0o644))

	t.Setenv("KBREPORT_KANBOARD_TOKEN", "envtoken")
	t.Setenv("KBREPORT_KANBOARD_URL", "https://env.example.com/jsonrpc.php")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	// Keys in the explicit file win; keys it omits still come from env.
	assert.Equal(t, "filetoken", cfg.Kanboard.Token)
	assert.Equal(t, "https://env.example.com/jsonrpc.php", cfg.Kanboard.URL)
}

// chdir changes into dir for the duration of the test. It stands in
// for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_ExplicitFileOverridesDotenv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("KBREPORT_KANBOARD_TOKEN=dotenvtoken\n"), 0o644))

	// godotenv exports into the process env; register a cleanup so the
	// variable cannot leak into other tests.
	t.Setenv("KBREPORT_KANBOARD_TOKEN", "placeholder")
	os.Unsetenv("KBREPORT_KANBOARD_TOKEN")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kanboard_token: filetoken\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "filetoken", cfg.Kanboard.Token)
}

func TestLoad_DotenvFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("KBREPORT_KANBOARD_TOKEN=dotenvtoken\n"), 0o644))

	t.Setenv("KBREPORT_KANBOARD_TOKEN", "placeholder")
	os.Unsetenv("KBREPORT_KANBOARD_TOKEN")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenvtoken", cfg.Kanboard.Token)
}

func TestLoad_EnvOverridesDefaultFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	dir := filepath.Join(xdg, config.AppName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile),
		[]byte("kanboard_token: filetoken\n"), 0o644))

	t.Setenv("KBREPORT_KANBOARD_TOKEN", "envtoken")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "envtoken", cfg.Kanboard.Token)
}

func TestLoad_DefaultFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	dir := filepath.Join(xdg, config.AppName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile),
		[]byte("kanboard_token: filetoken\n"), 0o644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "filetoken", cfg.Kanboard.Token)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Kanboard: config.KanboardConfig{
				URL:       "https://kb.example.com/jsonrpc.php",
				User:      "jsonrpc",
				Token:     "secret",
				ProjectID: 1,
			},
			HuggingFace: config.HuggingFaceConfig{APIKey: "hf_x", Model: config.DefaultModel},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"ok", func(c *config.Config) {}, ""},
		{"missing url", func(c *config.Config) { c.Kanboard.URL = "" }, "kanboard_url"},
		{"missing token", func(c *config.Config) { c.Kanboard.Token = "" }, "kanboard_token"},
		{"missing api key", func(c *config.Config) { c.HuggingFace.APIKey = "" }, "huggingface_api_key"},
		{"bad project id", func(c *config.Config) { c.Kanboard.ProjectID = 0 }, "kanboard_project_id"},
		{"email without host", func(c *config.Config) {
			c.Email.Enabled = true
			c.Email.Recipients = "a@example.com"
		}, "smtp_host"},
		{"email without recipients", func(c *config.Config) {
			c.Email.Enabled = true
			c.Email.Host = "smtp.example.com"
		}, "email_recipients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRecipientList(t *testing.T) {
	e := config.EmailConfig{Recipients: " a@example.com ,,b@example.com,"}
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, e.RecipientList())

	assert.Nil(t, config.EmailConfig{}.RecipientList())
}
