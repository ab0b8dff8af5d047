package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidetatz/turtle/ted/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 8, cfg.TabWidth)
	assert.Equal(t, 3, cfg.QuitTimes)
	assert.Equal(t, os.TempDir(), cfg.SpareDir)
	assert.Equal(t, 5*time.Second, cfg.MessageTimeout)
	assert.False(t, cfg.Debug)
	assert.NoError(t, config.Validate(cfg))
}

func TestLoad_file(t *testing.T) {
	path := writeConfig(t, "tab_width: 4\nquit_times: 2\nmessage_timeout: 2s\nspare_dir: /var/tmp\n")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.TabWidth)
	assert.Equal(t, 2, cfg.QuitTimes)
	assert.Equal(t, 2*time.Second, cfg.MessageTimeout)
	assert.Equal(t, "/var/tmp", cfg.SpareDir)
}

func TestLoad_flagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "tab_width: 4\n")

	flags := pflag.NewFlagSet("ted", pflag.ContinueOnError)
	flags.Int("tab-width", 8, "")
	flags.Bool("debug", false, "")
	require.NoError(t, flags.Parse([]string{"--tab-width=2", "--debug"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.TabWidth)
	assert.True(t, cfg.Debug)
}

func TestLoad_unsetFlagKeepsFile(t *testing.T) {
	path := writeConfig(t, "tab_width: 4\n")

	flags := pflag.NewFlagSet("ted", pflag.ContinueOnError)
	flags.Int("tab-width", 8, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.TabWidth)
}

func TestLoad_env(t *testing.T) {
	path := writeConfig(t, "tab_width: 4\n")
	t.Setenv("TED_QUIT_TIMES", "7")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.QuitTimes)
}

func TestLoad_missingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr bool
	}{
		{"defaults", func(*config.Config) {}, false},
		{"zero tab width", func(c *config.Config) { c.TabWidth = 0 }, true},
		{"huge tab width", func(c *config.Config) { c.TabWidth = 33 }, true},
		{"zero quit times", func(c *config.Config) { c.QuitTimes = 0 }, true},
		{"empty spare dir", func(c *config.Config) { c.SpareDir = "" }, true},
		{"zero message timeout", func(c *config.Config) { c.MessageTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			err := config.Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_invalidValue(t *testing.T) {
	path := writeConfig(t, "tab_width: 0\n")

	_, err := config.Load(path, nil)
	assert.ErrorContains(t, err, "tab_width")
}
