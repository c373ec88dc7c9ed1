package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "!bot", cfg.Trigger)
	assert.Equal(t, "data", cfg.DataDir)
	assert.True(t, cfg.CommandEnabled)
	assert.False(t, cfg.RoleEnabled)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitMargin)
	assert.Equal(t, 3, cfg.StartupAttempts)
	assert.Equal(t, "data/commands.txt", cfg.Paths().Commands())
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRoleTarget(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("ROLE_ENABLED", "true")
	t.Setenv("ROLE_GUILD", "Home")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROLE_CHANNEL")
}

func TestIsDeveloper(t *testing.T) {
	cfg := &Config{DeveloperID: "7"}
	assert.True(t, IsDeveloper(cfg, "7"))
	assert.False(t, IsDeveloper(cfg, "8"))
	assert.False(t, IsDeveloper(&Config{}, ""))
	assert.False(t, IsDeveloper(nil, "7"))
}
