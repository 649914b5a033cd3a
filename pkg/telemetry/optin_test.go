package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConsentEnv removes every environment signal consent detection
// looks at so each test starts from a clean slate.
func clearConsentEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AUTOMAGIK_TELEMETRY_ENABLED", "")
	os.Unsetenv("AUTOMAGIK_TELEMETRY_ENABLED")
	for _, name := range ciEnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("ENVIRONMENT", "")
	os.Unsetenv("ENVIRONMENT")
}

func TestResolveEnabledExplicitWins(t *testing.T) {
	clearConsentEnv(t)
	t.Setenv("AUTOMAGIK_TELEMETRY_ENABLED", "true")

	assert.False(t, resolveEnabled(Bool(false)))
	assert.True(t, resolveEnabled(Bool(true)))
}

func TestResolveEnabledFromEnv(t *testing.T) {
	clearConsentEnv(t)

	t.Setenv("AUTOMAGIK_TELEMETRY_ENABLED", "true")
	assert.True(t, resolveEnabled(nil))

	t.Setenv("AUTOMAGIK_TELEMETRY_ENABLED", "false")
	assert.False(t, resolveEnabled(nil))

	// The env var beats CI detection.
	t.Setenv("CI", "true")
	t.Setenv("AUTOMAGIK_TELEMETRY_ENABLED", "yes")
	assert.True(t, resolveEnabled(nil))
}

func TestResolveEnabledDefaultsOff(t *testing.T) {
	clearConsentEnv(t)
	assert.False(t, resolveEnabled(nil))
}

func TestResolveEnabledCIDetection(t *testing.T) {
	clearConsentEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	assert.False(t, resolveEnabled(nil))
}

func TestResolveEnabledDevelopmentEnvironment(t *testing.T) {
	clearConsentEnv(t)
	t.Setenv("ENVIRONMENT", "development")
	assert.False(t, resolveEnabled(nil))
}

func TestOptOutFileDisables(t *testing.T) {
	clearConsentEnv(t)

	require.NoError(t, OptOut())
	home, _ := os.UserHomeDir()
	_, err := os.Stat(filepath.Join(home, optOutFile))
	require.NoError(t, err)
	assert.False(t, resolveEnabled(nil))

	require.NoError(t, OptIn())
	_, err = os.Stat(filepath.Join(home, optOutFile))
	assert.True(t, os.IsNotExist(err))

	// Removing twice is fine.
	require.NoError(t, OptIn())
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on", " True "} {
		assert.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "off", "banana"} {
		assert.False(t, isTruthy(v), v)
	}
}

func TestUserIDPersistsAcrossCalls(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	first := userID()
	second := userID()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)

	home, _ := os.UserHomeDir()
	data, err := os.ReadFile(filepath.Join(home, ".automagik", "user_id"))
	require.NoError(t, err)
	assert.Contains(t, string(data), first)
}
