package telemetry

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// optOutFile in the user's home directory disables telemetry persistently.
const optOutFile = ".automagik-no-telemetry"

// ciEnvVars mark well-known CI systems where telemetry is never wanted.
var ciEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"TRAVIS",
	"JENKINS_URL",
	"CIRCLECI",
	"BUILDKITE",
}

// resolveEnabled decides whether telemetry is active, in priority order:
// an explicit setting from the caller or configuration wins, then the
// AUTOMAGIK_TELEMETRY_ENABLED environment variable, then the opt-out file,
// then CI and development environment detection. Telemetry is opt-in: with
// no signal at all, it stays off.
func resolveEnabled(explicit *bool) bool {
	if explicit != nil {
		return *explicit
	}

	if v, ok := os.LookupEnv("AUTOMAGIK_TELEMETRY_ENABLED"); ok {
		return isTruthy(v)
	}

	if optedOut() {
		return false
	}

	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return false
		}
	}

	switch strings.ToLower(os.Getenv("ENVIRONMENT")) {
	case "development", "dev", "test", "testing":
		return false
	}

	return false
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func optedOut() bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(home, optOutFile))
	return err == nil
}

// OptOut writes the persistent opt-out marker to the user's home directory.
// Subsequent clients constructed without an explicit enabled setting will
// stay disabled.
func OptOut() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(home, optOutFile), []byte("This file disables automagik telemetry.\n"), 0o644)
}

// OptIn removes the persistent opt-out marker. Removing a marker that does
// not exist is not an error.
func OptIn() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(home, optOutFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// userID returns the stable anonymous installation identifier, creating
// and persisting one under ~/.automagik/user_id on first use. Failures
// fall back to an ephemeral identifier.
func userID() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return uuid.NewString()
	}
	dir := filepath.Join(home, ".automagik")
	path := filepath.Join(dir, "user_id")

	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return id
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return id
	}
	return id
}
