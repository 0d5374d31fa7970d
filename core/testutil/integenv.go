// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/subosito/gotenv"
)

var (
	integEnvOnce sync.Once
	integEnvVars map[string]string
)

func loadIntegEnvFile() map[string]string {
	integEnvOnce.Do(func() {
		integEnvVars = map[string]string{}
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		f, err := os.Open(filepath.Join(home, ".config", "jira-cli", ".env.integ-test"))
		if err != nil {
			return
		}
		defer func() { _ = f.Close() }()
		env, err := gotenv.StrictParse(f)
		if err != nil {
			return
		}
		integEnvVars = env
	})
	return integEnvVars
}

// IntegEnv returns the value of key from the environment, falling back to
// ~/.config/jira-cli/.env.integ-test if the env var is not set.
func IntegEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return loadIntegEnvFile()[key]
}

// IntegEnvOrSkip returns the values of keys, skipping the test when any is missing
// or when running with -short.
func IntegEnvOrSkip(t *testing.T, keys ...string) map[string]string {
	t.Helper()
	if testing.Short() {
		t.Skip()
	}
	vals := make(map[string]string, len(keys))
	for _, k := range keys {
		v := IntegEnv(k)
		if v == "" {
			t.Skipf("%s required (env var or ~/.config/jira-cli/.env.integ-test)", k)
		}
		vals[k] = v
	}
	return vals
}
