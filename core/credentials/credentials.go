// Package credentials loads the Jira email and API token from the environment
// and an optional dotenv file.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

const (
	EmailKey = "JIRA_EMAIL"
	TokenKey = "JIRA_API_TOKEN"
)

// Pair is an email and API token as found in the credential source. Either may be empty.
type Pair struct {
	Email    string
	APIToken string
}

// Complete reports whether both values are present.
func (p Pair) Complete() bool {
	return p.Email != "" && p.APIToken != ""
}

// Source reads credentials from a dotenv file overlaid by process environment variables.
type Source struct {
	// EnvFile is the dotenv file to read. Empty disables file lookup.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load returns whatever credentials are available. Missing values and a missing
// file are not errors; a file that exists but cannot be read or parsed is.
func (s *Source) Load() (Pair, error) {
	vals, err := readEnvFile(s.EnvFile)
	if err != nil {
		return Pair{}, err
	}
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	// process environment wins over the file, as with dotenv loaders
	for _, k := range []string{EmailKey, TokenKey} {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			vals[k] = v
		}
	}
	p := Pair{
		Email:    strings.TrimSpace(vals[EmailKey]),
		APIToken: strings.TrimSpace(vals[TokenKey]),
	}
	slog.Debug("Credentials loaded", "file", s.EnvFile, "email", p.Email != "", "token", p.APIToken != "")
	return p, nil
}

func readEnvFile(path string) (map[string]string, error) {
	vals := map[string]string{}
	if strings.TrimSpace(path) == "" {
		return vals, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return vals, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open env file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file %s: %w", path, err)
	}
	for k, v := range env {
		vals[k] = v
	}
	return vals, nil
}
