// Package config resolves CLI settings from defaults, an optional YAML file,
// JIRA_CLI_* environment variables and command line flags, in increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "JIRA_CLI"

// Keys, also used as flag names with '_' replaced by '-'.
const (
	KeyEnvFile    = "env_file"
	KeyMaxResults = "max_results"
	KeyIssueType  = "issue_type"
	KeyTimeout    = "timeout"
	KeyDebug      = "debug"
)

type Config struct {
	// EnvFile is the dotenv file holding JIRA_EMAIL and JIRA_API_TOKEN.
	EnvFile string `mapstructure:"env_file"`
	// MaxResults caps the number of issues listed for selection.
	MaxResults int `mapstructure:"max_results"`
	// IssueType is the type used for new issues.
	IssueType string `mapstructure:"issue_type"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		EnvFile:    ".env",
		MaxResults: 50,
		IssueType:  "Task",
		Timeout:    30 * time.Second,
	}
}

// RegisterFlags adds one flag per key to flags, using the defaults as flag defaults.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String(flagName(KeyEnvFile), d.EnvFile, "dotenv file with JIRA_EMAIL and JIRA_API_TOKEN")
	flags.Int(flagName(KeyMaxResults), d.MaxResults, "maximum number of issues listed for selection")
	flags.String(flagName(KeyIssueType), d.IssueType, "issue type used when creating issues")
	flags.Duration(flagName(KeyTimeout), d.Timeout, "timeout for each Jira request")
	flags.Bool(flagName(KeyDebug), d.Debug, "enable debug logging")
}

// Load resolves the configuration. configFile may be empty; flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyEnvFile, d.EnvFile)
	v.SetDefault(KeyMaxResults, d.MaxResults)
	v.SetDefault(KeyIssueType, d.IssueType)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyDebug, d.Debug)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{KeyEnvFile, KeyMaxResults, KeyIssueType, KeyTimeout, KeyDebug} {
			if f := flags.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the workflow cannot run with.
func (c *Config) Validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	if strings.TrimSpace(c.IssueType) == "" {
		return fmt.Errorf("issue_type cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
