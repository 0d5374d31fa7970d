// Package app wires configuration, credentials, the Jira client and the
// interactive workflow into the jira-cli command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opensdd/jira-cli/core"
	"github.com/opensdd/jira-cli/core/config"
	"github.com/opensdd/jira-cli/core/credentials"
	"github.com/opensdd/jira-cli/core/jira"
	"github.com/opensdd/jira-cli/core/prompt"
	"github.com/opensdd/jira-cli/core/workflow"
)

// Version is reported by --version.
var Version = "dev"

// Streams are the terminal streams the command runs against.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Execute runs the command with the process streams and returns the exit code.
func Execute(ctx context.Context) int {
	streams := Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	cmd := NewRootCommand(streams, nil)
	return exitCode(cmd.ExecuteContext(ctx), streams.Err)
}

// exitCode maps a command error to the process exit code, printing errors that
// have not already been shown to the user.
func exitCode(err error, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, workflow.ErrCheckFailed) {
		_, _ = color.New(color.FgRed).Fprintf(errOut, "✗ %v\n", err)
	}
	return 1
}

// NewRootCommand builds the jira-cli command tree. doer is the HTTP transport used
// for Jira calls; nil means an http.Client with the configured timeout.
func NewRootCommand(streams Streams, doer jira.Doer) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "jira-cli",
		Short:         "Interactive Jira Cloud client",
		Long:          `Browse, create and delete Jira Cloud issues from an interactive terminal menu.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, cleanup, err := build(cmd, configFile, streams, doer)
			if err != nil {
				return err
			}
			defer cleanup()
			return w.Run(cmd.Context())
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	root.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify the configured credentials without starting the menu",
		Long: `Loads JIRA_EMAIL and JIRA_API_TOKEN from the environment or the env file,
checks them against Jira and lists the projects the account can see.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, cleanup, err := build(cmd, configFile, streams, doer)
			if err != nil {
				return err
			}
			defer cleanup()
			return w.Verify(cmd.Context())
		},
	})
	return root
}

func build(cmd *cobra.Command, configFile string, streams Streams, doer jira.Doer) (*workflow.Workflow, func(), error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(streams.Err, cfg.Debug)
	slog.Debug("Loaded config", "env_file", cfg.EnvFile, "max_results", cfg.MaxResults,
		"issue_type", cfg.IssueType, "timeout", cfg.Timeout)

	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	session := &core.Session{}
	terminal := prompt.NewTerminal(streams.In, streams.Out)
	w := &workflow.Workflow{
		API:         jira.NewClient(session, doer),
		Session:     session,
		Prompter:    terminal,
		Out:         streams.Out,
		Credentials: &credentials.Source{EnvFile: cfg.EnvFile},
		MaxResults:  cfg.MaxResults,
		IssueType:   cfg.IssueType,
	}
	cleanup := func() {
		if err := terminal.Close(); err != nil {
			slog.Debug("Failed to close input", "error", err)
		}
	}
	return w, cleanup, nil
}

func setupLogging(out io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
}
