// Package workflow drives the interactive menus: credential setup, the main menu
// and the get, create and delete flows. Menus are modelled as a finite-state machine
// (see Transition); each state is run by a handler that talks to the user and the
// Jira API and reports an Event.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/opensdd/jira-cli/core"
	"github.com/opensdd/jira-cli/core/credentials"
	"github.com/opensdd/jira-cli/core/jira"
	"github.com/opensdd/jira-cli/core/prompt"
)

// API is the subset of the Jira client the workflow uses.
type API interface {
	CheckCredentials(ctx context.Context) jira.Result[jira.Verification]
	GetProjectsList(ctx context.Context) jira.Result[[]jira.Project]
	GetIssuesList(ctx context.Context, projectKey string, maxResults int) jira.Result[jira.SearchResult]
	GetIssue(ctx context.Context, issueKey string) jira.Result[jira.Issue]
	CreateIssue(ctx context.Context, in jira.IssueInput) jira.Result[jira.CreatedIssue]
	DeleteIssue(ctx context.Context, issueKey string) jira.Result[struct{}]
}

// CredentialSource supplies externally configured credentials for setup option 1.
type CredentialSource interface {
	Load() (credentials.Pair, error)
}

// Workflow is the interactive client. All fields except Credentials are required.
type Workflow struct {
	API         API
	Session     *core.Session
	Prompter    prompt.Prompter
	Out         io.Writer
	Credentials CredentialSource
	// MaxResults caps the issue list; non-positive means jira.DefaultMaxResults.
	MaxResults int
	// IssueType is used for created issues; empty means jira.DefaultIssueType.
	IssueType string
}

// selection is what the current flow has picked so far.
type selection struct {
	project jira.Project
	issue   jira.Issue
}

// Run starts at the setup menu and returns when the user exits. Errors are only
// returned for failures of the terminal itself, such as the input being closed.
func (w *Workflow) Run(ctx context.Context) error {
	pos := Position{State: StateSetupMenu}
	var sel selection
	for pos.State != StateExit {
		ev, err := w.step(ctx, pos, &sel)
		if err != nil {
			return err
		}
		next, err := Transition(pos, ev)
		if err != nil {
			return err
		}
		slog.Debug("Workflow transition", "from", pos.State, "to", next.State, "intent", next.Intent, "event", ev)
		if next.State == StateMainMenu {
			sel = selection{}
		}
		pos = next
	}
	return nil
}

func (w *Workflow) step(ctx context.Context, pos Position, sel *selection) (Event, error) {
	switch pos.State {
	case StateSetupMenu:
		return w.setup(ctx)
	case StateMainMenu:
		return w.mainMenu()
	case StateSelectProject:
		return w.selectProject(ctx, sel)
	case StateSelectIssue:
		return w.selectIssue(ctx, sel)
	case StateCreateFlow:
		return w.createFlow(ctx, sel)
	case StateDeleteFlow:
		return w.deleteFlow(ctx, sel)
	case StateGetFlow:
		return w.getFlow(ctx, sel)
	default:
		return 0, fmt.Errorf("no handler for state %s", pos.State)
	}
}

func (w *Workflow) r() renderer {
	return renderer{out: w.Out}
}

func (w *Workflow) setup(ctx context.Context) (Event, error) {
	r := w.r()
	r.heading("Jira CLI setup")
	r.line("  1. Use credentials from the environment (%s / %s)", credentials.EmailKey, credentials.TokenKey)
	r.line("  2. Enter credentials manually")
	answer, err := w.Prompter.Ask("Choose an option (1-2): ")
	if err != nil {
		return 0, err
	}
	opt, ok := ParseSetupChoice(answer)
	if !ok {
		r.errorf("Invalid choice. Please enter 1 or 2.")
		return EventInvalidChoice, nil
	}

	var email, token string
	switch opt {
	case SetupFromEnvironment:
		pair, err := w.loadCredentials()
		if err != nil {
			r.errorf("Could not read credentials: %v", err)
			return EventRejected, nil
		}
		if !pair.Complete() {
			r.warnf("%s and %s must both be set in the environment or the env file.", credentials.EmailKey, credentials.TokenKey)
		}
		email, token = pair.Email, pair.APIToken
	case SetupManual:
		if email, err = w.Prompter.Ask("Email: "); err != nil {
			return 0, err
		}
		if token, err = w.Prompter.AskSecret("API token: "); err != nil {
			return 0, err
		}
	}

	w.Session.SetCredentials(email, token)
	r.infof("Verifying credentials...")
	res := w.API.CheckCredentials(ctx)
	if !res.Success {
		r.errorf("%s", res.Error)
		return EventRejected, nil
	}
	r.successf("Connected to %s as %s (%d projects available)",
		w.Session.GetBaseURL(), res.Data.User.DisplayName, len(res.Data.Projects))
	return EventVerified, nil
}

// ErrCheckFailed is returned by Verify after a failed credential check has been
// reported to Out.
var ErrCheckFailed = errors.New("credential check failed")

// Verify loads credentials from the credential source and checks them once without
// prompting. A failed check is reported to Out and ErrCheckFailed is returned.
func (w *Workflow) Verify(ctx context.Context) error {
	r := w.r()
	pair, err := w.loadCredentials()
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}
	w.Session.SetCredentials(pair.Email, pair.APIToken)
	res := w.API.CheckCredentials(ctx)
	if !res.Success {
		r.errorf("%s", res.Error)
		return ErrCheckFailed
	}
	r.successf("Connected to %s as %s (%d projects available)",
		w.Session.GetBaseURL(), res.Data.User.DisplayName, len(res.Data.Projects))
	for _, p := range res.Data.Projects {
		r.line("  %s - %s", p.Key, p.Name)
	}
	return nil
}

func (w *Workflow) loadCredentials() (credentials.Pair, error) {
	if w.Credentials == nil {
		return credentials.Pair{}, nil
	}
	return w.Credentials.Load()
}

func (w *Workflow) mainMenu() (Event, error) {
	r := w.r()
	r.heading("Main menu")
	r.line("  1. Get issue details")
	r.line("  2. Create issue")
	r.line("  3. Delete issue")
	r.line("  4. Exit")
	answer, err := w.Prompter.Ask("Choose an option (1-4): ")
	if err != nil {
		return 0, err
	}
	ev := ParseMainMenuChoice(answer)
	switch ev {
	case EventInvalidChoice:
		r.errorf("Invalid choice. Please enter a number between 1 and 4.")
	case EventChooseExit:
		r.infof("Goodbye!")
	}
	return ev, nil
}

func (w *Workflow) selectProject(ctx context.Context, sel *selection) (Event, error) {
	r := w.r()
	res := w.API.GetProjectsList(ctx)
	if !res.Success {
		r.errorf("Failed to fetch projects: %s", res.Error)
		return EventAborted, nil
	}
	projects := res.Data
	if len(projects) == 0 {
		r.warnf("No projects found.")
		return EventAborted, nil
	}

	r.heading("Projects")
	for i, p := range projects {
		r.line("  %d. %s - %s", i+1, p.Key, p.Name)
	}
	answer, err := w.Prompter.Ask(fmt.Sprintf("Select a project (1-%d): ", len(projects)))
	if err != nil {
		return 0, err
	}
	idx, ok := ParseSelection(answer, len(projects))
	if !ok {
		r.errorf("Invalid selection.")
		return EventAborted, nil
	}
	sel.project = projects[idx]
	return EventSelected, nil
}

func (w *Workflow) selectIssue(ctx context.Context, sel *selection) (Event, error) {
	r := w.r()
	res := w.API.GetIssuesList(ctx, sel.project.Key, w.maxResults())
	if !res.Success {
		r.errorf("Failed to fetch issues: %s", res.Error)
		return EventAborted, nil
	}
	issues := res.Data.Issues
	if len(issues) == 0 {
		r.warnf("No issues found in project %s.", sel.project.Key)
		return EventAborted, nil
	}

	r.heading(fmt.Sprintf("Issues in %s", sel.project.Key))
	for i, is := range issues {
		r.line("  %d. %s: %s", i+1, is.Key, is.Fields.Summary)
	}
	answer, err := w.Prompter.Ask(fmt.Sprintf("Select an issue (1-%d): ", len(issues)))
	if err != nil {
		return 0, err
	}
	idx, ok := ParseSelection(answer, len(issues))
	if !ok {
		r.errorf("Invalid selection.")
		return EventAborted, nil
	}
	sel.issue = issues[idx]
	return EventSelected, nil
}

func (w *Workflow) createFlow(ctx context.Context, sel *selection) (Event, error) {
	r := w.r()
	summary, err := w.Prompter.Ask("Summary: ")
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(summary) == "" {
		r.errorf("Summary is required.")
		return EventAborted, nil
	}
	description, err := w.Prompter.Ask("Description (optional): ")
	if err != nil {
		return 0, err
	}

	r.infof("Creating issue in %s...", sel.project.Key)
	res := w.API.CreateIssue(ctx, jira.IssueInput{
		ProjectKey:  sel.project.Key,
		Summary:     summary,
		Description: description,
		IssueType:   w.IssueType,
	})
	if !res.Success {
		r.errorf("Failed to create issue: %s", res.Error)
		r.warnf("Make sure you have permission to create issues in project %s.", sel.project.Key)
		return EventDone, nil
	}
	r.successf("Issue %s created.", res.Data.Key)
	r.infof("View it at %s", w.Session.BrowseURL(res.Data.Key))
	return EventDone, nil
}

func (w *Workflow) deleteFlow(ctx context.Context, sel *selection) (Event, error) {
	r := w.r()
	r.warnf("You are about to delete %s: %s", sel.issue.Key, sel.issue.Fields.Summary)
	r.warnf("This action cannot be undone.")
	answer, err := w.Prompter.Ask("Type 'yes' to confirm: ")
	if err != nil {
		return 0, err
	}
	if !ConfirmDeletion(answer) {
		r.infof("Deletion cancelled.")
		return EventAborted, nil
	}

	res := w.API.DeleteIssue(ctx, sel.issue.Key)
	if !res.Success {
		r.errorf("Failed to delete issue: %s", res.Error)
		r.warnf("Deleting issues requires the Delete Issues permission in project %s.", sel.project.Key)
		return EventDone, nil
	}
	r.successf("Issue %s deleted.", sel.issue.Key)
	return EventDone, nil
}

func (w *Workflow) getFlow(ctx context.Context, sel *selection) (Event, error) {
	r := w.r()
	res := w.API.GetIssue(ctx, sel.issue.Key)
	if !res.Success {
		r.errorf("Failed to fetch issue: %s", res.Error)
		return EventDone, nil
	}
	out, err := renderIssue(&res.Data)
	if err != nil {
		r.errorf("%v", err)
		return EventDone, nil
	}
	_, _ = io.WriteString(w.Out, out)
	return EventDone, nil
}

func (w *Workflow) maxResults() int {
	if w.MaxResults <= 0 {
		return jira.DefaultMaxResults
	}
	return w.MaxResults
}
