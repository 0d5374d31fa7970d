package workflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensdd/jira-cli/core"
	"github.com/opensdd/jira-cli/core/credentials"
	"github.com/opensdd/jira-cli/core/jira"
)

// scriptedPrompter answers questions from a fixed list and fails with io.EOF when it runs out.
type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) Ask(question string) (string, error) {
	p.asked = append(p.asked, question)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) AskSecret(question string) (string, error) {
	return p.Ask(question)
}

type fakeAPI struct {
	session  *core.Session
	projects []jira.Project
	issues   []jira.Issue
	detail   jira.Issue

	checkErr    string
	projectsErr string
	issuesErr   string
	issueErr    string
	createErr   string
	deleteErr   string
	// afterCheck runs after a successful credential check.
	afterCheck func()

	projectLists int

	checks       int
	issueLists   []string
	maxResults   []int
	creates      []jira.IssueInput
	deletes      []string
	issueFetches []string
}

func (f *fakeAPI) CheckCredentials(context.Context) jira.Result[jira.Verification] {
	f.checks++
	if !f.session.HasCredentials() {
		return jira.Result[jira.Verification]{Error: "Please set up your credentials first."}
	}
	if f.checkErr != "" {
		return jira.Result[jira.Verification]{Error: f.checkErr}
	}
	if len(f.projects) == 0 {
		return jira.Result[jira.Verification]{Error: "No projects found. Your account may not have access to any projects."}
	}
	res := jira.Result[jira.Verification]{Success: true, Data: jira.Verification{
		User:     jira.User{DisplayName: "Alice"},
		Projects: f.projects,
	}}
	if f.afterCheck != nil {
		f.afterCheck()
	}
	return res
}

func (f *fakeAPI) GetProjectsList(context.Context) jira.Result[[]jira.Project] {
	f.projectLists++
	if f.projectsErr != "" {
		return jira.Result[[]jira.Project]{Error: f.projectsErr}
	}
	return jira.Result[[]jira.Project]{Success: true, Data: f.projects}
}

func (f *fakeAPI) GetIssuesList(_ context.Context, projectKey string, maxResults int) jira.Result[jira.SearchResult] {
	f.issueLists = append(f.issueLists, projectKey)
	f.maxResults = append(f.maxResults, maxResults)
	if f.issuesErr != "" {
		return jira.Result[jira.SearchResult]{Error: f.issuesErr}
	}
	return jira.Result[jira.SearchResult]{Success: true, Data: jira.SearchResult{Issues: f.issues}}
}

func (f *fakeAPI) GetIssue(_ context.Context, issueKey string) jira.Result[jira.Issue] {
	f.issueFetches = append(f.issueFetches, issueKey)
	if f.issueErr != "" {
		return jira.Result[jira.Issue]{Error: f.issueErr}
	}
	return jira.Result[jira.Issue]{Success: true, Data: f.detail}
}

func (f *fakeAPI) CreateIssue(_ context.Context, in jira.IssueInput) jira.Result[jira.CreatedIssue] {
	f.creates = append(f.creates, in)
	if f.createErr != "" {
		return jira.Result[jira.CreatedIssue]{Error: f.createErr}
	}
	return jira.Result[jira.CreatedIssue]{Success: true, Data: jira.CreatedIssue{Key: in.ProjectKey + "-99"}}
}

func (f *fakeAPI) DeleteIssue(_ context.Context, issueKey string) jira.Result[struct{}] {
	f.deletes = append(f.deletes, issueKey)
	if f.deleteErr != "" {
		return jira.Result[struct{}]{Error: f.deleteErr}
	}
	return jira.Result[struct{}]{Success: true}
}

type staticSource struct {
	pair credentials.Pair
	err  error
}

func (s staticSource) Load() (credentials.Pair, error) { return s.pair, s.err }

func newFixture(answers ...string) (*Workflow, *fakeAPI, *scriptedPrompter, *bytes.Buffer) {
	session := &core.Session{}
	api := &fakeAPI{
		session: session,
		projects: []jira.Project{
			{Key: "BTS", Name: "Bug Tracker"},
			{Key: "OPS", Name: "Operations"},
			{Key: "WEB", Name: "Website"},
		},
		issues: []jira.Issue{
			{Key: "BTS-1", Fields: jira.IssueFields{Summary: "First"}},
			{Key: "BTS-2", Fields: jira.IssueFields{Summary: "Second"}},
		},
	}
	p := &scriptedPrompter{answers: answers}
	out := &bytes.Buffer{}
	w := &Workflow{
		API:      api,
		Session:  session,
		Prompter: p,
		Out:      out,
	}
	return w, api, p, out
}

// manualLogin answers the setup menu with manually entered credentials.
var manualLogin = []string{"2", "alice@co", "tok"}

func script(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestRun_ManualSetupThenExit(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin, []string{"4"})...)

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 1, api.checks)
	assert.Equal(t, "https://alice.atlassian.net", w.Session.GetBaseURL())
	assert.Contains(t, out.String(), "Connected to https://alice.atlassian.net as Alice (3 projects available)")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestRun_SetupRetriesUntilVerified(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(
		[]string{"9"},               // invalid menu choice
		[]string{"1"},               // environment, nothing configured
		[]string{"2", "bob@co", ""}, // token missing
		manualLogin,
		[]string{"4"},
	)...)
	w.Credentials = staticSource{}

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 3, api.checks)
	assert.Contains(t, out.String(), "Invalid choice. Please enter 1 or 2.")
	assert.Contains(t, out.String(), "Please set up your credentials first.")
	assert.Equal(t, "alice@co", w.Session.GetEmail())
}

func TestRun_SetupFromEnvironment(t *testing.T) {
	t.Parallel()
	w, api, _, _ := newFixture("1", "4")
	w.Credentials = staticSource{pair: credentials.Pair{Email: "carol@co", APIToken: "secret"}}

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 1, api.checks)
	assert.Equal(t, "carol@co", w.Session.GetEmail())
	assert.Equal(t, "secret", w.Session.GetAPIToken())
	assert.Equal(t, "https://carol.atlassian.net", w.Session.GetBaseURL())
}

func TestRun_SetupCredentialSourceError(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script([]string{"1"}, manualLogin, []string{"4"})...)
	w.Credentials = staticSource{err: errors.New("bad env file")}

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 1, api.checks)
	assert.Contains(t, out.String(), "Could not read credentials: bad env file")
}

func TestRun_VerificationFailureRedisplaysSetup(t *testing.T) {
	t.Parallel()
	w, api, p, out := newFixture(script(manualLogin)...)
	api.checkErr = "No projects found. Your account may not have access to any projects."

	err := w.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, api.checks)
	assert.Contains(t, out.String(), "✗ No projects found.")
	// setup was shown again after the failed check
	assert.Equal(t, "Choose an option (1-2): ", p.asked[len(p.asked)-1])
}

func TestRun_InvalidMainMenuChoiceReprompts(t *testing.T) {
	t.Parallel()
	w, _, p, out := newFixture(script(manualLogin, []string{"7", "", "4"})...)

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "Invalid choice. Please enter a number between 1 and 4.")
	assert.Equal(t, 3, menuPrompts(p))
}

func TestRun_DeleteConfirmation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		answer  string
		deletes int
	}{
		{"y", 0},
		{"", 0},
		{"no", 0},
		{"YES please", 0},
		{"yes", 1},
		{"YES", 1},
		{"Yes", 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.answer, func(t *testing.T) {
			t.Parallel()
			w, api, _, out := newFixture(script(manualLogin, []string{"3", "1", "2", tt.answer, "4"})...)

			require.NoError(t, w.Run(context.Background()))
			assert.Len(t, api.deletes, tt.deletes)
			assert.Contains(t, out.String(), "You are about to delete BTS-2: Second")
			if tt.deletes == 1 {
				assert.Equal(t, []string{"BTS-2"}, api.deletes)
				assert.Contains(t, out.String(), "✓ Issue BTS-2 deleted.")
			} else {
				assert.Contains(t, out.String(), "Deletion cancelled.")
			}
		})
	}
}

func TestRun_DeleteFailureShowsHint(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin, []string{"3", "1", "1", "yes", "4"})...)
	api.deleteErr = "Access denied. You may not have permission for this action."

	require.NoError(t, w.Run(context.Background()))
	assert.Len(t, api.deletes, 1)
	assert.Contains(t, out.String(), "Failed to delete issue: Access denied.")
	assert.Contains(t, out.String(), "Delete Issues permission in project BTS")
}

func TestRun_ProjectSelection(t *testing.T) {
	t.Parallel()
	for input, key := range map[string]string{"1": "BTS", "2": "OPS", "3": "WEB"} {
		w, api, _, _ := newFixture(script(manualLogin, []string{"1", input, "9", "4"})...)
		require.NoError(t, w.Run(context.Background()))
		assert.Equal(t, []string{key}, api.issueLists, "input %q", input)
	}
}

func TestRun_InvalidProjectSelectionAborts(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"0", "4", "abc", ""} {
		w, api, _, out := newFixture(script(manualLogin, []string{"1", input, "4"})...)
		require.NoError(t, w.Run(context.Background()))
		assert.Empty(t, api.issueLists, "input %q", input)
		assert.Empty(t, api.issueFetches, "input %q", input)
		assert.Contains(t, out.String(), "Invalid selection.")
	}
}

func TestRun_NoProjects(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin, []string{"1", "4"})...)
	// projects disappear between verification and selection
	api.afterCheck = func() { api.projects = nil }

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "(3 projects available)")
	assert.Contains(t, out.String(), "No projects found.")
	assert.Equal(t, 1, api.projectLists)
	assert.Empty(t, api.issueLists)
}

func TestRun_VerificationWithoutProjects(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin)...)
	api.projects = nil

	require.ErrorIs(t, w.Run(context.Background()), io.EOF)
	assert.Contains(t, out.String(), "✗ No projects found. Your account may not have access to any projects.")
	assert.NotContains(t, out.String(), "projects available")
	assert.Zero(t, api.projectLists)
}

// menuPrompts counts how often the main menu was shown.
func menuPrompts(p *scriptedPrompter) int {
	n := 0
	for _, q := range p.asked {
		if q == "Choose an option (1-4): " {
			n++
		}
	}
	return n
}

func TestRun_ProjectListFailureReturnsToMenu(t *testing.T) {
	t.Parallel()
	w, api, p, out := newFixture(script(manualLogin, []string{"1", "4"})...)
	api.projectsErr = "Access denied. You may not have permission for this action."

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "✗ Failed to fetch projects: Access denied.")
	assert.Equal(t, 2, menuPrompts(p))
	assert.Empty(t, api.issueLists)
	assert.Empty(t, api.issueFetches)
}

func TestRun_IssueListFailureReturnsToMenu(t *testing.T) {
	t.Parallel()
	w, api, p, out := newFixture(script(manualLogin, []string{"3", "1", "4"})...)
	api.issuesErr = "Resource not found. Please check the issue key or project key."

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "✗ Failed to fetch issues: Resource not found.")
	assert.Equal(t, 2, menuPrompts(p))
	assert.Equal(t, []string{"BTS"}, api.issueLists)
	assert.Empty(t, api.deletes)
	assert.Empty(t, api.issueFetches)
}

func TestRun_IssueFetchFailureReturnsToMenu(t *testing.T) {
	t.Parallel()
	w, api, p, out := newFixture(script(manualLogin, []string{"1", "1", "2", "4"})...)
	api.issueErr = "Authentication failed. Please check your email and API token."

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "✗ Failed to fetch issue: Authentication failed.")
	assert.NotContains(t, out.String(), "Summary:")
	assert.Equal(t, 2, menuPrompts(p))
	assert.Equal(t, []string{"BTS-2"}, api.issueFetches)
	assert.Len(t, api.issueLists, 1)
}

func TestRun_NoIssues(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin, []string{"1", "2", "4"})...)
	api.issues = nil

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "No issues found in project OPS.")
	assert.Empty(t, api.issueFetches)
}

func TestRun_GetIssue(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin, []string{"1", "1", "1", "4"})...)
	w.MaxResults = 10
	api.detail = jira.Issue{Key: "BTS-1", Fields: jira.IssueFields{
		Summary:   "First",
		Status:    jira.Named{Name: "In Progress"},
		IssueType: jira.Named{Name: "Bug"},
	}}

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, []string{"BTS-1"}, api.issueFetches)
	assert.Equal(t, []int{10}, api.maxResults)
	s := out.String()
	assert.Contains(t, s, "Summary:     First")
	assert.Contains(t, s, "Description: No description")
	assert.Contains(t, s, "Assignee:    Unassigned")
	assert.Contains(t, s, "Status:      In Progress")
	assert.Contains(t, s, "Type:        Bug")
}

func TestRun_CreateIssue(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin, []string{"2", "2", "Broken build", "CI fails on main", "4"})...)
	w.IssueType = "Bug"

	require.NoError(t, w.Run(context.Background()))
	require.Len(t, api.creates, 1)
	assert.Equal(t, jira.IssueInput{ProjectKey: "OPS", Summary: "Broken build", Description: "CI fails on main", IssueType: "Bug"}, api.creates[0])
	assert.Contains(t, out.String(), "✓ Issue OPS-99 created.")
	assert.Contains(t, out.String(), "https://alice.atlassian.net/browse/OPS-99")
	assert.Empty(t, api.issueLists)
}

func TestRun_CreateIssueBlankSummaryAborts(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin, []string{"2", "1", "   ", "4"})...)

	require.NoError(t, w.Run(context.Background()))
	assert.Empty(t, api.creates)
	assert.Contains(t, out.String(), "Summary is required.")
}

func TestRun_CreateIssueFailureShowsHint(t *testing.T) {
	t.Parallel()
	w, api, _, out := newFixture(script(manualLogin, []string{"2", "1", "S", "", "4"})...)
	api.createErr = "Project 'BTS' not found or you don't have access to it. Resource not found. Please check the issue key or project key."

	require.NoError(t, w.Run(context.Background()))
	assert.Len(t, api.creates, 1)
	assert.Contains(t, out.String(), "Failed to create issue: Project 'BTS' not found")
	assert.Contains(t, out.String(), "permission to create issues in project BTS")
}

func TestRun_InputClosed(t *testing.T) {
	t.Parallel()
	w, _, _, _ := newFixture(script(manualLogin, []string{"3", "1"})...)

	err := w.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)
}

func TestVerify(t *testing.T) {
	t.Parallel()
	w, api, p, out := newFixture()
	w.Credentials = staticSource{pair: credentials.Pair{Email: "alice@co", APIToken: "tok"}}

	require.NoError(t, w.Verify(context.Background()))
	assert.Equal(t, 1, api.checks)
	assert.Empty(t, p.asked)
	assert.Contains(t, out.String(), "Connected to https://alice.atlassian.net as Alice (3 projects available)")
	assert.Contains(t, out.String(), "OPS - Operations")
}

func TestVerify_Failures(t *testing.T) {
	t.Parallel()
	w, _, _, out := newFixture()
	err := w.Verify(context.Background())
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out.String(), "✗ Please set up your credentials first.")

	w, api, _, _ := newFixture()
	w.Credentials = staticSource{err: errors.New("boom")}
	err = w.Verify(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, err.Error(), "failed to read credentials: boom")
	assert.Zero(t, api.checks)
}

func TestRenderIssue(t *testing.T) {
	t.Parallel()
	issue := &jira.Issue{Key: "BTS-7", Fields: jira.IssueFields{
		Summary:     "Login broken",
		Description: []byte(`"plain text"`),
		Assignee:    &jira.User{DisplayName: "Bob"},
		Status:      jira.Named{Name: "Done"},
		IssueType:   jira.Named{Name: "Task"},
	}}
	out, err := renderIssue(issue)
	require.NoError(t, err)
	assert.Contains(t, out, "BTS-7\n")
	assert.Contains(t, out, "Description: plain text")
	assert.Contains(t, out, "Assignee:    Bob")
	assert.Contains(t, out, "Status:      Done")
}
