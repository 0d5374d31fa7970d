package workflow

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/fatih/color"

	"github.com/opensdd/jira-cli/core/jira"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headingColor = color.New(color.Bold)
)

// issueTemplate renders the details shown by the get flow.
const issueTemplate = `
{{.Key}}
  Summary:     {{.Summary}}
  Description: {{.Description}}
  Assignee:    {{.Assignee}}
  Status:      {{.Status}}
  Type:        {{.Type}}
`

// renderer writes glyph-prefixed messages to the user.
type renderer struct {
	out io.Writer
}

func (r renderer) successf(format string, args ...any) {
	_, _ = successColor.Fprintf(r.out, "✓ "+format+"\n", args...)
}

func (r renderer) errorf(format string, args ...any) {
	_, _ = errorColor.Fprintf(r.out, "✗ "+format+"\n", args...)
}

func (r renderer) warnf(format string, args ...any) {
	_, _ = warnColor.Fprintf(r.out, "⚠ "+format+"\n", args...)
}

func (r renderer) infof(format string, args ...any) {
	_, _ = infoColor.Fprintf(r.out, "ℹ "+format+"\n", args...)
}

func (r renderer) heading(title string) {
	_, _ = headingColor.Fprintf(r.out, "\n%s\n", title)
}

func (r renderer) line(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// renderIssue produces the detail view of an issue.
func renderIssue(issue *jira.Issue) (string, error) {
	type issueVM struct {
		Key         string
		Summary     string
		Description string
		Assignee    string
		Status      string
		Type        string
	}
	vm := issueVM{
		Key:         issue.Key,
		Summary:     issue.Fields.Summary,
		Description: issue.DescriptionText(),
		Assignee:    issue.AssigneeName(),
		Status:      issue.Fields.Status.Name,
		Type:        issue.Fields.IssueType.Name,
	}
	if vm.Description == "" {
		vm.Description = "No description"
	}
	if vm.Assignee == "" {
		vm.Assignee = "Unassigned"
	}

	tpl, err := template.New("issue").Parse(issueTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse issue template: %w", err)
	}
	var out bytes.Buffer
	if err := tpl.Execute(&out, vm); err != nil {
		return "", fmt.Errorf("failed to execute issue template: %w", err)
	}
	return out.String(), nil
}
