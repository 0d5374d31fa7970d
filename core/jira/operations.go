package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultMaxResults is the page size used when listing issues.
	DefaultMaxResults = 50
	// DefaultIssueType is used when creating an issue without an explicit type.
	DefaultIssueType = "Task"
)

// IssueInput describes an issue to create.
type IssueInput struct {
	ProjectKey  string
	Summary     string
	Description string
	// IssueType defaults to DefaultIssueType when empty.
	IssueType string
}

type issueCreateRequest struct {
	Fields issueCreateFields `json:"fields"`
}

type issueCreateFields struct {
	Project     projectRef `json:"project"`
	Summary     string     `json:"summary"`
	IssueType   Named      `json:"issuetype"`
	Description *Document  `json:"description,omitempty"`
}

type projectRef struct {
	Key string `json:"key"`
}

// required trims value and reports whether it is non-empty.
func required(value string) (string, bool) {
	v := strings.TrimSpace(value)
	return v, v != ""
}

func requiredMsg(field string) string {
	return field + " is required"
}

// GetCurrentUser returns the user the session authenticates as.
func (c *Client) GetCurrentUser(ctx context.Context) Result[User] {
	return call[User](ctx, c, http.MethodGet, "/myself", nil)
}

// GetProjectsList returns every project visible to the user.
func (c *Client) GetProjectsList(ctx context.Context) Result[[]Project] {
	return call[[]Project](ctx, c, http.MethodGet, "/project", nil)
}

// GetProject returns a single project by key.
func (c *Client) GetProject(ctx context.Context, key string) Result[Project] {
	key, valid := required(key)
	if !valid {
		return fail[Project](requiredMsg("Project key"))
	}
	return call[Project](ctx, c, http.MethodGet, "/project/"+url.PathEscape(key), nil)
}

// GetIssuesList returns up to maxResults issues of a project, oldest first.
// A non-positive maxResults means DefaultMaxResults.
func (c *Client) GetIssuesList(ctx context.Context, projectKey string, maxResults int) Result[SearchResult] {
	projectKey, valid := required(projectKey)
	if !valid {
		return fail[SearchResult](requiredMsg("Project key"))
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	jql := fmt.Sprintf("project = %s ORDER BY created ASC", projectKey)
	path := "/search?jql=" + encodeQueryComponent(jql) + "&maxResults=" + strconv.Itoa(maxResults)
	return call[SearchResult](ctx, c, http.MethodGet, path, nil)
}

// GetIssue returns a single issue by key.
func (c *Client) GetIssue(ctx context.Context, issueKey string) Result[Issue] {
	issueKey, valid := required(issueKey)
	if !valid {
		return fail[Issue](requiredMsg("Issue key"))
	}
	return call[Issue](ctx, c, http.MethodGet, "/issue/"+url.PathEscape(issueKey), nil)
}

// CreateIssue creates an issue after checking that the project exists and is accessible.
// The description is sent as a single paragraph document, and only when non-blank.
func (c *Client) CreateIssue(ctx context.Context, in IssueInput) Result[CreatedIssue] {
	projectKey, valid := required(in.ProjectKey)
	if !valid {
		return fail[CreatedIssue](requiredMsg("Project key"))
	}
	summary, valid := required(in.Summary)
	if !valid {
		return fail[CreatedIssue](requiredMsg("Summary"))
	}
	issueType := strings.TrimSpace(in.IssueType)
	if issueType == "" {
		issueType = DefaultIssueType
	}

	if p := c.GetProject(ctx, projectKey); !p.Success {
		return fail[CreatedIssue](fmt.Sprintf("Project '%s' not found or you don't have access to it. %s", projectKey, p.Error))
	}

	fields := issueCreateFields{
		Project:   projectRef{Key: projectKey},
		Summary:   summary,
		IssueType: Named{Name: issueType},
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		fields.Description = ParagraphDocument(desc)
	}
	return call[CreatedIssue](ctx, c, http.MethodPost, "/issue", issueCreateRequest{Fields: fields})
}

// DeleteIssue deletes an issue by key. Successful results carry no data.
func (c *Client) DeleteIssue(ctx context.Context, issueKey string) Result[struct{}] {
	issueKey, valid := required(issueKey)
	if !valid {
		return fail[struct{}](requiredMsg("Issue key"))
	}
	return call[struct{}](ctx, c, http.MethodDelete, "/issue/"+url.PathEscape(issueKey), nil)
}

// encodeQueryComponent escapes s for use as a query value, encoding spaces as %20.
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
