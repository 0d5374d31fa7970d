package jira

import (
	"context"
	"log/slog"
)

const (
	msgNoCredentials = "Please set up your credentials first."
	msgNoProjects    = "No projects found. Your account may not have access to any projects."
)

// CheckCredentials reports whether the session is usable: credentials must be set,
// the current user must resolve and at least one project must be visible. Jira accepts
// valid credentials for users without any project access, so the last check matters.
func (c *Client) CheckCredentials(ctx context.Context) Result[Verification] {
	log := slog.With("op", "CheckCredentials")
	if !c.session.HasCredentials() {
		return fail[Verification](msgNoCredentials)
	}

	user := c.GetCurrentUser(ctx)
	if !user.Success {
		log.Debug("Current user lookup failed", "error", user.Error)
		return failAs[Verification](user)
	}

	projects := c.GetProjectsList(ctx)
	if !projects.Success {
		log.Debug("Project listing failed", "error", projects.Error)
		return failAs[Verification](projects)
	}
	if len(projects.Data) == 0 {
		return fail[Verification](msgNoProjects)
	}

	log.Debug("Credentials verified", "user", user.Data.DisplayName, "projects", len(projects.Data))
	return ok(Verification{User: user.Data, Projects: projects.Data})
}
