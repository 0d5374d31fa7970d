package core

import (
	"strings"
)

// apiPath is the versioned REST prefix appended to the tenant base URL.
const apiPath = "/rest/api/3"

// Session holds the credentials used for every Jira call made during a run.
// It is created empty, filled once during credential setup and only read afterwards.
type Session struct {
	// Email is the Atlassian account email, used as the Basic auth username.
	Email string
	// APIToken is the Atlassian API token, used as the Basic auth password.
	APIToken string

	baseURL string
}

// SetCredentials stores email and token verbatim and derives the tenant base URL from the email.
func (s *Session) SetCredentials(email, token string) {
	s.Email = email
	s.APIToken = token
	s.baseURL = DeriveBaseURL(email)
}

func (s *Session) GetEmail() string {
	if s == nil {
		return ""
	}
	return s.Email
}

func (s *Session) GetAPIToken() string {
	if s == nil {
		return ""
	}
	return s.APIToken
}

// GetBaseURL returns the tenant base URL, or an empty string when no usable email was set.
func (s *Session) GetBaseURL() string {
	if s == nil {
		return ""
	}
	return s.baseURL
}

// HasCredentials reports whether both the email and the API token are set.
func (s *Session) HasCredentials() bool {
	return s.GetEmail() != "" && s.GetAPIToken() != ""
}

// APIRoot returns the REST API v3 root for the session's tenant.
func (s *Session) APIRoot() string {
	return s.GetBaseURL() + apiPath
}

// BrowseURL returns the web URL of the issue with the given key.
func (s *Session) BrowseURL(issueKey string) string {
	return s.GetBaseURL() + "/browse/" + issueKey
}

// DeriveBaseURL maps an email address to a Jira Cloud base URL.
// The local part of the email is used as the tenant subdomain, so
// "alice@example.com" becomes "https://alice.atlassian.net". This is an
// approximation: tenants whose name differs from the user's local part are not
// reachable. An empty email or one without '@' yields an empty URL.
func DeriveBaseURL(email string) string {
	local, _, ok := strings.Cut(email, "@")
	if email == "" || !ok {
		return ""
	}
	return "https://" + local + ".atlassian.net"
}
