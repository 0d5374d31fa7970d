package jira

import (
	"encoding/json"
	"strings"
)

type User struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"self"`
}

type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	URL    string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary string `json:"summary"`
	// Description is either an ADF document or, on older payloads, a plain string.
	Description json.RawMessage `json:"description,omitempty"`
	Assignee    *User           `json:"assignee"`
	Status      Named           `json:"status"`
	IssueType   Named           `json:"issuetype"`
	Created     string          `json:"created,omitempty"`
}

// Named is the {"name": ...} shape shared by status, issue type and similar fields.
type Named struct {
	Name string `json:"name"`
}

// SearchResult is the relevant subset of the search response.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// CreatedIssue is returned by the create endpoint.
type CreatedIssue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
	URL string `json:"self"`
}

// DescriptionText returns the issue description as plain text, or an empty string
// when the issue has none.
func (i Issue) DescriptionText() string {
	raw := i.Fields.Description
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	return doc.PlainText()
}

// AssigneeName returns the assignee's display name, or an empty string when unassigned.
func (i Issue) AssigneeName() string {
	if i.Fields.Assignee == nil {
		return ""
	}
	return i.Fields.Assignee.DisplayName
}

// Verification is the outcome of a successful credential check.
type Verification struct {
	User     User
	Projects []Project
}
