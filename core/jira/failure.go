package jira

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

// FailureKind identifies which part of a failed response determined the error message.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	// FailureMessageList: the body carried a non-empty "errorMessages" array.
	FailureMessageList
	// FailureKeyedErrors: the body carried a non-empty "errors" object keyed by field.
	FailureKeyedErrors
	// FailureHTTPStatus: 401, 403 or 404 without a recognised error body.
	FailureHTTPStatus
	// FailureTransport: any other error with a message (network errors, other statuses).
	FailureTransport
)

func (k FailureKind) String() string {
	switch k {
	case FailureMessageList:
		return "message-list"
	case FailureKeyedErrors:
		return "keyed-errors"
	case FailureHTTPStatus:
		return "http-status"
	case FailureTransport:
		return "transport"
	default:
		return "unknown"
	}
}

const (
	msgAuthFailed   = "Authentication failed. Please check your email and API token."
	msgAccessDenied = "Access denied. You may not have permission for this action."
	msgNotFound     = "Resource not found. Please check the issue key or project key."
	msgUnknown      = "Unknown error occurred"
)

// Failure is a classified Jira failure. Use Message to render it.
type Failure struct {
	Kind FailureKind
	// Messages holds the errorMessages entries or the errors values, in document order.
	Messages []string
	Status   int
	Cause    string
}

// errorBody is the error payload shape returned by the Jira REST API.
type errorBody struct {
	ErrorMessages []string        `json:"errorMessages"`
	Errors        json.RawMessage `json:"errors"`
}

// ClassifyFailure inspects a failed call and picks the most specific description available.
// status is the HTTP status (0 when no response was received), body is the raw response
// body (may be nil) and err is the underlying error (may be nil).
func ClassifyFailure(status int, body []byte, err error) Failure {
	var eb errorBody
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &eb) == nil {
		if len(eb.ErrorMessages) > 0 {
			return Failure{Kind: FailureMessageList, Messages: eb.ErrorMessages, Status: status}
		}
		if vals := orderedValues(eb.Errors); len(vals) > 0 {
			return Failure{Kind: FailureKeyedErrors, Messages: vals, Status: status}
		}
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return Failure{Kind: FailureHTTPStatus, Status: status}
	}
	if err != nil && err.Error() != "" {
		return Failure{Kind: FailureTransport, Status: status, Cause: err.Error()}
	}
	return Failure{Kind: FailureUnknown, Status: status}
}

// Message renders the failure as a single human readable line.
func (f Failure) Message() string {
	switch f.Kind {
	case FailureMessageList:
		if len(f.Messages) > 0 {
			return f.Messages[0]
		}
	case FailureKeyedErrors:
		return strings.Join(f.Messages, ", ")
	case FailureHTTPStatus:
		switch f.Status {
		case http.StatusUnauthorized:
			return msgAuthFailed
		case http.StatusForbidden:
			return msgAccessDenied
		case http.StatusNotFound:
			return msgNotFound
		}
	case FailureTransport:
		if f.Cause != "" {
			return f.Cause
		}
	}
	return msgUnknown
}

// orderedValues returns the values of a JSON object in the order they appear.
// Non-string values are rendered as their JSON text. Anything that is not an
// object yields nil.
func orderedValues(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}
	var vals []string
	for dec.More() {
		// key
		if _, err := dec.Token(); err != nil {
			return nil
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil
		}
		var s string
		if json.Unmarshal(v, &s) == nil {
			vals = append(vals, s)
			continue
		}
		vals = append(vals, string(v))
	}
	return vals
}
