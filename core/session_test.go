package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveBaseURL(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"alice@co":                  "https://alice.atlassian.net",
		"bob.smith@example.com":     "https://bob.smith.atlassian.net",
		"carol@example.com@another": "https://carol.atlassian.net",
		"@example.com":              "https://.atlassian.net",
		"no-at-sign":                "",
		"":                          "",
	}
	for email, want := range cases {
		assert.Equal(t, want, DeriveBaseURL(email), "email %q", email)
	}
}

func TestSession_SetCredentials(t *testing.T) {
	t.Parallel()
	s := &Session{}
	assert.False(t, s.HasCredentials())
	assert.Empty(t, s.GetBaseURL())

	s.SetCredentials("alice@co", "tok")
	assert.Equal(t, "alice@co", s.GetEmail())
	assert.Equal(t, "tok", s.GetAPIToken())
	assert.Equal(t, "https://alice.atlassian.net", s.GetBaseURL())
	assert.Equal(t, "https://alice.atlassian.net/rest/api/3", s.APIRoot())
	assert.Equal(t, "https://alice.atlassian.net/browse/BTS-1", s.BrowseURL("BTS-1"))
	assert.True(t, s.HasCredentials())
}

func TestSession_SetCredentials_RederivesBaseURL(t *testing.T) {
	t.Parallel()
	s := &Session{}
	s.SetCredentials("alice@co", "tok")
	s.SetCredentials("not-an-email", "tok")
	assert.Empty(t, s.GetBaseURL())
	assert.Equal(t, "not-an-email", s.GetEmail())
}

func TestSession_TokenOnly(t *testing.T) {
	t.Parallel()
	s := &Session{}
	s.SetCredentials("", "tok")
	assert.False(t, s.HasCredentials())
}

func TestSession_Nil(t *testing.T) {
	t.Parallel()
	var s *Session
	assert.Empty(t, s.GetEmail())
	assert.Empty(t, s.GetAPIToken())
	assert.Empty(t, s.GetBaseURL())
	assert.False(t, s.HasCredentials())
}
