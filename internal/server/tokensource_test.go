package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/meetfewer/internal/instrumentation"
)

type fakeRefreshRecorder struct {
	results []string
}

func (f *fakeRefreshRecorder) RecordOAuthTokenRefresh(_ context.Context, result string) {
	f.results = append(f.results, result)
}

type scriptedTokenSource struct {
	tokens []*oauth2.Token
	errs   []error
	calls  int
}

func (s *scriptedTokenSource) Token() (*oauth2.Token, error) {
	i := s.calls
	s.calls++
	if s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.tokens[i], nil
}

func TestTrackedTokenSourceCountsRefreshes(t *testing.T) {
	rec := &fakeRefreshRecorder{}
	src := &scriptedTokenSource{
		tokens: []*oauth2.Token{
			{AccessToken: "tok-a"},
			{AccessToken: "tok-a"},
			{AccessToken: "tok-b"},
		},
		errs: make([]error, 3),
	}
	ts := trackRefreshes(src, rec)

	for range 3 {
		_, err := ts.Token()
		require.NoError(t, err)
	}

	assert.Equal(t, []string{instrumentation.OAuthResultSuccess}, rec.results,
		"only the minting of a new access token counts as a refresh")
}

func TestTrackedTokenSourceRecordsFailures(t *testing.T) {
	rec := &fakeRefreshRecorder{}
	src := &scriptedTokenSource{
		tokens: []*oauth2.Token{nil},
		errs:   []error{errors.New("refresh token revoked")},
	}
	ts := trackRefreshes(src, rec)

	_, err := ts.Token()
	require.Error(t, err)
	assert.Equal(t, []string{instrumentation.OAuthResultFailure}, rec.results)
}
