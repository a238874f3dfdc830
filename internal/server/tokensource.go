package server

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/meetfewer/internal/instrumentation"
)

type refreshRecorder interface {
	RecordOAuthTokenRefresh(ctx context.Context, result string)
}

// trackedTokenSource wraps a session token source and counts refresh
// outcomes. A Token call that hands back a new access token means the
// upstream source refreshed; returning the cached token is not counted.
type trackedTokenSource struct {
	src oauth2.TokenSource
	rec refreshRecorder

	mu   sync.Mutex
	last string
}

func trackRefreshes(src oauth2.TokenSource, rec refreshRecorder) oauth2.TokenSource {
	return &trackedTokenSource{src: src, rec: rec}
}

func (t *trackedTokenSource) Token() (*oauth2.Token, error) {
	tok, err := t.src.Token()

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.rec.RecordOAuthTokenRefresh(context.Background(), instrumentation.OAuthResultFailure)
		return nil, err
	}
	if t.last != "" && tok.AccessToken != t.last {
		t.rec.RecordOAuthTokenRefresh(context.Background(), instrumentation.OAuthResultSuccess)
	}
	t.last = tok.AccessToken
	return tok, nil
}
