package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Config holds the Google OAuth client credentials for the web flow.
// RedirectURL must match one of the authorized redirect URIs registered
// for the OAuth client.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Validate checks that the required credentials are present.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("google OAuth client ID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("google OAuth client secret is required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("google OAuth redirect URL is required")
	}
	return nil
}

// OAuth returns the oauth2 configuration for the authorization-code flow.
func (c Config) OAuth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  c.RedirectURL,
		Scopes:       DefaultOAuthScopes,
	}
}

// AuthCodeURL returns the Google consent page URL for the given CSRF state.
// Offline access with forced consent is requested so Google issues a refresh
// token, allowing sessions to outlive the first access token.
func (c Config) AuthCodeURL(state string) string {
	return c.OAuth().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for a token and returns a
// refresh-capable token source for it.
func (c Config) Exchange(ctx context.Context, code string) (*oauth2.Token, oauth2.TokenSource, error) {
	conf := c.OAuth()
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, conf.TokenSource(ctx, token), nil
}

// TokenSource wraps a stored token in a refresh-capable token source.
func (c Config) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return c.OAuth().TokenSource(ctx, token)
}

// HTTPClient returns an HTTP client authenticated with the given token source.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
// observed against the Google API endpoints.
func HTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}

	return client
}

// FetchUserEmail retrieves the signed-in user's email address via the
// OAuth2 userinfo endpoint. Requires the userinfo.email scope.
func FetchUserEmail(ctx context.Context, ts oauth2.TokenSource) (string, error) {
	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(HTTPClient(ctx, ts)))
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	return info.Email, nil
}
