package google

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "complete config",
			config: Config{
				ClientID:     "client-id",
				ClientSecret: "client-secret",
				RedirectURL:  "http://localhost:8080/auth/google/callback",
			},
		},
		{
			name: "missing client ID",
			config: Config{
				ClientSecret: "client-secret",
				RedirectURL:  "http://localhost:8080/auth/google/callback",
			},
			wantErr: "client ID",
		},
		{
			name: "missing client secret",
			config: Config{
				ClientID:    "client-id",
				RedirectURL: "http://localhost:8080/auth/google/callback",
			},
			wantErr: "client secret",
		},
		{
			name: "missing redirect URL",
			config: Config{
				ClientID:     "client-id",
				ClientSecret: "client-secret",
			},
			wantErr: "redirect URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOAuthConfig(t *testing.T) {
	config := Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://example.com/auth/google/callback",
	}

	conf := config.OAuth()
	assert.Equal(t, "client-id", conf.ClientID)
	assert.Equal(t, "https://example.com/auth/google/callback", conf.RedirectURL)
	assert.Equal(t, DefaultOAuthScopes, conf.Scopes)
}

func TestAuthCodeURL(t *testing.T) {
	config := Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://example.com/auth/google/callback",
	}

	url := config.AuthCodeURL("csrf-state-token")
	assert.Contains(t, url, "state=csrf-state-token")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "prompt=consent")
	assert.Contains(t, url, "client_id=client-id")
}

func TestDefaultOAuthScopes(t *testing.T) {
	// The app must never request more than identity, calendar events,
	// and read-only Drive.
	require.Len(t, DefaultOAuthScopes, 4)
	for _, scope := range DefaultOAuthScopes {
		if scope == "openid" {
			continue
		}
		assert.True(t, strings.HasPrefix(scope, "https://www.googleapis.com/auth/"),
			"unexpected scope format: %s", scope)
	}
	assert.Contains(t, DefaultOAuthScopes, "https://www.googleapis.com/auth/calendar.events")
	assert.Contains(t, DefaultOAuthScopes, "https://www.googleapis.com/auth/drive.readonly")
}

func TestHTTPClient(t *testing.T) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	client := HTTPClient(context.Background(), ts)
	require.NotNil(t, client)

	transport, ok := client.Transport.(*oauth2.Transport)
	require.True(t, ok, "expected oauth2 transport")
	require.NotNil(t, transport.Base)
}
