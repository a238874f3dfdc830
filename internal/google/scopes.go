package google

// DefaultOAuthScopes are the Google OAuth scopes the application requests at
// sign-in. These scopes are used consistently across the application.
//
// The scopes provide access to:
//   - OpenID Connect: user identity (the signed-in email)
//   - Google Calendar events: create meetings, read events for matching
//   - Google Drive: read-only, to locate and download meeting recordings
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Calendar events scope
	"https://www.googleapis.com/auth/calendar.events",

	// Google Drive scope (read-only covers listing and media download)
	"https://www.googleapis.com/auth/drive.readonly",
}
