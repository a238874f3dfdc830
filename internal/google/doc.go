// Package google provides OAuth2 configuration and token plumbing for Google APIs.
//
// The server component drives a standard authorization-code flow: it redirects
// the browser to Google, exchanges the returned code for a token, and stores a
// refresh-capable token source in the user's session. Calendar and Drive
// clients are constructed from that token source.
package google
