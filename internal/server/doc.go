// Package server implements the HTTP surface of meetfewer: the Google
// OAuth sign-in flow, cookie-bound sessions, the meeting and recording
// API endpoints, health probes, and the dedicated metrics server.
//
// Sessions are held in memory. Each session carries the user's email and
// a refresh-capable OAuth2 token source; API handlers reject requests
// without a live session before any remote call is made.
package server
