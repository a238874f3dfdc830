// Package calendar provides a client for the Google Calendar API.
//
// The client wraps the calendar/v3 service behind domain types: meetings are
// created on the user's primary calendar with an attached Google Meet
// conference, and events are listed in a time window for recording matching.
//
// All operations require an OAuth2 token source with the calendar.events
// scope; clients are constructed per session by the server layer.
package calendar
