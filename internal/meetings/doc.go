// Package meetings implements the create-meeting workflow: it validates the
// request, creates a calendar event with an attached Google Meet conference,
// and shapes the normalized meeting summary the API returns.
package meetings
