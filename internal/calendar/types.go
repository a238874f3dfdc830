package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EntryPointVideo is the conference entry point type for joining by video.
const EntryPointVideo = "video"

// MeetingInput represents the input for creating a calendar event with an
// attached Google Meet conference.
type MeetingInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
}

// EntryPoint represents one way to join an event's attached conference.
type EntryPoint struct {
	Type string
	URI  string
}

// EventSummary represents a simplified calendar event.
type EventSummary struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Organizer   string
	Status      string
	HTMLLink    string

	// HangoutLink is the legacy direct Meet link field on the event.
	HangoutLink string

	// EntryPoints are the conference entry points (type + URI).
	EntryPoints []EntryPoint
}

// MeetLink returns the URI of the event's video conference. The "video"
// entry point is preferred; the legacy hangout link is the fallback.
func (e *EventSummary) MeetLink() string {
	for _, ep := range e.EntryPoints {
		if ep.Type == EntryPointVideo {
			return ep.URI
		}
	}
	return e.HangoutLink
}

// VideoEntryPoint returns the URI of the "video" entry point, or "" when the
// event has none. Unlike MeetLink it does not fall back to the legacy link;
// the matcher only trusts structured conference data.
func (e *EventSummary) VideoEntryPoint() string {
	for _, ep := range e.EntryPoints {
		if ep.Type == EntryPointVideo {
			return ep.URI
		}
	}
	return ""
}

// toEventSummary converts a Google Calendar event to an EventSummary
func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Status:      event.Status,
		HTMLLink:    event.HtmlLink,
		HangoutLink: event.HangoutLink,
	}

	// Parse start time
	if event.Start != nil {
		if event.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
				summary.Start = t
			}
		} else if event.Start.Date != "" {
			if t, err := time.Parse("2006-01-02", event.Start.Date); err == nil {
				summary.Start = t
			}
		}
	}

	// Parse end time
	if event.End != nil {
		if event.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
				summary.End = t
			}
		} else if event.End.Date != "" {
			if t, err := time.Parse("2006-01-02", event.End.Date); err == nil {
				summary.End = t
			}
		}
	}

	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	// Conference entry points
	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep == nil {
				continue
			}
			summary.EntryPoints = append(summary.EntryPoints, EntryPoint{
				Type: ep.EntryPointType,
				URI:  ep.Uri,
			})
		}
	}

	return summary
}
