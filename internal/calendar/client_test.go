package calendar

import (
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

func TestToEventSummary(t *testing.T) {
	// A nil event must convert to an empty summary, not panic
	summary := toEventSummary(nil)
	if summary.ID != "" {
		t.Errorf("Expected empty ID for nil event, got %s", summary.ID)
	}
}

func TestToEventSummaryFull(t *testing.T) {
	event := &calendar.Event{
		Id:          "evt123",
		Summary:     "Weekly Sync",
		Description: "Planning session",
		Status:      "confirmed",
		HtmlLink:    "https://calendar.google.com/event?eid=abc",
		HangoutLink: "https://meet.google.com/abc-defg-hij",
		Start: &calendar.EventDateTime{
			DateTime: "2024-03-01T10:00:00Z",
		},
		End: &calendar.EventDateTime{
			DateTime: "2024-03-01T11:00:00Z",
		},
		Organizer: &calendar.EventOrganizer{
			Email: "alice@example.com",
		},
		ConferenceData: &calendar.ConferenceData{
			EntryPoints: []*calendar.EntryPoint{
				{EntryPointType: "phone", Uri: "tel:+1-555-0100"},
				{EntryPointType: "video", Uri: "https://meet.google.com/abc-defg-hij"},
			},
		},
	}

	summary := toEventSummary(event)

	if summary.ID != "evt123" {
		t.Errorf("ID = %q, want evt123", summary.ID)
	}
	if summary.Organizer != "alice@example.com" {
		t.Errorf("Organizer = %q, want alice@example.com", summary.Organizer)
	}
	wantStart := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !summary.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", summary.Start, wantStart)
	}
	if len(summary.EntryPoints) != 2 {
		t.Fatalf("EntryPoints = %d, want 2", len(summary.EntryPoints))
	}
	if summary.EntryPoints[1].Type != "video" {
		t.Errorf("EntryPoints[1].Type = %q, want video", summary.EntryPoints[1].Type)
	}
}

func TestToEventSummaryAllDay(t *testing.T) {
	event := &calendar.Event{
		Id: "evt456",
		Start: &calendar.EventDateTime{
			Date: "2024-03-01",
		},
		End: &calendar.EventDateTime{
			Date: "2024-03-02",
		},
	}

	summary := toEventSummary(event)
	if summary.Start.IsZero() {
		t.Error("Expected all-day start date to be parsed")
	}
	if summary.Start.Year() != 2024 || summary.Start.Month() != 3 || summary.Start.Day() != 1 {
		t.Errorf("Start = %v, want 2024-03-01", summary.Start)
	}
}

func TestMeetLink(t *testing.T) {
	tests := []struct {
		name     string
		event    EventSummary
		expected string
	}{
		{
			name: "prefers video entry point",
			event: EventSummary{
				HangoutLink: "https://meet.google.com/legacy-link",
				EntryPoints: []EntryPoint{
					{Type: "phone", URI: "tel:+1-555-0100"},
					{Type: "video", URI: "https://meet.google.com/abc-defg-hij"},
				},
			},
			expected: "https://meet.google.com/abc-defg-hij",
		},
		{
			name: "falls back to hangout link",
			event: EventSummary{
				HangoutLink: "https://meet.google.com/legacy-link",
				EntryPoints: []EntryPoint{
					{Type: "phone", URI: "tel:+1-555-0100"},
				},
			},
			expected: "https://meet.google.com/legacy-link",
		},
		{
			name:     "no conference data",
			event:    EventSummary{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.MeetLink(); got != tt.expected {
				t.Errorf("MeetLink() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestVideoEntryPoint(t *testing.T) {
	// Unlike MeetLink, VideoEntryPoint must not fall back to the legacy link
	event := EventSummary{
		HangoutLink: "https://meet.google.com/legacy-link",
	}
	if got := event.VideoEntryPoint(); got != "" {
		t.Errorf("VideoEntryPoint() = %q, want empty", got)
	}

	event.EntryPoints = []EntryPoint{
		{Type: "video", URI: "https://meet.google.com/abc-defg-hij"},
	}
	if got := event.VideoEntryPoint(); got != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("VideoEntryPoint() = %q", got)
	}
}

func TestMeetingInputValidation(t *testing.T) {
	tests := []struct {
		name  string
		input MeetingInput
	}{
		{
			name: "valid basic meeting",
			input: MeetingInput{
				Title: "Team Meeting",
				Start: time.Now(),
				End:   time.Now().Add(time.Hour),
			},
		},
		{
			name: "meeting with attendees",
			input: MeetingInput{
				Title:     "Planning",
				Start:     time.Now(),
				End:       time.Now().Add(time.Hour),
				TimeZone:  "Europe/Berlin",
				Attendees: []string{"user1@example.com", "user2@example.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.input.Title == "" {
				t.Error("Expected non-empty title")
			}
			if tt.input.End.Before(tt.input.Start) {
				t.Error("End time should be after start time")
			}
		})
	}
}

func TestNewClientNilTokenSource(t *testing.T) {
	_, err := NewClient(t.Context(), nil)
	if err == nil {
		t.Error("Expected error for nil token source")
	}
}
