package meetings

import (
	"fmt"
	"time"
)

// CreateRequest is the payload for creating a meeting. ID is an optional
// client-chosen correlation id echoed back in the response.
type CreateRequest struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	TimeZone    string   `json:"timeZone,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

// Validate checks the request and parses its timestamps.
func (r *CreateRequest) Validate() (start, end time.Time, err error) {
	if r.Title == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if r.StartTime == "" || r.EndTime == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	start, err = time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	end, err = time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	return start, end, nil
}

// Meeting is the normalized summary of a created meeting.
type Meeting struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	MeetLink        string `json:"meetLink"`
	CalendarLink    string `json:"calendarLink,omitempty"`
	MeetID          string `json:"meetId,omitempty"`
	HostEmail       string `json:"hostEmail,omitempty"`
	CalendarEventID string `json:"calendarEventId"`
}
