package meeting

import (
	"regexp"
	"strings"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/drive"
)

// MeetingIDProperty is the Drive custom property that, when present on a
// recording, authoritatively names the meeting the file belongs to.
const MeetingIDProperty = "meetingId"

// codePatterns are tried in priority order; the first match wins.
var codePatterns = []*regexp.Regexp{
	// Meet URL with a standard room code
	regexp.MustCompile(`(?i)meet\.google\.com/([a-z]{3}-[a-z]{4}-[a-z]{3})`),
	// Meet lookup URL with an opaque token
	regexp.MustCompile(`(?i)meet\.google\.com/lookup/([a-z0-9-]+)`),
	// Labeled "meeting id" phrase followed by a room code
	regexp.MustCompile(`(?i)meeting[_-]?id[_:-]?\s*([a-z]{3}-[a-z]{4}-[a-z]{3})`),
	// Bare room code anywhere in the text
	regexp.MustCompile(`(?i)([a-z]{3}-[a-z]{4}-[a-z]{3})`),
	// Loose meet-prefixed token
	regexp.MustCompile(`(?i)meet[-_]([a-z0-9-]{10,})`),
}

// ExtractMeetingCode recovers the canonical meeting room code from an
// arbitrary string (file name, description, or a full Meet URL). The result
// is lowercased so codes extracted from different sources for the same room
// compare equal. Returns "" when no pattern matches; that is not an error.
func ExtractMeetingCode(text string) string {
	if text == "" {
		return ""
	}
	for _, pattern := range codePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.ToLower(m[1])
		}
	}
	return ""
}

// CodeFromRecording extracts the meeting code from a Drive recording.
// A meetingId custom property is authoritative and bypasses all pattern
// matching; otherwise the file name is tried before the description.
func CodeFromRecording(file *drive.RecordingFile) string {
	if file == nil {
		return ""
	}
	if id := file.Properties[MeetingIDProperty]; id != "" {
		return strings.ToLower(id)
	}
	if code := ExtractMeetingCode(file.Name); code != "" {
		return code
	}
	return ExtractMeetingCode(file.Description)
}

// CodeFromEvent extracts the meeting code from a calendar event's video
// conference entry point. Events without structured conference data yield "".
func CodeFromEvent(event *calendar.EventSummary) string {
	if event == nil {
		return ""
	}
	return ExtractMeetingCode(event.VideoEntryPoint())
}
