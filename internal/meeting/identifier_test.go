package meeting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/drive"
)

func TestExtractMeetingCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "meet URL",
			text: "Join at https://meet.google.com/abc-defg-hij",
			want: "abc-defg-hij",
		},
		{
			name: "meet URL uppercase",
			text: "HTTPS://MEET.GOOGLE.COM/ABC-DEFG-HIJ",
			want: "abc-defg-hij",
		},
		{
			name: "lookup URL",
			text: "https://meet.google.com/lookup/team-standup",
			want: "team-standup",
		},
		{
			name: "labeled meeting id",
			text: "Meeting ID: abc-defg-hij",
			want: "abc-defg-hij",
		},
		{
			name: "bare room code in the middle of text",
			text: "Recording of xyz-abcd-efg from Tuesday",
			want: "xyz-abcd-efg",
		},
		{
			name: "loose meet token",
			text: "recording meet-team2024standup part 1",
			want: "team2024standup",
		},
		{
			name: "no code",
			text: "quarterly budget review",
			want: "",
		},
		{
			name: "empty string",
			text: "",
			want: "",
		},
		{
			name: "URL wins over bare code later in text",
			text: "meet.google.com/abc-defg-hij was rescheduled from xyz-abcd-efg",
			want: "abc-defg-hij",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMeetingCode(tt.text))
		})
	}
}

func TestCodeFromRecording(t *testing.T) {
	tests := []struct {
		name string
		file *drive.RecordingFile
		want string
	}{
		{
			name: "nil file",
			file: nil,
			want: "",
		},
		{
			name: "meetingId property is authoritative",
			file: &drive.RecordingFile{
				Name:       "something with xyz-abcd-efg",
				Properties: map[string]string{"meetingId": "ABC-DEFG-HIJ"},
			},
			want: "abc-defg-hij",
		},
		{
			name: "falls back to file name",
			file: &drive.RecordingFile{
				Name: "Weekly Sync (abc-defg-hij) 2024-03-01.mp4",
			},
			want: "abc-defg-hij",
		},
		{
			name: "falls back to description after name",
			file: &drive.RecordingFile{
				Name:        "GMT20240301-recording.mp4",
				Description: "Recording of meet.google.com/abc-defg-hij",
			},
			want: "abc-defg-hij",
		},
		{
			name: "nothing extractable",
			file: &drive.RecordingFile{
				Name:        "screencast.mp4",
				Description: "desktop capture",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeFromRecording(tt.file))
		})
	}
}

func TestCodeFromEvent(t *testing.T) {
	t.Run("video entry point", func(t *testing.T) {
		event := &calendar.EventSummary{
			EntryPoints: []calendar.EntryPoint{
				{Type: "phone", URI: "tel:+1-555-0100"},
				{Type: calendar.EntryPointVideo, URI: "https://meet.google.com/abc-defg-hij"},
			},
		}
		assert.Equal(t, "abc-defg-hij", CodeFromEvent(event))
	})

	t.Run("no video entry point", func(t *testing.T) {
		event := &calendar.EventSummary{
			EntryPoints: []calendar.EntryPoint{
				{Type: "phone", URI: "tel:+1-555-0100"},
			},
		}
		assert.Equal(t, "", CodeFromEvent(event))
	})

	t.Run("nil event", func(t *testing.T) {
		assert.Equal(t, "", CodeFromEvent(nil))
	})
}

func TestIdentifierEqualityIsCaseInsensitive(t *testing.T) {
	lower := ExtractMeetingCode("meet.google.com/abc-defg-hij")
	upper := ExtractMeetingCode("MEET.GOOGLE.COM/ABC-DEFG-HIJ")
	assert.NotEmpty(t, lower)
	assert.Equal(t, lower, upper)
}
