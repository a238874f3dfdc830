package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drive "google.golang.org/api/drive/v3"
)

func TestConvertToRecordingFile(t *testing.T) {
	tests := []struct {
		name     string
		input    *drive.File
		expected *RecordingFile
	}{
		{
			name:     "nil file",
			input:    nil,
			expected: &RecordingFile{},
		},
		{
			name: "full metadata",
			input: &drive.File{
				Id:          "file123",
				Name:        "Weekly Sync (2024-03-01) - Recording.mp4",
				MimeType:    "video/mp4",
				CreatedTime: "2024-03-01T11:05:00Z",
				Size:        1048576,
				Description: "Meet recording of https://meet.google.com/abc-defg-hij",
				Properties:  map[string]string{"meetingId": "abc-defg-hij"},
			},
			expected: &RecordingFile{
				ID:          "file123",
				Name:        "Weekly Sync (2024-03-01) - Recording.mp4",
				MimeType:    "video/mp4",
				CreatedTime: time.Date(2024, 3, 1, 11, 5, 0, 0, time.UTC),
				Size:        1048576,
				Description: "Meet recording of https://meet.google.com/abc-defg-hij",
				Properties:  map[string]string{"meetingId": "abc-defg-hij"},
			},
		},
		{
			name: "invalid timestamp degrades to zero time",
			input: &drive.File{
				Id:          "file456",
				Name:        "clip.mp4",
				CreatedTime: "not-a-timestamp",
			},
			expected: &RecordingFile{
				ID:   "file456",
				Name: "clip.mp4",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertToRecordingFile(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNewClientNilTokenSource(t *testing.T) {
	_, err := NewClient(t.Context(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token source")
}

func TestRecordingFieldsIncludeMatcherInputs(t *testing.T) {
	// The matcher reads the description and custom properties; dropping
	// them from the field selection would silently break identifier
	// extraction.
	assert.Contains(t, recordingFields, "description")
	assert.Contains(t, recordingFields, "properties")
	assert.Contains(t, recordingFields, "createdTime")
}
