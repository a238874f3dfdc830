package drive

import (
	"time"

	drive "google.golang.org/api/drive/v3"
)

// RecordingFile represents metadata about a video file in Google Drive that
// may be a meeting recording.
type RecordingFile struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the display name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// CreatedTime is when the file was created
	CreatedTime time.Time `json:"createdTime"`

	// Size is the size of the file in bytes
	Size int64 `json:"size,omitempty"`

	// Description is the free-text description, which for Meet recordings
	// often carries the meeting link
	Description string `json:"description,omitempty"`

	// Properties are custom key/value properties set on the file.
	// A "meetingId" property is treated as authoritative by the matcher.
	Properties map[string]string `json:"properties,omitempty"`
}

// convertToRecordingFile converts a Drive API File to our RecordingFile type
func convertToRecordingFile(f *drive.File) *RecordingFile {
	if f == nil {
		return &RecordingFile{}
	}

	file := &RecordingFile{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		Description: f.Description,
		Properties:  f.Properties,
	}

	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			file.CreatedTime = t
		}
	}

	return file
}
