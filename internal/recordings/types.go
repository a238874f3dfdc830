package recordings

// RecordingItem is one entry in the list response, a Drive file enriched
// with whatever meeting metadata could be recovered.
type RecordingItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	CreatedTime   string `json:"createdTime"`
	Size          int64  `json:"size"`
	SizeFormatted string `json:"sizeFormatted"`

	MeetingID       string `json:"meetingId,omitempty"`
	CalendarEventID string `json:"calendarEventId,omitempty"`
	EventTitle      string `json:"eventTitle,omitempty"`
	HostEmail       string `json:"hostEmail,omitempty"`

	HasMetadata       bool   `json:"hasMetadata"`
	HasCalendarMatch  bool   `json:"hasCalendarMatch"`
	SuggestedFileName string `json:"suggestedFileName"`
}

// ListResult is the payload of the list workflow.
type ListResult struct {
	Recordings        []RecordingItem `json:"recordings"`
	Total             int             `json:"total"`
	WithMeetingID     int             `json:"withMeetingId"`
	WithCalendarMatch int             `json:"withCalendarMatch"`
}

// DownloadRequest identifies the recording to download and carries the
// caller's metadata hints. Either RecordingID or MeetingTitle is required.
type DownloadRequest struct {
	RecordingID     string `json:"recordingId,omitempty"`
	MeetingTitle    string `json:"meetingTitle,omitempty"`
	RecordingDate   string `json:"recordingDate,omitempty"`
	MeetingID       string `json:"meetingId,omitempty"`
	CalendarEventID string `json:"calendarEventId,omitempty"`
	HostEmail       string `json:"hostEmail,omitempty"`
}

// RecordingInfo describes the downloaded recording and the metadata the
// file name was synthesized from.
type RecordingInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CreatedTime     string `json:"createdTime"`
	MeetingTitle    string `json:"meetingTitle"`
	MeetingID       string `json:"meetingId,omitempty"`
	CalendarEventID string `json:"calendarEventId,omitempty"`
	HostEmail       string `json:"hostEmail,omitempty"`
}

// DownloadResult is the payload of the download workflow.
type DownloadResult struct {
	FileName      string        `json:"fileName"`
	FilePath      string        `json:"filePath"`
	FileSize      int64         `json:"fileSize"`
	RecordingInfo RecordingInfo `json:"recordingInfo"`
}
