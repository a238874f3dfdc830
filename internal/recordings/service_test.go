package recordings

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/drive"
)

// fakeDrive implements DriveService for workflow tests.
type fakeDrive struct {
	files      []*drive.RecordingFile
	listErr    error
	getErr     error
	searchErr  error
	content    string
	contentErr error

	searchedFor  string
	downloadedID string
}

func (f *fakeDrive) ListRecordings(_ context.Context, _ int) ([]*drive.RecordingFile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeDrive) GetRecording(_ context.Context, fileID string) (*drive.RecordingFile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, file := range f.files {
		if file.ID == fileID {
			return file, nil
		}
	}
	return nil, errors.New("file not found: " + fileID)
}

func (f *fakeDrive) SearchRecordings(_ context.Context, namePart string) ([]*drive.RecordingFile, error) {
	f.searchedFor = namePart
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var matches []*drive.RecordingFile
	for _, file := range f.files {
		if strings.Contains(strings.ToLower(file.Name), strings.ToLower(namePart)) {
			matches = append(matches, file)
		}
	}
	return matches, nil
}

func (f *fakeDrive) Download(_ context.Context, fileID string) (io.ReadCloser, error) {
	f.downloadedID = fileID
	if f.contentErr != nil {
		return nil, f.contentErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

// fakeCalendar implements CalendarService for workflow tests.
type fakeCalendar struct {
	events  []calendar.EventSummary
	listErr error
	getErr  error
}

func (f *fakeCalendar) ListEventsWindow(_ context.Context, _, _ time.Time) ([]calendar.EventSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeCalendar) GetEvent(_ context.Context, eventID string) (*calendar.EventSummary, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.events {
		if f.events[i].ID == eventID {
			return &f.events[i], nil
		}
	}
	return nil, errors.New("event not found: " + eventID)
}
