package recordings

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/drive"
	"github.com/teemow/meetfewer/internal/instrumentation"
	"github.com/teemow/meetfewer/internal/logging"
	"github.com/teemow/meetfewer/internal/meeting"
)

// fallbackTitle names downloads when no meeting title could be recovered
// from the calendar, the request, or the file itself.
const fallbackTitle = "Meeting"

// Download resolves a recording, synthesizes a collision-free file name
// from the best available metadata, and streams the content into the
// download directory. Partial files are removed on any failure.
func (s *Service) Download(ctx context.Context, req DownloadRequest, userEmail string) (*DownloadResult, error) {
	if req.RecordingID == "" && req.MeetingTitle == "" {
		return nil, fmt.Errorf("%w: recordingId or meetingTitle is required", ErrInvalidInput)
	}

	ctx, span := instrumentation.StartWorkflowSpan(ctx, "download_recording")
	defer span.End()

	inv := instrumentation.NewWorkflowInvocation("download_recording").
		WithUser(userEmail).
		WithService(instrumentation.ServiceDrive, instrumentation.OperationDownload).
		WithSpanContext(ctx)

	file, err := s.resolveRecording(ctx, req)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.logAudit(inv.CompleteWithError(err))
		return nil, err
	}
	inv.WithRecording(file.ID)

	event := s.enrichFromCalendar(ctx, req.CalendarEventID)
	if event != nil {
		inv.WithEvent(event.ID)
	}

	info := s.resolveMetadata(req, file, event, userEmail)

	fileName := meeting.SynthesizeName(meeting.NameOptions{
		Title:       info.MeetingTitle,
		Placeholder: fallbackTitle,
		MeetingID:   info.MeetingID,
		EventID:     info.CalendarEventID,
		HostEmail:   info.HostEmail,
		Timestamp:   s.resolveTimestamp(req, file),
	})

	written, path, err := s.streamToDisk(ctx, file.ID, fileName)
	if err == nil {
		// ReservePath may have appended a collision suffix.
		fileName = filepath.Base(path)
	}
	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.logAudit(inv.CompleteWithError(err))
		if s.metrics != nil {
			s.metrics.RecordDownload(ctx, instrumentation.StatusError, userEmail, 0)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "recording downloaded",
		logging.Recording(file.ID),
		logging.UserHash(userEmail),
		slog.String("file_name", fileName),
		slog.Int64("bytes", written),
	)

	instrumentation.SetSpanSuccess(span)
	s.logAudit(inv.CompleteSuccess())
	if s.metrics != nil {
		s.metrics.RecordDownload(ctx, instrumentation.StatusSuccess, userEmail, written)
	}

	return &DownloadResult{
		FileName:      fileName,
		FilePath:      path,
		FileSize:      written,
		RecordingInfo: info,
	}, nil
}

// resolveRecording finds the Drive file, by id when given, else the newest
// video whose name contains the meeting title.
func (s *Service) resolveRecording(ctx context.Context, req DownloadRequest) (*drive.RecordingFile, error) {
	if req.RecordingID != "" {
		start := s.now()
		file, err := s.drive.GetRecording(ctx, req.RecordingID)
		s.recordAPICall(ctx, instrumentation.ServiceDrive, instrumentation.OperationGet, err, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return file, nil
	}

	start := s.now()
	files, err := s.drive.SearchRecordings(ctx, req.MeetingTitle)
	s.recordAPICall(ctx, instrumentation.ServiceDrive, instrumentation.OperationSearch, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to search recordings: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no recording matches %q", ErrNotFound, req.MeetingTitle)
	}
	return files[0], nil
}

// enrichFromCalendar looks up the named event. Lookup failures are logged
// and degrade to nil; the download proceeds with partial metadata.
func (s *Service) enrichFromCalendar(ctx context.Context, eventID string) *calendar.EventSummary {
	if eventID == "" {
		return nil
	}

	start := s.now()
	event, err := s.cal.GetEvent(ctx, eventID)
	s.recordAPICall(ctx, instrumentation.ServiceCalendar, instrumentation.OperationGet, err, time.Since(start))
	if err != nil {
		s.logger.WarnContext(ctx, "calendar enrichment failed, continuing without it",
			logging.Event(eventID),
			logging.Err(err),
		)
		return nil
	}
	return event
}

// resolveMetadata applies the fallback chain: calendar data first, then the
// request's hints, then what the file itself carries.
func (s *Service) resolveMetadata(req DownloadRequest, file *drive.RecordingFile, event *calendar.EventSummary, userEmail string) RecordingInfo {
	info := RecordingInfo{
		ID:   file.ID,
		Name: file.Name,
	}
	if !file.CreatedTime.IsZero() {
		info.CreatedTime = file.CreatedTime.Format(time.RFC3339)
	}

	switch {
	case event != nil && event.Summary != "":
		info.MeetingTitle = event.Summary
	case req.MeetingTitle != "":
		info.MeetingTitle = req.MeetingTitle
	case file.Name != "":
		info.MeetingTitle = file.Name
	default:
		info.MeetingTitle = fallbackTitle
	}

	info.MeetingID = req.MeetingID
	if info.MeetingID == "" {
		info.MeetingID = meeting.CodeFromRecording(file)
	}
	if info.MeetingID == "" && event != nil {
		info.MeetingID = meeting.CodeFromEvent(event)
	}

	info.CalendarEventID = req.CalendarEventID
	if info.CalendarEventID == "" && event != nil {
		info.CalendarEventID = event.ID
	}

	info.HostEmail = req.HostEmail
	if info.HostEmail == "" {
		info.HostEmail = userEmail
	}

	return info
}

func (s *Service) resolveTimestamp(req DownloadRequest, file *drive.RecordingFile) time.Time {
	if req.RecordingDate != "" {
		if t, err := time.Parse(time.RFC3339, req.RecordingDate); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", req.RecordingDate); err == nil {
			return t
		}
	}
	if !file.CreatedTime.IsZero() {
		return file.CreatedTime
	}
	return s.now()
}

// streamToDisk reserves a unique path under the download directory and
// copies the Drive content into it. The reservation is removed when the
// stream fails partway.
func (s *Service) streamToDisk(ctx context.Context, fileID, fileName string) (int64, string, error) {
	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		return 0, "", fmt.Errorf("failed to create download directory: %w", err)
	}

	start := s.now()
	body, err := s.drive.Download(ctx, fileID)
	s.recordAPICall(ctx, instrumentation.ServiceDrive, instrumentation.OperationDownload, err, time.Since(start))
	if err != nil {
		return 0, "", fmt.Errorf("failed to download recording: %w", err)
	}
	defer body.Close()

	path, out, err := meeting.ReservePath(s.downloadDir, fileName)
	if err != nil {
		return 0, "", err
	}

	written, err := io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			s.logger.WarnContext(ctx, "failed to remove partial download",
				slog.String("path", path),
				logging.Err(removeErr),
			)
		}
		return 0, "", fmt.Errorf("failed to write recording: %w", err)
	}

	return written, path, nil
}
