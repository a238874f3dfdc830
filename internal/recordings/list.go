package recordings

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/drive"
	"github.com/teemow/meetfewer/internal/instrumentation"
	"github.com/teemow/meetfewer/internal/logging"
	"github.com/teemow/meetfewer/internal/meeting"
)

// List returns the newest Drive recordings enriched with calendar matches.
// Calendar failures degrade to an unenriched listing; only the Drive call
// is fatal.
func (s *Service) List(ctx context.Context) (*ListResult, error) {
	ctx, span := instrumentation.StartWorkflowSpan(ctx, "list_recordings")
	defer span.End()

	driveStart := s.now()
	files, err := s.drive.ListRecordings(ctx, drive.DefaultPageSize)
	s.recordAPICall(ctx, instrumentation.ServiceDrive, instrumentation.OperationList, err, time.Since(driveStart))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}

	events := s.recentEvents(ctx)

	result := &ListResult{
		Recordings: make([]RecordingItem, 0, len(files)),
	}
	for _, file := range files {
		item := s.buildItem(ctx, file, events)
		if item.MeetingID != "" {
			result.WithMeetingID++
		}
		if item.HasCalendarMatch {
			result.WithCalendarMatch++
		}
		result.Recordings = append(result.Recordings, item)
	}
	result.Total = len(result.Recordings)

	// Newest first; among equal timestamps, matched recordings lead.
	sort.SliceStable(result.Recordings, func(i, j int) bool {
		a, b := result.Recordings[i], result.Recordings[j]
		if a.CreatedTime != b.CreatedTime {
			return a.CreatedTime > b.CreatedTime
		}
		return a.HasCalendarMatch && !b.HasCalendarMatch
	})

	s.logger.InfoContext(ctx, "recordings listed",
		slog.Int("total", result.Total),
		slog.Int("with_meeting_id", result.WithMeetingID),
		slog.Int("with_calendar_match", result.WithCalendarMatch),
	)

	instrumentation.SetSpanSuccess(span)
	return result, nil
}

// recentEvents fetches the trailing event window. Failure is logged and
// degrades matching to file metadata only.
func (s *Service) recentEvents(ctx context.Context) []calendar.EventSummary {
	now := s.now()
	calStart := now
	events, err := s.cal.ListEventsWindow(ctx, now.Add(-eventWindow), now)
	s.recordAPICall(ctx, instrumentation.ServiceCalendar, instrumentation.OperationList, err, time.Since(calStart))
	if err != nil {
		s.logger.WarnContext(ctx, "calendar window fetch failed, matching skipped",
			logging.Err(err),
		)
		return nil
	}
	return events
}

func (s *Service) buildItem(ctx context.Context, file *drive.RecordingFile, events []calendar.EventSummary) RecordingItem {
	code := meeting.CodeFromRecording(file)
	matched, rule := meeting.Match(file, events)
	if s.metrics != nil {
		s.metrics.RecordMatch(ctx, string(rule))
	}

	item := RecordingItem{
		ID:            file.ID,
		Name:          file.Name,
		MimeType:      file.MimeType,
		Size:          file.Size,
		SizeFormatted: FormatFileSize(file.Size),
		MeetingID:     code,
		HasMetadata:   code != "",
	}
	if !file.CreatedTime.IsZero() {
		item.CreatedTime = file.CreatedTime.Format(time.RFC3339)
	}

	nameOpts := meeting.NameOptions{
		Placeholder: "Recording",
		MeetingID:   code,
		Timestamp:   file.CreatedTime,
	}
	if matched != nil {
		instrumentation.AddSpanEvent(trace.SpanFromContext(ctx), "recording.matched",
			instrumentation.NewSpanAttributeBuilder().
				WithMatchRule(string(rule)).
				WithResource("recording", file.ID).
				Build()...)
		item.HasCalendarMatch = true
		item.CalendarEventID = matched.ID
		item.EventTitle = matched.Summary
		item.HostEmail = matched.Organizer
		if item.MeetingID == "" {
			item.MeetingID = meeting.CodeFromEvent(matched)
		}
		nameOpts.Title = matched.Summary
		nameOpts.MeetingID = item.MeetingID
		nameOpts.EventID = matched.ID
		nameOpts.HostEmail = matched.Organizer
	}
	item.SuggestedFileName = meeting.SynthesizeName(nameOpts)

	return item
}
