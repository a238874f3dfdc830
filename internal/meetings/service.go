package meetings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/instrumentation"
	"github.com/teemow/meetfewer/internal/logging"
	"github.com/teemow/meetfewer/internal/meeting"
)

// ErrInvalidInput marks request validation failures; handlers map it to 400.
var ErrInvalidInput = errors.New("invalid input")

// CalendarService is the slice of the calendar client the workflow needs.
type CalendarService interface {
	CreateMeeting(ctx context.Context, input calendar.MeetingInput) (*calendar.EventSummary, error)
}

// Service runs the create-meeting workflow.
type Service struct {
	cal     CalendarService
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	logger  *slog.Logger
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditLogger attaches an audit logger.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(s *Service) { s.audit = al }
}

// NewService creates a meeting workflow service on top of a calendar client.
func NewService(cal CalendarService, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		cal:    cal,
		logger: logging.WithOperation(logger, "create_meeting"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the request, creates the event with an attached Meet
// conference, and returns the normalized meeting summary. userEmail is the
// session user, used as the host fallback when the event has no organizer.
func (s *Service) Create(ctx context.Context, req CreateRequest, userEmail string) (*Meeting, error) {
	start, end, err := req.Validate()
	if err != nil {
		return nil, err
	}

	ctx, span := instrumentation.StartWorkflowSpan(ctx, "create_meeting")
	defer span.End()

	inv := instrumentation.NewWorkflowInvocation("create_meeting").
		WithUser(userEmail).
		WithService(instrumentation.ServiceCalendar, instrumentation.OperationCreate).
		WithSpanContext(ctx)

	apiStart := time.Now()
	event, err := s.cal.CreateMeeting(ctx, calendar.MeetingInput{
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
		TimeZone:    req.TimeZone,
		Attendees:   req.Attendees,
	})
	s.recordAPICall(ctx, instrumentation.OperationCreate, err, time.Since(apiStart))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.logAudit(inv.CompleteWithError(err))
		if s.metrics != nil {
			s.metrics.RecordMeetingCreated(ctx, instrumentation.StatusError)
		}
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	meetLink := event.MeetLink()
	host := event.Organizer
	if host == "" {
		host = userEmail
	}

	id := req.ID
	if id == "" {
		id = event.ID
	}

	result := &Meeting{
		ID:              id,
		Title:           event.Summary,
		StartTime:       event.Start.Format(time.RFC3339),
		EndTime:         event.End.Format(time.RFC3339),
		MeetLink:        meetLink,
		CalendarLink:    event.HTMLLink,
		MeetID:          meeting.ExtractMeetingCode(meetLink),
		HostEmail:       host,
		CalendarEventID: event.ID,
	}

	s.logger.InfoContext(ctx, "meeting created",
		logging.Event(event.ID),
		logging.UserHash(userEmail),
		slog.Bool("has_meet_link", meetLink != ""),
	)

	instrumentation.SetSpanSuccess(span)
	s.logAudit(inv.WithEvent(event.ID).CompleteSuccess())
	if s.metrics != nil {
		s.metrics.RecordMeetingCreated(ctx, instrumentation.StatusSuccess)
	}

	return result, nil
}

func (s *Service) recordAPICall(ctx context.Context, operation string, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	s.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, elapsed)
}

func (s *Service) logAudit(inv *instrumentation.WorkflowInvocation) {
	if s.audit != nil {
		s.audit.LogWorkflow(inv)
	}
}
