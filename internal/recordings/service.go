package recordings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/drive"
	"github.com/teemow/meetfewer/internal/instrumentation"
	"github.com/teemow/meetfewer/internal/logging"
)

// eventWindow is how far back calendar events are fetched when matching
// recordings against meetings.
const eventWindow = 30 * 24 * time.Hour

var (
	// ErrInvalidInput marks request validation failures; handlers map it to 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when no recording matches the request.
	ErrNotFound = errors.New("recording not found")
)

// DriveService is the slice of the Drive client the workflows need.
type DriveService interface {
	ListRecordings(ctx context.Context, pageSize int) ([]*drive.RecordingFile, error)
	GetRecording(ctx context.Context, fileID string) (*drive.RecordingFile, error)
	SearchRecordings(ctx context.Context, namePart string) ([]*drive.RecordingFile, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// CalendarService is the slice of the calendar client the workflows need.
type CalendarService interface {
	ListEventsWindow(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.EventSummary, error)
	GetEvent(ctx context.Context, eventID string) (*calendar.EventSummary, error)
}

// Service runs the recording list and download workflows.
type Service struct {
	drive       DriveService
	cal         CalendarService
	downloadDir string
	metrics     *instrumentation.Metrics
	audit       *instrumentation.AuditLogger
	logger      *slog.Logger
	now         func() time.Time
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

// withClock overrides the time source, for tests.
func withClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a recordings workflow service. downloadDir is where
// downloaded files are written; it is created on first download.
func NewService(drv DriveService, cal CalendarService, downloadDir string, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		drive:       drv,
		cal:         cal,
		downloadDir: downloadDir,
		logger:      logging.WithService(logger, "recordings"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) recordAPICall(ctx context.Context, service, operation string, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	s.metrics.RecordGoogleAPIOperation(ctx, service, operation, status, elapsed)
}

func (s *Service) logAudit(inv *instrumentation.WorkflowInvocation) {
	if s.audit != nil {
		s.audit.LogWorkflow(inv)
	}
}
