package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// WorkflowInvocation captures all information about a request-scoped workflow
// (create meeting, list recordings, download recording) for audit logging.
//
// # Privacy Considerations
//
// The UserEmail field contains PII. When logging, consider:
//   - Using UserDomain() to get only the domain for metrics/general logs
//   - Only logging full email in audit-specific log streams
//   - Ensuring audit logs have appropriate access controls
type WorkflowInvocation struct {
	// Workflow name (create_meeting, list_recordings, download_recording)
	Workflow string

	// User identity (from OAuth)
	UserEmail string

	// Target information for Google services
	ServiceName string // Google service (calendar, drive, oauth)
	Operation   string // Operation type (list, get, create, download)
	RecordingID string // Drive file identifier, when the workflow targets one
	EventID     string // Calendar event identifier, when one is involved

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// UserDomain returns the domain portion of the user's email for lower-cardinality logging.
func (wi *WorkflowInvocation) UserDomain() string {
	return ExtractUserDomain(wi.UserEmail)
}

// Status returns "success" or "error" based on the Success field.
func (wi *WorkflowInvocation) Status() string {
	if wi.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging.
// This provides a consistent set of fields for all workflow logs.
//
// # Cardinality
//
// This function uses cardinality-controlled values (user_domain)
// for metrics-compatible logging. For full audit logging, use LogAuditAttrs.
func (wi *WorkflowInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("workflow", wi.Workflow),
		slog.String("user_domain", wi.UserDomain()),
		slog.Duration("duration", wi.Duration),
		slog.Bool("success", wi.Success),
	}

	// Add optional fields only if present
	if wi.ServiceName != "" {
		attrs = append(attrs, slog.String("service", wi.ServiceName))
	}
	if wi.Operation != "" {
		attrs = append(attrs, slog.String("operation", wi.Operation))
	}
	if wi.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", wi.TraceID))
	}
	if wi.Error != "" {
		attrs = append(attrs, slog.String("error", wi.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging.
// This includes the full user email for compliance/audit purposes.
//
// # Security Warning
//
// This method includes PII (full email). Ensure audit logs are:
//   - Stored securely with appropriate access controls
//   - Not exposed to general monitoring dashboards
//   - Retained according to compliance requirements
func (wi *WorkflowInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("workflow", wi.Workflow),
		slog.String("user", wi.UserEmail),
		slog.Duration("duration", wi.Duration),
		slog.Bool("success", wi.Success),
	}

	// Add all optional fields
	if wi.ServiceName != "" {
		attrs = append(attrs, slog.String("service", wi.ServiceName))
	}
	if wi.Operation != "" {
		attrs = append(attrs, slog.String("operation", wi.Operation))
	}
	if wi.RecordingID != "" {
		attrs = append(attrs, slog.String("recording", wi.RecordingID))
	}
	if wi.EventID != "" {
		attrs = append(attrs, slog.String("event", wi.EventID))
	}
	if wi.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", wi.TraceID))
	}
	if wi.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", wi.SpanID))
	}
	if wi.Error != "" {
		attrs = append(attrs, slog.String("error", wi.Error))
	}

	return attrs
}

// NewWorkflowInvocation creates a new WorkflowInvocation with timing started.
// Call Complete() when the workflow finishes.
func NewWorkflowInvocation(workflow string) *WorkflowInvocation {
	return &WorkflowInvocation{
		Workflow:  workflow,
		StartTime: time.Now(),
	}
}

// WithUser sets the user identity information.
func (wi *WorkflowInvocation) WithUser(email string) *WorkflowInvocation {
	wi.UserEmail = email
	return wi
}

// WithService sets the Google service and operation.
func (wi *WorkflowInvocation) WithService(serviceName, operation string) *WorkflowInvocation {
	wi.ServiceName = serviceName
	wi.Operation = operation
	return wi
}

// WithRecording sets the Drive recording the workflow operates on.
func (wi *WorkflowInvocation) WithRecording(fileID string) *WorkflowInvocation {
	wi.RecordingID = fileID
	return wi
}

// WithEvent sets the calendar event the workflow operates on.
func (wi *WorkflowInvocation) WithEvent(eventID string) *WorkflowInvocation {
	wi.EventID = eventID
	return wi
}

// WithSpanContext extracts trace context from the current span.
func (wi *WorkflowInvocation) WithSpanContext(ctx context.Context) *WorkflowInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		wi.TraceID = span.SpanContext().TraceID().String()
		wi.SpanID = span.SpanContext().SpanID().String()
	}
	return wi
}

// Complete marks the invocation as completed and calculates duration.
// Returns the same WorkflowInvocation for method chaining.
func (wi *WorkflowInvocation) Complete(success bool, err error) *WorkflowInvocation {
	wi.Duration = time.Since(wi.StartTime)
	wi.Success = success
	if err != nil {
		wi.Error = err.Error()
	}
	return wi
}

// CompleteWithError marks the invocation as failed with the given error.
func (wi *WorkflowInvocation) CompleteWithError(err error) *WorkflowInvocation {
	return wi.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (wi *WorkflowInvocation) CompleteSuccess() *WorkflowInvocation {
	return wi.Complete(true, nil)
}

// AuditLogger provides structured audit logging for workflow invocations.
// It wraps slog.Logger with convenience methods for logging workflows.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, PII is not included in logs (anonymized identifiers are used instead).
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetIncludePII sets whether to include full email addresses in audit logs.
func (al *AuditLogger) SetIncludePII(include bool) {
	al.includePII = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogWorkflow logs a workflow invocation using the standard log attributes.
// This is suitable for general operational logging with cardinality controls.
// If the logger is configured with IncludePII, full user emails are logged;
// otherwise, only domain-based anonymized identifiers are used.
func (al *AuditLogger) LogWorkflow(wi *WorkflowInvocation) {
	if !al.enabled {
		return
	}

	// Choose between PII and anonymized logging based on configuration
	var attrs []slog.Attr
	if al.includePII {
		attrs = wi.LogAuditAttrs()
	} else {
		attrs = wi.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if wi.Success {
		al.logger.Info("workflow_completed", args...)
	} else {
		al.logger.Warn("workflow_failed", args...)
	}
}

// LogWorkflowAudit logs a workflow invocation with full audit details.
// This includes PII (full email addresses) for compliance/audit purposes.
// SECURITY: Ensure audit logs are routed to secure storage with appropriate access controls.
//
// Note: This method respects the enabled flag but always includes PII when called,
// regardless of the IncludePII configuration. Use LogWorkflow for
// configuration-aware logging.
func (al *AuditLogger) LogWorkflowAudit(wi *WorkflowInvocation) {
	if !al.enabled {
		return
	}

	attrs := wi.LogAuditAttrs()
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	al.logger.Info("workflow_audit", args...)
}
