package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/drive"
	"github.com/teemow/meetfewer/internal/google"
	"github.com/teemow/meetfewer/internal/instrumentation"
	"github.com/teemow/meetfewer/internal/logging"
	"github.com/teemow/meetfewer/internal/meetings"
	"github.com/teemow/meetfewer/internal/recordings"
)

// Config holds the settings for the HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// BaseURL is the externally visible URL of the server. It determines
	// the OAuth redirect URL and whether session cookies require HTTPS.
	BaseURL string

	// DownloadDir is where recording downloads are written.
	DownloadDir string

	// OAuth holds the Google OAuth client credentials.
	OAuth google.Config

	// SessionTTL bounds session inactivity. Zero selects the default.
	SessionTTL time.Duration

	// RequestTimeout bounds each API request. Zero selects the default.
	RequestTimeout time.Duration
}

// meetingCreator is the slice of the meetings service the handlers use.
type meetingCreator interface {
	Create(ctx context.Context, req meetings.CreateRequest, userEmail string) (*meetings.Meeting, error)
}

// recordingAccessor is the slice of the recordings service the handlers use.
type recordingAccessor interface {
	List(ctx context.Context) (*recordings.ListResult, error)
	Download(ctx context.Context, req recordings.DownloadRequest, userEmail string) (*recordings.DownloadResult, error)
}

// Server is the HTTP front end. It signs users in with Google, keeps
// their token sources in cookie-bound sessions, and exposes the meeting
// creation and recording workflows as a JSON API.
type Server struct {
	config   Config
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	sessions *SessionManager
	health   *HealthChecker
	sc       *ServerContext

	// Seams for tests. Defaults hit the real Google APIs.
	exchange      func(ctx context.Context, code string) (*oauth2.Token, oauth2.TokenSource, error)
	fetchEmail    func(ctx context.Context, ts oauth2.TokenSource) (string, error)
	meetingsFor   func(ctx context.Context, ts oauth2.TokenSource) (meetingCreator, error)
	recordingsFor func(ctx context.Context, ts oauth2.TokenSource) (recordingAccessor, error)
}

// ServerOption customizes a Server.
type ServerOption func(*Server)

// WithMetrics attaches request and workflow metrics to the server.
func WithMetrics(m *instrumentation.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithAuditLogger attaches an audit logger to the server.
func WithAuditLogger(al *instrumentation.AuditLogger) ServerOption {
	return func(s *Server) { s.audit = al }
}

// New creates a Server from the given configuration.
func New(ctx context.Context, config Config, logger *slog.Logger, opts ...ServerOption) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.OAuth.RedirectURL == "" {
		config.OAuth.RedirectURL = strings.TrimRight(config.BaseURL, "/") + "/auth/google/callback"
	}
	if err := config.OAuth.Validate(); err != nil {
		return nil, fmt.Errorf("invalid oauth configuration: %w", err)
	}
	if config.DownloadDir == "" {
		return nil, fmt.Errorf("download directory is required")
	}

	sc := NewServerContext(ctx)
	s := &Server{
		config:   config,
		logger:   logger,
		sessions: NewSessionManagerWithLogger(config.SessionTTL, logger),
		sc:       sc,
		health:   NewHealthChecker(sc),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.exchange = config.OAuth.Exchange
	s.fetchEmail = google.FetchUserEmail
	s.meetingsFor = s.newMeetingsService
	s.recordingsFor = s.newRecordingsService

	if s.metrics != nil {
		s.sessions.SetCountCallback(func(delta int) {
			if delta > 0 {
				s.metrics.IncrementActiveSessions(context.Background())
			} else {
				s.metrics.DecrementActiveSessions(context.Background())
			}
		})
	}

	return s, nil
}

func (s *Server) newMeetingsService(ctx context.Context, ts oauth2.TokenSource) (meetingCreator, error) {
	cal, err := calendar.NewClient(ctx, ts)
	if err != nil {
		return nil, err
	}
	opts := []meetings.Option{}
	if s.metrics != nil {
		opts = append(opts, meetings.WithMetrics(s.metrics))
	}
	if s.audit != nil {
		opts = append(opts, meetings.WithAuditLogger(s.audit))
	}
	return meetings.NewService(cal, s.logger, opts...), nil
}

func (s *Server) newRecordingsService(ctx context.Context, ts oauth2.TokenSource) (recordingAccessor, error) {
	drv, err := drive.NewClient(ctx, ts)
	if err != nil {
		return nil, err
	}
	cal, err := calendar.NewClient(ctx, ts)
	if err != nil {
		return nil, err
	}
	opts := []recordings.Option{}
	if s.metrics != nil {
		opts = append(opts, recordings.WithMetrics(s.metrics))
	}
	if s.audit != nil {
		opts = append(opts, recordings.WithAuditLogger(s.audit))
	}
	return recordings.NewService(drv, cal, s.config.DownloadDir, s.logger, opts...), nil
}

// Handler returns the fully assembled HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /auth/google/login", s.handleLogin)
	mux.HandleFunc("GET /auth/google/callback", s.handleCallback)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)

	mux.Handle("POST /api/calendar/create-meeting", s.requireSession(s.handleCreateMeeting))
	mux.Handle("GET /api/recordings/list", s.requireSession(s.handleListRecordings))
	mux.Handle("POST /api/recordings/download", s.requireSession(s.handleDownloadRecording))

	mux.HandleFunc("GET /api/session", s.handleSessionInfo)

	s.health.RegisterHealthEndpoints(mux)

	var h http.Handler = mux
	h = withTimeout(s.config.RequestTimeout, h)
	h = withObservability(s.logger, s.metrics, h)
	h = withRecovery(s.logger, h)
	return h
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.config.Addr, "base_url", s.config.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	s.health.SetReady(false)
	if err := s.sc.Shutdown(); err != nil {
		s.logger.Warn("Server context shutdown", "error", err)
	}
	s.sessions.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// secureCookies reports whether session cookies should require HTTPS.
func (s *Server) secureCookies() bool {
	return strings.HasPrefix(s.config.BaseURL, "https://")
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionFromRequest returns the active session for the request cookie.
func (s *Server) sessionFromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(cookie.Value)
}

// requireSession rejects requests without a valid session.
func (s *Server) requireSession(next func(w http.ResponseWriter, r *http.Request, session *Session)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.sessionFromRequest(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "not signed in", "sign in at /auth/google/login")
			return
		}
		next(w, r, session)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.NewState()
	http.Redirect(w, r, s.config.OAuth.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		s.recordAuth(ctx, instrumentation.OAuthResultFailure)
		s.logger.Warn("OAuth consent denied", "error", errParam)
		respondError(w, http.StatusUnauthorized, "google sign-in failed", errParam)
		return
	}

	state := r.URL.Query().Get("state")
	if !s.sessions.ConsumeState(state) {
		s.recordAuth(ctx, instrumentation.OAuthResultFailure)
		respondError(w, http.StatusBadRequest, "invalid state parameter", "restart sign-in at /auth/google/login")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.recordAuth(ctx, instrumentation.OAuthResultFailure)
		respondError(w, http.StatusBadRequest, "missing authorization code", "")
		return
	}

	_, ts, err := s.exchange(ctx, code)
	if err != nil {
		s.recordAuth(ctx, instrumentation.OAuthResultFailure)
		s.logger.Error("OAuth code exchange failed", logging.Err(err))
		respondError(w, http.StatusBadGateway, "google sign-in failed", "could not exchange authorization code")
		return
	}

	email, err := s.fetchEmail(ctx, ts)
	if err != nil {
		s.recordAuth(ctx, instrumentation.OAuthResultFailure)
		s.logger.Error("Userinfo lookup failed", logging.Err(err))
		respondError(w, http.StatusBadGateway, "google sign-in failed", "could not determine user identity")
		return
	}

	if s.metrics != nil {
		ts = trackRefreshes(ts, s.metrics)
	}
	id := s.sessions.Create(email, ts)
	s.setSessionCookie(w, id, int(s.sessions.ttl.Seconds()))
	s.recordAuth(ctx, instrumentation.OAuthResultSuccess)
	s.logger.Info("User signed in",
		logging.UserHash(email),
		logging.Domain(email))

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		s.sessions.Remove(cookie.Value)
	}
	s.setSessionCookie(w, "", -1)
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// handleSessionInfo reports whether the caller is signed in, for the UI.
func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(r)
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"signedIn": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"signedIn": true,
		"email":    session.Email,
	})
}

func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request, session *Session) {
	var req meetings.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	svc, err := s.meetingsFor(r.Context(), session.TokenSource)
	if err != nil {
		s.logger.Error("Failed to build meetings service", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	meeting, err := svc.Create(r.Context(), req, session.Email)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, createMeetingResponse{Success: true, Event: meeting})
}

func (s *Server) handleListRecordings(w http.ResponseWriter, r *http.Request, session *Session) {
	svc, err := s.recordingsFor(r.Context(), session.TokenSource)
	if err != nil {
		s.logger.Error("Failed to build recordings service", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	result, err := svc.List(r.Context())
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listRecordingsResponse{Success: true, ListResult: result})
}

func (s *Server) handleDownloadRecording(w http.ResponseWriter, r *http.Request, session *Session) {
	var req recordings.DownloadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	svc, err := s.recordingsFor(r.Context(), session.TokenSource)
	if err != nil {
		s.logger.Error("Failed to build recordings service", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	result, err := svc.Download(r.Context(), req, session.Email)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, downloadRecordingResponse{Success: true, DownloadResult: result})
}

func (s *Server) recordAuth(ctx context.Context, result string) {
	if s.metrics != nil {
		s.metrics.RecordOAuthAuth(ctx, result)
	}
}
