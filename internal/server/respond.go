package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/teemow/meetfewer/internal/meetings"
	"github.com/teemow/meetfewer/internal/recordings"
)

// errorResponse is the JSON body sent for any failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Success envelopes for the API endpoints. The workflow results embed so
// their fields serialize at the top level next to the success flag.
type createMeetingResponse struct {
	Success bool              `json:"success"`
	Event   *meetings.Meeting `json:"event"`
}

type listRecordingsResponse struct {
	Success bool `json:"success"`
	*recordings.ListResult
}

type downloadRecordingResponse struct {
	Success bool `json:"success"`
	*recordings.DownloadResult
}

// decodeJSON parses a request body into v, rejecting unknown fields and
// oversized payloads.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("Failed to encode response body", "error", err)
	}
}

// respondError writes an error body with the given status code.
func respondError(w http.ResponseWriter, status int, message, details string) {
	respondJSON(w, status, errorResponse{Error: message, Details: details})
}

// respondMappedError translates a workflow error into an HTTP status.
// Validation failures become 400, missing recordings 404, expired Google
// credentials 401 with a re-auth hint, and Google server errors 502.
func respondMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, meetings.ErrInvalidInput), errors.Is(err, recordings.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, recordings.ErrNotFound):
		respondError(w, http.StatusNotFound, "recording not found", err.Error())
	default:
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			switch {
			case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
				respondError(w, http.StatusUnauthorized, "google authorization expired, sign in again", apiErr.Message)
				return
			case apiErr.Code >= 500:
				respondError(w, http.StatusBadGateway, "google api unavailable", apiErr.Message)
				return
			case apiErr.Code == http.StatusTooManyRequests:
				respondError(w, http.StatusTooManyRequests, "google api rate limit exceeded", apiErr.Message)
				return
			}
		}
		respondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
