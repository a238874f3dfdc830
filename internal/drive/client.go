package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/meetfewer/internal/google"
)

const (
	// recordingFields are the file metadata fields the recording workflows
	// consume; description and properties can carry the meeting id.
	recordingFields = "id, name, mimeType, createdTime, size, description, properties"

	// videoQuery selects non-trashed video files, the candidate set for
	// Meet recordings.
	videoQuery = "mimeType contains 'video/' and trashed=false"

	// DefaultPageSize limits listings to recent recordings.
	DefaultPageSize = 50
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
}

// NewClient creates a new Google Drive client authenticated with the given
// OAuth2 token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	if ts == nil {
		return nil, fmt.Errorf("token source cannot be nil")
	}

	service, err := drive.NewService(ctx, option.WithHTTPClient(google.HTTPClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// ListRecordings lists video files that may be meeting recordings, newest
// first. pageSize <= 0 falls back to DefaultPageSize.
func (c *Client) ListRecordings(ctx context.Context, pageSize int) ([]*RecordingFile, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	fileList, err := c.service.Files.List().
		Q(videoQuery).
		OrderBy("createdTime desc").
		PageSize(int64(pageSize)).
		Fields("files(" + recordingFields + ")").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}

	files := make([]*RecordingFile, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToRecordingFile(f)
	}

	return files, nil
}

// GetRecording retrieves metadata for a specific file.
func (c *Client) GetRecording(ctx context.Context, fileID string) (*RecordingFile, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	file, err := c.service.Files.Get(fileID).
		Fields(recordingFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	return convertToRecordingFile(file), nil
}

// SearchRecordings finds video files whose name contains the given text,
// newest first. Single quotes are escaped for the Drive query language.
func (c *Client) SearchRecordings(ctx context.Context, namePart string) ([]*RecordingFile, error) {
	if namePart == "" {
		return nil, fmt.Errorf("search text is required")
	}

	escaped := strings.ReplaceAll(namePart, `'`, `\'`)
	query := fmt.Sprintf("name contains '%s' and %s", escaped, videoQuery)

	fileList, err := c.service.Files.List().
		Q(query).
		OrderBy("createdTime desc").
		Fields("files(" + recordingFields + ")").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search recordings: %w", err)
	}

	files := make([]*RecordingFile, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToRecordingFile(f)
	}

	return files, nil
}

// Download streams the content of a file. The caller must close the reader.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	resp, err := c.service.Files.Get(fileID).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}

	return resp.Body, nil
}
