// Package drive provides a client for the Google Drive API.
//
// The client wraps the drive/v3 service for the recording workflows: listing
// video files that may be Meet recordings, fetching a single recording's
// metadata (including its description and custom properties, which can carry
// a meeting id), searching by name, and streaming file content for download.
//
// All operations are read-only and require an OAuth2 token source with the
// drive.readonly scope.
package drive
