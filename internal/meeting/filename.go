package meeting

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Extension is the container format Meet uses for recordings on Drive.
const Extension = ".mp4"

const maxTitleLen = 30

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// NameOptions carries the metadata available for a recording when its
// download name is synthesized. Every field is optional; missing fields
// drop their segment rather than producing placeholders, except the
// timestamp, which defaults to the current time.
type NameOptions struct {
	// Title is the matched event's summary. Placeholder is the call
	// site's fixed fallback, used when Title is empty.
	Title       string
	Placeholder string

	MeetingID string
	EventID   string
	HostEmail string
	Timestamp time.Time
}

// SynthesizeName builds a stable, filesystem-safe download name from
// whatever metadata is present. The layout is
// title_date_host_eventID_meetingID with absent optional segments
// omitted, plus the container extension. The date segment is always
// present, falling back to the current date when no timestamp is given.
// Only the title is sanitized; identifiers are already filename-safe
// and keep their hyphens.
func SynthesizeName(opts NameOptions) string {
	title := opts.Title
	if title == "" {
		title = opts.Placeholder
	}
	if title == "" {
		title = "Recording"
	}
	title = unsafeChars.ReplaceAllString(title, "_")
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	title = strings.Trim(title, "_")
	if title == "" {
		title = "Recording"
	}

	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	segments := make([]string, 0, 5)
	segments = append(segments, title, dateSegment(ts))
	if host := localPart(opts.HostEmail); host != "" {
		segments = append(segments, host)
	}
	if opts.EventID != "" {
		segments = append(segments, opts.EventID)
	}
	if opts.MeetingID != "" {
		segments = append(segments, opts.MeetingID)
	}

	return strings.Join(segments, "_") + Extension
}

// dateSegment renders a timestamp as its RFC 3339 date portion with
// separators made filename-safe.
func dateSegment(t time.Time) string {
	stamp := t.Format(time.RFC3339)
	stamp = strings.ReplaceAll(stamp, ":", "-")
	stamp = strings.ReplaceAll(stamp, ".", "-")
	if i := strings.IndexByte(stamp, 'T'); i >= 0 {
		stamp = stamp[:i]
	}
	return stamp
}

func localPart(email string) string {
	if email == "" {
		return ""
	}
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// ReservePath atomically claims a file under dir for the given name,
// appending _1, _2 and so on before the extension until creation
// succeeds. The returned file is created with O_EXCL so two concurrent
// downloads can never claim the same path; the caller owns closing it.
func ReservePath(dir, name string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for suffix := 0; ; suffix++ {
		if suffix > 0 {
			candidate = fmt.Sprintf("%s_%d%s", base, suffix, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return path, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("failed to reserve %s: %w", path, err)
		}
	}
}
