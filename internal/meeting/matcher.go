package meeting

import (
	"strings"
	"time"

	"github.com/teemow/meetfewer/internal/calendar"
	"github.com/teemow/meetfewer/internal/drive"
)

const (
	// matchWindow is the maximum distance between a recording's creation
	// time and an event's start time for a temporal match.
	matchWindow = 4 * time.Hour

	// minTitleTokenLen: title tokens must be longer than this to count as
	// lexical support (short words like "the" or "and" match everything).
	minTitleTokenLen = 3
)

// MatchRule names the rule that produced a match, for logging and metrics.
type MatchRule string

const (
	RuleIdentifier MatchRule = "identifier"
	RuleTemporal   MatchRule = "temporal"
	RuleNone       MatchRule = "none"
)

// Match associates a Drive recording with the calendar event whose meeting
// it captured, or nil when no event qualifies. Candidates must be supplied
// in start-time order; the first qualifying event in input order wins, which
// makes the tie-break temporal.
//
// An identifier match (equal meeting codes on both sides) always wins over
// temporal proximity. The temporal rule is only consulted when no candidate
// matched by identifier: the event must start within four hours of the
// recording's creation and share at least one significant title word with
// the file name.
//
// Missing metadata on either side is not an error; it degrades the match
// to nil and the caller continues with partial information.
func Match(file *drive.RecordingFile, events []calendar.EventSummary) (*calendar.EventSummary, MatchRule) {
	if file == nil || len(events) == 0 {
		return nil, RuleNone
	}

	if code := CodeFromRecording(file); code != "" {
		for i := range events {
			if eventCode := CodeFromEvent(&events[i]); eventCode != "" && eventCode == code {
				return &events[i], RuleIdentifier
			}
		}
	}

	if !file.CreatedTime.IsZero() {
		for i := range events {
			event := &events[i]
			if event.Start.IsZero() {
				continue
			}
			diff := file.CreatedTime.Sub(event.Start)
			if diff < 0 {
				diff = -diff
			}
			if diff > matchWindow {
				continue
			}
			if titleSupportsName(event.Summary, file.Name) {
				return event, RuleTemporal
			}
		}
	}

	return nil, RuleNone
}

// titleSupportsName reports whether at least one whitespace-delimited title
// token longer than minTitleTokenLen appears, case-insensitively, in the
// file name.
func titleSupportsName(title, fileName string) bool {
	if title == "" || fileName == "" {
		return false
	}
	lowerName := strings.ToLower(fileName)
	for _, token := range strings.Fields(title) {
		if len(token) <= minTitleTokenLen {
			continue
		}
		if strings.Contains(lowerName, strings.ToLower(token)) {
			return true
		}
	}
	return false
}
