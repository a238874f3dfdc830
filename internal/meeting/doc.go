// Package meeting contains the meeting-domain core logic: extracting a
// canonical Google Meet room code from URLs and free text, matching a Drive
// recording file to the calendar event whose meeting it captured, and
// synthesizing deterministic, collision-safe file names for downloaded
// recordings.
//
// Everything in this package is pure except ReservePath, which touches the
// filesystem to make name reservation atomic.
package meeting
