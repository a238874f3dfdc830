// Package recordings implements the recording workflows: listing Drive
// recordings enriched with calendar matches, and downloading a recording
// under a synthesized, collision-free file name.
package recordings
