// Package cmd implements the command-line interface for meetfewer.
//
// This package provides the following commands:
//   - serve: Start the web server for creating meetings and downloading recordings
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
