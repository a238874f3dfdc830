package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the meetfewer application
var rootCmd = &cobra.Command{
	Use:   "meetfewer",
	Short: "Create Google Meet meetings and retrieve their recordings",
	Long: `meetfewer is a web application that lets a signed-in Google user
schedule Calendar events with Google Meet links and later locate and
download the meeting recordings stored in Google Drive.

Recordings are matched back to their calendar events via the Meet
conference identifier, with a time-and-title heuristic as fallback.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "meetfewer version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
