package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the drive2md application
var rootCmd = &cobra.Command{
	Use:   "drive2md",
	Short: "MCP server that converts Google Drive documents to Markdown",
	Long: `drive2md is a Model Context Protocol (MCP) server exposing a single tool,
convert_drive_url, which takes a Google Drive share URL and returns the
document content as Markdown.

Authentication is handled by the reverse proxy in front of the server; each
request must carry a Google bearer token in the Authorization header, which
is used as-is for the upstream Drive calls.`,
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
	rootCmd.SetVersionTemplate(`{{printf "drive2md version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("drive2md version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
