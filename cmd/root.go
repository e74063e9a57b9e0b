package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the omnifocus-mcp application
var rootCmd = &cobra.Command{
	Use:   "omnifocus-mcp",
	Short: "MCP server for OmniFocus task management",
	Long: `omnifocus-mcp exposes OmniFocus task management to MCP (Model Context
Protocol) clients. Each tool synthesizes an OmniJS script, runs it inside
OmniFocus through the macOS osascript bridge, and returns the parsed result.

It can run as:
  - An MCP server over stdio (default)
  - An MCP server over streamable HTTP`,
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
	rootCmd.SetVersionTemplate(`{{printf "omnifocus-mcp version %s\n" .Version}}`)

	// Pick up settings from a local .env file when present
	_ = godotenv.Load()

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
	rootCmd.AddCommand(newExecCmd())
	rootCmd.AddCommand(newVersionCmd())
}
