package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskbridge/omnifocus-mcp/internal/omnijs"
)

// newExecCmd creates the exec command for running raw OmniJS snippets.
// Useful for debugging scripts outside of an MCP session.
func newExecCmd() *cobra.Command {
	var (
		appName      string
		osascriptBin string
	)

	cmd := &cobra.Command{
		Use:   "exec [script]",
		Short: "Run a raw OmniJS snippet against OmniFocus",
		Long: `Run a raw OmniJS snippet inside the OmniFocus application and print the
result as JSON. The script is taken from the first argument, or from
standard input when no argument is given.

Examples:
  omnifocus-mcp exec 'inbox.length'
  echo 'flattenedTags.map(t => t.name)' | omnifocus-mcp exec`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readScript(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			executor := omnijs.NewExecutor(
				omnijs.WithAppName(appName),
				omnijs.WithBinary(osascriptBin),
			)

			res, err := executor.Execute(cmd.Context(), script)
			if err != nil {
				return fmt.Errorf("script execution failed: %w", err)
			}
			if msg, ok := res.ErrMessage(); ok {
				return fmt.Errorf("script returned an error: %s", msg)
			}

			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&appName, "app-name", omnijs.DefaultAppName, "Application name targeted by the scripting bridge. Can also use OMNIFOCUS_APP_NAME env var.")
	cmd.Flags().StringVar(&osascriptBin, "osascript-bin", omnijs.DefaultBinary, "Path to the osascript binary. Can also use OSASCRIPT_BIN env var.")

	// Env fallbacks apply only when the flags were left at their defaults
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("app-name") {
			if name := os.Getenv("OMNIFOCUS_APP_NAME"); name != "" {
				appName = name
			}
		}
		if !cmd.Flags().Changed("osascript-bin") {
			if bin := os.Getenv("OSASCRIPT_BIN"); bin != "" {
				osascriptBin = bin
			}
		}
	}

	return cmd
}

// readScript returns the snippet from the argument list or, when absent,
// from standard input.
func readScript(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read script from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no script provided (pass it as an argument or on stdin)")
	}
	return string(data), nil
}

// printResult writes the execution result as indented JSON, falling back to
// the raw text for scripts that return a bare string.
func printResult(w io.Writer, res omnijs.Result) error {
	if res.IsNull() {
		_, err := fmt.Fprintln(w, "null")
		return err
	}
	if v := res.Value(); v != nil {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	_, err := fmt.Fprintln(w, res.Text())
	return err
}
