package omnijs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const (
	// DefaultAppName is the automation target OmniJS scripts run inside.
	DefaultAppName = "OmniFocus"

	// DefaultBinary is the macOS automation bridge executable.
	DefaultBinary = "/usr/bin/osascript"
)

// ExecError is returned when the bridge process itself could not run the
// script: the executable was missing, or it exited non-zero. Application
// level failures never surface here; the per-script error boundary converts
// those into {error} result values instead.
type ExecError struct {
	// Stderr is the trimmed standard error text of the bridge process, or
	// the process error description when standard error was empty.
	Stderr string

	// Err is the underlying process error.
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("omnijs execution failed: %s", e.Stderr)
}

// Unwrap implements the errors.Unwrap interface.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// runFunc runs the bridge executable with the given stdin and returns its
// stdout and stderr. Swapped out in tests.
type runFunc func(ctx context.Context, binary string, args []string, stdin string) (stdout, stderr string, err error)

// Executor runs OmniJS snippets inside the target application via osascript.
// It holds no state between calls; each Execute spawns exactly one bridge
// process and blocks on its completion. No timeout is imposed here; cancel
// the context to bound execution time.
type Executor struct {
	appName string
	binary  string
	run     runFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithAppName overrides the automation target application name.
func WithAppName(name string) Option {
	return func(e *Executor) {
		if name != "" {
			e.appName = name
		}
	}
}

// WithBinary overrides the path of the bridge executable.
func WithBinary(path string) Option {
	return func(e *Executor) {
		if path != "" {
			e.binary = path
		}
	}
}

// withRunner replaces process execution, for tests.
func withRunner(run runFunc) Option {
	return func(e *Executor) {
		e.run = run
	}
}

// NewExecutor creates an Executor targeting OmniFocus through osascript.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		appName: DefaultAppName,
		binary:  DefaultBinary,
		run:     runCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AppName returns the automation target application name.
func (e *Executor) AppName() string {
	return e.appName
}

// Wrap builds the fixed JXA outer script that locates the target application
// and evaluates the snippet inside it, serializing the return value to JSON
// before the wrapper exits. Backticks in the snippet are escaped because the
// wrapper delimits it with a template literal.
func (e *Executor) Wrap(script string) string {
	return fmt.Sprintf(`const app = Application(%s);
const result = app.evaluateJavascript(`+"`%s`"+`);
JSON.stringify(result);`, MustLiteral(e.appName), escapeBackticks(script))
}

// Execute runs an OmniJS snippet inside the target application and returns
// the parsed result. A non-zero bridge exit yields an *ExecError; everything
// else, including {error}-tagged application results, is a successful
// execution from this layer's point of view.
func (e *Executor) Execute(ctx context.Context, script string) (Result, error) {
	stdout, stderr, err := e.run(ctx, e.binary, []string{"-l", "JavaScript"}, e.Wrap(script))
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return Result{}, &ExecError{Stderr: msg, Err: err}
	}
	return ParseOutput(strings.TrimSpace(stdout)), nil
}

// runCommand pipes the wrapper to the bridge executable's standard input and
// captures its output as text.
func runCommand(ctx context.Context, binary string, args []string, stdin string) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.String(), stderr.String(), err
}
