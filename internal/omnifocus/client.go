package omnifocus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskbridge/omnifocus-mcp/internal/instrumentation"
	"github.com/taskbridge/omnifocus-mcp/internal/logging"
	"github.com/taskbridge/omnifocus-mcp/internal/omnijs"
)

// ScriptRunner executes an OmniJS script and returns its parsed result.
// *omnijs.Executor satisfies it; tests substitute a fake.
type ScriptRunner interface {
	Execute(ctx context.Context, script string) (omnijs.Result, error)
}

// Client exposes the OmniFocus operations as typed methods. It is stateless
// and safe for concurrent use as long as the runner is.
type Client struct {
	runner  ScriptRunner
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewClient returns a client backed by the given runner. A nil logger
// falls back to slog.Default.
func NewClient(runner ScriptRunner, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{runner: runner, logger: logger}
}

// SetMetrics enables per-operation bridge metrics. A nil recorder leaves
// the client unmetered.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// appError marks a rejection reported by OmniFocus itself, as opposed to a
// bridge failure. Callers can present it as a domain error.
type appError struct {
	message string
}

func (e *appError) Error() string { return e.message }

// IsAppError reports whether err originated as an {error} result from
// OmniFocus rather than a failed bridge invocation.
func IsAppError(err error) bool {
	var ae *appError
	return errors.As(err, &ae)
}

// run executes a script and surfaces application {error} results as
// appError values. Every invocation gets a bridge span and, when metrics
// are wired, a bridge execution sample labelled by failure kind.
func (c *Client) run(ctx context.Context, op, script string) (omnijs.Result, error) {
	ctx, span := instrumentation.StartBridgeSpan(ctx, op, len(script))
	defer span.End()

	c.logger.Debug("executing script", logging.Operation(op), logging.ScriptSnippet(script))

	start := time.Now()
	res, err := c.runner.Execute(ctx, script)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("bridge execution failed", logging.Operation(op), logging.Err(err))
		instrumentation.SetSpanError(span, err)
		c.recordBridge(ctx, op, instrumentation.StatusError, instrumentation.FailureKindBridge, duration)
		return omnijs.Result{}, &Error{Op: op, Err: err}
	}
	if msg, ok := res.ErrMessage(); ok {
		appErr := &appError{message: msg}
		c.logger.Warn("operation rejected by application", logging.Operation(op), logging.Err(appErr))
		instrumentation.SetSpanError(span, appErr)
		c.recordBridge(ctx, op, instrumentation.StatusError, instrumentation.FailureKindApplication, duration)
		return omnijs.Result{}, &Error{Op: op, Err: appErr}
	}

	c.logger.Debug("script completed",
		logging.Operation(op),
		logging.Status(logging.StatusSuccess),
		slog.Duration(logging.KeyDuration, duration))
	instrumentation.SetSpanSuccess(span)
	c.recordBridge(ctx, op, instrumentation.StatusSuccess, "", duration)
	return res, nil
}

func (c *Client) recordBridge(ctx context.Context, op, status, kind string, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordBridgeExecutionWithKind(ctx, op, status, kind, duration)
}

// fetchObject runs a script that must return a single object and decodes
// it into dst. A result of any other shape is an error.
func (c *Client) fetchObject(ctx context.Context, op, script string, dst any) error {
	res, err := c.run(ctx, op, script)
	if err != nil {
		return err
	}
	if _, ok := res.Object(); !ok {
		return &Error{Op: op, Err: fmt.Errorf("unexpected result shape: %s", res.Describe())}
	}
	if err := res.Decode(dst); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}

// fetchList runs a script that should return a list and decodes it into
// dst. A non-list result is treated as an empty result set, not an error;
// listing operations promise a list even when OmniFocus returns nothing
// useful.
func (c *Client) fetchList(ctx context.Context, op, script string, dst any) error {
	res, err := c.run(ctx, op, script)
	if err != nil {
		return err
	}
	if _, ok := res.List(); !ok {
		return nil
	}
	if err := res.Decode(dst); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}

// dateLayouts are the absolute formats the JavaScript Date constructor is
// known to accept from this surface.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func isAbsoluteDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// warnRelativeDate logs when an edit carries a date string the script's
// Date constructor will not parse. OmniFocus clears the field in that
// case; relative phrases like "tomorrow" only work in transport text.
func (c *Client) warnRelativeDate(field, value string) {
	if value == "" || value == "null" || isAbsoluteDate(value) {
		return
	}
	c.logger.Warn("date string is not an absolute date and will clear the field",
		slog.String("field", field),
		slog.String("value", value))
}

// AddTask creates a task from the draft. Dates in the draft may be
// relative phrases; OmniFocus resolves them while parsing transport text.
func (c *Client) AddTask(ctx context.Context, d TaskDraft) (*Receipt, error) {
	var r Receipt
	if err := c.fetchObject(ctx, "add_task", addTaskScript(d), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// AddProject creates a project from the draft.
func (c *Client) AddProject(ctx context.Context, d ProjectDraft) (*Receipt, error) {
	var r Receipt
	if err := c.fetchObject(ctx, "add_project", addProjectScript(d), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// TaskByID fetches the full detail of one task.
func (c *Client) TaskByID(ctx context.Context, id string) (*TaskDetail, error) {
	var t TaskDetail
	if err := c.fetchObject(ctx, "get_task", taskByIDScript(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// InboxTasks lists every task in the inbox, completed ones included.
func (c *Client) InboxTasks(ctx context.Context) ([]Task, error) {
	tasks := []Task{}
	if err := c.fetchList(ctx, "get_inbox_tasks", inboxTasksScript, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FlaggedTasks lists incomplete flagged tasks.
func (c *Client) FlaggedTasks(ctx context.Context) ([]Task, error) {
	tasks := []Task{}
	if err := c.fetchList(ctx, "get_flagged_tasks", flaggedTasksScript, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ForecastTasks lists incomplete tasks that are flagged or due within the
// next seven days. Each row's Kind says which rule admitted it; flagged
// wins when both apply.
func (c *Client) ForecastTasks(ctx context.Context) ([]Task, error) {
	tasks := []Task{}
	if err := c.fetchList(ctx, "get_forecast_tasks", forecastTasksScript, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TasksByTag lists incomplete tasks carrying the named tag. An unknown
// tag yields an empty list.
func (c *Client) TasksByTag(ctx context.Context, tag string) ([]Task, error) {
	tasks := []Task{}
	if err := c.fetchList(ctx, "get_tasks_by_tag", tasksByTagScript(tag), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CompletedToday lists tasks completed since local midnight.
func (c *Client) CompletedToday(ctx context.Context) ([]CompletedTask, error) {
	tasks := []CompletedTask{}
	if err := c.fetchList(ctx, "get_completed_today", completedTodayScript, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// EditTask applies the edit to the identified task. An empty edit is
// rejected before any script runs.
func (c *Client) EditTask(ctx context.Context, id string, e TaskEdit) (*Receipt, error) {
	if e.IsZero() {
		return nil, &Error{Op: "edit_task", Err: ErrNoUpdates}
	}
	if e.DueDate != nil {
		c.warnRelativeDate("due_date", *e.DueDate)
	}
	if e.DeferDate != nil {
		c.warnRelativeDate("defer_date", *e.DeferDate)
	}
	var r Receipt
	if err := c.fetchObject(ctx, "edit_task", editTaskScript(id, e), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// EditProject applies the edit to the identified project.
func (c *Client) EditProject(ctx context.Context, id string, e ProjectEdit) (*Receipt, error) {
	if e.IsZero() {
		return nil, &Error{Op: "edit_project", Err: ErrNoUpdates}
	}
	var r Receipt
	if err := c.fetchObject(ctx, "edit_project", editProjectScript(id, e), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// RemoveTask deletes the identified task.
func (c *Client) RemoveTask(ctx context.Context, id string) (*Removal, error) {
	var r Removal
	if err := c.fetchObject(ctx, "remove_task", removeTaskScript(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// RemoveProject deletes the identified project and its tasks.
func (c *Client) RemoveProject(ctx context.Context, id string) (*Removal, error) {
	var r Removal
	if err := c.fetchObject(ctx, "remove_project", removeProjectScript(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// BatchAddTasks creates all drafts in one round trip and partitions the
// per-item outcomes. An item failing never fails the batch.
func (c *Client) BatchAddTasks(ctx context.Context, drafts []TaskDraft) (*BatchAddResult, error) {
	const op = "batch_add_tasks"
	res, err := c.run(ctx, op, batchAddScript(drafts))
	if err != nil {
		return nil, err
	}
	items, err := decodeBatchItems(op, res)
	if err != nil {
		return nil, err
	}
	out := &BatchAddResult{
		Total:      len(drafts),
		CreatedIDs: []string{},
		Errors:     []BatchError{},
	}
	for _, item := range items {
		if item.Success {
			out.Successful++
			out.CreatedIDs = append(out.CreatedIDs, item.ID)
		} else {
			out.Failed++
			out.Errors = append(out.Errors, BatchError{Name: item.Name, Error: orUnknown(item.Error)})
		}
	}
	return out, nil
}

// BatchCompleteTasks marks all identified tasks complete in one round trip
// and partitions the per-item outcomes.
func (c *Client) BatchCompleteTasks(ctx context.Context, ids []string) (*BatchCompleteResult, error) {
	const op = "batch_complete_tasks"
	res, err := c.run(ctx, op, batchCompleteScript(ids))
	if err != nil {
		return nil, err
	}
	items, err := decodeBatchItems(op, res)
	if err != nil {
		return nil, err
	}
	out := &BatchCompleteResult{
		Total:          len(ids),
		CompletedTasks: []TaskRef{},
		Errors:         []BatchError{},
	}
	for _, item := range items {
		if item.Success {
			out.Completed++
			out.CompletedTasks = append(out.CompletedTasks, TaskRef{ID: item.ID, Name: item.Name})
		} else {
			out.Failed++
			out.Errors = append(out.Errors, BatchError{ID: item.ID, Error: orUnknown(item.Error)})
		}
	}
	return out, nil
}

func decodeBatchItems(op string, res omnijs.Result) ([]batchItem, error) {
	if _, ok := res.List(); !ok {
		return nil, &Error{Op: op, Err: fmt.Errorf("unexpected result shape: %s", res.Describe())}
	}
	var items []batchItem
	if err := res.Decode(&items); err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return items, nil
}

func orUnknown(msg string) string {
	if msg == "" {
		return "Unknown error"
	}
	return msg
}

// Perspectives lists the perspectives defined in OmniFocus.
func (c *Client) Perspectives(ctx context.Context) ([]Perspective, error) {
	out := []Perspective{}
	if err := c.fetchList(ctx, "list_perspectives", perspectivesScript, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PerspectiveTasks lists the tasks visible in the named custom
// perspective. This switches the frontmost OmniFocus window to that
// perspective as a side effect.
func (c *Client) PerspectiveTasks(ctx context.Context, name string) ([]Task, error) {
	tasks := []Task{}
	if err := c.fetchList(ctx, "get_perspective_tasks", perspectiveTasksScript(name), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FilterTasks lists tasks matching the conjunction of the filter's set
// criteria.
func (c *Client) FilterTasks(ctx context.Context, f Filter) ([]Task, error) {
	tasks := []Task{}
	if err := c.fetchList(ctx, "filter_tasks", filterTasksScript(f), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Projects lists every project with its counts and review interval.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	out := []Project{}
	if err := c.fetchList(ctx, "list_projects", listProjectsScript, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags lists every tag with its counts.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	out := []Tag{}
	if err := c.fetchList(ctx, "list_tags", listTagsScript, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DumpDatabase exports the whole database. Task hierarchies recurse to
// maxDepth levels; zero produces metadata and stats with empty task lists.
func (c *Client) DumpDatabase(ctx context.Context, includeCompleted bool, maxDepth int) (*DatabaseDump, error) {
	var dump DatabaseDump
	if err := c.fetchObject(ctx, "dump_database", dumpScript(includeCompleted, maxDepth), &dump); err != nil {
		return nil, err
	}
	if dump.Projects == nil {
		dump.Projects = []DumpProject{}
	}
	if dump.Tags == nil {
		dump.Tags = []DumpTag{}
	}
	if dump.Inbox == nil {
		dump.Inbox = []DumpTask{}
	}
	return &dump, nil
}
