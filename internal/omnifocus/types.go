package omnifocus

import (
	"errors"
	"fmt"
)

// Task is the common list-item shape returned by every listing operation.
// Dates are ISO 8601 strings produced inside OmniFocus; nil means unset.
type Task struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Note      string   `json:"note,omitempty"`
	Project   *string  `json:"project,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Due       *string  `json:"due,omitempty"`
	Defer     *string  `json:"defer,omitempty"`
	Flagged   bool     `json:"flagged,omitempty"`
	Completed bool     `json:"completed,omitempty"`

	// Kind is set only on forecast rows, where it distinguishes tasks
	// surfaced for being flagged from tasks surfaced for being due.
	Kind string `json:"type,omitempty"`
}

// TaskDetail is the full single-task shape returned by identifier lookups.
type TaskDetail struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Note             string   `json:"note"`
	Completed        bool     `json:"completed"`
	Flagged          bool     `json:"flagged"`
	Project          *string  `json:"project"`
	Tags             []string `json:"tags"`
	Due              *string  `json:"due"`
	Defer            *string  `json:"defer"`
	EstimatedMinutes *float64 `json:"estimated_minutes"`
	CompletionDate   *string  `json:"completion_date"`
}

// CompletedTask is a row from the completed-today report.
type CompletedTask struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Project        *string  `json:"project,omitempty"`
	CompletionTime string   `json:"completion_time"`
	Tags           []string `json:"tags"`
}

// Receipt acknowledges a create or edit operation.
type Receipt struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

// Removal acknowledges a delete operation with the name the entity had.
type Removal struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

// Project is a row from the project listing.
type Project struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Status             string   `json:"status"`
	Folder             *string  `json:"folder"`
	Sequential         bool     `json:"sequential"`
	TaskCount          int      `json:"task_count"`
	RemainingCount     int      `json:"remaining_count"`
	ReviewIntervalDays *float64 `json:"review_interval_days"`
}

// Tag is a row from the tag listing.
type Tag struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Parent         *string `json:"parent"`
	TaskCount      int     `json:"task_count"`
	RemainingCount int     `json:"remaining_count"`
}

// Perspective identifies a perspective by name. Only custom perspectives
// are enumerable; IsBuiltIn is carried for forward compatibility.
type Perspective struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsBuiltIn bool   `json:"isBuiltIn"`
}

// TaskDraft describes a task to create. The JSON tags double as the field
// names embedded into the batch-creation script.
type TaskDraft struct {
	Name      string   `json:"name"`
	Note      string   `json:"note,omitempty"`
	Project   string   `json:"project,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	DueDate   string   `json:"due_date,omitempty"`
	DeferDate string   `json:"defer_date,omitempty"`
	Flagged   bool     `json:"flagged,omitempty"`
}

// TaskEdit carries the fields to change on an existing task. Nil means
// leave the field alone; a pointer to the zero value clears or unsets it.
type TaskEdit struct {
	Name      *string
	Note      *string
	DueDate   *string
	DeferDate *string
	Flagged   *bool
	Completed *bool
	Project   *string
	Tags      *[]string
}

// IsZero reports whether the edit changes nothing.
func (e TaskEdit) IsZero() bool {
	return e.Name == nil && e.Note == nil && e.DueDate == nil &&
		e.DeferDate == nil && e.Flagged == nil && e.Completed == nil &&
		e.Project == nil && e.Tags == nil
}

// ProjectDraft describes a project to create. CompletionRule is
// "last-action" (the project completes with its last task) or
// "all-actions", the OmniFocus default.
type ProjectDraft struct {
	Name           string
	Folder         string
	Sequential     bool
	ReviewInterval string
	CompletionRule string
	Note           string
}

// ProjectEdit carries the fields to change on an existing project.
type ProjectEdit struct {
	Name           *string
	Note           *string
	Status         *string
	Sequential     *bool
	ReviewInterval *string
	CompletionRule *string
	Folder         *string
}

// IsZero reports whether the edit changes nothing.
func (e ProjectEdit) IsZero() bool {
	return e.Name == nil && e.Note == nil && e.Status == nil &&
		e.Sequential == nil && e.ReviewInterval == nil &&
		e.CompletionRule == nil && e.Folder == nil
}

// Filter selects tasks by the conjunction of its set fields. Zero-valued
// fields do not constrain; a nil pointer means "don't care" while a set
// pointer demands the given value.
type Filter struct {
	IncludeCompleted bool
	ProjectName      string
	HasDueDate       *bool
	IsFlagged        *bool
	TagNames         []string
	SearchText       string
}

// TaskRef pairs an identifier with a display name.
type TaskRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BatchError records a single failed item from a batch operation.
type BatchError struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

// BatchAddResult partitions a batch creation into successes and failures.
type BatchAddResult struct {
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	CreatedIDs []string     `json:"created_ids"`
	Errors     []BatchError `json:"errors"`
}

// BatchCompleteResult partitions a batch completion into successes and
// failures.
type BatchCompleteResult struct {
	Total          int          `json:"total"`
	Completed      int          `json:"completed"`
	Failed         int          `json:"failed"`
	CompletedTasks []TaskRef    `json:"completed_tasks"`
	Errors         []BatchError `json:"errors"`
}

// batchItem is the per-item record the batch scripts emit.
type batchItem struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DumpTask is a task node in a database dump. Children recurse up to the
// requested depth.
type DumpTask struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Completed bool       `json:"completed"`
	Flagged   bool       `json:"flagged"`
	Note      string     `json:"note,omitempty"`
	Tags      []string   `json:"tags"`
	Due       *string    `json:"due"`
	Defer     *string    `json:"defer"`
	Children  []DumpTask `json:"children"`
}

// DumpProject is a project node in a database dump.
type DumpProject struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	Sequential bool       `json:"sequential"`
	Folder     *string    `json:"folder"`
	Tasks      []DumpTask `json:"tasks"`
}

// DumpTag is a tag node in a database dump.
type DumpTag struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Parent *string `json:"parent"`
}

// DumpStats summarizes a database dump.
type DumpStats struct {
	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`
	TotalTasks     int `json:"total_tasks"`
	RemainingTasks int `json:"remaining_tasks"`
	FlaggedTasks   int `json:"flagged_tasks"`
}

// DatabaseDump is the full structured export of the database.
type DatabaseDump struct {
	Projects []DumpProject `json:"projects"`
	Tags     []DumpTag     `json:"tags"`
	Inbox    []DumpTask    `json:"inbox"`
	Stats    DumpStats     `json:"stats"`
}

// ErrNoUpdates is returned by edit operations called with an empty edit.
var ErrNoUpdates = errors.New("no updates specified")

// Error wraps a failure from an OmniFocus operation with the operation name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("omnifocus %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
