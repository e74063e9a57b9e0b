package omnifocus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAddTaskScript(t *testing.T) {
	t.Run("embeds escaped transport text", func(t *testing.T) {
		script := addTaskScript(TaskDraft{Name: "Call O'Brien", Project: "Work"})
		assert.Contains(t, script, `Task.byParsingTransportText('Call O\'Brien ::Work')`)
	})

	t.Run("note is assigned separately as a JSON literal", func(t *testing.T) {
		script := addTaskScript(TaskDraft{Name: "x", Note: "line one\nwith \"quotes\""})
		assert.Contains(t, script, `task.note = "line one\nwith \"quotes\"";`)
	})

	t.Run("empty note is never assigned", func(t *testing.T) {
		script := addTaskScript(TaskDraft{Name: "x"})
		assert.Contains(t, script, `if ("" !== "")`)
	})

	t.Run("has an error boundary", func(t *testing.T) {
		script := addTaskScript(TaskDraft{Name: "x"})
		assert.Contains(t, script, "catch (err)")
		assert.Contains(t, script, "return { error: err.toString() };")
	})
}

func TestAddProjectScript(t *testing.T) {
	t.Run("folder lookup falls back to creation", func(t *testing.T) {
		script := addProjectScript(ProjectDraft{Name: "Renovation", Folder: "Home"})
		assert.Contains(t, script, "folders.byName['Home'] || new Folder('Home')")
		assert.Contains(t, script, "new Project('Renovation', parent)")
	})

	t.Run("review interval parses weeks into seconds", func(t *testing.T) {
		script := addProjectScript(ProjectDraft{Name: "x", ReviewInterval: "2 weeks"})
		assert.Contains(t, script, "weeks * 7 * 24 * 60 * 60")
	})

	t.Run("sequential and note only appear when set", func(t *testing.T) {
		plain := addProjectScript(ProjectDraft{Name: "x"})
		assert.NotContains(t, plain, "project.sequential")
		assert.NotContains(t, plain, "project.note")

		full := addProjectScript(ProjectDraft{Name: "x", Sequential: true, Note: "n"})
		assert.Contains(t, full, "project.sequential = true;")
		assert.Contains(t, full, `project.note = "n";`)
	})

	t.Run("last-action completion rule completes by children", func(t *testing.T) {
		script := addProjectScript(ProjectDraft{Name: "x", CompletionRule: "last-action"})
		assert.Contains(t, script, "project.completedByChildren = true;")

		plain := addProjectScript(ProjectDraft{Name: "x", CompletionRule: "all-actions"})
		assert.NotContains(t, plain, "completedByChildren")
	})
}

func TestEditTaskScript(t *testing.T) {
	t.Run("only set fields produce assignments", func(t *testing.T) {
		script := editTaskScript("abc", TaskEdit{Name: strPtr("New name")})
		assert.Contains(t, script, `task.name = "New name";`)
		assert.NotContains(t, script, "task.note")
		assert.NotContains(t, script, "task.flagged")
		assert.NotContains(t, script, "task.dueDate")
	})

	t.Run("empty date string clears directly", func(t *testing.T) {
		script := editTaskScript("abc", TaskEdit{DueDate: strPtr("")})
		assert.Contains(t, script, "task.dueDate = null;")
		assert.NotContains(t, script, "new Date")
	})

	t.Run("date strings go through the parse-or-clear snippet", func(t *testing.T) {
		script := editTaskScript("abc", TaskEdit{DueDate: strPtr("2026-09-01"), DeferDate: strPtr("2026-08-28")})
		assert.Contains(t, script, "const dueStr = '2026-09-01';")
		assert.Contains(t, script, "const deferStr = '2026-08-28';")
	})

	t.Run("empty project assignment moves to inbox", func(t *testing.T) {
		script := editTaskScript("abc", TaskEdit{Project: strPtr("")})
		assert.Contains(t, script, "task.containingProject = null;")
	})

	t.Run("tag replacement creates missing tags", func(t *testing.T) {
		script := editTaskScript("abc", TaskEdit{Tags: &[]string{"next", "home"}})
		assert.Contains(t, script, `const tagNames = ["next","home"];`)
		assert.Contains(t, script, "new Tag(name)")
		assert.Contains(t, script, "task.tags = newTags;")
	})

	t.Run("identifier is quote escaped", func(t *testing.T) {
		script := editTaskScript("o'brien", TaskEdit{Name: strPtr("x")})
		assert.Contains(t, script, `Task.byIdentifier('o\'brien')`)
	})
}

func TestEditProjectScript(t *testing.T) {
	t.Run("status strings map to status constants", func(t *testing.T) {
		for param, constant := range map[string]string{
			"active":  "Project.Status.Active",
			"on-hold": "Project.Status.OnHold",
			"dropped": "Project.Status.Dropped",
			"done":    "Project.Status.Done",
		} {
			script := editProjectScript("p1", ProjectEdit{Status: &param})
			assert.Contains(t, script, "project.status = "+constant+";")
		}
	})

	t.Run("status matching is case insensitive", func(t *testing.T) {
		script := editProjectScript("p1", ProjectEdit{Status: strPtr("On-Hold")})
		assert.Contains(t, script, "Project.Status.OnHold")
	})

	t.Run("unknown status is dropped", func(t *testing.T) {
		script := editProjectScript("p1", ProjectEdit{Status: strPtr("paused"), Name: strPtr("x")})
		assert.NotContains(t, script, "project.status")
	})

	t.Run("completion rule toggles completedByChildren", func(t *testing.T) {
		script := editProjectScript("p1", ProjectEdit{CompletionRule: strPtr("last-action")})
		assert.Contains(t, script, "project.completedByChildren = true;")

		script = editProjectScript("p1", ProjectEdit{CompletionRule: strPtr("all-actions")})
		assert.Contains(t, script, "project.completedByChildren = false;")
	})
}

func TestBatchScripts(t *testing.T) {
	t.Run("batch add embeds all drafts as one JSON list", func(t *testing.T) {
		script := batchAddScript([]TaskDraft{
			{Name: "first", Tags: []string{"a"}},
			{Name: "second", DueDate: "2d", Flagged: true},
		})
		assert.Contains(t, script, `[{"name":"first","tags":["a"]},{"name":"second","due_date":"2d","flagged":true}]`)
		assert.Equal(t, 1, strings.Count(script, "byParsingTransportText"))
	})

	t.Run("batch add items carry their own error handling", func(t *testing.T) {
		script := batchAddScript([]TaskDraft{{Name: "x"}})
		assert.Contains(t, script, "results.push({ success: false, error: err.toString(), name: taskData.name });")
	})

	t.Run("batch complete embeds ids and records not-found", func(t *testing.T) {
		script := batchCompleteScript([]string{"id1", "id2"})
		assert.Contains(t, script, `["id1","id2"]`)
		assert.Contains(t, script, `error: "Task not found"`)
	})
}

func TestQueryScripts(t *testing.T) {
	t.Run("tag lookup returns empty list for unknown tags", func(t *testing.T) {
		script := tasksByTagScript("errand")
		assert.Contains(t, script, "tags.byName['errand']")
		assert.Contains(t, script, "return [];")
	})

	t.Run("perspective script mutates the frontmost window", func(t *testing.T) {
		script := perspectiveTasksScript("Today's Plan")
		assert.Contains(t, script, `perspectives.byName['Today\'s Plan']`)
		assert.Contains(t, script, "window.perspective = p;")
	})

	t.Run("filter script embeds the composed expression", func(t *testing.T) {
		f := Filter{ProjectName: "Work"}
		script := filterTasksScript(f)
		require.Contains(t, script, "flattenedTasks.filter(t => "+f.Expression()+")")
	})
}

func TestDumpScript(t *testing.T) {
	t.Run("embeds parameters", func(t *testing.T) {
		script := dumpScript(true, 5)
		assert.Contains(t, script, "const includeCompleted = true;")
		assert.Contains(t, script, "const maxDepth = 5;")
	})

	t.Run("depth guard precedes any task mapping", func(t *testing.T) {
		script := dumpScript(false, 0)
		assert.Contains(t, script, "if (depth >= maxDepth) return null;")
	})
}
