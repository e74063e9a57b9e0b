package omnifocus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskbridge/omnifocus-mcp/internal/omnijs"
)

// fakeRunner records the script it was handed and returns canned output.
type fakeRunner struct {
	script string
	output string
	err    error
}

func (f *fakeRunner) Execute(ctx context.Context, script string) (omnijs.Result, error) {
	f.script = script
	if f.err != nil {
		return omnijs.Result{}, f.err
	}
	return omnijs.ParseOutput(f.output), nil
}

func newTestClient(output string) (*Client, *fakeRunner) {
	runner := &fakeRunner{output: output}
	return NewClient(runner, nil), runner
}

func TestAddTask(t *testing.T) {
	t.Run("returns the receipt", func(t *testing.T) {
		client, runner := newTestClient(`{"success": true, "id": "abc123", "name": "Buy milk"}`)

		receipt, err := client.AddTask(context.Background(), TaskDraft{Name: "Buy milk"})
		require.NoError(t, err)
		assert.True(t, receipt.Success)
		assert.Equal(t, "abc123", receipt.ID)
		assert.Equal(t, "Buy milk", receipt.Name)
		assert.Contains(t, runner.script, "byParsingTransportText")
	})

	t.Run("application rejection becomes an app error", func(t *testing.T) {
		client, _ := newTestClient(`{"error": "Failed to create task from transport text"}`)

		_, err := client.AddTask(context.Background(), TaskDraft{Name: "x"})
		require.Error(t, err)
		assert.True(t, IsAppError(err))
		assert.Contains(t, err.Error(), "omnifocus add_task")
	})

	t.Run("bridge failure is not an app error", func(t *testing.T) {
		runner := &fakeRunner{err: &omnijs.ExecError{Stderr: "osascript: can't find OmniFocus"}}
		client := NewClient(runner, nil)

		_, err := client.AddTask(context.Background(), TaskDraft{Name: "x"})
		require.Error(t, err)
		assert.False(t, IsAppError(err))

		var execErr *omnijs.ExecError
		assert.True(t, errors.As(err, &execErr))
	})
}

func TestTaskByID(t *testing.T) {
	t.Run("decodes full detail", func(t *testing.T) {
		client, _ := newTestClient(`{
			"id": "abc", "name": "Review", "note": "", "completed": false,
			"flagged": true, "project": "Work", "tags": ["next"],
			"due": "2026-09-01T12:00:00.000Z", "defer": null,
			"estimated_minutes": 30, "completion_date": null
		}`)

		task, err := client.TaskByID(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "Review", task.Name)
		require.NotNil(t, task.Project)
		assert.Equal(t, "Work", *task.Project)
		require.NotNil(t, task.EstimatedMinutes)
		assert.Equal(t, 30.0, *task.EstimatedMinutes)
		assert.Nil(t, task.Defer)
		assert.Nil(t, task.CompletionDate)
	})

	t.Run("not found surfaces the application message", func(t *testing.T) {
		client, _ := newTestClient(`{"error": "Task not found"}`)

		_, err := client.TaskByID(context.Background(), "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Task not found")
	})

	t.Run("non-object result is a shape error", func(t *testing.T) {
		client, _ := newTestClient(`[1, 2, 3]`)

		_, err := client.TaskByID(context.Background(), "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected result shape")
	})
}

func TestListingShapeFallback(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "null result", output: ""},
		{name: "plain text result", output: "unexpected"},
		{name: "object without error key", output: `{"ok": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(tt.output)

			tasks, err := client.InboxTasks(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)
		})
	}
}

func TestInboxTasks(t *testing.T) {
	client, _ := newTestClient(`[
		{"id": "t1", "name": "one", "note": "", "flagged": false, "completed": false},
		{"id": "t2", "name": "two", "note": "n", "flagged": true, "completed": true}
	]`)

	tasks, err := client.InboxTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.True(t, tasks[1].Completed)
}

func TestForecastTasks(t *testing.T) {
	client, _ := newTestClient(`[
		{"id": "t1", "name": "flagged one", "project": null, "due": null, "flagged": true, "type": "flagged"},
		{"id": "t2", "name": "due one", "project": "Work", "due": "2026-08-30T09:00:00.000Z", "flagged": false, "type": "due"}
	]`)

	tasks, err := client.ForecastTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "flagged", tasks[0].Kind)
	assert.Equal(t, "due", tasks[1].Kind)
	assert.Nil(t, tasks[0].Project)
	require.NotNil(t, tasks[1].Due)
}

func TestEditTask(t *testing.T) {
	t.Run("empty edit never reaches the bridge", func(t *testing.T) {
		client, runner := newTestClient(`{}`)

		_, err := client.EditTask(context.Background(), "abc", TaskEdit{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoUpdates)
		assert.Empty(t, runner.script)
	})

	t.Run("edit returns the receipt", func(t *testing.T) {
		client, _ := newTestClient(`{"success": true, "id": "abc", "name": "Renamed"}`)

		name := "Renamed"
		receipt, err := client.EditTask(context.Background(), "abc", TaskEdit{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", receipt.Name)
	})
}

func TestEditProject(t *testing.T) {
	client, runner := newTestClient(`{}`)

	_, err := client.EditProject(context.Background(), "p1", ProjectEdit{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoUpdates)
	assert.Empty(t, runner.script)
}

func TestRemoveTask(t *testing.T) {
	t.Run("returns the removed name", func(t *testing.T) {
		client, _ := newTestClient(`{"success": true, "name": "Old task"}`)

		removal, err := client.RemoveTask(context.Background(), "abc")
		require.NoError(t, err)
		assert.True(t, removal.Success)
		assert.Equal(t, "Old task", removal.Name)
	})

	t.Run("unknown identifier is an error, not a success", func(t *testing.T) {
		client, _ := newTestClient(`{"error": "Task not found"}`)

		_, err := client.RemoveTask(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, IsAppError(err))
	})
}

func TestBatchAddTasks(t *testing.T) {
	t.Run("partitions successes and failures", func(t *testing.T) {
		client, runner := newTestClient(`[
			{"success": true, "id": "t1", "name": "one"},
			{"success": false, "error": "Failed to create task", "name": "two"},
			{"success": true, "id": "t3", "name": "three"}
		]`)

		result, err := client.BatchAddTasks(context.Background(), []TaskDraft{
			{Name: "one"}, {Name: "two"}, {Name: "three"},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 2, result.Successful)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, []string{"t1", "t3"}, result.CreatedIDs)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "two", result.Errors[0].Name)
		assert.Equal(t, "Failed to create task", result.Errors[0].Error)

		// All drafts travel in one script.
		assert.Contains(t, runner.script, `"name":"one"`)
		assert.Contains(t, runner.script, `"name":"three"`)
	})

	t.Run("missing error message falls back to unknown", func(t *testing.T) {
		client, _ := newTestClient(`[{"success": false, "name": "x"}]`)

		result, err := client.BatchAddTasks(context.Background(), []TaskDraft{{Name: "x"}})
		require.NoError(t, err)
		assert.Equal(t, "Unknown error", result.Errors[0].Error)
	})

	t.Run("non-list result is a shape error", func(t *testing.T) {
		client, _ := newTestClient(`"garbage"`)

		_, err := client.BatchAddTasks(context.Background(), []TaskDraft{{Name: "x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected result shape")
	})
}

func TestBatchCompleteTasks(t *testing.T) {
	client, _ := newTestClient(`[
		{"success": true, "id": "t1", "name": "one"},
		{"success": false, "id": "t2", "error": "Task not found"}
	]`)

	result, err := client.BatchCompleteTasks(context.Background(), []string{"t1", "t2"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.CompletedTasks, 1)
	assert.Equal(t, TaskRef{ID: "t1", Name: "one"}, result.CompletedTasks[0])
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "t2", result.Errors[0].ID)
}

func TestPerspectives(t *testing.T) {
	client, _ := newTestClient(`[{"id": "p1", "name": "Planning", "isBuiltIn": false}]`)

	out, err := client.Perspectives(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Planning", out[0].Name)
	assert.False(t, out[0].IsBuiltIn)
}

func TestProjects(t *testing.T) {
	client, _ := newTestClient(`[{
		"id": "p1", "name": "Finance", "status": "Active", "folder": null,
		"sequential": false, "task_count": 4, "remaining_count": 2,
		"review_interval_days": 7
	}]`)

	out, err := client.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Active", out[0].Status)
	assert.Equal(t, 2, out[0].RemainingCount)
	require.NotNil(t, out[0].ReviewIntervalDays)
	assert.Equal(t, 7.0, *out[0].ReviewIntervalDays)
}

func TestDumpDatabase(t *testing.T) {
	t.Run("decodes nested structure", func(t *testing.T) {
		client, runner := newTestClient(`{
			"projects": [{"id": "p1", "name": "Work", "status": "Active", "sequential": false, "folder": null,
				"tasks": [{"id": "t1", "name": "parent", "completed": false, "flagged": false, "note": "",
					"tags": [], "due": null, "defer": null,
					"children": [{"id": "t2", "name": "child", "completed": false, "flagged": false,
						"note": "", "tags": [], "due": null, "defer": null, "children": []}]}]}],
			"tags": [{"id": "g1", "name": "home", "parent": null}],
			"inbox": [],
			"stats": {"total_projects": 1, "active_projects": 1, "total_tasks": 2, "remaining_tasks": 2, "flagged_tasks": 0}
		}`)

		dump, err := client.DumpDatabase(context.Background(), false, 3)
		require.NoError(t, err)
		require.Len(t, dump.Projects, 1)
		require.Len(t, dump.Projects[0].Tasks, 1)
		require.Len(t, dump.Projects[0].Tasks[0].Children, 1)
		assert.Equal(t, "child", dump.Projects[0].Tasks[0].Children[0].Name)
		assert.Equal(t, 1, dump.Stats.ActiveProjects)
		assert.NotNil(t, dump.Inbox)

		assert.Contains(t, runner.script, "const maxDepth = 3;")
	})

	t.Run("missing collections come back as empty slices", func(t *testing.T) {
		client, _ := newTestClient(`{"stats": {"total_projects": 0, "active_projects": 0, "total_tasks": 0, "remaining_tasks": 0, "flagged_tasks": 0}}`)

		dump, err := client.DumpDatabase(context.Background(), false, 0)
		require.NoError(t, err)
		assert.NotNil(t, dump.Projects)
		assert.NotNil(t, dump.Tags)
		assert.NotNil(t, dump.Inbox)
	})
}
