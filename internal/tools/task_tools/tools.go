package task_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/omnifocus"
	"github.com/taskbridge/omnifocus-mcp/internal/server"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/batch"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/common"
)

// optionalStringList parses an optional parameter that may be a single
// string or an array of strings. An absent parameter yields nil.
func optionalStringList(args map[string]interface{}, key string) ([]string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	return batch.ParseStringOrArray(v, key)
}

// optionalString returns the string value for key, or "" when absent.
func optionalString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// stringArg extracts a non-optional string parameter.
func stringArg(args map[string]interface{}, key string) (string, error) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}

// RegisterTaskTools registers all task-related tools with the MCP server.
// Write tools are skipped in read-only mode.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	getTaskTool := mcp.NewTool("omnifocus_get_task",
		mcp.WithDescription("Get the full detail of a task by its ID, including dates, tags, estimated duration and completion state"),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The OmniFocus task ID"),
		),
	)

	s.AddTool(getTaskTool, common.InstrumentedToolHandlerWithOperation("omnifocus_get_task", "get_task", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := stringArg(args, "task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := sc.Client().TaskByID(ctx, taskID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	registerAddTaskTool(s, sc)
	registerEditTaskTool(s, sc)
	registerRemoveTaskTool(s, sc)
	registerBatchTools(s, sc)
}

func registerAddTaskTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	addTaskTool := mcp.NewTool("omnifocus_add_task",
		mcp.WithDescription("Create a new task. Dates accept relative phrases like 'tomorrow' or '2d' as well as absolute dates."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the task"),
		),
		mcp.WithString("note",
			mcp.Description("Note or description for the task"),
		),
		mcp.WithString("project",
			mcp.Description("Project to assign the task to (e.g. 'Work' or 'Work : Meetings')"),
		),
		mcp.WithString("tags",
			mcp.Description("Tag name (string) or array of tag names to assign"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date (e.g. '2d', 'tomorrow', '2024-12-31', 'next friday')"),
		),
		mcp.WithString("defer_date",
			mcp.Description("Defer date (same formats as due_date)"),
		),
		mcp.WithBoolean("flagged",
			mcp.Description("Whether to flag the task"),
		),
		mcp.WithString("context",
			mcp.Description("Legacy context name, applied as an extra tag"),
		),
	)

	s.AddTool(addTaskTool, common.InstrumentedToolHandlerWithOperation("omnifocus_add_task", "add_task", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			name, err := stringArg(args, "name")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			tags, err := optionalStringList(args, "tags")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			// Legacy contexts became tags in current OmniFocus versions.
			if legacy := optionalString(args, "context"); legacy != "" {
				tags = append(tags, legacy)
			}

			draft := omnifocus.TaskDraft{
				Name:      name,
				Note:      optionalString(args, "note"),
				Project:   optionalString(args, "project"),
				Tags:      tags,
				DueDate:   optionalString(args, "due_date"),
				DeferDate: optionalString(args, "defer_date"),
			}
			if flagged, ok := args["flagged"].(bool); ok {
				draft.Flagged = flagged
			}

			receipt, err := sc.Client().AddTask(ctx, draft)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(receipt, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task created successfully:\n%s", string(result))), nil
		}))
}

func registerEditTaskTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	editTaskTool := mcp.NewTool("omnifocus_edit_task",
		mcp.WithDescription("Update an existing task. Only supplied fields change; an empty string clears a date; tags replace the full tag set."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The OmniFocus task ID"),
		),
		mcp.WithString("name",
			mcp.Description("New task name"),
		),
		mcp.WithString("note",
			mcp.Description("New note for the task"),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date as an absolute date (e.g. '2024-12-31'); empty string clears it"),
		),
		mcp.WithString("defer_date",
			mcp.Description("New defer date as an absolute date; empty string clears it"),
		),
		mcp.WithBoolean("flagged",
			mcp.Description("New flagged state"),
		),
		mcp.WithBoolean("completed",
			mcp.Description("Mark the task complete or incomplete"),
		),
		mcp.WithString("project",
			mcp.Description("Move the task to this project; empty string moves it to the inbox"),
		),
		mcp.WithString("tags",
			mcp.Description("Tag name (string) or array of tag names replacing the task's tags; missing tags are created"),
		),
	)

	s.AddTool(editTaskTool, common.InstrumentedToolHandlerWithOperation("omnifocus_edit_task", "edit_task", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := stringArg(args, "task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			var edit omnifocus.TaskEdit
			if v, ok := args["name"].(string); ok {
				edit.Name = &v
			}
			if v, ok := args["note"].(string); ok {
				edit.Note = &v
			}
			if v, ok := args["due_date"].(string); ok {
				edit.DueDate = &v
			}
			if v, ok := args["defer_date"].(string); ok {
				edit.DeferDate = &v
			}
			if v, ok := args["flagged"].(bool); ok {
				edit.Flagged = &v
			}
			if v, ok := args["completed"].(bool); ok {
				edit.Completed = &v
			}
			if v, ok := args["project"].(string); ok {
				edit.Project = &v
			}
			if _, ok := args["tags"]; ok {
				tags, err := optionalStringList(args, "tags")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				edit.Tags = &tags
			}

			receipt, err := sc.Client().EditTask(ctx, taskID, edit)
			if errors.Is(err, omnifocus.ErrNoUpdates) {
				return mcp.NewToolResultText("No updates specified"), nil
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to edit task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(receipt, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task updated successfully:\n%s", string(result))), nil
		}))
}

func registerRemoveTaskTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	removeTaskTool := mcp.NewTool("omnifocus_remove_task",
		mcp.WithDescription("Delete a task from OmniFocus"),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The OmniFocus task ID"),
		),
	)

	s.AddTool(removeTaskTool, common.InstrumentedToolHandlerWithOperation("omnifocus_remove_task", "remove_task", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := stringArg(args, "task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			removal, err := sc.Client().RemoveTask(ctx, taskID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to remove task: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Task '%s' removed successfully", removal.Name)), nil
		}))
}

func registerBatchTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	batchAddTool := mcp.NewTool("omnifocus_batch_add_tasks",
		mcp.WithDescription("Create multiple tasks in a single invocation. Items fail independently; the result partitions successes and failures."),
		mcp.WithArray("tasks",
			mcp.Required(),
			mcp.Description("Array of task objects with name and optional note, project, tags, due_date, defer_date, flagged"),
			mcp.Items(map[string]any{"type": "object"}),
		),
	)

	s.AddTool(batchAddTool, common.InstrumentedToolHandlerWithOperation("omnifocus_batch_add_tasks", "batch_add_tasks", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			var drafts []omnifocus.TaskDraft
			if err := batch.ParseObjectArray(args["tasks"], "tasks", &drafts); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			for i, d := range drafts {
				if d.Name == "" {
					return mcp.NewToolResultError(fmt.Sprintf("tasks[%d] is missing a name", i)), nil
				}
			}

			res, err := sc.Client().BatchAddTasks(ctx, drafts)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add tasks: %v", err)), nil
			}

			if metrics := sc.Metrics(); metrics != nil {
				metrics.RecordBatchItems(ctx, "omnifocus_batch_add_tasks", res.Successful, res.Failed)
			}

			result, _ := json.MarshalIndent(res, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	batchCompleteTool := mcp.NewTool("omnifocus_batch_complete_tasks",
		mcp.WithDescription("Mark multiple tasks complete in a single invocation. Completing an already-completed task succeeds."),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to complete"),
		),
	)

	s.AddTool(batchCompleteTool, common.InstrumentedToolHandlerWithOperation("omnifocus_batch_complete_tasks", "batch_complete_tasks", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			ids, err := batch.ParseStringOrArray(args["task_ids"], "task_ids")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			res, err := sc.Client().BatchCompleteTasks(ctx, ids)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to complete tasks: %v", err)), nil
			}

			if metrics := sc.Metrics(); metrics != nil {
				metrics.RecordBatchItems(ctx, "omnifocus_batch_complete_tasks", res.Completed, res.Failed)
			}

			result, _ := json.MarshalIndent(res, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))
}
