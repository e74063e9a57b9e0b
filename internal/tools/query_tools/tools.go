package query_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/omnifocus"
	"github.com/taskbridge/omnifocus-mcp/internal/server"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/batch"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/common"
)

// listHandler adapts a client listing method into an MCP tool handler
// returning the rows as indented JSON.
func listHandler[T any](sc *server.ServerContext, failure string, list func(ctx context.Context, c *omnifocus.Client) ([]T, error)) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rows, err := list(ctx, sc.Client())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", failure, err)), nil
		}

		result, _ := json.MarshalIndent(rows, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

// RegisterQueryTools registers all task query tools with the MCP server.
func RegisterQueryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	inboxTool := mcp.NewTool("omnifocus_get_inbox_tasks",
		mcp.WithDescription("List all tasks in the OmniFocus inbox"),
	)
	s.AddTool(inboxTool, common.InstrumentedToolHandlerWithOperation("omnifocus_get_inbox_tasks", "get_inbox_tasks", sc,
		listHandler(sc, "Failed to get inbox tasks", func(ctx context.Context, c *omnifocus.Client) ([]omnifocus.Task, error) {
			return c.InboxTasks(ctx)
		})))

	flaggedTool := mcp.NewTool("omnifocus_get_flagged_tasks",
		mcp.WithDescription("List all incomplete flagged tasks with their effective due and defer dates"),
	)
	s.AddTool(flaggedTool, common.InstrumentedToolHandlerWithOperation("omnifocus_get_flagged_tasks", "get_flagged_tasks", sc,
		listHandler(sc, "Failed to get flagged tasks", func(ctx context.Context, c *omnifocus.Client) ([]omnifocus.Task, error) {
			return c.FlaggedTasks(ctx)
		})))

	forecastTool := mcp.NewTool("omnifocus_get_forecast_tasks",
		mcp.WithDescription("List incomplete tasks that are due within the next 7 days or flagged"),
	)
	s.AddTool(forecastTool, common.InstrumentedToolHandlerWithOperation("omnifocus_get_forecast_tasks", "get_forecast_tasks", sc,
		listHandler(sc, "Failed to get forecast tasks", func(ctx context.Context, c *omnifocus.Client) ([]omnifocus.Task, error) {
			return c.ForecastTasks(ctx)
		})))

	completedTodayTool := mcp.NewTool("omnifocus_get_completed_today",
		mcp.WithDescription("List tasks completed since local midnight"),
	)
	s.AddTool(completedTodayTool, common.InstrumentedToolHandlerWithOperation("omnifocus_get_completed_today", "get_completed_today", sc,
		listHandler(sc, "Failed to get completed tasks", func(ctx context.Context, c *omnifocus.Client) ([]omnifocus.CompletedTask, error) {
			return c.CompletedToday(ctx)
		})))

	byTagTool := mcp.NewTool("omnifocus_get_tasks_by_tag",
		mcp.WithDescription("List incomplete tasks carrying the named tag. An unknown tag yields an empty list."),
		mcp.WithString("tag_name",
			mcp.Required(),
			mcp.Description("The tag name to match"),
		),
	)
	s.AddTool(byTagTool, common.InstrumentedToolHandlerWithOperation("omnifocus_get_tasks_by_tag", "get_tasks_by_tag", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			tagName, ok := args["tag_name"].(string)
			if !ok || tagName == "" {
				return mcp.NewToolResultError("tag_name is required"), nil
			}

			tasks, err := sc.Client().TasksByTag(ctx, tagName)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get tasks by tag: %v", err)), nil
			}

			result, _ := json.MarshalIndent(tasks, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	registerFilterTool(s, sc)

	return nil
}

func registerFilterTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	filterTool := mcp.NewTool("omnifocus_filter_tasks",
		mcp.WithDescription("List tasks matching all given criteria. Completed tasks are excluded unless include_completed is set."),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include completed tasks (default: false)"),
		),
		mcp.WithString("project_name",
			mcp.Description("Only tasks in the project with this exact name"),
		),
		mcp.WithBoolean("has_due_date",
			mcp.Description("Only tasks that have a due date"),
		),
		mcp.WithBoolean("is_flagged",
			mcp.Description("Require this exact flagged state"),
		),
		mcp.WithString("tag_names",
			mcp.Description("Tag name (string) or array of tag names; tasks must carry all of them"),
		),
		mcp.WithString("search_text",
			mcp.Description("Case-insensitive substring matched against task name or note"),
		),
	)

	s.AddTool(filterTool, common.InstrumentedToolHandlerWithOperation("omnifocus_filter_tasks", "filter_tasks", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			var f omnifocus.Filter
			if v, ok := args["include_completed"].(bool); ok {
				f.IncludeCompleted = v
			}
			if v, ok := args["project_name"].(string); ok {
				f.ProjectName = v
			}
			if v, ok := args["has_due_date"].(bool); ok {
				f.HasDueDate = &v
			}
			if v, ok := args["is_flagged"].(bool); ok {
				f.IsFlagged = &v
			}
			if v, ok := args["search_text"].(string); ok {
				f.SearchText = v
			}
			if raw, ok := args["tag_names"]; ok && raw != nil {
				tags, err := batch.ParseStringOrArray(raw, "tag_names")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				f.TagNames = tags
			}

			tasks, err := sc.Client().FilterTasks(ctx, f)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to filter tasks: %v", err)), nil
			}

			result, _ := json.MarshalIndent(tasks, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))
}
