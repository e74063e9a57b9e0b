package project_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/omnifocus"
	"github.com/taskbridge/omnifocus-mcp/internal/server"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/common"
)

// RegisterProjectTools registers all project-related tools with the MCP
// server. Write tools are skipped in read-only mode.
func RegisterProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerListProjectsTool(s, sc)
	if !readOnly {
		registerAddProjectTool(s, sc)
		registerEditProjectTool(s, sc)
		registerRemoveProjectTool(s, sc)
	}
	return nil
}

func registerListProjectsTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listProjectsTool := mcp.NewTool("omnifocus_list_projects",
		mcp.WithDescription("List all projects with status, folder, task counts and review interval"),
	)

	s.AddTool(listProjectsTool, common.InstrumentedToolHandlerWithOperation("omnifocus_list_projects", "list_projects", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			projects, err := sc.Client().Projects(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list projects: %v", err)), nil
			}

			result, _ := json.MarshalIndent(projects, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))
}

func registerAddProjectTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	addProjectTool := mcp.NewTool("omnifocus_add_project",
		mcp.WithDescription("Create a new project. A named folder is created when it does not exist yet."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the project"),
		),
		mcp.WithString("folder",
			mcp.Description("Parent folder name"),
		),
		mcp.WithBoolean("sequential",
			mcp.Description("Whether tasks must be completed in order"),
		),
		mcp.WithString("review_interval",
			mcp.Description("Review frequency (e.g. '1 week', '2 days', '1 month')"),
		),
		mcp.WithString("completion_rule",
			mcp.Description("'last-action' to complete the project with its last task, or 'all-actions' (default)"),
		),
		mcp.WithString("note",
			mcp.Description("Note for the project"),
		),
	)

	s.AddTool(addProjectTool, common.InstrumentedToolHandlerWithOperation("omnifocus_add_project", "add_project", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			draft := omnifocus.ProjectDraft{Name: name}
			if v, ok := args["folder"].(string); ok {
				draft.Folder = v
			}
			if v, ok := args["sequential"].(bool); ok {
				draft.Sequential = v
			}
			if v, ok := args["review_interval"].(string); ok {
				draft.ReviewInterval = v
			}
			if v, ok := args["completion_rule"].(string); ok {
				draft.CompletionRule = v
			}
			if v, ok := args["note"].(string); ok {
				draft.Note = v
			}

			receipt, err := sc.Client().AddProject(ctx, draft)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create project: %v", err)), nil
			}

			result, _ := json.MarshalIndent(receipt, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Project created successfully:\n%s", string(result))), nil
		}))
}

func registerEditProjectTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	editProjectTool := mcp.NewTool("omnifocus_edit_project",
		mcp.WithDescription("Update an existing project. Only supplied fields change."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The OmniFocus project ID"),
		),
		mcp.WithString("name",
			mcp.Description("New project name"),
		),
		mcp.WithString("status",
			mcp.Description("New status: 'active', 'on-hold', 'dropped' or 'done'"),
		),
		mcp.WithString("review_interval",
			mcp.Description("New review frequency (e.g. '1 week')"),
		),
		mcp.WithBoolean("sequential",
			mcp.Description("Whether tasks are sequential"),
		),
		mcp.WithString("completion_rule",
			mcp.Description("'last-action' or 'all-actions'"),
		),
		mcp.WithString("folder",
			mcp.Description("Move the project to this folder; empty string moves it to the top level"),
		),
		mcp.WithString("note",
			mcp.Description("New note for the project"),
		),
	)

	s.AddTool(editProjectTool, common.InstrumentedToolHandlerWithOperation("omnifocus_edit_project", "edit_project", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			projectID, ok := args["project_id"].(string)
			if !ok || projectID == "" {
				return mcp.NewToolResultError("project_id is required"), nil
			}

			var edit omnifocus.ProjectEdit
			if v, ok := args["name"].(string); ok {
				edit.Name = &v
			}
			if v, ok := args["status"].(string); ok {
				edit.Status = &v
			}
			if v, ok := args["review_interval"].(string); ok {
				edit.ReviewInterval = &v
			}
			if v, ok := args["sequential"].(bool); ok {
				edit.Sequential = &v
			}
			if v, ok := args["completion_rule"].(string); ok {
				edit.CompletionRule = &v
			}
			if v, ok := args["folder"].(string); ok {
				edit.Folder = &v
			}
			if v, ok := args["note"].(string); ok {
				edit.Note = &v
			}

			receipt, err := sc.Client().EditProject(ctx, projectID, edit)
			if errors.Is(err, omnifocus.ErrNoUpdates) {
				return mcp.NewToolResultText("No updates specified"), nil
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to edit project: %v", err)), nil
			}

			result, _ := json.MarshalIndent(receipt, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Project updated successfully:\n%s", string(result))), nil
		}))
}

func registerRemoveProjectTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	removeProjectTool := mcp.NewTool("omnifocus_remove_project",
		mcp.WithDescription("Delete a project and the tasks it contains"),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The OmniFocus project ID"),
		),
	)

	s.AddTool(removeProjectTool, common.InstrumentedToolHandlerWithOperation("omnifocus_remove_project", "remove_project", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			projectID, ok := args["project_id"].(string)
			if !ok || projectID == "" {
				return mcp.NewToolResultError("project_id is required"), nil
			}

			removal, err := sc.Client().RemoveProject(ctx, projectID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to remove project: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Project '%s' removed successfully", removal.Name)), nil
		}))
}
