package perspective_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/server"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/common"
)

// RegisterPerspectiveTools registers the perspective tools with the MCP
// server.
func RegisterPerspectiveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listPerspectivesTool := mcp.NewTool("omnifocus_list_perspectives",
		mcp.WithDescription("List all perspectives, built-in and custom"),
	)

	s.AddTool(listPerspectivesTool, common.InstrumentedToolHandlerWithOperation("omnifocus_list_perspectives", "list_perspectives", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			perspectives, err := sc.Client().Perspectives(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list perspectives: %v", err)), nil
			}

			result, _ := json.MarshalIndent(perspectives, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	perspectiveTasksTool := mcp.NewTool("omnifocus_get_perspective_tasks",
		mcp.WithDescription("List the tasks visible in a custom perspective. Switches the frontmost OmniFocus window to that perspective."),
		mcp.WithString("perspective_name",
			mcp.Required(),
			mcp.Description("Name of the custom perspective"),
		),
	)

	s.AddTool(perspectiveTasksTool, common.InstrumentedToolHandlerWithOperation("omnifocus_get_perspective_tasks", "get_perspective_tasks", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			name, ok := args["perspective_name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("perspective_name is required"), nil
			}

			tasks, err := sc.Client().PerspectiveTasks(ctx, name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get perspective tasks: %v", err)), nil
			}

			result, _ := json.MarshalIndent(tasks, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}
