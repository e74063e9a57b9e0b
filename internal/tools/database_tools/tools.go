package database_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/server"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/common"
)

// defaultDumpDepth bounds task hierarchy recursion when the caller does not
// say otherwise.
const defaultDumpDepth = 3

// RegisterDatabaseTools registers the database-wide tools with the MCP
// server.
func RegisterDatabaseTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTagsTool := mcp.NewTool("omnifocus_list_tags",
		mcp.WithDescription("List all tags with their task counts"),
	)

	s.AddTool(listTagsTool, common.InstrumentedToolHandlerWithOperation("omnifocus_list_tags", "list_tags", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			tags, err := sc.Client().Tags(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list tags: %v", err)), nil
			}

			result, _ := json.MarshalIndent(tags, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	dumpTool := mcp.NewTool("omnifocus_dump_database",
		mcp.WithDescription("Export the whole database: projects with task trees, tags, inbox and statistics"),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include completed tasks (default: false)"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Task hierarchy recursion depth (default: 3; 0 yields metadata and stats with empty task lists)"),
		),
	)

	s.AddTool(dumpTool, common.InstrumentedToolHandlerWithOperation("omnifocus_dump_database", "dump_database", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			includeCompleted := false
			if v, ok := args["include_completed"].(bool); ok {
				includeCompleted = v
			}

			maxDepth := defaultDumpDepth
			if v, ok := args["max_depth"].(float64); ok {
				if v < 0 {
					return mcp.NewToolResultError("max_depth must not be negative"), nil
				}
				maxDepth = int(v)
			}

			dump, err := sc.Client().DumpDatabase(ctx, includeCompleted, maxDepth)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to dump database: %v", err)), nil
			}

			result, _ := json.MarshalIndent(dump, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}
