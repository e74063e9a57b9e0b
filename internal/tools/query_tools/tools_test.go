package query_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/server"
)

func TestRegisterQueryTools(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)
	defer sc.Shutdown()

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterQueryTools(s, sc); err != nil {
		t.Fatalf("RegisterQueryTools() error = %v", err)
	}
}
