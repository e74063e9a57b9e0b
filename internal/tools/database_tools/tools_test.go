package database_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/server"
)

func TestRegisterDatabaseTools(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)
	defer sc.Shutdown()

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterDatabaseTools(s, sc); err != nil {
		t.Fatalf("RegisterDatabaseTools() error = %v", err)
	}
}
