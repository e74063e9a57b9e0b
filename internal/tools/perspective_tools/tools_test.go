package perspective_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/server"
)

func TestRegisterPerspectiveTools(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)
	defer sc.Shutdown()

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterPerspectiveTools(s, sc); err != nil {
		t.Fatalf("RegisterPerspectiveTools() error = %v", err)
	}
}
