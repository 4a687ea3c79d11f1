package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/formalizer/pkg/adapters/mcp"
)

// ServeMCP runs the MCP server over the given transport ("stdio" or "sse").
func ServeMCP(ctx context.Context, app *App, transport, addr string) error {
	srv := mcp.NewServer(app.Engine,
		mcp.WithSessions(app.Sessions),
		mcp.WithLogger(app.Logger),
	)

	switch transport {
	case "stdio":
		app.Logger.Info("Starting Formalizer MCP Server (Stdio)...")
		return srv.ServeStdio()
	case "sse":
		if err := srv.ServeSSE(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		app.Logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}
}
