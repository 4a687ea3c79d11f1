package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/formalizer"
	"github.com/aretw0/formalizer/internal/logging"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
	"github.com/aretw0/formalizer/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TonesURI is the resource exposing the tone registry.
const TonesURI = "formalizer://tones"

// FormalizeArgs are the arguments of the formalize_email tool.
type FormalizeArgs struct {
	Text      string `json:"text"`
	Tone      string `json:"tone,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// FormalizeResult aligns with the HTTP response so both adapters answer alike.
type FormalizeResult struct {
	ID     string        `json:"id,omitempty" jsonschema_description:"History entry ID when a session was given"`
	Text   string        `json:"text" jsonschema_description:"The formal email"`
	Source domain.Source `json:"source" jsonschema_description:"remote when written by the model, fallback for the template"`
	Tone   string        `json:"tone" jsonschema_description:"Tone used"`
}

// Server wraps the Formalizer and exposes it as an MCP Server.
type Server struct {
	engine    ports.Formalizer
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSessions records formalizations that carry a session_id.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithLogger sets the logger. stdout belongs to the protocol, so it must not write there.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Formalizer, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("formalizer-mcp", strings.TrimSpace(formalizer.Version),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for tests and custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	names := make([]string, 0, len(domain.Tones()))
	for _, t := range domain.Tones() {
		names = append(names, t.Name)
	}

	// TOOL: formalize_email
	formalizeTool := mcp.NewTool("formalize_email",
		mcp.WithDescription("Rewrite a casual message (3 to 500 words) into a professional email in the requested tone."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The casual message to rewrite")),
		mcp.WithString("tone", mcp.Enum(names...), mcp.Description("Tone of the email (default "+domain.DefaultTone+")")),
		mcp.WithString("session_id", mcp.Description("Record the result in this session's history (optional)")),
		mcp.WithOutputSchema[FormalizeResult](),
	)
	s.mcpServer.AddTool(formalizeTool, mcp.NewStructuredToolHandler(s.handleFormalize))

	// TOOL: validate_text
	s.mcpServer.AddTool(mcp.NewTool("validate_text",
		mcp.WithDescription("Check whether a message is acceptable input without formalizing it."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The message to check")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		jsonBytes, _ := json.Marshal(s.engine.Validate(text))
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: list_tones
	s.mcpServer.AddTool(mcp.NewTool("list_tones",
		mcp.WithDescription("List the available tones in display order."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.engine.Tones())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleFormalize(ctx context.Context, request mcp.CallToolRequest, args FormalizeArgs) (FormalizeResult, error) {
	if args.Tone == "" {
		args.Tone = domain.DefaultTone
	}
	if _, ok := domain.LookupTone(args.Tone); !ok {
		return FormalizeResult{}, fmt.Errorf("unknown tone %q", args.Tone)
	}

	if args.SessionID != "" && s.sessions != nil {
		entry, err := s.sessions.Formalize(ctx, args.SessionID, args.Text, args.Tone)
		if err != nil && entry.FormalText == "" {
			return FormalizeResult{}, toolError(err)
		}
		if err != nil {
			s.logger.Warn("MCP Formalize: history not recorded", "err", err, "session_id", args.SessionID)
			entry.ID = ""
		}
		return FormalizeResult{ID: entry.ID, Text: entry.FormalText, Source: entry.Source, Tone: entry.Tone}, nil
	}

	out, err := s.engine.Formalize(ctx, args.Text, args.Tone)
	if err != nil {
		return FormalizeResult{}, toolError(err)
	}
	return FormalizeResult{Text: out.Text, Source: out.Source, Tone: out.Tone}, nil
}

// toolError turns validation failures into the user-facing message.
func toolError(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return errors.New(verr.Reason.Message())
	}
	return err
}

func (s *Server) registerResources() {
	// EXPOSE: formalizer://tones
	s.mcpServer.AddResource(mcp.NewResource(TonesURI, "Available Tones",
		mcp.WithResourceDescription("Tone registry with prompt modifiers, salutations and closings"),
		mcp.WithMIMEType("application/json"),
	), s.handleTonesResource)
}

func (s *Server) handleTonesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.engine.Tones())
	if err != nil {
		return nil, fmt.Errorf("failed to encode tones: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TonesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
