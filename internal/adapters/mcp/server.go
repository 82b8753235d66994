package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/picograph/internal/cartridge"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/graph"
	"github.com/aretw0/picograph/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NodesURI is the resource exposing the node catalogue.
const NodesURI = "picograph://nodes"

// CompileResult is the structured output of compile_graph.
type CompileResult struct {
	Source    string `json:"source" jsonschema_description:"Generated PICO-8 Lua source"`
	Cartridge string `json:"cartridge,omitempty" jsonschema_description:"Full .p8 cartridge when format is cart"`
}

// ValidateResult is the structured output of validate_graph.
type ValidateResult struct {
	Valid bool   `json:"valid" jsonschema_description:"True when the graph compiles"`
	Error string `json:"error,omitempty" jsonschema_description:"Reason the graph was rejected"`
	Kind  string `json:"kind,omitempty" jsonschema_description:"Error taxonomy entry"`
}

// Engine defines what the MCP server needs from picograph.
type Engine interface {
	Compile(ctx context.Context, g domain.Graph) (string, error)
	Validate(g domain.Graph) error
	Catalogue() *registry.Registry
}

// Server exposes an Engine as an MCP server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("picograph-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	compileTool := mcp.NewTool("compile_graph",
		mcp.WithDescription("Compile a picograph node graph (JSON or YAML document) into PICO-8 Lua."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Graph document with nodes and connections")),
		mcp.WithString("format", mcp.Description("lua (default) or cart for a full .p8 cartridge")),
		mcp.WithOutputSchema[CompileResult](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	validateTool := mcp.NewTool("validate_graph",
		mcp.WithDescription("Check a graph for structural errors without generating code."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Graph document with nodes and connections")),
		mcp.WithOutputSchema[ValidateResult](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List the node definitions available to graphs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := s.catalogueJSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) decode(args map[string]interface{}) (domain.Graph, error) {
	doc, _ := args["graph"].(string)
	if doc == "" {
		return domain.Graph{}, fmt.Errorf("%w: graph argument is empty", domain.ErrInvalidGraph)
	}
	g, err := graph.Decode([]byte(doc))
	if err != nil {
		return domain.Graph{}, fmt.Errorf("%w: %w", domain.ErrInvalidGraph, err)
	}
	return g, nil
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CompileResult, error) {
	g, err := s.decode(args)
	if err != nil {
		return CompileResult{}, err
	}
	src, err := s.engine.Compile(ctx, g)
	if err != nil {
		s.logger.Warn("MCP compile rejected", "kind", domain.ErrorKind(err), "error", err)
		return CompileResult{}, fmt.Errorf("%s: %w", domain.ErrorKind(err), err)
	}

	result := CompileResult{Source: src}
	if format, _ := args["format"].(string); format == "cart" {
		cart, err := cartridge.Merge(nil, src)
		if err != nil {
			return CompileResult{}, err
		}
		result.Cartridge = string(cart)
	}
	return result, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResult, error) {
	g, err := s.decode(args)
	if err == nil {
		err = s.engine.Validate(g)
	}
	if err != nil {
		return ValidateResult{Error: err.Error(), Kind: domain.ErrorKind(err)}, nil
	}
	return ValidateResult{Valid: true}, nil
}

func (s *Server) catalogueJSON() ([]byte, error) {
	modules := s.engine.Catalogue().List()
	defs := make([]domain.NodeDefinition, 0, len(modules))
	for _, m := range modules {
		defs = append(defs, m.Definition)
	}
	return json.Marshal(defs)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(NodesURI, "Node Catalogue",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.catalogueJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalogue: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      NodesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
