package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/item-ocr-mcp/internal/imaging"
	"github.com/ironsheep/item-ocr-mcp/internal/ocr"
	"github.com/ironsheep/item-ocr-mcp/internal/pipeline"
)

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailure    = -32000
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "item-ocr-mcp"

	// maxLineSize bounds one request line; base64 screenshots are large.
	maxLineSize = 32 * 1024 * 1024
)

// Server handles MCP protocol communication
type Server struct {
	pipeline *pipeline.Pipeline
	cache    *imaging.ImageCache
	info     func() ocr.Info
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithCache replaces the default decoded-image cache.
func WithCache(c *imaging.ImageCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithEngineInfo sets the function reporting recognition engine status for
// the ocr_info tool.
func WithEngineInfo(fn func() ocr.Info) Option {
	return func(s *Server) { s.info = fn }
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server around p.
func New(p *pipeline.Pipeline, opts ...Option) *Server {
	s := &Server{
		pipeline: p,
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = imaging.NewImageCache(imaging.DefaultCacheSize)
	}
	if s.info == nil {
		s.info = func() ocr.Info {
			return ocr.Info{Backend: "unknown", Error: "engine status not reported"}
		}
	}
	return s
}

// Run serves MCP over stdin/stdout until stdin closes or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to
// w. Requests are handled in order.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		// Increase buffer size for large requests
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, maxLineSize)

		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	encoder := json.NewEncoder(w)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("scanner error: %w", err)
					}
				default:
				}
				return nil
			}
			if len(line) == 0 {
				continue
			}

			resp := s.handleLine(ctx, line)
			if resp != nil {
				if err := encoder.Encode(resp); err != nil {
					slog.Default().Error("Failed to encode response", "error", err)
				}
			}
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line []byte) *MCPResponse {
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		slog.Default().Warn("Failed to parse request", "error", err)
		return s.errorResponse(nil, codeParseError, "Parse error", err.Error())
	}
	return s.handleRequest(ctx, &req)
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    serverName,
				"version": s.version,
			},
		},
	}
}
