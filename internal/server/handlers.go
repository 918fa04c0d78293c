package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/item-ocr-mcp/internal/imaging"
	"github.com/ironsheep/item-ocr-mcp/internal/item"
	"github.com/ironsheep/item-ocr-mcp/internal/logger"
	"github.com/ironsheep/item-ocr-mcp/internal/ocr"
	"github.com/ironsheep/item-ocr-mcp/internal/pipeline"
	"github.com/ironsheep/item-ocr-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "item_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// When recognition itself failed the message is pipeline.GenericErrorNotice and the
// detail is in data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	log := logger.FromContext(ctx).With("tool", params.Name)
	start := time.Now()

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.Warn("Tool call failed", "error", err, "duration", time.Since(start))
		if errors.Is(err, pipeline.ErrRecognition) {
			return s.errorResponse(req.ID, codeToolFailure, pipeline.GenericErrorNotice, err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailure, "Tool execution failed", err.Error())
	}
	log.Debug("Tool call completed", "duration", time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case toolLoad:
		return s.handleItemLoad(args)
	case toolPreprocess:
		return s.handleItemPreprocess(args)
	case toolRecognize:
		return s.handleItemRecognize(ctx, args)
	case toolParse:
		return s.handleItemParse(args)
	case toolAnalyze:
		return s.handleItemAnalyze(ctx, args)
	case toolOCRInfo:
		return s.handleOCRInfo(), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   mcpErr,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageArgs selects a screenshot and its preprocessing.
type imageArgs struct {
	Path        string          `json:"path"`
	ImageBase64 string          `json:"image_base64"`
	Region      *imaging.Region `json:"region"`
	Scale       float64         `json:"scale"`
}

func (a imageArgs) options() pipeline.Options {
	return pipeline.Options{Region: a.Region, Scale: a.Scale}
}

func (s *Server) decodeImageArgs(args json.RawMessage) (imageArgs, image.Image, error) {
	var a imageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, nil, err
	}
	if a.Scale != 0 && (a.Scale < 1 || a.Scale > imaging.MaxUpscale) {
		return a, nil, fmt.Errorf("scale must be between 1 and %g", imaging.MaxUpscale)
	}

	switch {
	case a.Path != "" && a.ImageBase64 != "":
		return a, nil, fmt.Errorf("give either path or image_base64, not both")
	case a.Path != "":
		img, err := s.cache.Load(a.Path)
		return a, img, err
	case a.ImageBase64 != "":
		img, _, err := imaging.DecodeBase64(a.ImageBase64)
		return a, img, err
	default:
		return a, nil, fmt.Errorf("path or image_base64 is required")
	}
}

type itemLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleItemLoad(args json.RawMessage) (interface{}, error) {
	var a itemLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type preprocessResult struct {
	*imaging.EncodedImage
	Threshold uint8 `json:"threshold"`
}

func (s *Server) handleItemPreprocess(args json.RawMessage) (interface{}, error) {
	a, img, err := s.decodeImageArgs(args)
	if err != nil {
		return nil, err
	}
	prepared, err := s.pipeline.Prepare(img, a.options())
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodeBase64PNG(prepared)
	if err != nil {
		return nil, err
	}
	return preprocessResult{EncodedImage: encoded, Threshold: s.pipeline.Threshold()}, nil
}

type recognizeResult struct {
	Text string `json:"text"`
}

func (s *Server) handleItemRecognize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, img, err := s.decodeImageArgs(args)
	if err != nil {
		return nil, err
	}
	text, _, err := s.pipeline.Recognize(ctx, img, a.options())
	if err != nil {
		return nil, err
	}
	return recognizeResult{Text: text}, nil
}

type itemParseArgs struct {
	Text string `json:"text"`
}

func (s *Server) handleItemParse(args json.RawMessage) (interface{}, error) {
	var a itemParseArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.pipeline.Parse(a.Text), nil
}

type analyzeResult struct {
	Item     item.DiabloItem `json:"item"`
	Text     string          `json:"text"`
	Rendered string          `json:"rendered"`
}

func (s *Server) handleItemAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, img, err := s.decodeImageArgs(args)
	if err != nil {
		return nil, err
	}
	res, err := s.pipeline.Analyze(ctx, img, a.options())
	if err != nil {
		return nil, err
	}
	return analyzeResult{
		Item:     res.Item,
		Text:     res.Text,
		Rendered: render.New(false).String(res.Item),
	}, nil
}

// infoResult extends the engine status with the server's own state.
type infoResult struct {
	ocr.Info
	CachedImages int      `json:"cached_images"`
	ItemTypes    []string `json:"item_types"`
}

func (s *Server) handleOCRInfo() infoResult {
	return infoResult{
		Info:         s.info(),
		CachedImages: s.cache.Len(),
		ItemTypes:    s.pipeline.Parser().Vocabulary().TypeLabels,
	}
}
