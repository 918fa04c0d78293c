package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Tool names.
const (
	toolLoad       = "item_load"
	toolPreprocess = "item_preprocess"
	toolRecognize  = "item_recognize"
	toolParse      = "item_parse"
	toolAnalyze    = "item_analyze"
	toolOCRInfo    = "ocr_info"
)

// imageSourceProperties are shared by every tool that takes a screenshot.
// Exactly one of path and image_base64 must be given.
func imageSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the screenshot (PNG, JPEG, GIF, BMP, TIFF or WebP)",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Screenshot as base64, optionally as a data: URL. Use instead of path.",
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional tooltip rectangle to crop before processing; x2/y2 are exclusive",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Optional upscale factor applied before binarization (1-4). Default is the server setting.",
			"minimum":     1,
			"maximum":     4,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        toolLoad,
			Description: "Load a screenshot and return its dimensions, format and file size. The decoded image is cached for later calls with the same path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        toolPreprocess,
			Description: "Crop, upscale and binarize a screenshot the way it is prepared for recognition, and return the black-and-white result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},
		{
			Name:        toolRecognize,
			Description: "Preprocess a screenshot and return the raw recognised text without parsing it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},
		{
			Name:        toolParse,
			Description: "Parse already recognised Diablo IV tooltip text into name, type, item power, required level and affix options.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Recognised tooltip text, one line per tooltip row",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        toolAnalyze,
			Description: "Run the full pipeline on a Diablo IV tooltip screenshot: preprocess, recognise and parse. Returns the item record, the raw text and a plain-text rendering.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},
		{
			Name:        toolOCRInfo,
			Description: "Report whether the recognition engine is available, its version and configured languages, plus the number of cached screenshots and the recognised item types.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
