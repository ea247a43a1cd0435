package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pageProperties are the two ways of naming a single page.
func pageProperties() map[string]interface{} {
	return map[string]interface{}{
		"image": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded page image (PNG, JPEG, GIF, BMP, TIFF or WebP). A data: URL prefix is accepted.",
		},
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the page image file",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	classifyProps := pageProperties()
	classifyProps["paper_th"] = map[string]interface{}{
		"type":        "number",
		"description": "Midtone ratio at and above which the page counts as textured paper and is skipped. Default 0.35",
		"default":     0.35,
	}

	return []Tool{
		{
			Name:        "panels_extract",
			Description: "Cut comic pages into individual panels. Text is erased before segmentation unless keep_text is set. Returns base64 PNG panels keyed by input index; pages with textured paper are returned unchanged as a single entry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"images": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Base64-encoded page images. Indexed first, in order.",
					},
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to page images. Indexed after images, in order.",
					},
					"keep_text": map[string]interface{}{
						"type":        "boolean",
						"description": "Skip text removal. Default false",
						"default":     false,
					},
					"min_pct_panel": map[string]interface{}{
						"type":        "number",
						"description": "Smallest panel area as a percentage of the page. Default 2",
						"default":     2,
					},
					"max_pct_panel": map[string]interface{}{
						"type":        "number",
						"description": "Largest panel area as a percentage of the page. Default 90",
						"default":     90,
					},
					"paper_th": map[string]interface{}{
						"type":        "number",
						"description": "Midtone ratio at and above which a page is skipped. Default 0.35",
						"default":     0.35,
					},
				},
			},
		},
		{
			Name:        "page_classify",
			Description: "Check whether a page is clean black-and-white line art (processable) or shows paper texture (skip), with the midtone ratio behind the verdict.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": classifyProps,
			},
		},
		{
			Name:        "page_text_regions",
			Description: "Find the lettering on a page with the configured text detector. Returns one polygon per region in page pixel coordinates.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pageProperties(),
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
