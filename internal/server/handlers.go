package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/panel-extractor/internal/imaging"
	"github.com/ironsheep/panel-extractor/internal/panels"
)

// errInvalidArgs marks tool arguments that are malformed or incomplete. It
// is reported with the JSON-RPC invalid params code.
var errInvalidArgs = errors.New("invalid arguments")

// errNoDetector is returned by page_text_regions when the server runs
// without a text detector.
var errNoDetector = errors.New("no text detector configured")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "panels_extract").
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
// Malformed arguments get code -32602; any other tool failure gets -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithFields(logrus.Fields{"tool": params.Name, "err": err}).Warn("tool call failed")
		if errors.Is(err, errInvalidArgs) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

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
	case "panels_extract":
		return s.handlePanelsExtract(ctx, args)
	case "page_classify":
		return s.handlePageClassify(args)
	case "page_text_regions":
		return s.handlePageTextRegions(ctx, args)
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// pageArgs names one page either inline or on disk.
type pageArgs struct {
	Image string `json:"image"`
	Path  string `json:"path"`
}

// load returns the encoded page bytes.
func (s *Server) load(a pageArgs) ([]byte, error) {
	switch {
	case a.Image != "" && a.Path != "":
		return nil, fmt.Errorf("%w: give either image or path, not both", errInvalidArgs)
	case a.Image != "":
		data, err := imaging.DecodeBase64(a.Image)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
		return data, nil
	case a.Path != "":
		return s.cache.Load(a.Path)
	default:
		return nil, fmt.Errorf("%w: image or path is required", errInvalidArgs)
	}
}

// === Panel Extraction ===

type extractArgs struct {
	Images         []string `json:"images"`
	Paths          []string `json:"paths"`
	KeepText       *bool    `json:"keep_text"`
	MinPctPanel    *float64 `json:"min_pct_panel"`
	MaxPctPanel    *float64 `json:"max_pct_panel"`
	PaperThreshold *float64 `json:"paper_th"`
}

// PageSummary describes one page of a panels_extract call.
type PageSummary struct {
	Index        int            `json:"index"`
	Verdict      string         `json:"verdict,omitempty"`
	MidtoneRatio float64        `json:"midtone_ratio"`
	TextRemoved  bool           `json:"text_removed"`
	Panels       []panels.Panel `json:"panels,omitempty"`
}

// ExtractResult is the panels_extract response.
type ExtractResult struct {
	// Panels maps the decimal input index to base64 PNG panels. A skipped
	// page maps to its original bytes.
	Panels   map[string][]string `json:"panels"`
	Failures map[string]string   `json:"failures,omitempty"`
	Pages    []PageSummary       `json:"pages"`
	Count    int                 `json:"count"`
}

func (s *Server) handlePanelsExtract(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a extractArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Images) == 0 && len(a.Paths) == 0 {
		return nil, fmt.Errorf("%w: images or paths is required", errInvalidArgs)
	}

	ex, err := s.extractorFor(a)
	if err != nil {
		return nil, err
	}

	// Inline images first, then paths; indices follow that order.
	pages := make([][]byte, 0, len(a.Images)+len(a.Paths))
	for i, img := range a.Images {
		data, err := imaging.DecodeBase64(img)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", errInvalidArgs, i, err)
		}
		pages = append(pages, data)
	}
	for _, p := range a.Paths {
		data, err := s.cache.Load(p)
		if err != nil {
			return nil, err
		}
		pages = append(pages, data)
	}

	results, err := ex.ExtractPages(ctx, pages)
	if err != nil {
		return nil, err
	}

	out := ExtractResult{Panels: map[string][]string{}, Pages: make([]PageSummary, 0, len(results))}
	for _, r := range results {
		key := strconv.Itoa(r.Index)
		if r.Err != nil {
			if out.Failures == nil {
				out.Failures = map[string]string{}
			}
			out.Failures[key] = r.Err.Error()
			continue
		}
		encoded := make([]string, len(r.Encoded))
		for i, data := range r.Encoded {
			encoded[i] = imaging.EncodeBase64(data)
		}
		out.Panels[key] = encoded
		out.Count += len(r.Panels)
		out.Pages = append(out.Pages, PageSummary{
			Index:        r.Index,
			Verdict:      r.Verdict.String(),
			MidtoneRatio: r.MidtoneRatio,
			TextRemoved:  r.TextRemoved,
			Panels:       r.Panels,
		})
	}
	return out, nil
}

// extractorFor returns the base extractor, or a new one when the call
// overrides any setting. Overrides that fail validation are invalid
// arguments.
func (s *Server) extractorFor(a extractArgs) (*panels.Extractor, error) {
	if a.KeepText == nil && a.MinPctPanel == nil && a.MaxPctPanel == nil && a.PaperThreshold == nil {
		return s.base, nil
	}
	cfg := s.base.Config()
	if a.KeepText != nil {
		cfg.KeepText = *a.KeepText
	}
	if a.MinPctPanel != nil {
		cfg.MinPctPanel = *a.MinPctPanel
	}
	if a.MaxPctPanel != nil {
		cfg.MaxPctPanel = *a.MaxPctPanel
	}
	if a.PaperThreshold != nil {
		cfg.PaperThreshold = *a.PaperThreshold
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidArgs, err)
	}
	return s.newExtractor(cfg)
}

// === Page Analysis ===

type classifyArgs struct {
	pageArgs
	PaperThreshold *float64 `json:"paper_th"`
}

// ClassifyResult is the page_classify response.
type ClassifyResult struct {
	Verdict      panels.Verdict `json:"verdict"`
	MidtoneRatio float64        `json:"midtone_ratio"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Format       string         `json:"format"`
}

func (s *Server) handlePageClassify(args json.RawMessage) (interface{}, error) {
	var a classifyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	threshold := s.cfg.PaperThreshold
	if a.PaperThreshold != nil {
		threshold = *a.PaperThreshold
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("%w: paper_th %v outside (0, 1)", errInvalidArgs, threshold)
	}

	data, err := s.load(a.pageArgs)
	if err != nil {
		return nil, err
	}
	page, format, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", panels.ErrDecode, err)
	}

	verdict, ratio := panels.Classify(page, threshold)
	return ClassifyResult{
		Verdict:      verdict,
		MidtoneRatio: ratio,
		Width:        page.Width(),
		Height:       page.Height(),
		Format:       format,
	}, nil
}

// TextRegionsResult is the page_text_regions response.
type TextRegionsResult struct {
	Label    string          `json:"label"`
	Polygons [][]image.Point `json:"polygons"`
	Count    int             `json:"count"`
}

func (s *Server) handlePageTextRegions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if s.detector == nil {
		return nil, errNoDetector
	}

	data, err := s.load(a)
	if err != nil {
		return nil, err
	}
	page, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", panels.ErrDecode, err)
	}

	dets, err := s.detector.Detect(ctx, []imaging.Raster{page})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", panels.ErrTextDetector, err)
	}
	if len(dets) != 1 {
		return nil, fmt.Errorf("%w: got %d detections for 1 image", panels.ErrTextDetector, len(dets))
	}

	polys := dets[0].Polygons
	if polys == nil {
		polys = [][]image.Point{}
	}
	return TextRegionsResult{Label: dets[0].Label, Polygons: polys, Count: len(polys)}, nil
}
