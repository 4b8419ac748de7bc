package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/astrocyte-mcp/internal/detection"
	"github.com/ironsheep/astrocyte-mcp/internal/edge"
	"github.com/ironsheep/astrocyte-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "astro_count").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug().Str("tool", params.Name).Dur("elapsed", time.Since(start)).Msg("tool executed")

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Astrocyte Analysis
	case "astro_edge_detect":
		return s.handleAstroEdgeDetect(args)
	case "astro_count":
		return s.handleAstroCount(args)
	case "astro_bands":
		return s.handleAstroBands(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
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

// unmarshalArgs decodes tool arguments. Tools without required arguments
// accept an absent arguments object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Astrocyte Analysis Handlers ===

// detectorArgs are the optional edge detector overrides. Pointer fields
// distinguish an explicit zero from an absent argument.
type detectorArgs struct {
	MinThreshold *int     `json:"min_threshold"`
	MaxThreshold *int     `json:"max_threshold"`
	Channel      string   `json:"channel"`
	BlurSigma    *float64 `json:"blur_sigma"`
	MaxLinkHops  *int     `json:"max_link_hops"`
}

// edgeConfig applies the overrides to the server's detector configuration.
func (a detectorArgs) edgeConfig(base edge.Config) edge.Config {
	cfg := base
	if a.MinThreshold != nil {
		cfg.Thresholds.Min = *a.MinThreshold
	}
	if a.MaxThreshold != nil {
		cfg.Thresholds.Max = *a.MaxThreshold
	}
	if a.Channel != "" {
		cfg.Channel = imaging.Channel(a.Channel)
	}
	if a.BlurSigma != nil {
		cfg.BlurSigma = *a.BlurSigma
	}
	if a.MaxLinkHops != nil {
		cfg.MaxLinkHops = *a.MaxLinkHops
	}
	return cfg
}

// detectEdges runs the detector configured by a over img and closes gaps in
// the resulting mask.
func (s *Server) detectEdges(img image.Image, a detectorArgs, closeIterations int) (*image.Gray, *edge.Result, error) {
	d, err := edge.NewDetector(a.edgeConfig(s.cfg.EdgeConfig()), s.root)
	if err != nil {
		return nil, nil, err
	}
	res, err := d.Detect(img)
	if err != nil {
		return nil, nil, err
	}
	mask := res.Mask
	if closeIterations > 0 {
		mask = imaging.CloseGaps(mask, closeIterations)
	}
	return mask, res, nil
}

func countEdgePixels(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v == 255 {
			n++
		}
	}
	return n
}

type astroEdgeDetectArgs struct {
	Path string `json:"path"`
	detectorArgs
	CloseIterations int    `json:"close_iterations"`
	Overlay         bool   `json:"overlay"`
	Color           string `json:"color"`
}

// EdgeDetectResult is the output of astro_edge_detect.
type EdgeDetectResult struct {
	*imaging.ImageResult

	MinThreshold   int            `json:"min_threshold"`
	MaxThreshold   int            `json:"max_threshold"`
	Channel        string         `json:"channel"`
	EdgePixels     int            `json:"edge_pixels"`
	Link           edge.LinkStats `json:"link"`
	GradientMean   float64        `json:"gradient_mean"`
	GradientStdDev float64        `json:"gradient_stddev"`
}

func (s *Server) handleAstroEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a astroEdgeDetectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	mask, res, err := s.detectEdges(img, a.detectorArgs, a.CloseIterations)
	if err != nil {
		return nil, err
	}

	var out image.Image = mask
	if a.Overlay {
		hex := a.Color
		if hex == "" {
			hex = imaging.DefaultEdgeColor
		}
		c, err := imaging.ParseColor(hex)
		if err != nil {
			return nil, err
		}
		out, err = imaging.EdgeOverlay(img, mask, c)
		if err != nil {
			return nil, err
		}
	}

	encoded, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}

	cfg := a.edgeConfig(s.cfg.EdgeConfig())
	ch, _ := imaging.ParseChannel(string(cfg.Channel))
	return &EdgeDetectResult{
		ImageResult:    encoded,
		MinThreshold:   cfg.Thresholds.Min,
		MaxThreshold:   cfg.Thresholds.Max,
		Channel:        string(ch),
		EdgePixels:     countEdgePixels(mask),
		Link:           res.Link,
		GradientMean:   res.GradientMean,
		GradientStdDev: res.GradientStdDev,
	}, nil
}

type astroCountArgs struct {
	Path     string `json:"path"`
	MaskPath string `json:"mask_path"`
	detectorArgs
	CloseIterations *int   `json:"close_iterations"`
	MarkerColor     string `json:"marker_color"`
	MarkerRadius    *int   `json:"marker_radius"`
	ShowBands       bool   `json:"show_bands"`
	IncludeImage    *bool  `json:"include_image"`
}

// CountResult is the output of astro_count.
type CountResult struct {
	Count   int                `json:"count"`
	Objects []detection.Object `json:"objects"`
	Metrics detection.Metrics  `json:"metrics"`

	// MaskSource is "detected" or "file".
	MaskSource string          `json:"mask_source"`
	Link       *edge.LinkStats `json:"link,omitempty"`

	Image *imaging.ImageResult `json:"image,omitempty"`
}

func (s *Server) handleAstroCount(args json.RawMessage) (interface{}, error) {
	var a astroCountArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.CloseIterations == nil {
		n := imaging.DefaultCloseIterations
		a.CloseIterations = &n
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	result := &CountResult{}
	var mask *image.Gray
	if a.MaskPath != "" {
		m, err := s.cache.Load(a.MaskPath)
		if err != nil {
			return nil, err
		}
		if mask, err = detection.AsMask(m); err != nil {
			return nil, err
		}
		result.MaskSource = "file"
	} else {
		var res *edge.Result
		mask, res, err = s.detectEdges(img, a.detectorArgs, *a.CloseIterations)
		if err != nil {
			return nil, err
		}
		result.MaskSource = "detected"
		result.Link = &res.Link
	}

	cfg := s.cfg.ClassifierConfig()
	if a.MarkerColor != "" {
		if cfg.MarkerColor, err = imaging.ParseColor(a.MarkerColor); err != nil {
			return nil, err
		}
	}
	if a.MarkerRadius != nil {
		cfg.MarkerRadius = *a.MarkerRadius
	}
	classifier, err := detection.NewClassifier(cfg, s.root)
	if err != nil {
		return nil, err
	}

	out, res, err := classifier.Run(mask, img, s.tracer)
	if err != nil {
		return nil, err
	}
	result.Count = res.Count
	result.Objects = res.Objects
	result.Metrics = res.Metrics

	if a.IncludeImage == nil || *a.IncludeImage {
		if a.ShowBands {
			classifier.AnnotateBands(out, imaging.DefaultBandColor)
		}
		if result.Image, err = imaging.EncodePNG(out); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("path", a.Path).
		Str("mask", result.MaskSource).
		Int("count", result.Count).
		Int("candidates", result.Metrics.Candidates).
		Msg("astrocytes counted")

	return result, nil
}

// BandsResult is the output of astro_bands.
type BandsResult struct {
	// Source is the band file path or "built-in".
	Source string `json:"source"`

	detection.BandTable
}

func (s *Server) handleAstroBands(args json.RawMessage) (interface{}, error) {
	source := s.cfg.BandsPath
	if source == "" {
		source = "built-in"
	}
	return &BandsResult{Source: source, BandTable: s.cfg.Bands}, nil
}
