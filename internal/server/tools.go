package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// detectorProperties are the edge detector arguments shared by
// astro_edge_detect and astro_count.
func detectorProperties() map[string]interface{} {
	return map[string]interface{}{
		"min_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Weak edge threshold on gradient magnitude, 0-254 (default 22)",
			"default":     22,
		},
		"max_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Strong edge threshold on gradient magnitude, 1-255, above min_threshold (default 46)",
			"default":     46,
		},
		"channel": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"gray", "red", "green", "blue"},
			"description": "Intensity source for edge detection (default gray)",
			"default":     "gray",
		},
		"blur_sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur sigma applied before the gradient, 0 disables (default 1.4)",
			"default":     1.4,
		},
		"max_link_hops": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum distance in pixels a weak edge chain may extend from a strong edge, 0 for unbounded (default from server configuration, 200)",
		},
	}
}

func mergeProperties(dst map[string]interface{}, src map[string]interface{}) map[string]interface{} {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a micrograph and return its dimensions, format and whether it is grayscale. The image is cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Astrocyte Analysis
		{
			Name:        "astro_edge_detect",
			Description: "Run Canny edge detection (blur, Sobel gradient, non-maximum suppression, double threshold, hysteresis linking) and return the binary edge mask, or the edges painted over the source, as a PNG with linking statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty(),
					"close_iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Dilate then erode passes applied to the mask to close small gaps (default 0)",
						"default":     0,
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Paint edges over the source image instead of returning the bare mask (default false)",
						"default":     false,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Overlay edge colour as hex (default #7FFA02)",
						"default":     "#7FFA02",
					},
				}, detectorProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "astro_count",
			Description: "Count astrocytes in a micrograph. Detects edges (or uses a supplied mask), traces closed contours, keeps those whose size, shape and interior darkness match the band thresholds for their position, and returns the count, the accepted objects, rejection metrics and the source with each object marked.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty(),
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional single channel edge mask with the same size as the image. When set, edge detection is skipped.",
					},
					"close_iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Dilate then erode passes applied to the detected mask before tracing (default 2)",
						"default":     2,
					},
					"marker_color": map[string]interface{}{
						"type":        "string",
						"description": "Colour of the disc drawn on each counted object (default #03F06C)",
						"default":     "#03F06C",
					},
					"marker_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Radius of the object marker in pixels (default 3)",
						"default":     3,
					},
					"show_bands": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw the band boundaries on the output image (default false)",
						"default":     false,
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the annotated image (default true)",
						"default":     true,
					},
				}, detectorProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "astro_bands",
			Description: "Return the active classification band table: the y ranges and the area, bounding box, aspect ratio, compactness and intensity limits applied in each.",
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
