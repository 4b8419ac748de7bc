// Package server implements the MCP (Model Context Protocol) server for
// astrocyte counting.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Astrocyte Analysis:
//   - astro_edge_detect: Canny edge mask or edge overlay with linking statistics
//   - astro_count: Edge detection, contour tracing and classification; returns
//     the count, the accepted objects and an annotated image
//   - astro_bands: The active classification band table
//
// Detector and classifier defaults come from the server's config.Config;
// tool arguments override them per call.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime of
// the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
