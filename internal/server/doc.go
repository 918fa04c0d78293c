// Package server implements the MCP (Model Context Protocol) server for
// Diablo IV item tooltip recognition.
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
//   - item_load: Load a screenshot and get its metadata
//   - item_preprocess: Crop, upscale and binarize; returns a PNG preview
//   - item_recognize: Raw recognised text of a screenshot
//   - item_parse: Parse recognised text into an item record
//   - item_analyze: Screenshot to item record in one call
//   - ocr_info: Recognition engine status
//
// Tools that take a screenshot accept either a file path or base64 image
// data, plus an optional crop region and upscale factor.
//
// # Image Caching
//
// Decoded screenshots loaded by path are kept in a bounded LRU cache. Only
// source images are cached; preprocessing always works on a copy.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: "오류가 발생했습니다." when recognition failed, otherwise a
//     short description
//   - data: the Go error string
//
// Every tools/call gets its own request ID, attached to all log lines written
// while the call runs.
//
// # Usage
//
//	p := pipeline.New(ocr.NewTesseract())
//	srv := server.New(p)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
