// Package server implements the MCP (Model Context Protocol) server for test
// card analysis.
//
// This package provides a JSON-RPC 2.0 server that exposes the card reader
// through the MCP protocol, so that an assistant can read a lateral-flow test
// card from a photo and explain the result.
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
//   - image_load: Load a photo and get metadata
//   - card_analyze: Run the full pipeline and return a result code
//   - card_locate_markers: Find the corner markers only
//   - card_sample_colors: Sample swatches and spots without classifying
//   - card_crop: Crop the photo to the marker frame
//
// The card tools accept row_stride, ratio_tolerance and dedup_distance to
// override the scanner settings for one call.
//
// # Result Codes
//
// card_analyze always succeeds once the photo is loaded. A card that cannot
// be read is reported through its code (BADFPS, BADSWC, BADSMP, BADPOS,
// BADNEG or ERROR), never as a JSON-RPC error.
//
// # Image Caching
//
// Decoded photos are cached by path for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.WithConfig(cfg), server.WithLogger(log))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
