// Package server implements the MCP (Model Context Protocol) server for the
// panel extractor.
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
//   - panels_extract: Cut a batch of pages into panels
//   - page_classify: Run the paper texture check on one page
//   - page_text_regions: Show what the text detector would erase
//
// Pages are passed inline as base64 or by absolute path. Files read by path
// are cached by the server for its lifetime, so repeated calls on the same
// page do not touch the disk again.
//
// # Error Handling
//
// Malformed tool arguments are answered with code -32602 (invalid params).
// Other tool failures, such as an unreadable file or a detector that fails
// for page_text_regions, get code -32000. Per-page failures inside
// panels_extract do not fail the call; they are listed under "failures".
//
// # Usage
//
//	srv, err := server.New(cfg, detector, server.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx)
//
// Logs must not go to stdout, which carries the protocol.
package server
