// Package mcpserver provides an MCP (Model Context Protocol) server adapter
// for the chat history store and the annual summary engine. It lets AI
// assistants browse recorded sessions and request sanitized year-in-review
// summaries.
package mcpserver

import "errors"

// ErrMissingStore is returned when no history store is provided.
var ErrMissingStore = errors.New("mcpserver: history store is required")

// ErrMissingEngine is returned when no summary engine is provided.
var ErrMissingEngine = errors.New("mcpserver: summary engine is required")
