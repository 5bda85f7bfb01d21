package models

import (
	"fmt"
	"strings"
)

// DebugTrace accumulates human-readable diagnostics for one location's
// failure path, plus an optional screenshot of what the browser saw. It is
// handed to the debug sink at the pipeline boundary and never blocks the main
// pipeline.
type DebugTrace struct {
	Location   string
	Messages   []string
	Screenshot []byte
}

// NewDebugTrace creates an empty trace for a location.
func NewDebugTrace(location string) *DebugTrace {
	return &DebugTrace{Location: location}
}

// Add appends a diagnostic message to the trace.
func (t *DebugTrace) Add(message string) {
	t.Messages = append(t.Messages, message)
}

// Addf appends a formatted diagnostic message to the trace.
func (t *DebugTrace) Addf(format string, args ...interface{}) {
	t.Messages = append(t.Messages, fmt.Sprintf(format, args...))
}

// HasMessages reports whether any diagnostics were recorded.
func (t *DebugTrace) HasMessages() bool {
	return len(t.Messages) > 0
}

// Text returns the accumulated diagnostics as a single newline-joined block.
func (t *DebugTrace) Text() string {
	return strings.Join(t.Messages, "\n")
}
