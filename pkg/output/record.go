// Package output provides JSONL output for listing results.
//
// Output is structured as typed record envelopes containing paths, errors,
// and a final summary. Each line is a self-contained JSON object that can be
// parsed independently.
package output

import (
	"encoding/json"
	"time"
)

// Record type constants define the envelope types for JSONL output.
// These follow the pattern: duostore.<type>.v<version>
const (
	// TypePath identifies path listing records.
	TypePath = "duostore.path.v1"

	// TypeError identifies error records.
	TypeError = "duostore.error.v1"

	// TypeSummary identifies final summary records.
	TypeSummary = "duostore.summary.v1"
)

// Machine-readable error codes for error records.
const (
	ErrCodeBadArgument = "BAD_ARGUMENT"
	ErrCodeForbidden   = "FORBIDDEN"
	ErrCodeInternal    = "INTERNAL"
)

// Record is the envelope for all JSONL output.
//
// Each line of JSONL output contains a Record with a type-specific payload
// in the Data field.
type Record struct {
	// Type identifies the record type (e.g., "duostore.path.v1").
	Type string `json:"type"`

	// TS is the timestamp when the record was created (RFC3339Nano).
	TS time.Time `json:"ts"`

	// JobID is the correlation ID for this invocation.
	JobID string `json:"job_id"`

	// Backend identifies the container backend (e.g., "s3").
	Backend string `json:"backend"`

	// Data contains the type-specific payload as raw JSON.
	Data json.RawMessage `json:"data"`
}

// PathRecord is the data payload for one resolved logical path.
type PathRecord struct {
	// Path is the logical path, public prefix included where it applies.
	Path string `json:"path"`
}

// ErrorRecord is the data payload for errors.
type ErrorRecord struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Path is the logical path related to this error, if applicable.
	Path string `json:"path,omitempty"`
}

// SummaryRecord is the data payload for the final summary.
type SummaryRecord struct {
	// Paths is the number of paths emitted.
	Paths int64 `json:"paths"`

	// Duration is the total time spent, in nanoseconds.
	Duration time.Duration `json:"duration_ns"`

	// DurationHuman is the rounded human-readable duration.
	DurationHuman string `json:"duration"`

	// Input is the logical path that was listed.
	Input string `json:"input"`
}
