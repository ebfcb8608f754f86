// Package id generates run identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewRunID creates a unique ID correlating all log lines of one batch run.
// Format: run-nanoid (e.g., "run-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly and compact (21 characters vs UUID's 36).
// Panics if the system has insufficient entropy, which should only happen
// during process startup on a broken host.
func NewRunID() string {
	id, err := gonanoid.New()
	if err != nil {
		panic(fmt.Sprintf("failed to generate run ID: %v", err))
	}
	return "run-" + id
}
