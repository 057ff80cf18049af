package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks unusable input such as a missing or empty series folder.
	ErrInput = errors.New("input error")
	// ErrConflict marks a destination path owned by something other than the plan.
	ErrConflict = errors.New("target conflict")
	// ErrArchiveRead marks a corrupt or unsupported archive entry.
	ErrArchiveRead = errors.New("archive read error")
	// ErrCoverUnavailable marks an exhausted cover resolution chain.
	ErrCoverUnavailable = errors.New("cover unavailable")
	// ErrTransient marks retryable failures such as network timeouts.
	ErrTransient = errors.New("transient failure")
)

// Severity classifies how the pipeline must react to an error.
type Severity int

const (
	// SeverityDegraded errors are recorded as plan warnings and processing continues.
	SeverityDegraded Severity = iota
	// SeverityFatal errors stop the run entirely.
	SeverityFatal
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps a stage error to the reaction the pipeline must take.
// Only input errors and unrecoverable target conflicts are fatal; everything
// else degrades gracefully and surfaces in the plan's warning list.
func Classify(err error) Severity {
	switch {
	case errors.Is(err, ErrInput), errors.Is(err, ErrConflict):
		return SeverityFatal
	default:
		return SeverityDegraded
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
