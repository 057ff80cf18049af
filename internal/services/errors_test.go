package services_test

import (
	"errors"
	"strings"
	"testing"

	"tanko/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrArchiveRead, "cover", "extract", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrArchiveRead) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"cover", "extract", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "fetch", "download", "timed out", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want services.Severity
	}{
		{"input", services.Wrap(services.ErrInput, "scan", "stat", "not a directory", nil), services.SeverityFatal},
		{"conflict", services.Wrap(services.ErrConflict, "apply", "move", "destination exists", nil), services.SeverityFatal},
		{"archive", services.Wrap(services.ErrArchiveRead, "cover", "open", "corrupt", nil), services.SeverityDegraded},
		{"cover", services.Wrap(services.ErrCoverUnavailable, "cover", "resolve", "no source", nil), services.SeverityDegraded},
		{"plain", errors.New("anything"), services.SeverityDegraded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
