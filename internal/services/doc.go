// Package services defines the error taxonomy shared by the pipeline stages.
//
// Errors are tagged with sentinel markers so callers can classify a failure
// without string matching: input and conflict errors abort the run, archive
// and cover errors degrade to warnings recorded on the execution plan.
package services
