// Package valueobject contains domain value objects for the Billflow system.
package valueobject

import "fmt"

// MaterializationResult accumulates the outcome of materializing periods for
// one obligation. Failures on individual periods are collected, not fatal.
type MaterializationResult struct {
	PeriodsQueried int
	PeriodsWritten int
	PeriodsSkipped int
	PeriodIDs      []string
	Errors         []string
}

// RecordError appends a formatted error for one failed unit.
func (r *MaterializationResult) RecordError(unitID string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", unitID, err))
}

// HasErrors reports whether any unit failed.
func (r *MaterializationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// RebuildResult accumulates the outcome of a full summary rebuild.
type RebuildResult struct {
	BucketsRecomputed int
	BucketsDeleted    int
	Errors            []string
}

// RecordError appends a formatted error for one failed bucket.
func (r *RebuildResult) RecordError(sourcePeriodID string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", sourcePeriodID, err))
}

// IngestResult accumulates the outcome of one provider ingestion run.
type IngestResult struct {
	StreamsFound int
	Created      int
	Updated      int
	Skipped      int
	Errors       []string
}

// RecordError appends a formatted error for one failed stream.
func (r *IngestResult) RecordError(streamID string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", streamID, err))
}
