package models

import "fmt"

// RunStats accumulates per-run outcome counters. Skips are control-flow
// outcomes, not errors: the batch keeps going.
type RunStats struct {
	Uploaded         int
	DryRun           int
	DuplicateSkipped int
	Excluded         int
	Blacklisted      int
	LowSeeders       int
	Oversize         int
	Errors           int

	// FailedGroups lists group ids whose processing failed entirely.
	FailedGroups []int
}

// AddFailedGroup records a group-level failure.
func (s *RunStats) AddFailedGroup(groupID int) {
	s.Errors++
	s.FailedGroups = append(s.FailedGroups, groupID)
}

// Summary renders a one-line report for the end of a run.
func (s *RunStats) Summary() string {
	return fmt.Sprintf(
		"uploaded=%d dry_run=%d duplicates=%d excluded=%d blacklisted=%d low_seeders=%d oversize=%d errors=%d",
		s.Uploaded, s.DryRun, s.DuplicateSkipped, s.Excluded, s.Blacklisted,
		s.LowSeeders, s.Oversize, s.Errors)
}
