package sequencer

import (
	"fmt"
	"time"
)

// Step is one labeled presentation beat. Callback runs when the step starts,
// then the step holds for Duration before it ends.
type Step struct {
	Label    string
	Duration time.Duration
	Callback func()
}

// Timeline is an ordered list of steps, consumed by a single playback
type Timeline []Step

// Wait creates a step that only holds for d
func Wait(label string, d time.Duration) Step {
	return Step{Label: label, Duration: max(d, 0)}
}

// Do creates a zero-length step that runs fn
func Do(label string, fn func()) Step {
	return Step{Label: label, Callback: fn}
}

// DoWait creates a step that runs fn and then holds for d
func DoWait(label string, d time.Duration, fn func()) Step {
	return Step{Label: label, Duration: max(d, 0), Callback: fn}
}

// Labels returns the step labels in order
func (t Timeline) Labels() []string {
	labels := make([]string, len(t))
	for i, step := range t {
		labels[i] = step.Label
	}
	return labels
}

// TotalDuration sums the unscaled step durations
func (t Timeline) TotalDuration() time.Duration {
	var total time.Duration
	for _, step := range t {
		total += max(step.Duration, 0)
	}
	return total
}

// StepEvent identifies a step within the playing timeline
type StepEvent struct {
	Label string
	Index int
	Total int
}

func (e StepEvent) String() string {
	return fmt.Sprintf("%s (%d/%d)", e.Label, e.Index+1, e.Total)
}
