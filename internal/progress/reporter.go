// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

// Reporter receives progress events.
// Implementations are called from the goroutine running the batch and must not block for long.
type Reporter interface {
	Report(event Event)
}

// NullReporter is a no-op implementation of Reporter.
type NullReporter struct{}

// Report implements Reporter by doing nothing.
func (NullReporter) Report(Event) {}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

// Report calls f(event).
func (f ReporterFunc) Report(event Event) {
	f(event)
}

// Multi returns a Reporter that passes each event to all of the given reporters, in order.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(e Event) {
		for _, r := range reporters {
			if r != nil {
				r.Report(e)
			}
		}
	})
}

// Recorder is a Reporter that keeps every event, for tests and summaries.
type Recorder struct {
	Events []Event
}

// Report implements Reporter.
func (r *Recorder) Report(event Event) {
	r.Events = append(r.Events, event)
}
