// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event represents a lifecycle update for one command of a batch.
type Event struct {
	Label     string    // Label of the command the event is about
	Index     int       // Position of the command in its batch, zero based
	Type      EventType // What happened
	Error     error     // For EventFailed, why
	Timestamp time.Time // When the event occurred
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventStarted indicates a command is about to run.
	EventStarted EventType = iota
	// EventCompleted indicates successful completion.
	EventCompleted
	// EventFailed indicates the command failed.
	EventFailed
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}
