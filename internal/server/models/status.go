package models

import (
	"fmt"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
)

// Status is the lifecycle state of a project.
type Status uint8

const (
	StatusActive Status = iota
	// StatusPaused is part of the state set but no operation enters it.
	StatusPaused
	StatusTargetReached
	StatusSuccess
	StatusFailed
)

var statusNames = map[Status]string{
	StatusActive:        "active",
	StatusPaused:        "paused",
	StatusTargetReached: "target_reached",
	StatusSuccess:       "success",
	StatusFailed:        "failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

// transitions is the forward-only lifecycle graph.
var transitions = map[Status][]Status{
	StatusActive:        {StatusPaused, StatusTargetReached, StatusFailed},
	StatusTargetReached: {StatusSuccess},
}

// CanTransition reports whether the graph has an edge from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// AcceptsDonations reports whether funds may still flow into the project.
func (s Status) AcceptsDonations() bool {
	return s == StatusActive || s == StatusTargetReached
}

// AfterClose returns the status reached by closing a project in status s:
// Active fails, TargetReached succeeds, anything else is rejected.
func (s Status) AfterClose() (Status, error) {
	switch s {
	case StatusActive:
		return StatusFailed, nil
	case StatusTargetReached:
		return StatusSuccess, nil
	default:
		return s, common.ErrInvalidStatus
	}
}
