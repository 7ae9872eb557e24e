package booking

import (
	"fmt"

	"rentalboard/internal/schema"
)

type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusReserved  Status = "RESERVED"
	StatusOngoing   Status = "ONGOING"
	StatusDone      Status = "DONE"
	StatusCanceled  Status = "CANCELED"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusRequested, StatusReserved, StatusOngoing, StatusDone, StatusCanceled}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusRequested, StatusReserved, StatusOngoing, StatusDone, StatusCanceled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// Terminal reports whether no action may leave this status.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

type Action string

const (
	ActionConfirm     Action = "confirm"
	ActionStartRental Action = "start_rental"
	ActionComplete    Action = "complete"
	ActionCancel      Action = "cancel"
	ActionRevert      Action = "revert_to_requested"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionConfirm, ActionStartRental, ActionComplete, ActionCancel, ActionRevert:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action: %s", s)
	}
}

type transition struct {
	from   map[Status]bool
	target Status
}

var transitions = map[Action]transition{
	ActionConfirm: {
		from:   map[Status]bool{StatusRequested: true},
		target: StatusReserved,
	},
	ActionStartRental: {
		from:   map[Status]bool{StatusReserved: true},
		target: StatusOngoing,
	},
	ActionComplete: {
		from:   map[Status]bool{StatusOngoing: true},
		target: StatusDone,
	},
	ActionCancel: {
		from:   map[Status]bool{StatusRequested: true, StatusReserved: true, StatusOngoing: true},
		target: StatusCanceled,
	},
	// Operator override: a reservation can fall back to a plain request.
	ActionRevert: {
		from:   map[Status]bool{StatusReserved: true},
		target: StatusRequested,
	},
}

// Apply returns the status an action leads to from the current one, or an
// InvalidTransitionError when the edge does not exist in the table.
func Apply(current Status, action Action) (Status, error) {
	t, ok := transitions[action]
	if !ok || !t.from[current] {
		return "", &schema.InvalidTransitionError{Status: string(current), Action: string(action)}
	}
	return t.target, nil
}
