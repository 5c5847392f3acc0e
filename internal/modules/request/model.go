// README: RideRequest aggregate and status definitions.
package request

import (
	"time"

	"hitch/internal/types"
)

type Status string

const (
	StatusNone           Status = "NONE"
	StatusSearching      Status = "SEARCHING"
	StatusDriverAssigned Status = "DRIVER_ASSIGNED"
	StatusCancelled      Status = "CANCELLED"
	StatusExpired        Status = "EXPIRED"
)

type RideRequest struct {
	ID             types.ID
	PassengerID    types.ID
	Origin         types.Point
	Destination    types.Point
	Category       types.Category
	Status         Status
	StatusVersion  int
	EstimatedPrice float64
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

type Event struct {
	ID         int64
	RequestID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	CreatedAt  time.Time
}

// AllowedTransitions represents the request state flow as code.
// DRIVER_ASSIGNED -> SEARCHING exists only as the coordinator's
// compensation path when ride creation fails after assignment.
var AllowedTransitions = map[Status][]Status{
	StatusSearching:      {StatusDriverAssigned, StatusCancelled, StatusExpired},
	StatusDriverAssigned: {StatusSearching},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further lifecycle transition is permitted.
// DRIVER_ASSIGNED counts as terminal for callers: from there the request is
// superseded by its Ride.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusExpired || s == StatusDriverAssigned
}
