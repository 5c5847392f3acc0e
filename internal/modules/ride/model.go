// README: Ride aggregate and status definitions.
package ride

import (
	"time"

	"hitch/internal/types"
)

type Status string

const (
	StatusNone                 Status = "NONE"
	StatusEnRoute              Status = "EN_ROUTE"
	StatusInProgress           Status = "IN_PROGRESS"
	StatusCompleted            Status = "COMPLETED"
	StatusCancelledByPassenger Status = "CANCELLED_BY_PASSENGER"
	StatusCancelledByDriver    Status = "CANCELLED_BY_DRIVER"
)

// cancellationFee is the fixed charge when a passenger cancels before the
// trip starts. Driver cancellations charge nothing.
const cancellationFee = 7.00

type Ride struct {
	ID             types.ID
	RequestID      types.ID
	DriverID       types.ID
	PassengerID    types.ID
	Category       types.Category
	Status         Status
	StatusVersion  int
	EstimatedPrice float64
	FinalPrice     *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Event struct {
	ID         int64
	RideID     types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	CreatedAt  time.Time
}

// AllowedTransitions represents the ride state flow as code. Cancellation is
// only possible before the trip starts; once IN_PROGRESS the sole exit is
// COMPLETED.
var AllowedTransitions = map[Status][]Status{
	StatusEnRoute:    {StatusInProgress, StatusCancelledByPassenger, StatusCancelledByDriver},
	StatusInProgress: {StatusCompleted},
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
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelledByPassenger || s == StatusCancelledByDriver
}
