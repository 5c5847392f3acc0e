// README: Matching coordinator; the single place where the request and ride
// lifecycles and the registries interact.
package matching

import (
	"context"
	"errors"
	"fmt"

	"hitch/internal/modules/driver"
	"hitch/internal/modules/request"
	"hitch/internal/modules/ride"
	"hitch/internal/observability"
	"hitch/internal/types"
)

var (
	ErrRequestTaken     = errors.New("request no longer available")
	ErrCategoryMismatch = errors.New("driver category does not match request")
)

// Requests is the slice of the request lifecycle the coordinator drives.
type Requests interface {
	Get(ctx context.Context, id types.ID) (*request.RideRequest, error)
	AssignDriver(ctx context.Context, id types.ID) error
	Unassign(ctx context.Context, id types.ID) error
}

// Drivers is the slice of the driver registry the coordinator drives.
type Drivers interface {
	Get(ctx context.Context, id types.ID) (*driver.Driver, error)
	Claim(ctx context.Context, id types.ID) error
	Release(ctx context.Context, id types.ID) error
}

// Rides creates the accepted trip.
type Rides interface {
	Create(ctx context.Context, cmd ride.CreateCommand) (*ride.Ride, error)
}

type Service struct {
	requests Requests
	drivers  Drivers
	rides    Rides
	roster   Roster
}

func NewService(requests Requests, drivers Drivers, rides Rides, roster Roster) *Service {
	return &Service{requests: requests, drivers: drivers, rides: rides, roster: roster}
}

type AcceptCommand struct {
	RequestID types.ID
	DriverID  types.ID
}

// Accept binds a free driver to a searching request. The driver is claimed
// first (an availability compare-and-set), then the request is assigned
// (a status compare-and-set); each failure on the way unwinds what came
// before it, so a failed acceptance leaves no partial state.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*ride.Ride, error) {
	req, err := s.requests.Get(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	d, err := s.drivers.Get(ctx, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if d.Category != req.Category {
		return nil, ErrCategoryMismatch
	}

	// The claim is the authoritative availability check; reading d.Available
	// here would trust a stale snapshot.
	if err := s.drivers.Claim(ctx, cmd.DriverID); err != nil {
		return nil, err
	}

	if err := s.requests.AssignDriver(ctx, cmd.RequestID); err != nil {
		_ = s.drivers.Release(ctx, cmd.DriverID)
		if errors.Is(err, request.ErrInvalidState) || errors.Is(err, request.ErrConflict) {
			return nil, ErrRequestTaken
		}
		return nil, err
	}

	rd, err := s.rides.Create(ctx, ride.CreateCommand{
		RequestID:      req.ID,
		DriverID:       d.ID,
		PassengerID:    req.PassengerID,
		Category:       req.Category,
		EstimatedPrice: req.EstimatedPrice,
	})
	if err != nil {
		_ = s.requests.Unassign(ctx, cmd.RequestID)
		_ = s.drivers.Release(ctx, cmd.DriverID)
		return nil, fmt.Errorf("create ride for request %s: %w", req.ID, err)
	}

	observability.MatchesTotal.Inc()
	return rd, nil
}

// ListAvailableDrivers returns the roster of free drivers for a category.
func (s *Service) ListAvailableDrivers(ctx context.Context, cat types.Category) ([]types.ID, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", driver.ErrValidation, cat)
	}
	return s.roster.List(ctx, cat)
}
