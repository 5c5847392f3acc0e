// README: Ride lifecycle: start, complete with fare finalization, cancellation.
package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hitch/internal/observability"
	"hitch/internal/types"
)

var (
	ErrNotFound     = errors.New("ride not found")
	ErrInvalidState = errors.New("invalid ride state transition")
	ErrConflict     = errors.New("ride state conflict")
	ErrValidation   = errors.New("invalid ride input")
)

// Store is the ride registry persistence contract. UpdateStatus is an
// optimistic compare-and-set; finalPrice, when non-nil, is written in the
// same operation as the terminal transition that produced it.
type Store interface {
	Create(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id types.ID) (*Ride, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, finalPrice *float64) (bool, error)
	ListByPassenger(ctx context.Context, passengerID types.ID) ([]*Ride, error)
	ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error)
	HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
}

// Pricing finalizes the fare from driver-reported figures.
type Pricing interface {
	Finalize(ctx context.Context, cat types.Category, distanceKm, durationMin float64) (float64, error)
}

// DriverGate releases the assigned driver back to the market when a ride
// reaches a terminal state.
type DriverGate interface {
	Release(ctx context.Context, id types.ID) error
}

type Service struct {
	store   Store
	pricing Pricing
	drivers DriverGate
}

func NewService(store Store, pricing Pricing, drivers DriverGate) *Service {
	return &Service{store: store, pricing: pricing, drivers: drivers}
}

type CreateCommand struct {
	RequestID      types.ID
	DriverID       types.ID
	PassengerID    types.ID
	Category       types.Category
	EstimatedPrice float64
}

// Create opens a ride in EN_ROUTE. Only the matching coordinator calls this,
// after it has assigned the request and claimed the driver.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	now := time.Now()
	r := &Ride{
		ID:             types.NewID(),
		RequestID:      cmd.RequestID,
		DriverID:       cmd.DriverID,
		PassengerID:    cmd.PassengerID,
		Category:       cmd.Category,
		Status:         StatusEnRoute,
		StatusVersion:  0,
		EstimatedPrice: cmd.EstimatedPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RideID:     r.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusEnRoute,
		ActorType:  "system",
		CreatedAt:  now,
	})
	return r, nil
}

type StartCommand struct {
	RideID types.ID
}

// Start transitions EN_ROUTE -> IN_PROGRESS when the driver picks up the
// passenger.
func (s *Service) Start(ctx context.Context, cmd StartCommand) (*Ride, error) {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, StatusInProgress) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusInProgress, r.StatusVersion, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RideID:     r.ID,
		FromStatus: r.Status,
		ToStatus:   StatusInProgress,
		ActorType:  "driver",
		CreatedAt:  time.Now(),
	})
	return s.store.Get(ctx, cmd.RideID)
}

type CompleteCommand struct {
	RideID      types.ID
	DistanceKm  float64
	DurationMin float64
}

// Complete transitions IN_PROGRESS -> COMPLETED, charging the fare from the
// driver-reported distance and duration rather than the original estimate.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) (*Ride, error) {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, StatusCompleted) {
		return nil, ErrInvalidState
	}
	final, err := s.pricing.Finalize(ctx, r.Category, cmd.DistanceKm, cmd.DurationMin)
	if err != nil {
		return nil, err
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusCompleted, r.StatusVersion, &final)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RideID:     r.ID,
		FromStatus: r.Status,
		ToStatus:   StatusCompleted,
		ActorType:  "driver",
		CreatedAt:  time.Now(),
	})
	observability.RidesCompletedTotal.Inc()
	if err := s.drivers.Release(ctx, r.DriverID); err != nil {
		return nil, fmt.Errorf("release driver %s: %w", r.DriverID, err)
	}
	return s.store.Get(ctx, cmd.RideID)
}

type CancelCommand struct {
	RideID types.ID
}

// CancelByPassenger cancels before the trip starts and charges the fixed
// cancellation fee.
func (s *Service) CancelByPassenger(ctx context.Context, cmd CancelCommand) (*Ride, error) {
	fee := cancellationFee
	return s.cancel(ctx, cmd.RideID, StatusCancelledByPassenger, "passenger", &fee)
}

// CancelByDriver cancels before the trip starts; the passenger is not
// charged.
func (s *Service) CancelByDriver(ctx context.Context, cmd CancelCommand) (*Ride, error) {
	zero := 0.0
	return s.cancel(ctx, cmd.RideID, StatusCancelledByDriver, "driver", &zero)
}

func (s *Service) cancel(ctx context.Context, id types.ID, to Status, actor string, finalPrice *float64) (*Ride, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, to) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, to, r.StatusVersion, finalPrice)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RideID:     r.ID,
		FromStatus: r.Status,
		ToStatus:   to,
		ActorType:  actor,
		CreatedAt:  time.Now(),
	})
	observability.RidesCancelledTotal.WithLabelValues(actor).Inc()
	if err := s.drivers.Release(ctx, r.DriverID); err != nil {
		return nil, fmt.Errorf("release driver %s: %w", r.DriverID, err)
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListByPassenger(ctx context.Context, passengerID types.ID) ([]*Ride, error) {
	return s.store.ListByPassenger(ctx, passengerID)
}

func (s *Service) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	return s.store.ListByDriver(ctx, driverID)
}

// HasActiveByPassenger satisfies the request lifecycle's active-ride check.
func (s *Service) HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error) {
	return s.store.HasActiveByPassenger(ctx, passengerID)
}
