// README: Ride-request lifecycle: create, cancel, timed expiry, driver assignment.
package request

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hitch/internal/observability"
	"hitch/internal/types"
)

var (
	ErrNotFound          = errors.New("request not found")
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrActiveRide        = errors.New("passenger has an active request or ride")
	ErrInvalidState      = errors.New("invalid request state transition")
	ErrConflict          = errors.New("request state conflict")
	ErrValidation        = errors.New("invalid request input")
)

// Store is the request registry persistence contract. UpdateStatus is an
// optimistic compare-and-set on (status, status_version).
type Store interface {
	Create(ctx context.Context, r *RideRequest) error
	Get(ctx context.Context, id types.ID) (*RideRequest, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
	ListByStatus(ctx context.Context, st Status) ([]*RideRequest, error)
	HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
}

// Pricing quotes the estimated fare at creation time.
type Pricing interface {
	EstimateFare(ctx context.Context, origin, dest types.Point, cat types.Category) (float64, error)
}

// Passengers is the passenger registry lookup the lifecycle consumes.
type Passengers interface {
	Exists(ctx context.Context, id types.ID) (bool, error)
}

// ActiveRides reports whether a passenger already has a non-terminal ride,
// so a passenger cannot hold a request and a ride at once.
type ActiveRides interface {
	HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error)
}

type Service struct {
	store      Store
	pricing    Pricing
	passengers Passengers
	rides      ActiveRides
	sched      Scheduler
	ttl        time.Duration

	mu     sync.Mutex
	timers map[types.ID]CancelFunc
}

func NewService(store Store, pricing Pricing, passengers Passengers, rides ActiveRides, sched Scheduler, ttl time.Duration) *Service {
	return &Service{
		store:      store,
		pricing:    pricing,
		passengers: passengers,
		rides:      rides,
		sched:      sched,
		ttl:        ttl,
		timers:     make(map[types.ID]CancelFunc),
	}
}

type CreateCommand struct {
	PassengerID types.ID
	Origin      types.Point
	Destination types.Point
	Category    types.Category
}

// Create opens a SEARCHING request, prices it, and schedules its expiry.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*RideRequest, error) {
	if cmd.PassengerID == "" {
		return nil, fmt.Errorf("%w: passenger id is required", ErrValidation)
	}
	ok, err := s.passengers.Exists(ctx, cmd.PassengerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPassengerNotFound
	}

	// Coordinate and category validation is owned by the pricing engine.
	price, err := s.pricing.EstimateFare(ctx, cmd.Origin, cmd.Destination, cmd.Category)
	if err != nil {
		return nil, err
	}

	active, err := s.store.HasActiveByPassenger(ctx, cmd.PassengerID)
	if err != nil {
		return nil, err
	}
	if !active && s.rides != nil {
		active, err = s.rides.HasActiveByPassenger(ctx, cmd.PassengerID)
		if err != nil {
			return nil, err
		}
	}
	if active {
		return nil, ErrActiveRide
	}

	now := time.Now()
	r := &RideRequest{
		ID:             types.NewID(),
		PassengerID:    cmd.PassengerID,
		Origin:         cmd.Origin,
		Destination:    cmd.Destination,
		Category:       cmd.Category,
		Status:         StatusSearching,
		StatusVersion:  0,
		EstimatedPrice: price,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusSearching,
		ActorType:  "passenger",
		CreatedAt:  now,
	})

	s.scheduleExpiry(r.ID, s.ttl)
	return r, nil
}

// Cancel transitions SEARCHING -> CANCELLED and drops the pending expiry.
func (s *Service) Cancel(ctx context.Context, id types.ID) (*RideRequest, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(r.Status, StatusCancelled) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusCancelled, r.StatusVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	s.stopTimer(id)
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: r.Status,
		ToStatus:   StatusCancelled,
		ActorType:  "passenger",
		CreatedAt:  time.Now(),
	})
	return s.store.Get(ctx, id)
}

// Expire is invoked by the scheduled expiry action. It moves the request to
// EXPIRED only if it is still SEARCHING at fire time; any request that was
// cancelled or assigned in the meantime is left untouched. The compare-and-set
// re-checks the status at the moment of mutation, so a firing that lost the
// race is a no-op regardless of what this goroutine read earlier.
func (s *Service) Expire(ctx context.Context, id types.ID) error {
	defer s.dropTimer(id)

	r, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if r.Status != StatusSearching {
		return nil
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, StatusSearching, StatusExpired, r.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	observability.RequestsExpiredTotal.Inc()
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: StatusSearching,
		ToStatus:   StatusExpired,
		ActorType:  "system",
		CreatedAt:  time.Now(),
	})
	return nil
}

// AssignDriver transitions SEARCHING -> DRIVER_ASSIGNED on behalf of the
// matching coordinator and drops the pending expiry.
func (s *Service) AssignDriver(ctx context.Context, id types.ID) error {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(r.Status, StatusDriverAssigned) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusDriverAssigned, r.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.stopTimer(id)
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: r.Status,
		ToStatus:   StatusDriverAssigned,
		ActorType:  "system",
		CreatedAt:  time.Now(),
	})
	return nil
}

// Unassign is the coordinator's compensation: it reopens an assigned request
// and re-arms the expiry for whatever remains of the original window.
func (s *Service) Unassign(ctx context.Context, id types.ID) error {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(r.Status, StatusSearching) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusSearching, r.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: r.Status,
		ToStatus:   StatusSearching,
		ActorType:  "system",
		CreatedAt:  time.Now(),
	})

	remaining := time.Until(r.ExpiresAt)
	if remaining <= 0 {
		return s.Expire(ctx, id)
	}
	s.scheduleExpiry(id, remaining)
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*RideRequest, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListByStatus(ctx context.Context, st Status) ([]*RideRequest, error) {
	return s.store.ListByStatus(ctx, st)
}

func (s *Service) scheduleExpiry(id types.ID, d time.Duration) {
	cancel := s.sched.Schedule(d, func() {
		_ = s.Expire(context.Background(), id)
	})
	s.mu.Lock()
	s.timers[id] = cancel
	s.mu.Unlock()
}

// stopTimer cancels the pending expiry action for id, if any.
func (s *Service) stopTimer(id types.ID) {
	s.mu.Lock()
	cancel, ok := s.timers[id]
	delete(s.timers, id)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *Service) dropTimer(id types.ID) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()
}
