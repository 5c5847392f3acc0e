// README: Driver registry service. Availability is owned by the matching
// coordinator and the ride lifecycle, not by the driver-facing update path.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hitch/internal/types"
)

var (
	ErrNotFound    = errors.New("driver not found")
	ErrPhoneTaken  = errors.New("phone number already registered")
	ErrValidation  = errors.New("invalid driver input")
	ErrUnavailable = errors.New("driver not available")
)

// Store is the driver registry persistence contract. SetAvailability is a
// compare-and-set: it applies only when the current flag equals from, and
// reports whether it did.
type Store interface {
	Create(ctx context.Context, d *Driver) error
	Get(ctx context.Context, id types.ID) (*Driver, error)
	Update(ctx context.Context, d *Driver) error
	SetAvailability(ctx context.Context, id types.ID, from, to bool) (bool, error)
}

// Roster mirrors the set of available drivers for the matching surface.
// Updates are best-effort: the registry's availability flag stays the
// source of truth.
type Roster interface {
	Add(ctx context.Context, id types.ID, cat types.Category) error
	Remove(ctx context.Context, id types.ID) error
}

type Service struct {
	store  Store
	roster Roster
}

func NewService(store Store, roster Roster) *Service {
	return &Service{store: store, roster: roster}
}

type RegisterCommand struct {
	Name     string
	Phone    string
	Category types.Category
}

type UpdateCommand struct {
	DriverID types.ID
	Name     string
	Phone    string
}

// Register puts a new driver on duty. Freshly registered drivers are
// available until the coordinator claims them.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Driver, error) {
	if cmd.Name == "" || cmd.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}
	if !cmd.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, cmd.Category)
	}
	d := &Driver{
		ID:        types.NewID(),
		Name:      cmd.Name,
		Phone:     cmd.Phone,
		Category:  cmd.Category,
		Available: true,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	if s.roster != nil {
		_ = s.roster.Add(ctx, d.ID, d.Category)
	}
	return d, nil
}

// Update changes name and/or phone. It never touches the availability flag.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Driver, error) {
	d, err := s.store.Get(ctx, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != "" {
		d.Name = cmd.Name
	}
	if cmd.Phone != "" {
		d.Phone = cmd.Phone
	}
	if err := s.store.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

// Claim atomically takes an available driver off the market. It fails with
// ErrUnavailable when the driver is already claimed, so two concurrent
// acceptances can never both win the same driver.
func (s *Service) Claim(ctx context.Context, id types.ID) error {
	ok, err := s.store.SetAvailability(ctx, id, true, false)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnavailable
	}
	if s.roster != nil {
		_ = s.roster.Remove(ctx, id)
	}
	return nil
}

// Release puts a claimed driver back on the market. Releasing an already
// available driver is a no-op.
func (s *Service) Release(ctx context.Context, id types.ID) error {
	ok, err := s.store.SetAvailability(ctx, id, false, true)
	if err != nil {
		return err
	}
	if ok && s.roster != nil {
		d, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		_ = s.roster.Add(ctx, id, d.Category)
	}
	return nil
}
