// README: Passenger registry service (register, update, lookup).
package passenger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hitch/internal/types"
)

var (
	ErrNotFound   = errors.New("passenger not found")
	ErrPhoneTaken = errors.New("phone number already registered")
	ErrValidation = errors.New("invalid passenger input")
)

// Store is the passenger registry persistence contract. Create and Update
// must enforce phone uniqueness and report ErrPhoneTaken.
type Store interface {
	Create(ctx context.Context, p *Passenger) error
	Get(ctx context.Context, id types.ID) (*Passenger, error)
	Update(ctx context.Context, p *Passenger) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type RegisterCommand struct {
	Name  string
	Phone string
}

type UpdateCommand struct {
	PassengerID types.ID
	Name        string
	Phone       string
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Passenger, error) {
	if cmd.Name == "" || cmd.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}
	p := &Passenger{
		ID:        types.NewID(),
		Name:      cmd.Name,
		Phone:     cmd.Phone,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes name and/or phone. Blank fields keep their current value.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Passenger, error) {
	p, err := s.store.Get(ctx, cmd.PassengerID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != "" {
		p.Name = cmd.Name
	}
	if cmd.Phone != "" {
		p.Phone = cmd.Phone
	}
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Passenger, error) {
	return s.store.Get(ctx, id)
}

// Exists is the lookup the request lifecycle consumes.
func (s *Service) Exists(ctx context.Context, id types.ID) (bool, error) {
	_, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
