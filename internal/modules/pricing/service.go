// README: Pricing service computes fare estimates and final charges.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"hitch/internal/types"
)

var ErrValidation = errors.New("invalid pricing input")

// Service is a pure fare calculator. Both methods are deterministic
// functions of their inputs.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Estimate quotes a fare for a trip between two coordinates. The duration is
// assumed from the distance at average speed; the real trip is charged via
// Finalize with driver-reported figures.
func (s *Service) Estimate(ctx context.Context, origin, dest types.Point, cat types.Category) (Quote, error) {
	if !origin.InRange() {
		return Quote{}, fmt.Errorf("%w: origin out of range", ErrValidation)
	}
	if !dest.InRange() {
		return Quote{}, fmt.Errorf("%w: destination out of range", ErrValidation)
	}
	if origin == dest {
		return Quote{}, fmt.Errorf("%w: origin equals destination", ErrValidation)
	}
	t, ok := tariffs[cat]
	if !ok {
		return Quote{}, fmt.Errorf("%w: unknown category %q", ErrValidation, cat)
	}

	distKm := haversineKm(origin, dest)
	durMin := distKm / avgSpeedKmh * 60

	return Quote{
		DistanceKm:  distKm,
		DurationMin: durMin,
		Price:       fare(t, distKm, durMin),
	}, nil
}

// EstimateFare is the price-only form of Estimate, satisfying the request
// lifecycle's pricing port.
func (s *Service) EstimateFare(ctx context.Context, origin, dest types.Point, cat types.Category) (float64, error) {
	q, err := s.Estimate(ctx, origin, dest, cat)
	if err != nil {
		return 0, err
	}
	return q.Price, nil
}

// Finalize charges a completed trip from the measured distance (km) and
// duration (minutes) using the same tariff table as Estimate.
func (s *Service) Finalize(ctx context.Context, cat types.Category, distanceKm, durationMin float64) (float64, error) {
	if distanceKm < 0 {
		return 0, fmt.Errorf("%w: negative distance", ErrValidation)
	}
	if durationMin < 0 {
		return 0, fmt.Errorf("%w: negative duration", ErrValidation)
	}
	t, ok := tariffs[cat]
	if !ok {
		return 0, fmt.Errorf("%w: unknown category %q", ErrValidation, cat)
	}
	return fare(t, distanceKm, durationMin), nil
}

func fare(t Tariff, distKm, durMin float64) float64 {
	return round2((t.Base + distKm*t.PerKm + durMin*t.PerMin) * t.Multiplier)
}

// round2 rounds to currency precision, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
