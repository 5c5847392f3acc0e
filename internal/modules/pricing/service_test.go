// README: Pricing service tests (estimates, finalization, validation, rounding).
package pricing

import (
	"context"
	"errors"
	"testing"

	"hitch/internal/types"
)

var (
	saoPauloCentre = types.Point{Lat: -23.5505, Lng: -46.6333}
	saoPauloSouth  = types.Point{Lat: -23.5605, Lng: -46.6433}
)

func TestEstimate(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	q, err := s.Estimate(ctx, saoPauloCentre, saoPauloSouth, types.CategoryEconomy)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if q.Price <= 0 {
		t.Fatalf("expected positive price, got %v", q.Price)
	}
	if q.DistanceKm <= 0 || q.DistanceKm > 5 {
		t.Fatalf("implausible distance for a ~1.5km trip: %v", q.DistanceKm)
	}
	if q.DurationMin <= 0 {
		t.Fatalf("expected positive duration, got %v", q.DurationMin)
	}
}

func TestEstimateDeterministic(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	a, err := s.Estimate(ctx, saoPauloCentre, saoPauloSouth, types.CategoryEconomy)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	b, err := s.Estimate(ctx, saoPauloCentre, saoPauloSouth, types.CategoryEconomy)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if a != b {
		t.Fatalf("same inputs produced different quotes: %+v vs %+v", a, b)
	}
}

func TestEstimateComfortCostsMore(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	eco, err := s.Estimate(ctx, saoPauloCentre, saoPauloSouth, types.CategoryEconomy)
	if err != nil {
		t.Fatalf("economy estimate: %v", err)
	}
	com, err := s.Estimate(ctx, saoPauloCentre, saoPauloSouth, types.CategoryComfort)
	if err != nil {
		t.Fatalf("comfort estimate: %v", err)
	}
	if com.Price <= eco.Price {
		t.Fatalf("comfort (%v) should cost more than economy (%v)", com.Price, eco.Price)
	}
}

func TestEstimateValidation(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	cases := []struct {
		name         string
		origin, dest types.Point
		cat          types.Category
	}{
		{"latitude below range", types.Point{Lat: -91, Lng: 0}, saoPauloSouth, types.CategoryEconomy},
		{"latitude above range", types.Point{Lat: 91, Lng: 0}, saoPauloSouth, types.CategoryEconomy},
		{"longitude below range", types.Point{Lat: 0, Lng: -181}, saoPauloSouth, types.CategoryEconomy},
		{"longitude above range", saoPauloCentre, types.Point{Lat: 0, Lng: 181}, types.CategoryEconomy},
		{"origin equals destination", saoPauloCentre, saoPauloCentre, types.CategoryEconomy},
		{"unknown category", saoPauloCentre, saoPauloSouth, types.Category("LUXURY")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Estimate(ctx, tc.origin, tc.dest, tc.cat); err == nil {
				t.Fatal("expected validation error")
			} else if !isValidation(err) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestFinalize(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	// base 5 + 5.2km * 2 + 15min * 0.5 = 22.9
	got, err := s.Finalize(ctx, types.CategoryEconomy, 5.2, 15)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if got != 22.9 {
		t.Fatalf("Finalize() = %v, want 22.9", got)
	}

	// comfort applies the 1.5 multiplier to the whole sum
	got, err = s.Finalize(ctx, types.CategoryComfort, 5.2, 15)
	if err != nil {
		t.Fatalf("finalize comfort: %v", err)
	}
	if got != 34.35 {
		t.Fatalf("Finalize() = %v, want 34.35", got)
	}
}

func TestFinalizeValidation(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	if _, err := s.Finalize(ctx, types.CategoryEconomy, -1, 10); !isValidation(err) {
		t.Fatalf("negative distance: expected ErrValidation, got %v", err)
	}
	if _, err := s.Finalize(ctx, types.CategoryEconomy, 1, -10); !isValidation(err) {
		t.Fatalf("negative duration: expected ErrValidation, got %v", err)
	}
	if _, err := s.Finalize(ctx, types.Category("POOL"), 1, 10); !isValidation(err) {
		t.Fatalf("unknown category: expected ErrValidation, got %v", err)
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.004, 1.00},
		{1.006, 1.01},
		{-1.006, -1.01},
		{22.9, 22.9},
		{0, 0},
	}
	for _, tc := range cases {
		if got := round2(tc.in); got != tc.want {
			t.Errorf("round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Taipei Main Station to Taipei 101 is roughly 4km.
	a := types.Point{Lat: 25.0478, Lng: 121.5170}
	b := types.Point{Lat: 25.0330, Lng: 121.5654}
	d := haversineKm(a, b)
	if d < 3 || d > 6 {
		t.Fatalf("haversineKm = %v, want roughly 4-5", d)
	}
	if haversineKm(a, a) != 0 {
		t.Fatal("distance to self should be zero")
	}
}

func isValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
