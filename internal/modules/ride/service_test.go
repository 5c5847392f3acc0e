// README: Ride lifecycle tests (transitions, fare finalization, cancellation fees).
package ride

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hitch/internal/modules/pricing"
	"hitch/internal/types"
)

// stubGate records driver releases.
type stubGate struct {
	mu       sync.Mutex
	released []types.ID
}

func (g *stubGate) Release(ctx context.Context, id types.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released = append(g.released, id)
	return nil
}

func (g *stubGate) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.released)
}

func newTestService(t *testing.T) (*Service, *stubGate) {
	t.Helper()
	gate := &stubGate{}
	return NewService(NewMemoryStore(), pricing.NewService(), gate), gate
}

func createTestRide(t *testing.T, svc *Service) *Ride {
	t.Helper()
	r, err := svc.Create(context.Background(), CreateCommand{
		RequestID:      "request-1",
		DriverID:       "driver-1",
		PassengerID:    "passenger-1",
		Category:       types.CategoryEconomy,
		EstimatedPrice: 21.50,
	})
	if err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return r
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusEnRoute, StatusInProgress, true},
		{StatusEnRoute, StatusCancelledByPassenger, true},
		{StatusEnRoute, StatusCancelledByDriver, true},
		{StatusEnRoute, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelledByPassenger, false},
		{StatusInProgress, StatusCancelledByDriver, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelledByPassenger, false},
		{StatusCancelledByPassenger, StatusInProgress, false},
		{StatusCancelledByDriver, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	r := createTestRide(t, svc)

	if r.Status != StatusEnRoute {
		t.Fatalf("status = %s, want %s", r.Status, StatusEnRoute)
	}
	if r.FinalPrice != nil {
		t.Fatalf("expected no final price at creation, got %v", *r.FinalPrice)
	}
}

func TestStartAndComplete(t *testing.T) {
	svc, gate := newTestService(t)
	r := createTestRide(t, svc)
	ctx := context.Background()

	started, err := svc.Start(ctx, StartCommand{RideID: r.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusInProgress {
		t.Fatalf("status = %s, want %s", started.Status, StatusInProgress)
	}

	done, err := svc.Complete(ctx, CompleteCommand{RideID: r.ID, DistanceKm: 5.2, DurationMin: 15})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", done.Status, StatusCompleted)
	}
	// base 5 + 5.2km * 2 + 15min * 0.5 = 22.9, charged over the 21.50 estimate
	if done.FinalPrice == nil || *done.FinalPrice != 22.9 {
		t.Fatalf("final price = %v, want 22.9", done.FinalPrice)
	}
	if gate.count() != 1 {
		t.Fatalf("expected the driver to be released once, got %d", gate.count())
	}
}

func TestCompleteRequiresInProgress(t *testing.T) {
	svc, _ := newTestService(t)
	r := createTestRide(t, svc)

	_, err := svc.Complete(context.Background(), CompleteCommand{RideID: r.ID, DistanceKm: 5.2, DurationMin: 15})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("complete from EN_ROUTE: expected ErrInvalidState, got %v", err)
	}
}

func TestCompleteValidatesTripFigures(t *testing.T) {
	svc, gate := newTestService(t)
	r := createTestRide(t, svc)
	ctx := context.Background()

	if _, err := svc.Start(ctx, StartCommand{RideID: r.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := svc.Complete(ctx, CompleteCommand{RideID: r.ID, DistanceKm: -1, DurationMin: 15})
	if !errors.Is(err, pricing.ErrValidation) {
		t.Fatalf("negative distance: expected pricing.ErrValidation, got %v", err)
	}

	// The failed completion must leave the ride live and the driver held.
	got, _ := svc.Get(ctx, r.ID)
	if got.Status != StatusInProgress {
		t.Fatalf("status = %s, want %s", got.Status, StatusInProgress)
	}
	if gate.count() != 0 {
		t.Fatalf("driver must not be released on a failed completion")
	}
}

func TestCancelByPassengerChargesFee(t *testing.T) {
	svc, gate := newTestService(t)
	r := createTestRide(t, svc)

	got, err := svc.CancelByPassenger(context.Background(), CancelCommand{RideID: r.ID})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != StatusCancelledByPassenger {
		t.Fatalf("status = %s, want %s", got.Status, StatusCancelledByPassenger)
	}
	if got.FinalPrice == nil || *got.FinalPrice != 7.00 {
		t.Fatalf("final price = %v, want the 7.00 cancellation fee", got.FinalPrice)
	}
	if gate.count() != 1 {
		t.Fatalf("expected the driver to be released, got %d", gate.count())
	}
}

func TestCancelByDriverIsFree(t *testing.T) {
	svc, _ := newTestService(t)
	r := createTestRide(t, svc)

	got, err := svc.CancelByDriver(context.Background(), CancelCommand{RideID: r.ID})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != StatusCancelledByDriver {
		t.Fatalf("status = %s, want %s", got.Status, StatusCancelledByDriver)
	}
	if got.FinalPrice == nil || *got.FinalPrice != 0 {
		t.Fatalf("final price = %v, want 0", got.FinalPrice)
	}
}

func TestNoCancellationOnceInProgress(t *testing.T) {
	svc, _ := newTestService(t)
	r := createTestRide(t, svc)
	ctx := context.Background()

	if _, err := svc.Start(ctx, StartCommand{RideID: r.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.CancelByPassenger(ctx, CancelCommand{RideID: r.ID}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("passenger cancel: expected ErrInvalidState, got %v", err)
	}
	if _, err := svc.CancelByDriver(ctx, CancelCommand{RideID: r.ID}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("driver cancel: expected ErrInvalidState, got %v", err)
	}
}

func TestTerminalRidesRejectEverything(t *testing.T) {
	svc, _ := newTestService(t)
	r := createTestRide(t, svc)
	ctx := context.Background()

	if _, err := svc.CancelByDriver(ctx, CancelCommand{RideID: r.ID}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Start(ctx, StartCommand{RideID: r.ID}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("start: expected ErrInvalidState, got %v", err)
	}
	if _, err := svc.Complete(ctx, CompleteCommand{RideID: r.ID, DistanceKm: 1, DurationMin: 1}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("complete: expected ErrInvalidState, got %v", err)
	}
	if _, err := svc.CancelByPassenger(ctx, CancelCommand{RideID: r.ID}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second cancel: expected ErrInvalidState, got %v", err)
	}
}

func TestHasActiveByPassenger(t *testing.T) {
	svc, _ := newTestService(t)
	r := createTestRide(t, svc)
	ctx := context.Background()

	active, err := svc.HasActiveByPassenger(ctx, "passenger-1")
	if err != nil {
		t.Fatalf("has active: %v", err)
	}
	if !active {
		t.Fatal("expected an active ride while EN_ROUTE")
	}

	if _, err := svc.CancelByDriver(ctx, CancelCommand{RideID: r.ID}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	active, err = svc.HasActiveByPassenger(ctx, "passenger-1")
	if err != nil {
		t.Fatalf("has active: %v", err)
	}
	if active {
		t.Fatal("terminal ride must not count as active")
	}
}

func TestListByPassengerAndDriver(t *testing.T) {
	svc, _ := newTestService(t)
	r := createTestRide(t, svc)

	byPassenger, err := svc.ListByPassenger(context.Background(), r.PassengerID)
	if err != nil {
		t.Fatalf("list by passenger: %v", err)
	}
	if len(byPassenger) != 1 || byPassenger[0].ID != r.ID {
		t.Fatalf("expected exactly the created ride, got %+v", byPassenger)
	}
	byDriver, err := svc.ListByDriver(context.Background(), r.DriverID)
	if err != nil {
		t.Fatalf("list by driver: %v", err)
	}
	if len(byDriver) != 1 || byDriver[0].ID != r.ID {
		t.Fatalf("expected exactly the created ride, got %+v", byDriver)
	}
	if none, _ := svc.ListByDriver(context.Background(), "other"); len(none) != 0 {
		t.Fatalf("expected no rides for an unrelated driver, got %d", len(none))
	}
}

// TestConcurrentCompletes hammers Complete from several goroutines. The
// compare-and-set must let exactly one through.
func TestConcurrentCompletes(t *testing.T) {
	svc, gate := newTestService(t)
	r := createTestRide(t, svc)
	ctx := context.Background()

	if _, err := svc.Start(ctx, StartCommand{RideID: r.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	const workers = 8
	start := make(chan struct{})
	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded int
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := svc.Complete(ctx, CompleteCommand{RideID: r.ID, DistanceKm: 5.2, DurationMin: 15}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("completions succeeded = %d, want exactly 1", succeeded)
	}
	if gate.count() != 1 {
		t.Fatalf("driver releases = %d, want exactly 1", gate.count())
	}
}
