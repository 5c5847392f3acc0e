// README: Driver registry tests (registration, availability claim/release).
package driver

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hitch/internal/types"
)

// recordingRoster captures roster updates made by the registry.
type recordingRoster struct {
	mu      sync.Mutex
	present map[types.ID]types.Category
}

func newRecordingRoster() *recordingRoster {
	return &recordingRoster{present: make(map[types.ID]types.Category)}
}

func (r *recordingRoster) Add(ctx context.Context, id types.ID, cat types.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.present[id] = cat
	return nil
}

func (r *recordingRoster) Remove(ctx context.Context, id types.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.present, id)
	return nil
}

func (r *recordingRoster) has(id types.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.present[id]
	return ok
}

func newTestService(t *testing.T) (*Service, *recordingRoster) {
	t.Helper()
	roster := newRecordingRoster()
	return NewService(NewMemoryStore(), roster), roster
}

func registerTestDriver(t *testing.T, svc *Service) *Driver {
	t.Helper()
	d, err := svc.Register(context.Background(), RegisterCommand{
		Name:     "Bruno",
		Phone:    "+5511999990000",
		Category: types.CategoryEconomy,
	})
	if err != nil {
		t.Fatalf("register driver: %v", err)
	}
	return d
}

func TestRegister(t *testing.T) {
	svc, roster := newTestService(t)
	d := registerTestDriver(t, svc)

	if !d.Available {
		t.Fatal("freshly registered drivers must be available")
	}
	if !roster.has(d.ID) {
		t.Fatal("registration must put the driver on the roster")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  RegisterCommand
	}{
		{"missing name", RegisterCommand{Phone: "+550", Category: types.CategoryEconomy}},
		{"missing phone", RegisterCommand{Name: "Bruno", Category: types.CategoryEconomy}},
		{"unknown category", RegisterCommand{Name: "Bruno", Phone: "+550", Category: "LUXURY"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.cmd); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _ := newTestService(t)
	registerTestDriver(t, svc)

	_, err := svc.Register(context.Background(), RegisterCommand{
		Name:     "Carla",
		Phone:    "+5511999990000",
		Category: types.CategoryComfort,
	})
	if !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestClaimRelease(t *testing.T) {
	svc, roster := newTestService(t)
	d := registerTestDriver(t, svc)
	ctx := context.Background()

	if err := svc.Claim(ctx, d.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	got, _ := svc.Get(ctx, d.ID)
	if got.Available {
		t.Fatal("claimed driver must be unavailable")
	}
	if roster.has(d.ID) {
		t.Fatal("claimed driver must leave the roster")
	}

	if err := svc.Claim(ctx, d.ID); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("second claim: expected ErrUnavailable, got %v", err)
	}

	if err := svc.Release(ctx, d.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	got, _ = svc.Get(ctx, d.ID)
	if !got.Available {
		t.Fatal("released driver must be available")
	}
	if !roster.has(d.ID) {
		t.Fatal("released driver must rejoin the roster")
	}

	// Releasing an already available driver is a no-op.
	if err := svc.Release(ctx, d.ID); err != nil {
		t.Fatalf("repeated release: %v", err)
	}
}

func TestClaimUnknownDriver(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Claim(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateNeverTouchesAvailability(t *testing.T) {
	svc, _ := newTestService(t)
	d := registerTestDriver(t, svc)
	ctx := context.Background()

	if err := svc.Claim(ctx, d.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	got, err := svc.Update(ctx, UpdateCommand{DriverID: d.ID, Name: "Bruno Silva"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Bruno Silva" {
		t.Fatalf("name = %q, want %q", got.Name, "Bruno Silva")
	}
	if got.Available {
		t.Fatal("update must not resurrect a claimed driver")
	}
}

// TestConcurrentClaims races several claims for the same driver. Exactly one
// may win.
func TestConcurrentClaims(t *testing.T) {
	svc, _ := newTestService(t)
	d := registerTestDriver(t, svc)
	ctx := context.Background()

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
			if err := svc.Claim(ctx, d.ID); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("claims succeeded = %d, want exactly 1", succeeded)
	}
}
