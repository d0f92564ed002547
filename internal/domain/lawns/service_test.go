package lawns

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Profile
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Profile{}}
}

func (r *testRepo) activeConflict(p Profile) bool {
	if !p.IsActive {
		return false
	}
	for _, other := range r.byID {
		if other.ID != p.ID && other.UserID == p.UserID && other.IsActive {
			return true
		}
	}
	return false
}

func (r *testRepo) Create(ctx context.Context, p Profile) error {
	if r.activeConflict(p) {
		return ErrActiveProfileExists
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	if r.activeConflict(p) {
		return ErrActiveProfileExists
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) GetActiveByUser(ctx context.Context, userID string) (Profile, error) {
	for _, p := range r.byID {
		if p.UserID == userID && p.IsActive {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func ptr[T any](v T) *T { return &v }

// -------------------------
// Tests
// -------------------------

func TestService_Create_AppliesDefaults(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:      "  Front yard ",
		Latitude:  52.2,
		Longitude: 21.0,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.ID == "" || p.UserID != "user-1" || p.Name != "Front yard" {
		t.Fatalf("unexpected profile: %#v", p)
	}
	if p.SizeM2 != DefaultSizeM2 || p.SunExposure != SunMedium || !p.IsActive {
		t.Fatalf("expected defaults, got %#v", p)
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: %v %v", p.CreatedAt, p.UpdatedAt)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"empty name", CreateInput{Name: " ", Latitude: 1, Longitude: 1}},
		{"latitude", CreateInput{Name: "x", Latitude: 91, Longitude: 1}},
		{"longitude", CreateInput{Name: "x", Latitude: 1, Longitude: -181}},
		{"size", CreateInput{Name: "x", SizeM2: ptr(0.0)}},
		{"sun", CreateInput{Name: "x", SunExposure: ptr(SunExposure("full"))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Create_SecondActiveProfileConflicts(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", CreateInput{Name: "A", Latitude: 1, Longitude: 1}); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	_, err := svc.Create(ctx, "user-1", CreateInput{Name: "B", Latitude: 1, Longitude: 1})
	if !errors.Is(err, ErrActiveProfileExists) {
		t.Fatalf("expected ErrActiveProfileExists, got %v", err)
	}

	// Inactivo no choca.
	if _, err := svc.Create(ctx, "user-1", CreateInput{Name: "C", Latitude: 1, Longitude: 1, IsActive: ptr(false)}); err != nil {
		t.Fatalf("Create inactive error: %v", err)
	}
}

func TestService_Update_OrderOfChecks(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, _ := svc.Create(ctx, "owner", CreateInput{Name: "A", Latitude: 1, Longitude: 1})

	if _, err := svc.Update(ctx, "owner", "missing", UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// 403 antes que validación.
	if _, err := svc.Update(ctx, "intruder", p.ID, UpdateInput{SizeM2: ptr(-1.0)}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, "owner", p.ID, UpdateInput{SizeM2: ptr(-1.0)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Update_ClearsSurfaceType(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	t0 := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }
	p, _ := svc.Create(ctx, "owner", CreateInput{Name: "A", Latitude: 1, Longitude: 1, SurfaceType: ptr("clay")})
	if p.SurfaceType == nil || *p.SurfaceType != "clay" {
		t.Fatalf("expected surface type, got %v", p.SurfaceType)
	}

	// Sin cambios: mismo perfil, updated_at intacto.
	svc.now = func() time.Time { return t0.Add(time.Hour) }
	same, err := svc.Update(ctx, "owner", p.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("empty Update error: %v", err)
	}
	if !same.UpdatedAt.Equal(t0) {
		t.Fatalf("expected untouched updated_at, got %v", same.UpdatedAt)
	}

	got, err := svc.Update(ctx, "owner", p.ID, UpdateInput{
		Name:        ptr("Back yard"),
		SurfaceType: OptionalString{Present: true},
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.SurfaceType != nil || got.Name != "Back yard" {
		t.Fatalf("unexpected updated profile: %#v", got)
	}
	if !got.UpdatedAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("expected updated_at bump, got %v", got.UpdatedAt)
	}
}

func TestService_GetActive_And_OwnerOf(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.GetActive(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p, _ := svc.Create(ctx, "user-1", CreateInput{Name: "A", Latitude: 1, Longitude: 1})
	active, err := svc.GetActive(ctx, "user-1")
	if err != nil || active.ID != p.ID {
		t.Fatalf("expected active profile %s, got %v / %v", p.ID, active.ID, err)
	}

	owner, err := svc.OwnerOf(ctx, p.ID)
	if err != nil || owner != "user-1" {
		t.Fatalf("OwnerOf: got %q / %v", owner, err)
	}
	if _, err := svc.OwnerOf(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}
}
