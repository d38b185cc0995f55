package users

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
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Upsert(ctx context.Context, u User) error {
	if u.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByCIN(ctx context.Context, cin string) (User, error) {
	for _, u := range r.byID {
		if u.CIN == cin {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// -------------------------
// Tests
// -------------------------

func TestService_UpsertProfile(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	now2 := now1.Add(24 * time.Hour)
	svc.now = func() time.Time { return now1 }

	u, err := svc.UpsertProfile(context.Background(), "user-1", ProfileInput{
		Email:    " Ana@Example.COM ",
		FullName: "Ana Pérez",
		CIN:      " AB123456 ",
		Mobile:   "0600000000",
	})
	if err != nil {
		t.Fatalf("UpsertProfile error: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("expected lowercased email, got %q", u.Email)
	}
	if u.CIN != "AB123456" {
		t.Fatalf("expected trimmed cin, got %q", u.CIN)
	}
	if u.CreatedAt != now1 || u.UpdatedAt != now1 {
		t.Fatalf("expected timestamps at now1")
	}

	// re-upsert conserva created_at
	svc.now = func() time.Time { return now2 }
	u2, err := svc.UpsertProfile(context.Background(), "user-1", ProfileInput{
		Email:   "ana@example.com",
		Address: "Calle 1",
	})
	if err != nil {
		t.Fatalf("UpsertProfile #2 error: %v", err)
	}
	if u2.CreatedAt != now1 {
		t.Fatalf("expected created_at preserved, got %v", u2.CreatedAt)
	}
	if u2.UpdatedAt != now2 {
		t.Fatalf("expected updated_at moved, got %v", u2.UpdatedAt)
	}
}

func TestService_UpsertProfile_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.UpsertProfile(ctx, " ", ProfileInput{Email: "a@b.c"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpsertProfile(ctx, "user-1", ProfileInput{Email: "  "}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_FindByCIN_And_Email(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.UpsertProfile(ctx, "user-1", ProfileInput{
		Email: "ana@example.com",
		CIN:   "AB123456",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u, err := svc.FindByCIN(ctx, " AB123456 ")
	if err != nil || u.ID != "user-1" {
		t.Fatalf("FindByCIN: %v %s", err, u.ID)
	}
	if _, err := svc.FindByCIN(ctx, "ZZ999999"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	u, err = svc.FindByEmail(ctx, "ANA@example.com")
	if err != nil || u.ID != "user-1" {
		t.Fatalf("FindByEmail: %v %s", err, u.ID)
	}
	if _, err := svc.FindByEmail(ctx, " "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
