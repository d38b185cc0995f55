package animals

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Animal
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(ctx context.Context, a Animal) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	for _, other := range r.byID {
		if other.NfcID == a.NfcID {
			return ErrNfcInUse
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	existing, ok := r.byID[a.ID]
	if !ok {
		return ErrNotFound
	}
	// igual que los adapters reales: owner y nfc no se pisan por Update
	a.OwnerUserID = existing.OwnerUserID
	a.NfcID = existing.NfcID
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetByNfc(ctx context.Context, nfcID string) (Animal, error) {
	for _, a := range r.byID {
		if a.NfcID == nfcID {
			return a, nil
		}
	}
	return Animal{}, ErrNotFound
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) ListLost(ctx context.Context) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.IsLost {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LostSince.After(*out[j].LostSince)
	})
	return out, nil
}

func newFixture() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Register(t *testing.T) {
	svc, _ := newFixture()

	a, err := svc.Register(context.Background(), "owner-1", RegisterInput{
		NfcID:  " nfc-001 ",
		Name:   "  Milo ",
		Race:   "mixed",
		Gender: "male",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}
	if a.OwnerUserID != "owner-1" {
		t.Fatalf("wrong owner %s", a.OwnerUserID)
	}
	if a.NfcID != "nfc-001" || a.Name != "Milo" {
		t.Fatalf("expected trimmed fields, got %q %q", a.NfcID, a.Name)
	}
	if a.IsLost || a.LostSince != nil || a.LostNotes != "" {
		t.Fatalf("new animal must not be lost")
	}
}

func TestService_Register_Validation(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		owner string
		in    RegisterInput
	}{
		{"sin owner", "", RegisterInput{NfcID: "n", Name: "Milo", Gender: "male"}},
		{"sin nfc", "owner-1", RegisterInput{Name: "Milo", Gender: "male"}},
		{"sin nombre", "owner-1", RegisterInput{NfcID: "n", Gender: "male"}},
		{"gender inválido", "owner-1", RegisterInput{NfcID: "n", Name: "Milo", Gender: "yes"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.owner, tc.in); err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Register_NfcMustBeUnique(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "owner-1", RegisterInput{NfcID: "nfc-001", Name: "Milo", Gender: "male"}); err != nil {
		t.Fatalf("Register #1 error: %v", err)
	}
	if _, err := svc.Register(ctx, "owner-2", RegisterInput{NfcID: "nfc-001", Name: "Luna", Gender: "female"}); err != ErrNfcInUse {
		t.Fatalf("expected ErrNfcInUse, got %v", err)
	}
}

func TestService_FindByNfc(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	a, _ := svc.Register(ctx, "owner-1", RegisterInput{NfcID: "nfc-001", Name: "Milo", Gender: "male"})

	got, err := svc.FindByNfc(ctx, "nfc-001")
	if err != nil {
		t.Fatalf("FindByNfc error: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("wrong animal %s", got.ID)
	}
	if _, err := svc.FindByNfc(ctx, "nfc-999"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_UpdateProfile(t *testing.T) {
	svc, repo := newFixture()
	ctx := context.Background()

	a, _ := svc.Register(ctx, "owner-1", RegisterInput{NfcID: "nfc-001", Name: "Milo", Gender: "male"})

	name := "Milo Updated"
	notes := " le tiene miedo a los truenos "
	got, err := svc.UpdateProfile(ctx, a.ID, "owner-1", UpdateProfileInput{
		Name:  &name,
		Notes: &notes,
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if got.Name != "Milo Updated" {
		t.Fatalf("name not updated: %q", got.Name)
	}
	if got.Notes != "le tiene miedo a los truenos" {
		t.Fatalf("expected trimmed notes, got %q", got.Notes)
	}
	// campos no enviados quedan intactos
	if got.Race != a.Race || got.Gender != a.Gender {
		t.Fatalf("untouched fields changed: %#v", got)
	}

	// no dueño => forbidden, nada cambia
	other := "Hacked"
	if _, err := svc.UpdateProfile(ctx, a.ID, "user-2", UpdateProfileInput{Name: &other}); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	stored, _ := repo.GetByID(ctx, a.ID)
	if stored.Name != "Milo Updated" {
		t.Fatalf("forbidden edit must not persist")
	}

	// nombre vacío no pisa el existente
	empty := "  "
	if _, err := svc.UpdateProfile(ctx, a.ID, "owner-1", UpdateProfileInput{Name: &empty}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_UpdateProfile_ClearBirthdate(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	birth := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	a, _ := svc.Register(ctx, "owner-1", RegisterInput{
		NfcID: "nfc-001", Name: "Milo", Gender: "male", Birthdate: &birth,
	})

	got, err := svc.UpdateProfile(ctx, a.ID, "owner-1", UpdateProfileInput{ClearBirth: true})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if got.Birthdate != nil {
		t.Fatalf("expected birthdate cleared")
	}
}

func TestService_MarkAsLost_And_Found(t *testing.T) {
	// Escenario: marcar perdido setea is_lost, lost_since y lost_notes;
	// marcar encontrado limpia los tres (ausentes, no a medias).
	svc, _ := newFixture()
	ctx := context.Background()

	a, _ := svc.Register(ctx, "owner-1", RegisterInput{NfcID: "nfc-001", Name: "Milo", Gender: "male"})

	lost, err := svc.MarkAsLost(ctx, a.ID, "owner-1", "seen near the park")
	if err != nil {
		t.Fatalf("MarkAsLost error: %v", err)
	}
	if !lost.IsLost {
		t.Fatalf("expected is_lost=true")
	}
	if lost.LostSince == nil || lost.LostNotes != "seen near the park" {
		t.Fatalf("expected lost_since + notes set, got %#v", lost)
	}

	found, err := svc.MarkAsFound(ctx, a.ID, "owner-1")
	if err != nil {
		t.Fatalf("MarkAsFound error: %v", err)
	}
	if found.IsLost || found.LostSince != nil || found.LostNotes != "" {
		t.Fatalf("expected lost state fully cleared, got %#v", found)
	}
}

func TestService_MarkAsLost_RemarkIsNoop(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	a, _ := svc.Register(ctx, "owner-1", RegisterInput{NfcID: "nfc-001", Name: "Milo", Gender: "male"})

	first, _ := svc.MarkAsLost(ctx, a.ID, "owner-1", "original notes")

	// Re-marcar no pisa ni notas ni timestamp.
	again, err := svc.MarkAsLost(ctx, a.ID, "owner-1", "different notes")
	if err != nil {
		t.Fatalf("MarkAsLost #2 error: %v", err)
	}
	if again.LostNotes != "original notes" {
		t.Fatalf("remark must not overwrite notes, got %q", again.LostNotes)
	}
	if !again.LostSince.Equal(*first.LostSince) {
		t.Fatalf("remark must not move lost_since")
	}
}

func TestService_MarkAsFound_Idempotent(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	a, _ := svc.Register(ctx, "owner-1", RegisterInput{NfcID: "nfc-001", Name: "Milo", Gender: "male"})

	got, err := svc.MarkAsFound(ctx, a.ID, "owner-1")
	if err != nil {
		t.Fatalf("MarkAsFound on non-lost error: %v", err)
	}
	if got.IsLost {
		t.Fatalf("expected not lost")
	}
}

func TestService_LostStatus_OwnerOnly(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	a, _ := svc.Register(ctx, "owner-1", RegisterInput{NfcID: "nfc-001", Name: "Milo", Gender: "male"})

	if _, err := svc.MarkAsLost(ctx, a.ID, "user-2", ""); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.MarkAsFound(ctx, a.ID, "user-2"); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestService_ListLost(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	a1, _ := svc.Register(ctx, "owner-1", RegisterInput{NfcID: "nfc-001", Name: "Milo", Gender: "male"})
	a2, _ := svc.Register(ctx, "owner-2", RegisterInput{NfcID: "nfc-002", Name: "Luna", Gender: "female"})
	_, _ = svc.Register(ctx, "owner-3", RegisterInput{NfcID: "nfc-003", Name: "Rocky", Gender: "male"})

	_, _ = svc.MarkAsLost(ctx, a1.ID, "owner-1", "")
	_, _ = svc.MarkAsLost(ctx, a2.ID, "owner-2", "")

	lost, err := svc.ListLost(ctx)
	if err != nil {
		t.Fatalf("ListLost error: %v", err)
	}
	if len(lost) != 2 {
		t.Fatalf("expected 2 lost animals, got %d", len(lost))
	}
	// perdidos más recientes primero
	if lost[0].ID != a2.ID || lost[1].ID != a1.ID {
		t.Fatalf("wrong order: %s, %s", lost[0].ID, lost[1].ID)
	}
}
