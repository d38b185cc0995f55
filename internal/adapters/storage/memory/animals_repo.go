package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"animal-registry/internal/domain/animals"
)

// AnimalRepo guarda los animales en memoria. El mutex lo comparte
// TransferRepo para que la transición aceptar-transferencia (status + dueño)
// sea una sola sección crítica, igual que la transacción en Postgres.
type AnimalRepo struct {
	mu    sync.RWMutex
	byID  map[string]animals.Animal
	byNfc map[string]string // nfc_id -> animal id
}

func NewAnimalRepo() *AnimalRepo {
	return &AnimalRepo{
		byID:  make(map[string]animals.Animal),
		byNfc: make(map[string]string),
	}
}

func (r *AnimalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	if _, exists := r.byNfc[a.NfcID]; exists {
		return animals.ErrNfcInUse
	}

	r.byID[a.ID] = a
	r.byNfc[a.NfcID] = a.ID
	return nil
}

func (r *AnimalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[a.ID]
	if !exists {
		return animals.ErrNotFound
	}

	// owner_user_id no se escribe por acá: lo preserva del registro existente
	// aunque el caller lo haya tocado. La única vía es TransferRepo.Resolve.
	a.OwnerUserID = prev.OwnerUserID
	a.NfcID = prev.NfcID

	r.byID[a.ID] = a
	return nil
}

func (r *AnimalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *AnimalRepo) GetByNfc(ctx context.Context, nfcID string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNfc[nfcID]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *AnimalRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID {
			out = append(out, a)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *AnimalRepo) ListLost(ctx context.Context) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if a.IsLost {
			out = append(out, a)
		}
	}

	// Perdidos más recientes primero
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].LostSince, out[j].LostSince
		if li == nil || lj == nil {
			return lj == nil
		}
		return li.After(*lj)
	})

	return out, nil
}

// setOwner existe solo para TransferRepo.Resolve. El caller ya tiene el lock.
func (r *AnimalRepo) setOwnerLocked(animalID, ownerUserID string) bool {
	a, ok := r.byID[animalID]
	if !ok {
		return false
	}
	a.OwnerUserID = ownerUserID
	r.byID[animalID] = a
	return true
}
