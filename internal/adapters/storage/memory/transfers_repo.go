package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"animal-registry/internal/domain/transfers"
)

// TransferRepo guarda las solicitudes en memoria. No tiene mutex propio:
// usa el de AnimalRepo, así el check-and-insert de la pendiente única y el
// compare-and-transition con escritura de dueño son atómicos frente a
// cualquier otra operación, como lo serían en la base.
type TransferRepo struct {
	animals *AnimalRepo
	byID    map[string]transfers.TransferRequest
}

func NewTransferRepo(animals *AnimalRepo) *TransferRepo {
	return &TransferRepo{
		animals: animals,
		byID:    make(map[string]transfers.TransferRequest),
	}
}

func (r *TransferRepo) CreatePending(ctx context.Context, t transfers.TransferRequest) error {
	r.animals.mu.Lock()
	defer r.animals.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return errors.New("transfer id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("transfer already exists")
	}

	// Equivalente del índice único parcial: una sola pending por animal,
	// validada dentro de la misma sección crítica que el insert.
	for _, existing := range r.byID {
		if existing.AnimalID == t.AnimalID && existing.Status == transfers.StatusPending {
			return transfers.ErrPendingExists
		}
	}

	t.Status = transfers.StatusPending
	r.byID[t.ID] = t
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (transfers.TransferRequest, error) {
	r.animals.mu.RLock()
	defer r.animals.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return transfers.TransferRequest{}, transfers.ErrNotFound
	}
	return t, nil
}

func (r *TransferRepo) PendingByAnimal(ctx context.Context, animalID string) (transfers.TransferRequest, error) {
	r.animals.mu.RLock()
	defer r.animals.mu.RUnlock()

	for _, t := range r.byID {
		if t.AnimalID == animalID && t.Status == transfers.StatusPending {
			return t, nil
		}
	}
	return transfers.TransferRequest{}, transfers.ErrNotFound
}

func (r *TransferRepo) ListPendingForNewOwner(ctx context.Context, userID string) ([]transfers.TransferRequest, error) {
	r.animals.mu.RLock()
	defer r.animals.mu.RUnlock()

	out := make([]transfers.TransferRequest, 0)
	for _, t := range r.byID {
		if t.NewOwnerID == userID && t.Status == transfers.StatusPending {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *TransferRepo) ListByCurrentOwner(ctx context.Context, userID string) ([]transfers.TransferRequest, error) {
	r.animals.mu.RLock()
	defer r.animals.mu.RUnlock()

	out := make([]transfers.TransferRequest, 0)
	for _, t := range r.byID {
		if t.CurrentOwnerID == userID {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *TransferRepo) CountPendingForNewOwner(ctx context.Context, userID string) (int, error) {
	r.animals.mu.RLock()
	defer r.animals.mu.RUnlock()

	n := 0
	for _, t := range r.byID {
		if t.NewOwnerID == userID && t.Status == transfers.StatusPending {
			n++
		}
	}
	return n, nil
}

func (r *TransferRepo) Resolve(ctx context.Context, transferID string, to transfers.Status, respondedAt time.Time) (bool, error) {
	if !to.IsTerminal() {
		return false, errors.New("resolve target must be terminal")
	}

	r.animals.mu.Lock()
	defer r.animals.mu.Unlock()

	t, ok := r.byID[transferID]
	if !ok {
		return false, transfers.ErrNotFound
	}
	if t.Status != transfers.StatusPending {
		// Compare-and-transition fallido: ya la resolvieron.
		return false, nil
	}

	t.Status = to
	t.RespondedAt = &respondedAt

	if to == transfers.StatusAccepted {
		if !r.animals.setOwnerLocked(t.AnimalID, t.NewOwnerID) {
			// El animal no existe: no dejamos media transición.
			return false, transfers.ErrNotFound
		}
	}

	r.byID[transferID] = t
	return true, nil
}

func sortNewestFirst(items []transfers.TransferRequest) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].RequestedAt.After(items[j].RequestedAt)
	})
}
