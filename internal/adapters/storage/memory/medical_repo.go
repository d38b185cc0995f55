package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"animal-registry/internal/domain/medical"
)

type medicalRepo struct {
	mu   sync.RWMutex
	byID map[string]medical.MedicalEvent
}

func NewMedicalRepo() medical.Repository {
	return &medicalRepo{
		byID: make(map[string]medical.MedicalEvent),
	}
}

func (r *medicalRepo) Create(ctx context.Context, e medical.MedicalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *medicalRepo) GetByID(ctx context.Context, id string) (medical.MedicalEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return medical.MedicalEvent{}, medical.ErrNotFound
	}
	return e, nil
}

func (r *medicalRepo) ListByAnimal(ctx context.Context, animalID string, filter medical.ListFilter) ([]medical.MedicalEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medical.MedicalEvent, 0)
	for _, e := range r.byID {
		if e.AnimalID != animalID {
			continue
		}
		if !matchesFilter(e, filter) {
			continue
		}
		out = append(out, e)
	}

	// Más recientes primero (timeline)
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *medicalRepo) Void(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return medical.ErrNotFound
	}
	e.Status = medical.EventStatusVoided
	r.byID[id] = e
	return nil
}

func matchesFilter(e medical.MedicalEvent, filter medical.ListFilter) bool {
	if len(filter.Types) > 0 {
		found := false
		for _, t := range filter.Types {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.From != nil && e.OccurredAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && e.OccurredAt.After(*filter.To) {
		return false
	}
	return true
}
