package animals

import (
	"context"
	"strings"
)

// Estado perdido/encontrado. Es ortogonal a las transferencias de propiedad:
// un animal perdido se puede transferir y una transferencia no limpia el
// estado perdido. Las dos máquinas no se pisan porque solo comparten
// owner_user_id, que acá nunca se escribe.

// MarkAsLost marca el animal como perdido. Solo el dueño. Si ya estaba
// perdido es un no-op exitoso que devuelve el estado actual (la única vuelta
// atrás es MarkAsFound, no re-marcar).
func (s *Service) MarkAsLost(ctx context.Context, animalID, actorID, notes string) (Animal, error) {
	animalID = strings.TrimSpace(animalID)
	actorID = strings.TrimSpace(actorID)
	if animalID == "" || actorID == "" {
		return Animal{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Animal{}, err
	}
	if a.OwnerUserID != actorID {
		return Animal{}, ErrNotOwner
	}

	if a.IsLost {
		return a, nil
	}

	now := s.now()
	a.IsLost = true
	a.LostSince = &now
	a.LostNotes = strings.TrimSpace(notes)
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// MarkAsFound limpia el estado perdido: lost_since y lost_notes quedan
// ausentes, no vacíos a medias. Idempotente.
func (s *Service) MarkAsFound(ctx context.Context, animalID, actorID string) (Animal, error) {
	animalID = strings.TrimSpace(animalID)
	actorID = strings.TrimSpace(actorID)
	if animalID == "" || actorID == "" {
		return Animal{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Animal{}, err
	}
	if a.OwnerUserID != actorID {
		return Animal{}, ErrNotOwner
	}

	if !a.IsLost {
		return a, nil
	}

	a.IsLost = false
	a.LostSince = nil
	a.LostNotes = ""
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// ListLost es la vista pública de animales perdidos.
func (s *Service) ListLost(ctx context.Context) ([]Animal, error) {
	return s.repo.ListLost(ctx)
}
