package animals

import "context"

// OwnerOf expone el dueño actual de un animal.
// Se usa para evitar ciclos de imports entre módulos (animals <-> transfers).
func (s *Service) OwnerOf(ctx context.Context, animalID string) (string, error) {
	a, err := s.GetByID(ctx, animalID)
	if err != nil {
		return "", err
	}
	return a.OwnerUserID, nil
}
