package notifications

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

// PendingCounter evita importar el paquete transfers (rompe ciclos).
type PendingCounter interface {
	CountIncomingPending(ctx context.Context, userID string) (int, error)
}

// Service deriva el badge de "transferencias pendientes" para la UI.
// Es una vista de solo lectura sobre el engine: cada llamada recalcula
// contra el store, jamás cachea (un badge viejo es peor que un round trip).
type Service struct {
	transfers PendingCounter
}

func NewService(transfers PendingCounter) *Service {
	return &Service{transfers: transfers}
}

func (s *Service) HasPendingTransfers(ctx context.Context, userID string) (bool, error) {
	n, err := s.PendingCount(ctx, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Service) PendingCount(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrInvalidInput
	}
	return s.transfers.CountIncomingPending(ctx, userID)
}
