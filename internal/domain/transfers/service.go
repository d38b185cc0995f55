package transfers

import (
	"context"
	"errors"
	"strings"
	"time"

	"animal-registry/internal/domain/animals"

	"github.com/google/uuid"
)

// AnimalDirectory es la vista mínima sobre animales que el engine necesita
// (interfaz propia para poder fakearla en tests). La ausencia se señala con
// animals.ErrNotFound; cualquier otro error es falla de infraestructura y
// sube tal cual, nunca disfrazado de "no existe".
type AnimalDirectory interface {
	OwnerOf(ctx context.Context, animalID string) (string, error)
}

// Service es el engine de transferencias: todas las escrituras de
// owner_user_id del sistema pasan por acá (vía Repository.Resolve).
type Service struct {
	repo    Repository
	animals AnimalDirectory
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalDirectory) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		now:     time.Now,
	}
}

type RequestInput struct {
	AnimalID   string
	NewOwnerID string
	Notes      string
}

// Request crea una solicitud pending. Las violaciones de política se detectan
// antes de tocar el store; la unicidad de la pending la garantiza el insert
// atómico del repo aunque dos dispositivos pidan a la vez.
func (s *Service) Request(ctx context.Context, requesterID string, in RequestInput) (TransferRequest, error) {
	requesterID = strings.TrimSpace(requesterID)
	animalID := strings.TrimSpace(in.AnimalID)
	newOwnerID := strings.TrimSpace(in.NewOwnerID)

	if requesterID == "" || animalID == "" || newOwnerID == "" {
		return TransferRequest{}, ErrInvalidInput
	}

	ownerID, err := s.animals.OwnerOf(ctx, animalID)
	if errors.Is(err, animals.ErrNotFound) {
		return TransferRequest{}, ErrNotFound
	}
	if err != nil {
		return TransferRequest{}, err
	}
	if strings.TrimSpace(ownerID) == "" {
		return TransferRequest{}, ErrNotFound
	}

	// Pre-chequeo para responder con el error de política sin intentar el
	// insert. No alcanza contra carreras: eso lo cierra CreatePending.
	hasPending := false
	if _, err := s.repo.PendingByAnimal(ctx, animalID); err == nil {
		hasPending = true
	} else if !errors.Is(err, ErrNotFound) {
		return TransferRequest{}, err
	}

	if err := CanRequest(ownerID, requesterID, newOwnerID, hasPending); err != nil {
		return TransferRequest{}, err
	}

	t := TransferRequest{
		ID:             uuid.NewString(),
		AnimalID:       animalID,
		CurrentOwnerID: requesterID,
		NewOwnerID:     newOwnerID,
		Status:         StatusPending,
		Notes:          strings.TrimSpace(in.Notes),
		RequestedAt:    s.now(),
	}

	if err := s.repo.CreatePending(ctx, t); err != nil {
		if errors.Is(err, ErrPendingExists) {
			return TransferRequest{}, ErrTransferAlreadyPending
		}
		return TransferRequest{}, err
	}
	return t, nil
}

// Accept resuelve la solicitud a accepted y mueve la propiedad, todo en una
// transición atómica. (false, nil) si otro actor la resolvió primero: el
// caller refresca su vista, no reintenta.
func (s *Service) Accept(ctx context.Context, transferID, actorID string) (bool, error) {
	return s.resolve(ctx, transferID, actorID, StatusAccepted)
}

// Reject resuelve a rejected. La propiedad no cambia.
func (s *Service) Reject(ctx context.Context, transferID, actorID string) (bool, error) {
	return s.resolve(ctx, transferID, actorID, StatusRejected)
}

// Cancel la retira el dueño actual mientras siga pending.
func (s *Service) Cancel(ctx context.Context, transferID, actorID string) (bool, error) {
	return s.resolve(ctx, transferID, actorID, StatusCancelled)
}

func (s *Service) resolve(ctx context.Context, transferID, actorID string, to Status) (bool, error) {
	transferID = strings.TrimSpace(transferID)
	actorID = strings.TrimSpace(actorID)
	if transferID == "" || actorID == "" {
		return false, ErrInvalidInput
	}

	t, err := s.repo.GetByID(ctx, transferID)
	if err != nil {
		return false, err
	}

	var policyErr error
	switch to {
	case StatusAccepted:
		policyErr = CanAccept(t, actorID)
	case StatusRejected:
		policyErr = CanReject(t, actorID)
	case StatusCancelled:
		policyErr = CanCancel(t, actorID)
	case StatusPending:
		return false, ErrInvalidInput
	default:
		return false, ErrInvalidInput
	}

	if errors.Is(policyErr, ErrNotPending) {
		// Ya la resolvieron: carrera esperada, reintento idempotente.
		return false, nil
	}
	if policyErr != nil {
		return false, policyErr
	}

	// La lectura de arriba puede estar vieja; Resolve re-valida pending en la
	// misma transacción que escribe. Acá nunca hay read-then-write en dos
	// round trips.
	return s.repo.Resolve(ctx, transferID, to, s.now())
}

// PendingForAnimal alimenta el banner del perfil del animal. Solo filas
// pending: las terminales son historia.
func (s *Service) PendingForAnimal(ctx context.Context, animalID string) (TransferRequest, bool, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return TransferRequest{}, false, ErrInvalidInput
	}

	t, err := s.repo.PendingByAnimal(ctx, animalID)
	if errors.Is(err, ErrNotFound) {
		return TransferRequest{}, false, nil
	}
	if err != nil {
		return TransferRequest{}, false, err
	}
	return t, true, nil
}

// IncomingPending: solicitudes que esperan decisión de userID como nuevo dueño.
func (s *Service) IncomingPending(ctx context.Context, userID string) ([]TransferRequest, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListPendingForNewOwner(ctx, userID)
}

// OutgoingByOwner: todas las solicitudes creadas por userID, en cualquier
// estado, más nuevas primero.
func (s *Service) OutgoingByOwner(ctx context.Context, userID string) ([]TransferRequest, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByCurrentOwner(ctx, userID)
}

// CountIncomingPending se recalcula en cada llamada (nada de cache: el badge
// de la UI decide su propio polling).
func (s *Service) CountIncomingPending(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.CountPendingForNewOwner(ctx, userID)
}
