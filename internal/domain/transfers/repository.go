package transfers

import (
	"context"
	"errors"
	"time"
)

// ErrPendingExists lo devuelven los adapters cuando el insert pierde la
// carrera contra otra solicitud pendiente para el mismo animal.
var ErrPendingExists = errors.New("pending transfer exists for animal")

// Repository es el contrato mínimo contra el store (implementaciones en
// internal/adapters/storage). Los adapters traducen sus errores a ErrNotFound
// / ErrPendingExists; cualquier otro error se trata como falla de
// infraestructura y sube tal cual.
type Repository interface {
	// CreatePending inserta la solicitud validando "ninguna pendiente para
	// este animal" como una sola operación atómica (índice único parcial en
	// Postgres, sección crítica en memoria). Dos creates concurrentes para el
	// mismo animal: exactamente uno gana, el otro recibe ErrPendingExists.
	CreatePending(ctx context.Context, t TransferRequest) error

	GetByID(ctx context.Context, id string) (TransferRequest, error)

	// PendingByAnimal devuelve la única fila pending del animal, o ErrNotFound.
	PendingByAnimal(ctx context.Context, animalID string) (TransferRequest, error)

	// Ordenadas por requested_at descendente (más nuevas primero).
	ListPendingForNewOwner(ctx context.Context, userID string) ([]TransferRequest, error)
	ListByCurrentOwner(ctx context.Context, userID string) ([]TransferRequest, error)

	CountPendingForNewOwner(ctx context.Context, userID string) (int, error)

	// Resolve es la única primitiva del sistema que muta status y owner:
	// compare-and-transition pending -> to, y cuando to es accepted escribe
	// además animals.owner_user_id = new_owner_id en la misma transacción.
	// Devuelve (false, nil) si la fila ya no estaba pending: carrera perdida,
	// no un error. Nunca hay estado intermedio observable donde cambió uno
	// de los dos campos y el otro no.
	Resolve(ctx context.Context, transferID string, to Status, respondedAt time.Time) (bool, error)
}
