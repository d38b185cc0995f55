package transfers

import "time"

// Status es un conjunto cerrado: cualquier estado nuevo obliga a revisar
// los switch exhaustivos de policy.go y service.go.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// IsTerminal indica si el estado no admite más transiciones.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// TransferRequest registra la intención de mover la propiedad legal de un
// animal de un usuario a otro. Es un log append-only: las filas terminales
// nunca se borran ni se vuelven a mutar (auditoría).
//
// La fuente de verdad de la propiedad actual es animals.owner_user_id;
// una fila acá solo manda mientras está pending.
type TransferRequest struct {
	ID string

	AnimalID string

	CurrentOwnerID string // quien entrega
	NewOwnerID     string // quien recibe (invariante: distinto del actual)

	Status Status
	Notes  string

	RequestedAt time.Time
	RespondedAt *time.Time // se setea una sola vez, al pasar a terminal
}
