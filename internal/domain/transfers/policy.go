package transfers

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// Violaciones de política al crear la solicitud.
	ErrNotOwner               = errors.New("requester is not the current owner")
	ErrSelfTransfer           = errors.New("new owner is already the owner")
	ErrTransferAlreadyPending = errors.New("a pending transfer already exists for this animal")

	// Violaciones de política/estado al responder.
	ErrNotAuthorized = errors.New("actor is not allowed to resolve this transfer")
	ErrNotPending    = errors.New("transfer already resolved")
)

// La política es pura: decide, no muta. El engine la consulta antes de tocar
// el store y el store re-valida lo que importa (pending) en la transición atómica.

// CanRequest decide si requesterID puede pedir transferir el animal a
// newOwnerID. hasPending viene de una lectura previa: sirve para fallar
// rápido; la autoridad real contra carreras es el insert atómico del repo.
func CanRequest(animalOwnerID, requesterID, newOwnerID string, hasPending bool) error {
	if requesterID != animalOwnerID {
		return ErrNotOwner
	}
	if newOwnerID == animalOwnerID {
		return ErrSelfTransfer
	}
	if hasPending {
		return ErrTransferAlreadyPending
	}
	return nil
}

// CanAccept: solo el dueño propuesto, y solo mientras está pending.
// La autorización se evalúa antes que el estado: un extraño recibe
// ErrNotAuthorized aunque la solicitud ya esté resuelta.
func CanAccept(t TransferRequest, actorID string) error {
	return canRespond(t, actorID)
}

// CanReject: misma autorización que aceptar (rechaza el dueño propuesto).
func CanReject(t TransferRequest, actorID string) error {
	return canRespond(t, actorID)
}

// CanCancel: solo el dueño actual, y solo mientras está pending.
func CanCancel(t TransferRequest, actorID string) error {
	if actorID != t.CurrentOwnerID {
		return ErrNotAuthorized
	}
	switch t.Status {
	case StatusPending:
		return nil
	case StatusAccepted, StatusRejected, StatusCancelled:
		return ErrNotPending
	default:
		return ErrNotPending
	}
}

func canRespond(t TransferRequest, actorID string) error {
	if actorID != t.NewOwnerID {
		return ErrNotAuthorized
	}
	switch t.Status {
	case StatusPending:
		return nil
	case StatusAccepted, StatusRejected, StatusCancelled:
		return ErrNotPending
	default:
		return ErrNotPending
	}
}
