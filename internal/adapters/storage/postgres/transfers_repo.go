package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"animal-registry/internal/domain/transfers"
)

// TransfersRepo implementa las dos primitivas atómicas del engine:
//   - CreatePending: el índice único parcial uq_transfers_pending_animal
//     (animal_id WHERE status='pending') hace que dos inserts concurrentes
//     nunca dejen dos pendientes.
//   - Resolve: UPDATE condicionado a status='pending' + escritura del dueño
//     dentro de la misma transacción. Jamás read-then-write en dos viajes.
type TransfersRepo struct {
	db *sql.DB
}

func NewTransfersRepo(db *sql.DB) *TransfersRepo {
	return &TransfersRepo{db: db}
}

const transferCols = `
	id, animal_id, current_owner_id, new_owner_id,
	status, notes, requested_at, responded_at`

func (r *TransfersRepo) CreatePending(ctx context.Context, t transfers.TransferRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ownership_transfer_requests (
			id, animal_id, current_owner_id, new_owner_id,
			status, notes, requested_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		t.ID,
		t.AnimalID,
		t.CurrentOwnerID,
		t.NewOwnerID,
		string(transfers.StatusPending),
		t.Notes,
		t.RequestedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return transfers.ErrPendingExists
		}
		return err
	}
	return nil
}

func (r *TransfersRepo) GetByID(ctx context.Context, id string) (transfers.TransferRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return transfers.TransferRequest{}, transfers.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+transferCols+`
		FROM ownership_transfer_requests
		WHERE id = $1
	`, id)

	return scanTransfer(row)
}

func (r *TransfersRepo) PendingByAnimal(ctx context.Context, animalID string) (transfers.TransferRequest, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return transfers.TransferRequest{}, transfers.ErrNotFound
	}

	// El índice único parcial garantiza a lo sumo una fila.
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transferCols+`
		FROM ownership_transfer_requests
		WHERE animal_id = $1 AND status = 'pending'
	`, animalID)

	return scanTransfer(row)
}

func (r *TransfersRepo) ListPendingForNewOwner(ctx context.Context, userID string) ([]transfers.TransferRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transferCols+`
		FROM ownership_transfer_requests
		WHERE new_owner_id = $1 AND status = 'pending'
		ORDER BY requested_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func (r *TransfersRepo) ListByCurrentOwner(ctx context.Context, userID string) ([]transfers.TransferRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transferCols+`
		FROM ownership_transfer_requests
		WHERE current_owner_id = $1
		ORDER BY requested_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func (r *TransfersRepo) CountPendingForNewOwner(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM ownership_transfer_requests
		WHERE new_owner_id = $1 AND status = 'pending'
	`, userID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *TransfersRepo) Resolve(ctx context.Context, transferID string, to transfers.Status, respondedAt time.Time) (bool, error) {
	if !to.IsTerminal() {
		return false, transfers.ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	// Compare-and-transition: la condición status='pending' se evalúa en la
	// misma sentencia que escribe. Cero filas = otro dispositivo llegó antes.
	var animalID, newOwnerID string
	err = tx.QueryRowContext(ctx, `
		UPDATE ownership_transfer_requests
		SET status = $2, responded_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING animal_id, new_owner_id
	`, transferID, string(to), respondedAt).Scan(&animalID, &newOwnerID)
	if err == sql.ErrNoRows {
		// O no existe o ya está resuelta; el engine distingue con su lectura.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if to == transfers.StatusAccepted {
		res, err := tx.ExecContext(ctx, `
			UPDATE animals
			SET owner_user_id = $2, updated_at = $3
			WHERE id = $1
		`, animalID, newOwnerID, respondedAt)
		if err != nil {
			return false, err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			// Animal desaparecido: rollback, nada de media transición.
			return false, transfers.ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func scanTransfer(row rowScanner) (transfers.TransferRequest, error) {
	var t transfers.TransferRequest
	var status string
	var respondedAt sql.NullTime

	if err := row.Scan(
		&t.ID,
		&t.AnimalID,
		&t.CurrentOwnerID,
		&t.NewOwnerID,
		&status,
		&t.Notes,
		&t.RequestedAt,
		&respondedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return transfers.TransferRequest{}, transfers.ErrNotFound
		}
		return transfers.TransferRequest{}, err
	}

	t.Status = transfers.Status(status)
	if respondedAt.Valid {
		ts := respondedAt.Time
		t.RespondedAt = &ts
	}
	return t, nil
}

func scanTransfers(rows *sql.Rows) ([]transfers.TransferRequest, error) {
	out := make([]transfers.TransferRequest, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
