package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"animal-registry/internal/domain/medical"
)

type MedicalRepo struct {
	db *sql.DB
}

func NewMedicalRepo(db *sql.DB) *MedicalRepo {
	return &MedicalRepo{db: db}
}

const medicalCols = `
	id, animal_id, type, occurred_at, recorded_at,
	title, notes, vet_name, clinic, recorded_by,
	vaccine, dose, next_due, status`

func (r *MedicalRepo) Create(ctx context.Context, e medical.MedicalEvent) error {
	var vaccine, dose sql.NullString
	var nextDue sql.NullTime
	if e.Vaccination != nil {
		vaccine = sql.NullString{String: e.Vaccination.Vaccine, Valid: true}
		dose = sql.NullString{String: e.Vaccination.Dose, Valid: true}
		nextDue = toNullDate(e.Vaccination.NextDue)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medical_events (
			id, animal_id, type, occurred_at, recorded_at,
			title, notes, vet_name, clinic, recorded_by,
			vaccine, dose, next_due, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		e.ID,
		e.AnimalID,
		string(e.Type),
		e.OccurredAt,
		e.RecordedAt,
		e.Title,
		e.Notes,
		e.VetName,
		e.Clinic,
		e.RecordedBy,
		vaccine,
		dose,
		nextDue,
		string(e.Status),
	)
	return err
}

func (r *MedicalRepo) GetByID(ctx context.Context, id string) (medical.MedicalEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medical.MedicalEvent{}, medical.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicalCols+`
		FROM medical_events
		WHERE id = $1
	`, id)

	return scanMedicalEvent(row)
}

func (r *MedicalRepo) ListByAnimal(ctx context.Context, animalID string, filter medical.ListFilter) ([]medical.MedicalEvent, error) {
	query := `
		SELECT ` + medicalCols + `
		FROM medical_events
		WHERE animal_id = $1`
	args := []any{animalID}

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			args = append(args, string(t))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		query += " AND type IN (" + strings.Join(placeholders, ",") + ")"
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}

	query += " ORDER BY occurred_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medical.MedicalEvent, 0)
	for rows.Next() {
		e, err := scanMedicalEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *MedicalRepo) Void(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medical_events
		SET status = 'voided'
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medical.ErrNotFound
	}
	return nil
}

func scanMedicalEvent(row rowScanner) (medical.MedicalEvent, error) {
	var e medical.MedicalEvent
	var typ, status string
	var vaccine, dose sql.NullString
	var nextDue sql.NullTime

	if err := row.Scan(
		&e.ID,
		&e.AnimalID,
		&typ,
		&e.OccurredAt,
		&e.RecordedAt,
		&e.Title,
		&e.Notes,
		&e.VetName,
		&e.Clinic,
		&e.RecordedBy,
		&vaccine,
		&dose,
		&nextDue,
		&status,
	); err != nil {
		if err == sql.ErrNoRows {
			return medical.MedicalEvent{}, medical.ErrNotFound
		}
		return medical.MedicalEvent{}, err
	}

	e.Type = medical.EventType(typ)
	e.Status = medical.EventStatus(status)

	if vaccine.Valid {
		d := &medical.VaccinationDetail{
			Vaccine: vaccine.String,
			Dose:    dose.String,
		}
		if nextDue.Valid {
			t := nextDue.Time
			d.NextDue = &t
		}
		e.Vaccination = d
	}

	return e, nil
}
