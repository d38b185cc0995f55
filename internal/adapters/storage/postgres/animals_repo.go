package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"animal-registry/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalCols = `
	id, owner_user_id, nfc_id,
	name, race, gender,
	birthdate, birthplace, image_url, notes,
	is_lost, lost_since, lost_notes,
	created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (
			id, owner_user_id, nfc_id,
			name, race, gender,
			birthdate, birthplace, image_url, notes,
			is_lost, lost_since, lost_notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		a.ID,
		a.OwnerUserID,
		a.NfcID,
		a.Name,
		a.Race,
		string(a.Gender),
		toNullDate(a.Birthdate),
		a.Birthplace,
		a.ImageURL,
		a.Notes,
		a.IsLost,
		toNullTime(a.LostSince),
		toNullString(a.LostNotes),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return animals.ErrNfcInUse
		}
		return err
	}
	return nil
}

// Update escribe perfil y estado perdido. owner_user_id y nfc_id quedan
// fuera del SET deliberadamente: el dueño solo lo mueve TransfersRepo.Resolve.
func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			name = $2,
			race = $3,
			gender = $4,
			birthdate = $5,
			birthplace = $6,
			image_url = $7,
			notes = $8,
			is_lost = $9,
			lost_since = $10,
			lost_notes = $11,
			updated_at = $12
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		a.Race,
		string(a.Gender),
		toNullDate(a.Birthdate),
		a.Birthplace,
		a.ImageURL,
		a.Notes,
		a.IsLost,
		toNullTime(a.LostSince),
		toNullString(a.LostNotes),
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalCols+`
		FROM animals
		WHERE id = $1
	`, id)

	return scanAnimal(row)
}

func (r *AnimalsRepo) GetByNfc(ctx context.Context, nfcID string) (animals.Animal, error) {
	nfcID = strings.TrimSpace(nfcID)
	if nfcID == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalCols+`
		FROM animals
		WHERE nfc_id = $1
	`, nfcID)

	return scanAnimal(row)
}

func (r *AnimalsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]animals.Animal, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalCols+`
		FROM animals
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnimals(rows)
}

func (r *AnimalsRepo) ListLost(ctx context.Context) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalCols+`
		FROM animals
		WHERE is_lost
		ORDER BY lost_since DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnimals(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var gender string
	var bd, lostSince sql.NullTime
	var lostNotes sql.NullString

	if err := row.Scan(
		&a.ID,
		&a.OwnerUserID,
		&a.NfcID,
		&a.Name,
		&a.Race,
		&gender,
		&bd,
		&a.Birthplace,
		&a.ImageURL,
		&a.Notes,
		&a.IsLost,
		&lostSince,
		&lostNotes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}

	a.Gender = animals.Gender(gender)
	if bd.Valid {
		t := bd.Time
		a.Birthdate = &t
	}
	if lostSince.Valid {
		t := lostSince.Time
		a.LostSince = &t
	}
	if lostNotes.Valid {
		a.LostNotes = lostNotes.String
	}

	return a, nil
}

func scanAnimals(rows *sql.Rows) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// birthdate es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// lost_notes vacío se guarda como NULL (también para un perdido sin notas);
// la distinción perdido/no-perdido la lleva is_lost, con chk_animals_lost
// atando lost_since al flag.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
