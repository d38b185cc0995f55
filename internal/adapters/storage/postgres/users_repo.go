package postgres

import (
	"context"
	"database/sql"
	"strings"

	"animal-registry/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Upsert(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, full_name, cin, address, mobile, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			cin = EXCLUDED.cin,
			address = EXCLUDED.address,
			mobile = EXCLUDED.mobile,
			updated_at = EXCLUDED.updated_at
	`,
		u.ID,
		u.Email,
		u.FullName,
		u.CIN,
		u.Address,
		u.Mobile,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, users.ErrNotFound
	}
	return r.getWhere(ctx, "id = $1", id)
}

func (r *UsersRepo) GetByCIN(ctx context.Context, cin string) (users.User, error) {
	cin = strings.TrimSpace(cin)
	if cin == "" {
		return users.User{}, users.ErrNotFound
	}
	return r.getWhere(ctx, "cin = $1", cin)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return users.User{}, users.ErrNotFound
	}
	return r.getWhere(ctx, "email = $1", email)
}

func (r *UsersRepo) getWhere(ctx context.Context, where string, arg any) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, cin, address, mobile, created_at, updated_at
		FROM users
		WHERE `+where, arg)

	var u users.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.CIN,
		&u.Address,
		&u.Mobile,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}
