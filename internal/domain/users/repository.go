package users

import "context"

type Repository interface {
	// Upsert crea o pisa el perfil completo (el id viene del identity provider).
	Upsert(ctx context.Context, u User) error

	GetByID(ctx context.Context, id string) (User, error)
	GetByCIN(ctx context.Context, cin string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
