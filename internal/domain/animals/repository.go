package animals

import "context"

type Repository interface {
	// Create valida la unicidad del tag NFC en el mismo insert
	// (ErrNfcInUse si ya existe).
	Create(ctx context.Context, a Animal) error

	// Update escribe todos los campos del perfil y del estado perdido,
	// pero nunca owner_user_id: eso es territorio exclusivo de
	// transfers.Repository.Resolve.
	Update(ctx context.Context, a Animal) error

	GetByID(ctx context.Context, id string) (Animal, error)
	GetByNfc(ctx context.Context, nfcID string) (Animal, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error)

	// ListLost: animales con is_lost=true, perdidos más recientes primero.
	ListLost(ctx context.Context) ([]Animal, error)
}
