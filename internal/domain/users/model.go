package users

import "time"

// User es el perfil local del usuario autenticado. La identidad (id, email)
// la emite el proveedor externo; acá solo guardamos los datos que el flujo
// de transferencia necesita para encontrar al destinatario (CIN, email).
type User struct {
	ID    string // id estable del identity provider
	Email string

	FullName string
	CIN      string // documento nacional, único; se busca por acá al cambiar de dueño
	Address  string
	Mobile   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
