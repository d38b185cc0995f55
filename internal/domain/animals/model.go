package animals

import "time"

// Gender según el registro original.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Animal es el registro central: identidad física (tag NFC), dueño legal y
// estado perdido/encontrado.
//
// OwnerUserID lo muta únicamente el engine de transferencias (ver
// transfers.Repository.Resolve); ningún otro código escribe ese campo.
type Animal struct {
	ID          string
	OwnerUserID string

	NfcID string // id del tag NFC grabado en el collar, único en el sistema

	Name       string
	Race       string
	Gender     Gender
	Birthdate  *time.Time
	Birthplace string
	ImageURL   string
	Notes      string

	// Estado perdido/encontrado. LostSince y LostNotes existen solo mientras
	// IsLost: al marcar encontrado se limpian los tres campos juntos, nunca
	// a medias. IsLost es la fuente de verdad del estado.
	IsLost    bool
	LostSince *time.Time
	LostNotes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
