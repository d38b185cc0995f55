package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNfcInUse     = errors.New("nfc tag already registered")
	ErrNotOwner     = errors.New("actor is not the owner")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	NfcID      string
	Name       string
	Race       string
	Gender     string
	Birthdate  *time.Time
	Birthplace string
	ImageURL   string
	Notes      string
}

// Register da de alta el animal a nombre de ownerUserID. El tag NFC es
// obligatorio: es la identidad física del registro.
func (s *Service) Register(ctx context.Context, ownerUserID string, in RegisterInput) (Animal, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.NfcID) == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, ErrInvalidInput
	}

	gender := Gender(strings.TrimSpace(in.Gender))
	switch gender {
	case GenderMale, GenderFemale:
	default:
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	a := Animal{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		NfcID:       strings.TrimSpace(in.NfcID),
		Name:        strings.TrimSpace(in.Name),
		Race:        strings.TrimSpace(in.Race),
		Gender:      gender,
		Birthdate:   in.Birthdate,
		Birthplace:  strings.TrimSpace(in.Birthplace),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// FindByNfc resuelve un escaneo de tag a su registro.
func (s *Service) FindByNfc(ctx context.Context, nfcID string) (Animal, error) {
	nfcID = strings.TrimSpace(nfcID)
	if nfcID == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByNfc(ctx, nfcID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar. Ni owner ni estado perdido
	// se editan por acá.
	Name       *string
	Race       *string
	Gender     *string
	Birthdate  *time.Time
	ClearBirth bool
	Birthplace *string
	ImageURL   *string
	Notes      *string
}

// UpdateProfile edita campos de perfil. Solo el dueño.
func (s *Service) UpdateProfile(ctx context.Context, animalID, actorID string, in UpdateProfileInput) (Animal, error) {
	animalID = strings.TrimSpace(animalID)
	actorID = strings.TrimSpace(actorID)
	if animalID == "" || actorID == "" {
		return Animal{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Animal{}, err
	}
	if a.OwnerUserID != actorID {
		return Animal{}, ErrNotOwner
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Animal{}, ErrInvalidInput
		}
		a.Name = name
	}
	if in.Race != nil {
		a.Race = strings.TrimSpace(*in.Race)
	}
	if in.Gender != nil {
		g := Gender(strings.TrimSpace(*in.Gender))
		switch g {
		case GenderMale, GenderFemale:
			a.Gender = g
		default:
			return Animal{}, ErrInvalidInput
		}
	}
	if in.ClearBirth {
		a.Birthdate = nil
	} else if in.Birthdate != nil {
		a.Birthdate = in.Birthdate
	}
	if in.Birthplace != nil {
		a.Birthplace = strings.TrimSpace(*in.Birthplace)
	}
	if in.ImageURL != nil {
		a.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}
