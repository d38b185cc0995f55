package medical

import (
	"context"
	"errors"
	"strings"
	"time"

	"animal-registry/internal/domain/animals"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotOwner     = errors.New("actor is not the owner")
)

// AnimalDirectory es la vista mínima sobre animales que el historial necesita
// (interfaz propia para poder fakearla en tests). La ausencia se señala con
// animals.ErrNotFound; cualquier otro error sube tal cual.
type AnimalDirectory interface {
	OwnerOf(ctx context.Context, animalID string) (string, error)
}

type Service struct {
	repo    Repository
	animals AnimalDirectory
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalDirectory) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		now:     time.Now,
	}
}

// ownerOf traduce solo la ausencia a ErrNotFound; una falla de
// infraestructura no es "no existe" y el caller debe verla como tal.
func (s *Service) ownerOf(ctx context.Context, animalID string) (string, error) {
	ownerID, err := s.animals.OwnerOf(ctx, animalID)
	if errors.Is(err, animals.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return ownerID, nil
}

type RecordInput struct {
	Type       EventType
	OccurredAt time.Time
	Title      string
	Notes      string
	VetName    string
	Clinic     string

	Vaccination *VaccinationDetail
}

// Record agrega una entrada al historial. Solo el dueño del animal.
func (s *Service) Record(ctx context.Context, animalID, actorID string, in RecordInput) (MedicalEvent, error) {
	animalID = strings.TrimSpace(animalID)
	actorID = strings.TrimSpace(actorID)
	if animalID == "" || actorID == "" {
		return MedicalEvent{}, ErrInvalidInput
	}
	if !in.Type.Valid() {
		return MedicalEvent{}, ErrInvalidInput
	}
	if in.OccurredAt.IsZero() {
		return MedicalEvent{}, ErrInvalidInput
	}
	// El detalle de vacunación solo tiene sentido en eventos VACCINE.
	if in.Vaccination != nil && in.Type != EventTypeVaccine {
		return MedicalEvent{}, ErrInvalidInput
	}

	ownerID, err := s.ownerOf(ctx, animalID)
	if err != nil {
		return MedicalEvent{}, err
	}
	if ownerID != actorID {
		return MedicalEvent{}, ErrNotOwner
	}

	e := MedicalEvent{
		ID:         uuid.NewString(),
		AnimalID:   animalID,
		Type:       in.Type,
		OccurredAt: in.OccurredAt,
		RecordedAt: s.now(),
		Title:      strings.TrimSpace(in.Title),
		Notes:      strings.TrimSpace(in.Notes),
		VetName:    strings.TrimSpace(in.VetName),
		Clinic:     strings.TrimSpace(in.Clinic),
		RecordedBy: actorID,
		Status:     EventStatusActive,
	}
	if in.Vaccination != nil {
		d := *in.Vaccination
		d.Vaccine = strings.TrimSpace(d.Vaccine)
		d.Dose = strings.TrimSpace(d.Dose)
		e.Vaccination = &d
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return MedicalEvent{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (MedicalEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MedicalEvent{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByAnimal(ctx context.Context, animalID, actorID string, filter ListFilter) ([]MedicalEvent, error) {
	animalID = strings.TrimSpace(animalID)
	actorID = strings.TrimSpace(actorID)
	if animalID == "" || actorID == "" {
		return nil, ErrInvalidInput
	}

	ownerID, err := s.ownerOf(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if ownerID != actorID {
		return nil, ErrNotOwner
	}

	return s.repo.ListByAnimal(ctx, animalID, filter)
}

// Void anula la entrada (no se borra; el historial es auditoría). Solo el
// dueño actual del animal referenciado.
func (s *Service) Void(ctx context.Context, id, actorID string) (MedicalEvent, error) {
	id = strings.TrimSpace(id)
	actorID = strings.TrimSpace(actorID)
	if id == "" || actorID == "" {
		return MedicalEvent{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return MedicalEvent{}, err
	}

	ownerID, err := s.ownerOf(ctx, e.AnimalID)
	if err != nil {
		return MedicalEvent{}, err
	}
	if ownerID != actorID {
		return MedicalEvent{}, ErrNotOwner
	}

	if e.Status == EventStatusVoided {
		return e, nil
	}

	if err := s.repo.Void(ctx, id); err != nil {
		return MedicalEvent{}, err
	}
	return s.repo.GetByID(ctx, id)
}
