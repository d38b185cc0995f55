package users

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
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

type ProfileInput struct {
	Email    string
	FullName string
	CIN      string
	Address  string
	Mobile   string
}

// UpsertProfile guarda el perfil del usuario logueado (pantalla de datos
// personales post-signup). El CIN es lo que permite que otro dueño te
// encuentre para transferirte un animal.
func (s *Service) UpsertProfile(ctx context.Context, userID string, in ProfileInput) (User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Email) == "" {
		return User{}, ErrInvalidInput
	}

	now := s.now()
	u := User{
		ID:        userID,
		Email:     strings.TrimSpace(strings.ToLower(in.Email)),
		FullName:  strings.TrimSpace(in.FullName),
		CIN:       strings.TrimSpace(in.CIN),
		Address:   strings.TrimSpace(in.Address),
		Mobile:    strings.TrimSpace(in.Mobile),
		UpdatedAt: now,
	}

	// Conserva created_at si el perfil ya existía.
	if prev, err := s.repo.GetByID(ctx, userID); err == nil {
		u.CreatedAt = prev.CreatedAt
	} else if errors.Is(err, ErrNotFound) {
		u.CreatedAt = now
	} else {
		return User{}, err
	}

	if err := s.repo.Upsert(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// FindByCIN busca al destinatario de un cambio de dueño por su documento
// (tipeado a mano o salido del OCR de la cédula).
func (s *Service) FindByCIN(ctx context.Context, cin string) (User, error) {
	cin = strings.TrimSpace(cin)
	if cin == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByCIN(ctx, cin)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByEmail(ctx, email)
}
