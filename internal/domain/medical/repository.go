package medical

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e MedicalEvent) error
	GetByID(ctx context.Context, id string) (MedicalEvent, error)
	ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]MedicalEvent, error)
	Void(ctx context.Context, id string) error
}

type ListFilter struct {
	Types []EventType
	From  *time.Time
	To    *time.Time
	Limit int
}
