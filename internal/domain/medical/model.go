package medical

import "time"

type EventType string

const (
	EventTypeVaccine   EventType = "VACCINE"
	EventTypeTreatment EventType = "TREATMENT"
	EventTypeCheckup   EventType = "CHECKUP"
	EventTypeNote      EventType = "NOTE"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeVaccine, EventTypeTreatment, EventTypeCheckup, EventTypeNote:
		return true
	default:
		return false
	}
}

type EventStatus string

const (
	EventStatusActive EventStatus = "active"
	EventStatusVoided EventStatus = "voided"
)

// VaccinationDetail acompaña a los eventos VACCINE (carnet de vacunación).
type VaccinationDetail struct {
	Vaccine string
	Dose    string
	NextDue *time.Time
}

// MedicalEvent es una entrada del historial médico del animal. El historial
// es append-only: las correcciones se hacen anulando (voided), nunca borrando.
type MedicalEvent struct {
	ID       string
	AnimalID string

	Type EventType

	OccurredAt time.Time
	RecordedAt time.Time

	Title    string
	Notes    string
	VetName  string
	Clinic   string

	RecordedBy string // user id del dueño que cargó la entrada

	Vaccination *VaccinationDetail // solo para Type == VACCINE

	Status EventStatus
}
