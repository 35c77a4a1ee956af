package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetOrCreateByExternalID(ctx context.Context, externalID, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		List(ctx context.Context) ([]*model.User, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		List(ctx context.Context, activeOnly bool) ([]*model.Doctor, error)
	}

	ConsultationRepository interface {
		Create(ctx context.Context, consultation *model.Consultation) error
		Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.ConsultationStatus) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Consultation, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Consultation, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		Update(ctx context.Context, prescription *model.Prescription) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
	}

	SymptomRepository interface {
		// CreateWithPrediction persists the check and its prediction as
		// one transactional unit.
		CreateWithPrediction(ctx context.Context, check *model.SymptomCheck, prediction *model.Prediction) error
		GetCheck(ctx context.Context, id uuid.UUID) (*model.SymptomCheck, error)
		GetPredictionForCheck(ctx context.Context, checkID uuid.UUID) (*model.Prediction, error)
		History(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.CheckHistoryEntry, int, error)
	}
)
