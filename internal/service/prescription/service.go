package prescription

import (
	"context"

	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/model"
	"github.com/medassist/telemed-api/internal/repository"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
)

type Service struct {
	repo             repository.PrescriptionRepository
	consultationRepo repository.ConsultationRepository
	doctorRepo       repository.DoctorRepository
}

func NewService(
	repo repository.PrescriptionRepository,
	consultationRepo repository.ConsultationRepository,
	doctorRepo repository.DoctorRepository,
) *Service {
	return &Service{
		repo:             repo,
		consultationRepo: consultationRepo,
		doctorRepo:       doctorRepo,
	}
}

// Create inserts one prescription for a completed consultation. The
// completed-status gate runs before the ownership gate.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	consultation, err := s.consultationRepo.Get(ctx, req.ConsultationID)
	if err != nil {
		return nil, err
	}

	if consultation.Status != model.ConsultationStatusCompleted {
		return nil, apperrors.BadRequest("consultation must be completed before creating a prescription", nil)
	}

	if err := s.requireAssignedDoctor(ctx, callerID, consultation); err != nil {
		return nil, err
	}

	prescription := &model.Prescription{
		ConsultationID: req.ConsultationID,
		Diagnosis:      req.Diagnosis,
		Medications:    req.Medications,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, prescription); err != nil {
		return nil, err
	}
	return prescription, nil
}

func (s *Service) Update(ctx context.Context, callerID, prescriptionID uuid.UUID, req *model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	prescription, err := s.repo.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	consultation, err := s.consultationRepo.Get(ctx, prescription.ConsultationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAssignedDoctor(ctx, callerID, consultation); err != nil {
		return nil, err
	}

	if req.Diagnosis != nil {
		prescription.Diagnosis = *req.Diagnosis
	}
	if req.Medications != nil {
		prescription.Medications = req.Medications
	}
	if req.Notes != nil {
		prescription.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, prescription); err != nil {
		return nil, err
	}
	return prescription, nil
}

// Get allows the consultation's patient or doctor to read a prescription.
func (s *Service) Get(ctx context.Context, callerID, prescriptionID uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.repo.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	consultation, err := s.consultationRepo.Get(ctx, prescription.ConsultationID)
	if err != nil {
		return nil, err
	}

	if consultation.PatientID == callerID {
		return prescription, nil
	}
	if err := s.requireAssignedDoctor(ctx, callerID, consultation); err != nil {
		return nil, err
	}
	return prescription, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	return s.repo.ListForPatient(ctx, patientID)
}

func (s *Service) requireAssignedDoctor(ctx context.Context, callerID uuid.UUID, consultation *model.Consultation) error {
	doctor, err := s.doctorRepo.Get(ctx, consultation.DoctorID)
	if err != nil {
		return err
	}
	if doctor.UserID != callerID {
		return apperrors.Forbidden("only the consultation's doctor can do this")
	}
	return nil
}
