package consultation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/medassist/telemed-api/internal/email"
	"github.com/medassist/telemed-api/internal/model"
	"github.com/medassist/telemed-api/internal/repository"
	"github.com/medassist/telemed-api/internal/video"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
)

const (
	doctorCacheKey = "doctors:active"
	doctorCacheTTL = time.Minute
)

type Service struct {
	repo       repository.ConsultationRepository
	doctorRepo repository.DoctorRepository
	userRepo   repository.UserRepository
	videoSvc   video.TokenProvider
	emailSvc   email.Service
	cache      *gocache.Cache
}

func NewService(
	repo repository.ConsultationRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	videoSvc video.TokenProvider,
	emailSvc email.Service,
) *Service {
	return &Service{
		repo:       repo,
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
		videoSvc:   videoSvc,
		emailSvc:   emailSvc,
		cache:      gocache.New(doctorCacheTTL, 5*time.Minute),
	}
}

// Book creates a scheduled consultation with a unique room and a signed
// room token. The booking confirmation email is best-effort.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookConsultationRequest) (*model.Consultation, error) {
	doctor, err := s.doctorRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		return nil, apperrors.NotFound("doctor", nil)
	}

	consultation := &model.Consultation{
		PatientID:   patientID,
		DoctorID:    doctor.ID,
		ScheduledAt: req.ScheduledAt,
		Status:      model.ConsultationStatusScheduled,
		RoomName:    fmt.Sprintf("consultation-%s", uuid.New()),
		Notes:       req.Notes,
	}

	token, err := s.videoSvc.AccessToken(patientID.String(), consultation.RoomName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate room token: %w", err)
	}
	consultation.RoomToken = token

	if err := s.repo.Create(ctx, consultation); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, patientID, doctor, consultation)

	return consultation, nil
}

// Join re-issues a fresh room token for the patient or the assigned
// doctor; any other caller is rejected.
func (s *Service) Join(ctx context.Context, callerID, consultationID uuid.UUID) (*model.JoinResponse, error) {
	consultation, err := s.repo.Get(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	if err := s.requireParticipant(ctx, callerID, consultation); err != nil {
		return nil, err
	}
	if consultation.Status != model.ConsultationStatusScheduled {
		return nil, apperrors.BadRequest("consultation is not joinable", nil)
	}

	token, err := s.videoSvc.AccessToken(callerID.String(), consultation.RoomName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate room token: %w", err)
	}

	return &model.JoinResponse{
		RoomName: consultation.RoomName,
		Token:    token,
	}, nil
}

// Complete transitions scheduled → completed. Only the assigned doctor may
// complete, and there is no path back.
func (s *Service) Complete(ctx context.Context, callerID, consultationID uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.repo.Get(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.Get(ctx, consultation.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.UserID != callerID {
		return nil, apperrors.Forbidden("only the assigned doctor can complete a consultation")
	}

	if consultation.Status != model.ConsultationStatusScheduled {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("cannot complete a %s consultation", consultation.Status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, consultationID, model.ConsultationStatusCompleted); err != nil {
		return nil, err
	}
	consultation.Status = model.ConsultationStatusCompleted
	return consultation, nil
}

// Cancel transitions scheduled → cancelled, by either participant.
func (s *Service) Cancel(ctx context.Context, callerID, consultationID uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.repo.Get(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	if err := s.requireParticipant(ctx, callerID, consultation); err != nil {
		return nil, err
	}
	if consultation.Status != model.ConsultationStatusScheduled {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("cannot cancel a %s consultation", consultation.Status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, consultationID, model.ConsultationStatusCancelled); err != nil {
		return nil, err
	}
	consultation.Status = model.ConsultationStatusCancelled
	return consultation, nil
}

func (s *Service) Get(ctx context.Context, callerID, consultationID uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.repo.Get(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, callerID, consultation); err != nil {
		return nil, err
	}
	return consultation, nil
}

// ListForUser returns the caller's consultations: as patient, plus as
// doctor when the caller has a doctor profile.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Consultation, error) {
	consultations, err := s.repo.ListForPatient(ctx, userID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.GetByUserID(ctx, userID)
	if err == nil {
		asDoctor, err := s.repo.ListForDoctor(ctx, doctor.ID)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, asDoctor...)
	} else if _, ok := apperrors.AsAppError(err); !ok {
		return nil, err
	}

	return consultations, nil
}

// ListActiveDoctors serves the doctor directory through a short-lived
// in-process cache.
func (s *Service) ListActiveDoctors(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(doctorCacheKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.doctorRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	s.cache.Set(doctorCacheKey, doctors, doctorCacheTTL)
	return doctors, nil
}

func (s *Service) requireParticipant(ctx context.Context, callerID uuid.UUID, consultation *model.Consultation) error {
	if consultation.PatientID == callerID {
		return nil
	}
	doctor, err := s.doctorRepo.Get(ctx, consultation.DoctorID)
	if err != nil {
		return err
	}
	if doctor.UserID == callerID {
		return nil
	}
	return apperrors.Forbidden("not a participant of this consultation")
}

func (s *Service) sendConfirmation(ctx context.Context, patientID uuid.UUID, doctor *model.Doctor, consultation *model.Consultation) {
	patient, err := s.userRepo.Get(ctx, patientID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load patient for booking confirmation")
		return
	}
	doctorUser, err := s.userRepo.Get(ctx, doctor.UserID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load doctor for booking confirmation")
		return
	}
	if err := s.emailSvc.SendBookingConfirmation(ctx, patient.Email, doctorUser.Name, consultation.ScheduledAt); err != nil {
		log.Warn().Err(err).Msg("failed to send booking confirmation")
	}
}
