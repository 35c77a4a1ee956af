package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medassist/telemed-api/internal/model"
	"github.com/medassist/telemed-api/internal/repository"
)

const bcryptCost = 12

type Service struct {
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorRepository
}

func NewService(userRepo repository.UserRepository, doctorRepo repository.DoctorRepository) *Service {
	return &Service{
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.userRepo.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Admin operations below.

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateDoctor promotes an existing user to a doctor profile.
func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if _, err := s.userRepo.Get(ctx, req.UserID); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		UserID:         req.UserID,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		IsActive:       true,
	}
	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.doctorRepo.Get(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctorRepo.List(ctx, false)
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.doctorRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.LicenseNumber != nil {
		doctor.LicenseNumber = *req.LicenseNumber
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if err := s.doctorRepo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}
