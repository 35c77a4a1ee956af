package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medassist/telemed-api/internal/model"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) GetOrCreateByExternalID(_ context.Context, externalID, email string) (*model.User, error) {
	u := &model.User{ID: uuid.New(), ExternalID: &externalID, Email: email, IsActive: true}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.NotFound("user", nil)
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	d.ID = uuid.New()
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return d, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Doctor, error) {
	for _, d := range r.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, apperrors.NotFound("doctor", nil)
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context, activeOnly bool) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range r.doctors {
		if activeOnly && !d.IsActive {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func seedUser(t *testing.T, repo *fakeUserRepo) *model.User {
	t.Helper()
	u := &model.User{Email: "pat@example.com", Name: "Pat", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUpdateProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewService(userRepo, newFakeDoctorRepo())
	u := seedUser(t, userRepo)

	name := "Patricia"
	password := "new-password-1"
	updated, err := svc.UpdateProfile(context.Background(), u.ID, &model.UpdateProfileRequest{
		Name:     &name,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, "Patricia", updated.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(password)))
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakeDoctorRepo())

	name := "Nobody"
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), &model.UpdateProfileRequest{Name: &name})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestUpdateUser_AdminFields(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewService(userRepo, newFakeDoctorRepo())
	u := seedUser(t, userRepo)

	inactive := false
	admin := true
	updated, err := svc.UpdateUser(context.Background(), u.ID, &model.UpdateUserRequest{
		IsActive: &inactive,
		IsAdmin:  &admin,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.IsAdmin)
}

func TestCreateDoctor(t *testing.T) {
	userRepo := newFakeUserRepo()
	doctorRepo := newFakeDoctorRepo()
	svc := NewService(userRepo, doctorRepo)
	u := seedUser(t, userRepo)

	doctor, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		UserID:         u.ID,
		Specialization: "dermatology",
		LicenseNumber:  "LIC-001",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, doctor.UserID)
	assert.True(t, doctor.IsActive)
}

func TestCreateDoctor_UnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakeDoctorRepo())

	_, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		UserID:         uuid.New(),
		Specialization: "dermatology",
		LicenseNumber:  "LIC-001",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestUpdateDoctor_Deactivation(t *testing.T) {
	userRepo := newFakeUserRepo()
	doctorRepo := newFakeDoctorRepo()
	svc := NewService(userRepo, doctorRepo)
	u := seedUser(t, userRepo)

	doctor, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		UserID:         u.ID,
		Specialization: "dermatology",
		LicenseNumber:  "LIC-001",
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateDoctor(context.Background(), doctor.ID, &model.UpdateDoctorRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	all, err := svc.ListDoctors(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
