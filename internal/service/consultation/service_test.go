package consultation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassist/telemed-api/internal/model"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
)

type fakeConsultationRepo struct {
	consultations map[uuid.UUID]*model.Consultation
}

func newFakeConsultationRepo() *fakeConsultationRepo {
	return &fakeConsultationRepo{consultations: make(map[uuid.UUID]*model.Consultation)}
}

func (r *fakeConsultationRepo) Create(_ context.Context, c *model.Consultation) error {
	c.ID = uuid.New()
	stored := *c
	r.consultations[c.ID] = &stored
	return nil
}

func (r *fakeConsultationRepo) Get(_ context.Context, id uuid.UUID) (*model.Consultation, error) {
	c, ok := r.consultations[id]
	if !ok {
		return nil, apperrors.NotFound("consultation", nil)
	}
	copied := *c
	return &copied, nil
}

func (r *fakeConsultationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.ConsultationStatus) error {
	c, ok := r.consultations[id]
	if !ok {
		return apperrors.NotFound("consultation", nil)
	}
	c.Status = status
	return nil
}

func (r *fakeConsultationRepo) ListForPatient(_ context.Context, patientID uuid.UUID) ([]*model.Consultation, error) {
	var out []*model.Consultation
	for _, c := range r.consultations {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConsultationRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Consultation, error) {
	var out []*model.Consultation
	for _, c := range r.consultations {
		if c.DoctorID == doctorID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
	listed  int
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
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
	r.listed++
	var out []*model.Doctor
	for _, d := range r.doctors {
		if activeOnly && !d.IsActive {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

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
	for _, u := range r.users {
		if u.ExternalID != nil && *u.ExternalID == externalID {
			return u, nil
		}
	}
	u := &model.User{ID: uuid.New(), Email: email, ExternalID: &externalID, IsActive: true}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
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

type fakeVideoProvider struct {
	issued int
	fail   bool
}

func (p *fakeVideoProvider) AccessToken(identity, room string) (string, error) {
	if p.fail {
		return "", fmt.Errorf("video provider unavailable")
	}
	p.issued++
	return fmt.Sprintf("token-%s-%s", identity, room), nil
}

type recordingEmail struct {
	sent []string
}

func (e *recordingEmail) SendBookingConfirmation(_ context.Context, to, _ string, _ time.Time) error {
	e.sent = append(e.sent, to)
	return nil
}

type fixture struct {
	svc        *Service
	repo       *fakeConsultationRepo
	doctorRepo *fakeDoctorRepo
	userRepo   *fakeUserRepo
	video      *fakeVideoProvider
	email      *recordingEmail

	patient    *model.User
	doctorUser *model.User
	doctor     *model.Doctor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeConsultationRepo()
	doctorRepo := newFakeDoctorRepo()
	userRepo := newFakeUserRepo()
	videoProvider := &fakeVideoProvider{}
	emailSvc := &recordingEmail{}

	patient := &model.User{ID: uuid.New(), Email: "patient@example.com", Name: "Pat", IsActive: true}
	doctorUser := &model.User{ID: uuid.New(), Email: "doc@example.com", Name: "Dr. Grey", IsActive: true}
	require.NoError(t, userRepo.Create(context.Background(), patient))
	require.NoError(t, userRepo.Create(context.Background(), doctorUser))

	doctor := &model.Doctor{ID: uuid.New(), UserID: doctorUser.ID, Specialization: "cardiology", IsActive: true}
	require.NoError(t, doctorRepo.Create(context.Background(), doctor))

	return &fixture{
		svc:        NewService(repo, doctorRepo, userRepo, videoProvider, emailSvc),
		repo:       repo,
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
		video:      videoProvider,
		email:      emailSvc,
		patient:    patient,
		doctorUser: doctorUser,
		doctor:     doctor,
	}
}

func (f *fixture) book(t *testing.T) *model.Consultation {
	t.Helper()
	c, err := f.svc.Book(context.Background(), f.patient.ID, &model.BookConsultationRequest{
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	return c
}

func TestBook_Succeeds(t *testing.T) {
	f := newFixture(t)

	c := f.book(t)

	assert.Equal(t, model.ConsultationStatusScheduled, c.Status)
	assert.Equal(t, f.patient.ID, c.PatientID)
	assert.Equal(t, f.doctor.ID, c.DoctorID)
	assert.Contains(t, c.RoomName, "consultation-")
	assert.NotEmpty(t, c.RoomToken)
	assert.Equal(t, []string{"patient@example.com"}, f.email.sent)
}

func TestBook_UnknownDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), f.patient.ID, &model.BookConsultationRequest{
		DoctorID:    uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestBook_InactiveDoctorLooksAbsent(t *testing.T) {
	f := newFixture(t)
	f.doctor.IsActive = false

	_, err := f.svc.Book(context.Background(), f.patient.ID, &model.BookConsultationRequest{
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode())
	assert.Empty(t, f.repo.consultations)
}

func TestBook_VideoFailureAbortsBooking(t *testing.T) {
	f := newFixture(t)
	f.video.fail = true

	_, err := f.svc.Book(context.Background(), f.patient.ID, &model.BookConsultationRequest{
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.Empty(t, f.repo.consultations)
	assert.Empty(t, f.email.sent)
}

func TestJoin_IssuesFreshTokenForParticipants(t *testing.T) {
	f := newFixture(t)
	c := f.book(t)

	asPatient, err := f.svc.Join(context.Background(), f.patient.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.RoomName, asPatient.RoomName)
	assert.NotEmpty(t, asPatient.Token)

	asDoctor, err := f.svc.Join(context.Background(), f.doctorUser.ID, c.ID)
	require.NoError(t, err)
	assert.NotEqual(t, asPatient.Token, asDoctor.Token)
}

func TestJoin_StrangerForbidden(t *testing.T) {
	f := newFixture(t)
	c := f.book(t)

	_, err := f.svc.Join(context.Background(), uuid.New(), c.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode())
}

func TestJoin_RejectedAfterCompletion(t *testing.T) {
	f := newFixture(t)
	c := f.book(t)

	_, err := f.svc.Complete(context.Background(), f.doctorUser.ID, c.ID)
	require.NoError(t, err)

	_, err = f.svc.Join(context.Background(), f.patient.ID, c.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestComplete_OnlyAssignedDoctor(t *testing.T) {
	f := newFixture(t)
	c := f.book(t)

	_, err := f.svc.Complete(context.Background(), f.patient.ID, c.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode())

	completed, err := f.svc.Complete(context.Background(), f.doctorUser.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConsultationStatusCompleted, completed.Status)
}

func TestStatusTransitionsAreOneWay(t *testing.T) {
	f := newFixture(t)
	c := f.book(t)

	_, err := f.svc.Cancel(context.Background(), f.patient.ID, c.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), f.doctorUser.ID, c.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())

	_, err = f.svc.Cancel(context.Background(), f.patient.ID, c.ID)
	require.Error(t, err)
}

func TestCancel_EitherParticipant(t *testing.T) {
	f := newFixture(t)
	c := f.book(t)

	cancelled, err := f.svc.Cancel(context.Background(), f.doctorUser.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConsultationStatusCancelled, cancelled.Status)
}

func TestGet_ParticipantOnly(t *testing.T) {
	f := newFixture(t)
	c := f.book(t)

	got, err := f.svc.Get(context.Background(), f.patient.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = f.svc.Get(context.Background(), uuid.New(), c.ID)
	require.Error(t, err)
}

func TestListForUser_IncludesDoctorSide(t *testing.T) {
	f := newFixture(t)
	f.book(t)

	asPatient, err := f.svc.ListForUser(context.Background(), f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, asPatient, 1)

	asDoctor, err := f.svc.ListForUser(context.Background(), f.doctorUser.ID)
	require.NoError(t, err)
	assert.Len(t, asDoctor, 1)

	nobody, err := f.svc.ListForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, nobody)
}

func TestListActiveDoctors_Cached(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.ListActiveDoctors(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := f.svc.ListActiveDoctors(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1)

	assert.Equal(t, 1, f.doctorRepo.listed)
}
