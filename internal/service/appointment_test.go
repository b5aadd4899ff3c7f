package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vetclinic/config"
	"vetclinic/internal/domain"
)

const (
	testClientID       int64 = 3
	testReceptionistID int64 = 11
)

func rolesUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			switch id {
			case testClientID:
				return &domain.User{ID: id, Role: domain.UserRoleClient, IsActive: true, Email: "client@example.com"}, nil
			case testVetID:
				return &domain.User{ID: id, Role: domain.UserRoleVeterinarian, IsActive: true}, nil
			default:
				return nil, domain.ErrNotFound
			}
		},
	}
}

func existingAnimalRepo() *fakeAnimalRepo {
	return &fakeAnimalRepo{
		existsByIDFn: func(ctx context.Context, id int64) (bool, error) {
			return true, nil
		},
	}
}

func newTestAppointmentService(repo *fakeAppointmentRepo, cfg config.ScheduleConfig) *AppointmentServiceImpl {
	return NewAppointmentService(repo, existingAnimalRepo(), rolesUserRepo(), &fakeMailer{}, cfg, zap.NewNop())
}

func createDTO() domain.CreateAppointmentDTO {
	return domain.CreateAppointmentDTO{
		AnimalID:       1,
		ClientID:       testClientID,
		VeterinarianID: testVetID,
		Type:           domain.AppointmentTypeConsultation,
		StartTime:      time.Date(2026, 9, 7, 10, 0, 0, 0, time.Local),
		EndTime:        time.Date(2026, 9, 7, 10, 30, 0, 0, time.Local),
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	var created domain.CreateAppointmentDTO
	repo := &fakeAppointmentRepo{
		existsOverlappingFn: func(ctx context.Context, start, end time.Time, veterinarianID *int64) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, dto domain.CreateAppointmentDTO) (int64, error) {
			created = dto
			return 42, nil
		},
	}
	svc := newTestAppointmentService(repo, config.ScheduleConfig{})

	id, err := svc.Create(context.Background(), testReceptionistID, createDTO())
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, testReceptionistID, created.ReceptionistID)
}

func TestCreateAppointment_Conflict(t *testing.T) {
	repo := &fakeAppointmentRepo{
		existsOverlappingFn: func(ctx context.Context, start, end time.Time, veterinarianID *int64) (bool, error) {
			return true, nil
		},
	}
	svc := newTestAppointmentService(repo, config.ScheduleConfig{})

	_, err := svc.Create(context.Background(), testReceptionistID, createDTO())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateAppointment_EndBeforeStart(t *testing.T) {
	svc := newTestAppointmentService(&fakeAppointmentRepo{}, config.ScheduleConfig{})

	dto := createDTO()
	dto.EndTime = dto.StartTime.Add(-30 * time.Minute)
	_, err := svc.Create(context.Background(), testReceptionistID, dto)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateAppointment_ZeroTimes(t *testing.T) {
	svc := newTestAppointmentService(&fakeAppointmentRepo{}, config.ScheduleConfig{})

	dto := createDTO()
	dto.StartTime = time.Time{}
	dto.EndTime = time.Time{}
	_, err := svc.Create(context.Background(), testReceptionistID, dto)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateAppointment_UnknownVeterinarian(t *testing.T) {
	svc := newTestAppointmentService(&fakeAppointmentRepo{}, config.ScheduleConfig{})

	dto := createDTO()
	dto.VeterinarianID = 999
	_, err := svc.Create(context.Background(), testReceptionistID, dto)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHasConflict_ClinicWideScopeByDefault(t *testing.T) {
	var gotScope *int64 = ptr(int64(-1))
	repo := &fakeAppointmentRepo{
		existsOverlappingFn: func(ctx context.Context, start, end time.Time, veterinarianID *int64) (bool, error) {
			gotScope = veterinarianID
			return false, nil
		},
	}
	svc := newTestAppointmentService(repo, config.ScheduleConfig{ScopeConflictsByVeterinarian: false})

	dto := createDTO()
	_, err := svc.HasConflict(context.Background(), dto.StartTime, dto.EndTime, testVetID, nil)
	require.NoError(t, err)
	assert.Nil(t, gotScope)
}

func TestHasConflict_PerVeterinarianScope(t *testing.T) {
	var gotScope *int64
	repo := &fakeAppointmentRepo{
		existsOverlappingFn: func(ctx context.Context, start, end time.Time, veterinarianID *int64) (bool, error) {
			gotScope = veterinarianID
			return false, nil
		},
	}
	svc := newTestAppointmentService(repo, config.ScheduleConfig{ScopeConflictsByVeterinarian: true})

	dto := createDTO()
	_, err := svc.HasConflict(context.Background(), dto.StartTime, dto.EndTime, testVetID, nil)
	require.NoError(t, err)
	require.NotNil(t, gotScope)
	assert.Equal(t, testVetID, *gotScope)
}

func updateDTO() domain.UpdateAppointmentDTO {
	return domain.UpdateAppointmentDTO{
		AnimalID:       1,
		VeterinarianID: testVetID,
		Type:           domain.AppointmentTypeConsultation,
		Status:         domain.AppointmentStatusConfirmed,
		StartTime:      time.Date(2026, 9, 7, 10, 0, 0, 0, time.Local),
		EndTime:        time.Date(2026, 9, 7, 10, 30, 0, 0, time.Local),
	}
}

func TestUpdateAppointment_ExcludesItselfFromConflictCheck(t *testing.T) {
	repo := &fakeAppointmentRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: id}, nil
		},
		findOverlappingFn: func(ctx context.Context, start, end time.Time, veterinarianID *int64) ([]domain.Appointment, error) {
			// Единственное пересечение - сам обновляемый прием.
			return []domain.Appointment{{ID: 42}}, nil
		},
		updateFn: func(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
			return nil
		},
	}
	svc := newTestAppointmentService(repo, config.ScheduleConfig{})

	err := svc.Update(context.Background(), 42, updateDTO())
	assert.NoError(t, err)
}

func TestUpdateAppointment_ConflictWithAnother(t *testing.T) {
	repo := &fakeAppointmentRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: id}, nil
		},
		findOverlappingFn: func(ctx context.Context, start, end time.Time, veterinarianID *int64) ([]domain.Appointment, error) {
			return []domain.Appointment{{ID: 42}, {ID: 43}}, nil
		},
	}
	svc := newTestAppointmentService(repo, config.ScheduleConfig{})

	err := svc.Update(context.Background(), 42, updateDTO())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	repo := &fakeAppointmentRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestAppointmentService(repo, config.ScheduleConfig{})

	err := svc.Update(context.Background(), 42, updateDTO())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAppointment_NotFound(t *testing.T) {
	repo := &fakeAppointmentRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return domain.ErrNotFound
		},
	}
	svc := newTestAppointmentService(repo, config.ScheduleConfig{})

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAppointment_NotifiesClient(t *testing.T) {
	repo := &fakeAppointmentRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return &domain.Appointment{
				ID:        id,
				ClientID:  testClientID,
				StartTime: time.Date(2026, 9, 7, 10, 0, 0, 0, time.Local),
				EndTime:   time.Date(2026, 9, 7, 10, 30, 0, 0, time.Local),
			}, nil
		},
		findOverlappingFn: func(ctx context.Context, start, end time.Time, veterinarianID *int64) ([]domain.Appointment, error) {
			return nil, nil
		},
		updateFn: func(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
			return nil
		},
	}
	users := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			switch id {
			case testClientID:
				return &domain.User{
					ID:           id,
					Role:         domain.UserRoleClient,
					IsActive:     true,
					Email:        "client@example.com",
					FirstName:    "Анна",
					ReceiveEmail: true,
				}, nil
			case testVetID:
				return &domain.User{ID: id, Role: domain.UserRoleVeterinarian, IsActive: true}, nil
			default:
				return nil, domain.ErrNotFound
			}
		},
	}
	mailer := &fakeMailer{}
	svc := NewAppointmentService(repo, existingAnimalRepo(), users, mailer, config.ScheduleConfig{}, zap.NewNop())

	err := svc.Update(context.Background(), 42, updateDTO())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return mailer.sentCount() == 1 }, time.Second, 10*time.Millisecond)
	sent := mailer.lastSent()
	assert.Equal(t, "client@example.com", sent.to)
	assert.Equal(t, "Изменение записи на прием", sent.subject)
	assert.Contains(t, sent.body, "07.09.2026")
}
