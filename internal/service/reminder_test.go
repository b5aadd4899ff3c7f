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

func reminderClient(receiveEmail, isActive bool) domain.User {
	return domain.User{
		ID:           testClientID,
		Role:         domain.UserRoleClient,
		FirstName:    "Анна",
		Email:        "client@example.com",
		ReceiveEmail: receiveEmail,
		IsActive:     isActive,
	}
}

func singleClientUserRepo(client domain.User) *fakeUserRepo {
	return &fakeUserRepo{
		listFn: func(ctx context.Context, role *domain.UserRole, limit, offset int) ([]domain.User, error) {
			if offset > 0 {
				return nil, nil
			}
			return []domain.User{client}, nil
		},
	}
}

func singleAnimalRepo() *fakeAnimalRepo {
	return &fakeAnimalRepo{
		listFn: func(ctx context.Context, filter domain.AnimalFilter) ([]domain.Animal, error) {
			return []domain.Animal{{ID: 1, OwnerID: testClientID, Name: "Барсик"}}, nil
		},
	}
}

func newTestReminderService(userRepo *fakeUserRepo, animalRepo *fakeAnimalRepo, apptRepo *fakeAppointmentRepo, mailer *fakeMailer) *ReminderServiceImpl {
	cfg := config.ReminderConfig{Interval: 24 * time.Hour, CheckupMonths: 6, RemindersHours: 24}
	svc := NewReminderService(userRepo, animalRepo, apptRepo, mailer, cfg, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	}
	return svc
}

func TestSendCheckupReminders_OldVisitGetsReminder(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{
		findLastByAnimalFn: func(ctx context.Context, animalID int64) (*domain.Appointment, error) {
			return &domain.Appointment{
				ID:        1,
				AnimalID:  animalID,
				StartTime: time.Date(2026, 1, 15, 10, 0, 0, 0, time.Local),
			}, nil
		},
	}
	mailer := &fakeMailer{}
	svc := newTestReminderService(singleClientUserRepo(reminderClient(true, true)), singleAnimalRepo(), apptRepo, mailer)

	sent, err := svc.SendCheckupReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, mailer.sentCount())
}

func TestSendCheckupReminders_RecentVisitSkipped(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{
		findLastByAnimalFn: func(ctx context.Context, animalID int64) (*domain.Appointment, error) {
			return &domain.Appointment{
				ID:        1,
				AnimalID:  animalID,
				StartTime: time.Date(2026, 8, 20, 10, 0, 0, 0, time.Local),
			}, nil
		},
	}
	mailer := &fakeMailer{}
	svc := newTestReminderService(singleClientUserRepo(reminderClient(true, true)), singleAnimalRepo(), apptRepo, mailer)

	sent, err := svc.SendCheckupReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, mailer.sentCount())
}

func TestSendCheckupReminders_NeverVisitedSkipped(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{
		findLastByAnimalFn: func(ctx context.Context, animalID int64) (*domain.Appointment, error) {
			return nil, domain.ErrNotFound
		},
	}
	mailer := &fakeMailer{}
	svc := newTestReminderService(singleClientUserRepo(reminderClient(true, true)), singleAnimalRepo(), apptRepo, mailer)

	sent, err := svc.SendCheckupReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, mailer.sentCount())
}

func TestSendCheckupReminders_OptedOutClientSkipped(t *testing.T) {
	mailer := &fakeMailer{}
	// Репозитории животных и приемов не настроены: до них дойти не должно.
	svc := newTestReminderService(singleClientUserRepo(reminderClient(false, true)), &fakeAnimalRepo{}, &fakeAppointmentRepo{}, mailer)

	sent, err := svc.SendCheckupReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestSendCheckupReminders_InactiveClientSkipped(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestReminderService(singleClientUserRepo(reminderClient(true, false)), &fakeAnimalRepo{}, &fakeAppointmentRepo{}, mailer)

	sent, err := svc.SendCheckupReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestSendUpcomingReminders_SendsForWindow(t *testing.T) {
	var gotFilter domain.AppointmentFilter
	apptRepo := &fakeAppointmentRepo{
		listFn: func(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
			if filter.Offset > 0 {
				return nil, nil
			}
			gotFilter = filter
			return []domain.Appointment{
				{ID: 1, ClientID: testClientID, AnimalName: "Барсик", StartTime: time.Date(2026, 9, 2, 10, 0, 0, 0, time.Local)},
			}, nil
		},
	}
	client := reminderClient(true, true)
	userRepo := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &client, nil
		},
	}
	mailer := &fakeMailer{}
	svc := newTestReminderService(userRepo, &fakeAnimalRepo{}, apptRepo, mailer)

	sent, err := svc.SendUpcomingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, mailer.sentCount())
	require.NotNil(t, gotFilter.ExcludeStatus)
	assert.Equal(t, domain.AppointmentStatusCancelled, *gotFilter.ExcludeStatus)
}

func TestSendUpcomingReminders_OptedOutClientSkipped(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{
		listFn: func(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
			if filter.Offset > 0 {
				return nil, nil
			}
			return []domain.Appointment{
				{ID: 1, ClientID: testClientID, StartTime: time.Date(2026, 9, 2, 10, 0, 0, 0, time.Local)},
			}, nil
		},
	}
	client := reminderClient(false, true)
	userRepo := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &client, nil
		},
	}
	mailer := &fakeMailer{}
	svc := newTestReminderService(userRepo, &fakeAnimalRepo{}, apptRepo, mailer)

	sent, err := svc.SendUpcomingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, mailer.sentCount())
}
