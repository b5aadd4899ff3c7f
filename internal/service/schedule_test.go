package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vetclinic/config"
	"vetclinic/internal/domain"
)

const testVetID int64 = 7

func vetUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			if id != testVetID {
				return nil, domain.ErrNotFound
			}
			return &domain.User{ID: testVetID, Role: domain.UserRoleVeterinarian, IsActive: true}, nil
		},
	}
}

func newTestScheduleService(schedRepo *fakeScheduleRepo, apptRepo *fakeAppointmentRepo, userRepo *fakeUserRepo) *ScheduleServiceImpl {
	cfg := config.ScheduleConfig{DefaultSlotMinutes: 30}
	svc := NewScheduleService(schedRepo, apptRepo, userRepo, cfg, zap.NewNop())
	// Фиксированное "сейчас" за неделю до тестовой даты.
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	}
	return svc
}

func mondayBlocks(blocks ...domain.AvailabilityBlock) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		findByVeterinarianAndWeekdayFn: func(ctx context.Context, veterinarianID int64, weekday int) ([]domain.AvailabilityBlock, error) {
			return blocks, nil
		},
	}
}

func noAppointments() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		findByVeterinarianOnDateFn: func(ctx context.Context, veterinarianID int64, date time.Time) ([]domain.Appointment, error) {
			return nil, nil
		},
	}
}

func TestListAvailableSlots_SlicesBlockIntoSlots(t *testing.T) {
	schedRepo := mondayBlocks(domain.AvailabilityBlock{
		ID: 1, VeterinarianID: testVetID, Weekday: domain.WeekdayMonday,
		StartTime: "09:00", EndTime: "12:00",
	})

	svc := newTestScheduleService(schedRepo, noAppointments(), vetUserRepo())

	// 2026-09-07 - понедельник.
	slots, err := svc.ListAvailableSlots(context.Background(), testVetID, "2026-09-07", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slots)
}

func TestListAvailableSlots_RemovesExactlyMatchingStarts(t *testing.T) {
	schedRepo := mondayBlocks(domain.AvailabilityBlock{
		ID: 1, VeterinarianID: testVetID, Weekday: domain.WeekdayMonday,
		StartTime: "09:00", EndTime: "11:00",
	})

	apptRepo := &fakeAppointmentRepo{
		findByVeterinarianOnDateFn: func(ctx context.Context, veterinarianID int64, date time.Time) ([]domain.Appointment, error) {
			return []domain.Appointment{
				{ID: 1, StartTime: time.Date(2026, 9, 7, 9, 30, 0, 0, time.Local), EndTime: time.Date(2026, 9, 7, 10, 0, 0, 0, time.Local)},
				// Прием, не совпадающий со стартом слота, слот не убирает.
				{ID: 2, StartTime: time.Date(2026, 9, 7, 10, 15, 0, 0, time.Local), EndTime: time.Date(2026, 9, 7, 10, 45, 0, 0, time.Local)},
			}, nil
		},
	}

	svc := newTestScheduleService(schedRepo, apptRepo, vetUserRepo())

	slots, err := svc.ListAvailableSlots(context.Background(), testVetID, "2026-09-07", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "10:30"}, slots)
}

func TestListAvailableSlots_TodayDropsPastSlots(t *testing.T) {
	schedRepo := mondayBlocks(domain.AvailabilityBlock{
		ID: 1, VeterinarianID: testVetID, Weekday: domain.WeekdayMonday,
		StartTime: "09:00", EndTime: "12:00",
	})

	svc := newTestScheduleService(schedRepo, noAppointments(), vetUserRepo())
	svc.now = func() time.Time {
		return time.Date(2026, 9, 7, 10, 5, 0, 0, time.Local)
	}

	slots, err := svc.ListAvailableSlots(context.Background(), testVetID, "2026-09-07", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, slots)
}

func TestListAvailableSlots_NoBlocksReturnsEmpty(t *testing.T) {
	svc := newTestScheduleService(mondayBlocks(), noAppointments(), vetUserRepo())

	slots, err := svc.ListAvailableSlots(context.Background(), testVetID, "2026-09-07", 30)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestListAvailableSlots_NegativeSlotMinutes(t *testing.T) {
	svc := newTestScheduleService(mondayBlocks(), noAppointments(), vetUserRepo())

	_, err := svc.ListAvailableSlots(context.Background(), testVetID, "2026-09-07", -15)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListAvailableSlots_ZeroUsesDefault(t *testing.T) {
	schedRepo := mondayBlocks(domain.AvailabilityBlock{
		ID: 1, VeterinarianID: testVetID, Weekday: domain.WeekdayMonday,
		StartTime: "09:00", EndTime: "10:30",
	})

	svc := newTestScheduleService(schedRepo, noAppointments(), vetUserRepo())

	slots, err := svc.ListAvailableSlots(context.Background(), testVetID, "2026-09-07", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slots)
}

func TestListAvailableSlots_LastSlotMayOverrunBlock(t *testing.T) {
	schedRepo := mondayBlocks(domain.AvailabilityBlock{
		ID: 1, VeterinarianID: testVetID, Weekday: domain.WeekdayMonday,
		StartTime: "09:00", EndTime: "10:00",
	})

	svc := newTestScheduleService(schedRepo, noAppointments(), vetUserRepo())

	// Слот 09:45-10:30 выходит за конец блока, но его начало внутри блока.
	slots, err := svc.ListAvailableSlots(context.Background(), testVetID, "2026-09-07", 45)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:45"}, slots)
}

func TestListAvailableSlots_MultipleBlocksInOrder(t *testing.T) {
	schedRepo := mondayBlocks(
		domain.AvailabilityBlock{ID: 1, VeterinarianID: testVetID, Weekday: domain.WeekdayMonday, StartTime: "09:00", EndTime: "10:00"},
		domain.AvailabilityBlock{ID: 2, VeterinarianID: testVetID, Weekday: domain.WeekdayMonday, StartTime: "14:00", EndTime: "15:00"},
	)

	svc := newTestScheduleService(schedRepo, noAppointments(), vetUserRepo())

	slots, err := svc.ListAvailableSlots(context.Background(), testVetID, "2026-09-07", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "14:00", "14:30"}, slots)
}

func TestListAvailableSlots_InvalidDate(t *testing.T) {
	svc := newTestScheduleService(&fakeScheduleRepo{}, &fakeAppointmentRepo{}, vetUserRepo())

	_, err := svc.ListAvailableSlots(context.Background(), testVetID, "07.09.2026", 30)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListAvailableSlots_UnknownVeterinarian(t *testing.T) {
	svc := newTestScheduleService(&fakeScheduleRepo{}, &fakeAppointmentRepo{}, vetUserRepo())

	_, err := svc.ListAvailableSlots(context.Background(), 999, "2026-09-07", 30)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateBlock_EndMustBeAfterStart(t *testing.T) {
	svc := newTestScheduleService(&fakeScheduleRepo{}, &fakeAppointmentRepo{}, vetUserRepo())

	_, err := svc.CreateBlock(context.Background(), testVetID, domain.CreateAvailabilityBlockDTO{
		Weekday:   domain.WeekdayMonday,
		StartTime: "12:00",
		EndTime:   "09:00",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateBlock_RejectsNonVeterinarian(t *testing.T) {
	userRepo := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.UserRoleClient, IsActive: true}, nil
		},
	}
	svc := newTestScheduleService(&fakeScheduleRepo{}, &fakeAppointmentRepo{}, userRepo)

	_, err := svc.CreateBlock(context.Background(), 5, domain.CreateAvailabilityBlockDTO{
		Weekday:   domain.WeekdayFriday,
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateBlock_ValidatesMergedTimes(t *testing.T) {
	schedRepo := &fakeScheduleRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.AvailabilityBlock, error) {
			return &domain.AvailabilityBlock{
				ID: 1, VeterinarianID: testVetID, Weekday: domain.WeekdayMonday,
				StartTime: "09:00", EndTime: "12:00",
			}, nil
		},
	}
	svc := newTestScheduleService(schedRepo, &fakeAppointmentRepo{}, vetUserRepo())

	badEnd := "08:00"
	err := svc.UpdateBlock(context.Background(), 1, domain.UpdateAvailabilityBlockDTO{EndTime: &badEnd})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateBlock_NotFound(t *testing.T) {
	schedRepo := &fakeScheduleRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.AvailabilityBlock, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestScheduleService(schedRepo, &fakeAppointmentRepo{}, vetUserRepo())

	start := "10:00"
	err := svc.UpdateBlock(context.Background(), 42, domain.UpdateAvailabilityBlockDTO{StartTime: &start})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
