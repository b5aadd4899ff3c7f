package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vetclinic/config"
	"vetclinic/internal/domain"
	"vetclinic/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type ScheduleServiceImpl struct {
	repo            repository.ScheduleRepository
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	cfg             config.ScheduleConfig
	logger          *zap.Logger

	// Подменяется в тестах для проверки отсечения прошедших слотов.
	now func() time.Time
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	cfg config.ScheduleConfig,
	logger *zap.Logger,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *ScheduleServiceImpl) CreateBlock(ctx context.Context, veterinarianID int64, dto domain.CreateAvailabilityBlockDTO) (int64, error) {
	if err := s.checkVeterinarian(ctx, veterinarianID); err != nil {
		return 0, err
	}

	if err := validateBlockTimes(dto.StartTime, dto.EndTime); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, veterinarianID, dto)
	if err != nil {
		s.logger.Error("ошибка создания блока расписания", zap.Int64("veterinarianID", veterinarianID), zap.Error(err))
		return 0, errors.New("ошибка при создании блока расписания")
	}

	return id, nil
}

func (s *ScheduleServiceImpl) GetBlockByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error) {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения блока расписания", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("ошибка при получении блока расписания")
	}
	return block, nil
}

func (s *ScheduleServiceImpl) UpdateBlock(ctx context.Context, id int64, dto domain.UpdateAvailabilityBlockDTO) error {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("блок расписания для обновления не найден", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при получении блока расписания")
	}

	start := block.StartTime
	end := block.EndTime
	if dto.StartTime != nil {
		start = *dto.StartTime
	}
	if dto.EndTime != nil {
		end = *dto.EndTime
	}
	if err := validateBlockTimes(start, end); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("ошибка обновления блока расписания", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении блока расписания")
	}

	return nil
}

func (s *ScheduleServiceImpl) DeleteBlock(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("ошибка удаления блока расписания", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении блока расписания")
	}
	return nil
}

func (s *ScheduleServiceImpl) ListBlocks(ctx context.Context, veterinarianID int64) ([]domain.AvailabilityBlock, error) {
	if err := s.checkVeterinarian(ctx, veterinarianID); err != nil {
		return nil, err
	}

	blocks, err := s.repo.ListByVeterinarian(ctx, veterinarianID)
	if err != nil {
		s.logger.Error("ошибка получения блоков расписания", zap.Int64("veterinarianID", veterinarianID), zap.Error(err))
		return nil, errors.New("ошибка при получении блоков расписания")
	}

	return blocks, nil
}

// ListAvailableSlots возвращает свободные времена начала приема у врача на
// дату date (формат "2006-01-02"). Слоты нарезаются по блокам рабочего
// расписания с шагом slotMinutes; slotMinutes == 0 означает шаг по умолчанию
// из конфигурации. Слот убирается, если его начало совпадает с началом уже
// существующего неотмененного приема; для сегодняшней даты убираются также
// уже прошедшие слоты.
func (s *ScheduleServiceImpl) ListAvailableSlots(ctx context.Context, veterinarianID int64, date string, slotMinutes int) ([]string, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: некорректная дата, ожидается формат ГГГГ-ММ-ДД", domain.ErrValidation)
	}

	if slotMinutes == 0 {
		slotMinutes = s.cfg.DefaultSlotMinutes
	}
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: длительность слота должна быть положительной", domain.ErrValidation)
	}

	if err := s.checkVeterinarian(ctx, veterinarianID); err != nil {
		return nil, err
	}

	blocks, err := s.repo.FindByVeterinarianAndWeekday(ctx, veterinarianID, domain.WeekdayID(day.Weekday()))
	if err != nil {
		s.logger.Error("ошибка получения расписания врача", zap.Int64("veterinarianID", veterinarianID), zap.Error(err))
		return nil, errors.New("ошибка при получении расписания врача")
	}

	slots := make([]string, 0)
	if len(blocks) == 0 {
		return slots, nil
	}

	appointments, err := s.appointmentRepo.FindByVeterinarianOnDate(ctx, veterinarianID, day)
	if err != nil {
		s.logger.Error("ошибка получения приемов врача", zap.Int64("veterinarianID", veterinarianID), zap.Error(err))
		return nil, errors.New("ошибка при получении приемов врача")
	}

	taken := make(map[time.Time]bool, len(appointments))
	for _, appointment := range appointments {
		taken[appointment.StartTime.In(time.Local).Truncate(time.Minute)] = true
	}

	now := s.now()
	today := day.Year() == now.Year() && day.YearDay() == now.YearDay()
	step := time.Duration(slotMinutes) * time.Minute

	for _, block := range blocks {
		blockStart, err := atTime(day, block.StartTime)
		if err != nil {
			s.logger.Warn("некорректное время начала блока", zap.Int64("blockID", block.ID), zap.String("start", block.StartTime))
			continue
		}
		blockEnd, err := atTime(day, block.EndTime)
		if err != nil {
			s.logger.Warn("некорректное время конца блока", zap.Int64("blockID", block.ID), zap.String("end", block.EndTime))
			continue
		}

		// Слот добавляется, пока его начало строго раньше конца блока:
		// последний слот может выходить за границу блока.
		for cur := blockStart; cur.Before(blockEnd); cur = cur.Add(step) {
			if taken[cur] {
				continue
			}
			if today && !cur.After(now) {
				continue
			}
			slots = append(slots, cur.Format(timeLayout))
		}
	}

	return slots, nil
}

func (s *ScheduleServiceImpl) checkVeterinarian(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: врач не найден", domain.ErrValidation)
		}
		s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при проверке пользователя")
	}

	if user.Role != domain.UserRoleVeterinarian {
		return fmt.Errorf("%w: пользователь %d не является врачом", domain.ErrValidation, id)
	}

	return nil
}

func validateBlockTimes(start, end string) error {
	startTime, err := time.Parse(timeLayout, start)
	if err != nil {
		return fmt.Errorf("%w: некорректное время начала, ожидается формат ЧЧ:ММ", domain.ErrValidation)
	}

	endTime, err := time.Parse(timeLayout, end)
	if err != nil {
		return fmt.Errorf("%w: некорректное время конца, ожидается формат ЧЧ:ММ", domain.ErrValidation)
	}

	if !endTime.After(startTime) {
		return fmt.Errorf("%w: время конца блока должно быть позже времени начала", domain.ErrValidation)
	}

	return nil
}

func atTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
