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
	"vetclinic/pkg/email"
)

type AppointmentServiceImpl struct {
	repo       repository.AppointmentRepository
	animalRepo repository.AnimalRepository
	userRepo   repository.UserRepository
	mailer     email.Sender
	cfg        config.ScheduleConfig
	logger     *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	animalRepo repository.AnimalRepository,
	userRepo repository.UserRepository,
	mailer email.Sender,
	cfg config.ScheduleConfig,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:       repo,
		animalRepo: animalRepo,
		userRepo:   userRepo,
		mailer:     mailer,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *AppointmentServiceImpl) Create(ctx context.Context, receptionistID int64, dto domain.CreateAppointmentDTO) (int64, error) {
	dto.ReceptionistID = receptionistID

	if err := validateInterval(dto.StartTime, dto.EndTime); err != nil {
		s.logger.Error("некорректный интервал приема", zap.Time("start", dto.StartTime), zap.Time("end", dto.EndTime))
		return 0, err
	}

	if err := s.checkReferences(ctx, dto.AnimalID, dto.ClientID, dto.VeterinarianID); err != nil {
		return 0, err
	}

	busy, err := s.HasConflict(ctx, dto.StartTime, dto.EndTime, dto.VeterinarianID, nil)
	if err != nil {
		s.logger.Error("ошибка проверки занятости времени", zap.Error(err))
		return 0, errors.New("ошибка при проверке доступности времени")
	}
	if busy {
		return 0, domain.ErrConflict
	}

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return 0, err
		}
		s.logger.Error("ошибка создания приема", zap.Error(err))
		return 0, errors.New("ошибка при создании приема")
	}

	go s.notifyClient(dto.ClientID, dto.StartTime, dto.EndTime, false)

	return id, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения приема", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("ошибка при получении приема")
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("прием для обновления не найден", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при получении приема")
	}

	if err := validateInterval(dto.StartTime, dto.EndTime); err != nil {
		s.logger.Error("некорректный интервал приема", zap.Time("start", dto.StartTime), zap.Time("end", dto.EndTime))
		return err
	}

	exists, err := s.animalRepo.ExistsByID(ctx, dto.AnimalID)
	if err != nil {
		s.logger.Error("ошибка проверки животного", zap.Int64("animalID", dto.AnimalID), zap.Error(err))
		return errors.New("ошибка при проверке животного")
	}
	if !exists {
		return fmt.Errorf("%w: животное не найдено", domain.ErrValidation)
	}

	if err := s.checkUserRole(ctx, dto.VeterinarianID, domain.UserRoleVeterinarian, "врач"); err != nil {
		return err
	}

	busy, err := s.HasConflict(ctx, dto.StartTime, dto.EndTime, dto.VeterinarianID, &id)
	if err != nil {
		s.logger.Error("ошибка проверки занятости времени", zap.Error(err))
		return errors.New("ошибка при проверке доступности времени")
	}
	if busy {
		return domain.ErrConflict
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return err
		}
		s.logger.Error("ошибка обновления приема", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении приема")
	}

	go s.notifyClient(appointment.ClientID, appointment.StartTime, appointment.EndTime, true)

	return nil
}

func (s *AppointmentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("ошибка удаления приема", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении приема")
	}
	return nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка приемов", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении списка приемов")
	}

	count, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения количества приемов", zap.Error(err))
		return appointments, 0, nil
	}

	return appointments, count, nil
}

// HasConflict проверяет пересечение интервала [start, end) с существующими
// приемами. Область проверки зависит от конфигурации: вся клиника либо только
// приемы указанного врача. excludeID исключает сам обновляемый прием.
func (s *AppointmentServiceImpl) HasConflict(ctx context.Context, start, end time.Time, veterinarianID int64, excludeID *int64) (bool, error) {
	var scope *int64
	if s.cfg.ScopeConflictsByVeterinarian {
		scope = &veterinarianID
	}

	if excludeID == nil {
		return s.repo.ExistsOverlapping(ctx, start, end, scope)
	}

	overlapping, err := s.repo.FindOverlapping(ctx, start, end, scope)
	if err != nil {
		return false, err
	}

	for _, appointment := range overlapping {
		if appointment.ID != *excludeID {
			return true, nil
		}
	}

	return false, nil
}

func (s *AppointmentServiceImpl) Statuses() []domain.AppointmentStatus {
	return domain.AppointmentStatuses()
}

func (s *AppointmentServiceImpl) Types() []domain.AppointmentType {
	return domain.AppointmentTypes()
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: время начала и конца приема обязательно", domain.ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: время конца приема должно быть позже времени начала", domain.ErrValidation)
	}
	return nil
}

func (s *AppointmentServiceImpl) checkReferences(ctx context.Context, animalID, clientID, veterinarianID int64) error {
	exists, err := s.animalRepo.ExistsByID(ctx, animalID)
	if err != nil {
		s.logger.Error("ошибка проверки животного", zap.Int64("animalID", animalID), zap.Error(err))
		return errors.New("ошибка при проверке животного")
	}
	if !exists {
		return fmt.Errorf("%w: животное не найдено", domain.ErrValidation)
	}

	if err := s.checkUserRole(ctx, clientID, domain.UserRoleClient, "клиент"); err != nil {
		return err
	}

	return s.checkUserRole(ctx, veterinarianID, domain.UserRoleVeterinarian, "врач")
}

func (s *AppointmentServiceImpl) checkUserRole(ctx context.Context, id int64, role domain.UserRole, label string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s не найден", domain.ErrValidation, label)
		}
		s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при проверке пользователя")
	}

	if user.Role != role {
		return fmt.Errorf("%w: пользователь %d не является: %s", domain.ErrValidation, id, label)
	}

	return nil
}

func (s *AppointmentServiceImpl) notifyClient(clientID int64, start, end time.Time, updated bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		s.logger.Warn("не удалось получить клиента для уведомления", zap.Int64("clientID", clientID), zap.Error(err))
		return
	}
	if !client.ReceiveEmail {
		return
	}

	subject := "Запись на прием"
	template := "Здравствуйте, %s!\n\nВаш питомец записан на прием %s с %s до %s.\n\nВетклиника"
	if updated {
		subject = "Изменение записи на прием"
		template = "Здравствуйте, %s!\n\nЗапись вашего питомца на прием %s с %s до %s изменена.\n\nВетклиника"
	}

	body := fmt.Sprintf(
		template,
		client.FirstName,
		start.Format("02.01.2006"),
		start.Format("15:04"),
		end.Format("15:04"),
	)

	if err := s.mailer.Send(client.Email, subject, body); err != nil {
		s.logger.Warn("не удалось отправить письмо о записи", zap.String("email", client.Email), zap.Error(err))
	}
}
