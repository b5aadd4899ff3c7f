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

const reminderPageSize = 100

// ReminderServiceImpl рассылает владельцам напоминания о плановом осмотре,
// если последний прием их питомца был давно.
type ReminderServiceImpl struct {
	userRepo        repository.UserRepository
	animalRepo      repository.AnimalRepository
	appointmentRepo repository.AppointmentRepository
	mailer          email.Sender
	cfg             config.ReminderConfig
	logger          *zap.Logger

	now func() time.Time
}

func NewReminderService(
	userRepo repository.UserRepository,
	animalRepo repository.AnimalRepository,
	appointmentRepo repository.AppointmentRepository,
	mailer email.Sender,
	cfg config.ReminderConfig,
	logger *zap.Logger,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		userRepo:        userRepo,
		animalRepo:      animalRepo,
		appointmentRepo: appointmentRepo,
		mailer:          mailer,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
	}
}

// Run запускает периодическую рассылку и блокируется до отмены контекста.
func (s *ReminderServiceImpl) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := s.SendUpcomingReminders(ctx)
			if err != nil {
				s.logger.Error("ошибка рассылки напоминаний о приеме", zap.Error(err))
			} else {
				s.logger.Info("рассылка напоминаний о приеме завершена", zap.Int("sent", sent))
			}

			sent, err = s.SendCheckupReminders(ctx)
			if err != nil {
				s.logger.Error("ошибка рассылки напоминаний об осмотре", zap.Error(err))
				continue
			}
			s.logger.Info("рассылка напоминаний об осмотре завершена", zap.Int("sent", sent))
		}
	}
}

// SendUpcomingReminders напоминает клиентам о приемах, которые начинаются
// в ближайшие cfg.RemindersHours часов. Отмененные приемы пропускаются.
// Возвращает количество отправленных писем.
func (s *ReminderServiceImpl) SendUpcomingReminders(ctx context.Context) (int, error) {
	now := s.now()
	until := now.Add(time.Duration(s.cfg.RemindersHours) * time.Hour)
	cancelled := domain.AppointmentStatusCancelled
	sent := 0

	clients := make(map[int64]*domain.User)

	for offset := 0; ; offset += reminderPageSize {
		appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
			StartDate:     &now,
			EndDate:       &until,
			ExcludeStatus: &cancelled,
			Limit:         reminderPageSize,
			Offset:        offset,
		})
		if err != nil {
			return sent, fmt.Errorf("ошибка получения ближайших приемов: %w", err)
		}
		if len(appointments) == 0 {
			return sent, nil
		}

		for _, appointment := range appointments {
			client, ok := clients[appointment.ClientID]
			if !ok {
				client, err = s.userRepo.GetByID(ctx, appointment.ClientID)
				if err != nil {
					s.logger.Warn("не удалось получить клиента для напоминания", zap.Int64("clientID", appointment.ClientID), zap.Error(err))
					continue
				}
				clients[appointment.ClientID] = client
			}
			if !client.ReceiveEmail || !client.IsActive {
				continue
			}

			body := fmt.Sprintf(
				"Здравствуйте, %s!\n\nНапоминаем: прием питомца %s назначен на %s в %s.\n\nВетклиника",
				client.FirstName,
				appointment.AnimalName,
				appointment.StartTime.Format("02.01.2006"),
				appointment.StartTime.Format("15:04"),
			)

			if err := s.mailer.Send(client.Email, "Напоминание о приеме", body); err != nil {
				s.logger.Warn("не удалось отправить напоминание о приеме", zap.String("email", client.Email), zap.Error(err))
				continue
			}
			sent++
		}

		if len(appointments) < reminderPageSize {
			return sent, nil
		}
	}
}

// SendCheckupReminders обходит клиентов, согласившихся на письма, и
// напоминает о питомцах, чей последний прием был раньше настроенного
// порога. Возвращает количество отправленных писем.
func (s *ReminderServiceImpl) SendCheckupReminders(ctx context.Context) (int, error) {
	cutoff := s.now().AddDate(0, -s.cfg.CheckupMonths, 0)
	role := domain.UserRoleClient
	sent := 0

	for offset := 0; ; offset += reminderPageSize {
		clients, err := s.userRepo.List(ctx, &role, reminderPageSize, offset)
		if err != nil {
			return sent, fmt.Errorf("ошибка получения списка клиентов: %w", err)
		}
		if len(clients) == 0 {
			return sent, nil
		}

		for _, client := range clients {
			if !client.ReceiveEmail || !client.IsActive {
				continue
			}
			sent += s.remindClient(ctx, client, cutoff)
		}

		if len(clients) < reminderPageSize {
			return sent, nil
		}
	}
}

func (s *ReminderServiceImpl) remindClient(ctx context.Context, client domain.User, cutoff time.Time) int {
	animals, err := s.animalRepo.List(ctx, domain.AnimalFilter{OwnerID: &client.ID})
	if err != nil {
		s.logger.Warn("не удалось получить животных клиента", zap.Int64("clientID", client.ID), zap.Error(err))
		return 0
	}

	sent := 0
	for _, animal := range animals {
		last, err := s.appointmentRepo.FindLastByAnimal(ctx, animal.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("не удалось получить последний прием", zap.Int64("animalID", animal.ID), zap.Error(err))
			}
			// Питомец еще ни разу не был на приеме - напоминать не о чем.
			continue
		}

		if !last.StartTime.Before(cutoff) {
			continue
		}

		body := fmt.Sprintf(
			"Здравствуйте, %s!\n\nПоследний прием питомца %s был %s. Рекомендуем записаться на плановый осмотр.\n\nВетклиника",
			client.FirstName,
			animal.Name,
			last.StartTime.Format("02.01.2006"),
		)

		if err := s.mailer.Send(client.Email, "Пора на плановый осмотр", body); err != nil {
			s.logger.Warn("не удалось отправить напоминание", zap.String("email", client.Email), zap.Error(err))
			continue
		}
		sent++
	}

	return sent
}
