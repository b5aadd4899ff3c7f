package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vetclinic/config"
	"vetclinic/internal/domain"
	"vetclinic/internal/repository"
	"vetclinic/internal/storage"
	"vetclinic/pkg/email"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Mailer      email.Sender
}

type Services struct {
	User        UserService
	Auth        AuthService
	Animal      AnimalService
	Appointment AppointmentService
	Schedule    ScheduleService
	Reminder    ReminderService
}

func NewServices(deps Deps) *Services {
	appointment := NewAppointmentService(deps.Repos.Appointment, deps.Repos.Animal, deps.Repos.User, deps.Mailer, deps.Config.Schedule, deps.Logger)

	return &Services{
		User:        NewUserService(deps.Repos.User, deps.Repos.Auth, deps.Logger),
		Auth:        NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Animal:      NewAnimalService(deps.Repos.Animal, deps.Repos.User, deps.FileStorage, deps.Logger),
		Appointment: appointment,
		Schedule:    NewScheduleService(deps.Repos.Schedule, deps.Repos.Appointment, deps.Repos.User, deps.Config.Schedule, deps.Logger),
		Reminder:    NewReminderService(deps.Repos.User, deps.Repos.Animal, deps.Repos.Appointment, deps.Mailer, deps.Config.Reminder, deps.Logger),
	}
}

type UserService interface {
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, role *domain.UserRole, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type AnimalService interface {
	Create(ctx context.Context, ownerID int64, dto domain.CreateAnimalDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Animal, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAnimalDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AnimalFilter) ([]domain.Animal, int, error)

	UploadPhoto(ctx context.Context, animalID int64, photo []byte, filename string) error
	DeletePhoto(ctx context.Context, animalID int64) error

	ListSpecies(ctx context.Context) ([]domain.Species, error)
	ListBreeds(ctx context.Context, speciesID *int64) ([]domain.Breed, error)
	Sexes() []domain.AnimalSex
}

type AppointmentService interface {
	Create(ctx context.Context, receptionistID int64, dto domain.CreateAppointmentDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	HasConflict(ctx context.Context, start, end time.Time, veterinarianID int64, excludeID *int64) (bool, error)
	Statuses() []domain.AppointmentStatus
	Types() []domain.AppointmentType
}

type ScheduleService interface {
	CreateBlock(ctx context.Context, veterinarianID int64, dto domain.CreateAvailabilityBlockDTO) (int64, error)
	GetBlockByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error)
	UpdateBlock(ctx context.Context, id int64, dto domain.UpdateAvailabilityBlockDTO) error
	DeleteBlock(ctx context.Context, id int64) error
	ListBlocks(ctx context.Context, veterinarianID int64) ([]domain.AvailabilityBlock, error)
	ListAvailableSlots(ctx context.Context, veterinarianID int64, date string, slotMinutes int) ([]string, error)
}

type ReminderService interface {
	Run(ctx context.Context)
	SendUpcomingReminders(ctx context.Context) (int, error)
	SendCheckupReminders(ctx context.Context) (int, error)
}
