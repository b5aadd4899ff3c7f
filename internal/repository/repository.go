package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vetclinic/internal/domain"
)

type Repositories struct {
	User        UserRepository
	Auth        AuthRepository
	Animal      AnimalRepository
	Appointment AppointmentRepository
	Schedule    ScheduleRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Auth:        NewAuthRepository(db),
		Animal:      NewAnimalRepository(db),
		Appointment: NewAppointmentRepository(db),
		Schedule:    NewScheduleRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, role *domain.UserRole, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type AnimalRepository interface {
	Create(ctx context.Context, dto domain.CreateAnimalDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Animal, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAnimalDTO) error
	UpdatePhoto(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AnimalFilter) ([]domain.Animal, error)
	CountByFilter(ctx context.Context, filter domain.AnimalFilter) (int, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	ListSpecies(ctx context.Context) ([]domain.Species, error)
	ListBreeds(ctx context.Context, speciesID *int64) ([]domain.Breed, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, dto domain.CreateAppointmentDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)

	ExistsOverlapping(ctx context.Context, start, end time.Time, veterinarianID *int64) (bool, error)
	FindOverlapping(ctx context.Context, start, end time.Time, veterinarianID *int64) ([]domain.Appointment, error)
	FindByVeterinarianOnDate(ctx context.Context, veterinarianID int64, date time.Time) ([]domain.Appointment, error)
	FindLastByAnimal(ctx context.Context, animalID int64) (*domain.Appointment, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, veterinarianID int64, dto domain.CreateAvailabilityBlockDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAvailabilityBlockDTO) error
	Delete(ctx context.Context, id int64) error
	ListByVeterinarian(ctx context.Context, veterinarianID int64) ([]domain.AvailabilityBlock, error)
	FindByVeterinarianAndWeekday(ctx context.Context, veterinarianID int64, weekday int) ([]domain.AvailabilityBlock, error)
}
