package service

import (
	"context"
	"sync"
	"time"

	"vetclinic/internal/domain"
)

type fakeUserRepo struct {
	createFn         func(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	getByIDFn        func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	getByPhoneFn     func(ctx context.Context, phone string) (*domain.User, error)
	updateFn         func(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	updatePasswordFn func(ctx context.Context, id int64, passwordHash string) error
	deleteFn         func(ctx context.Context, id int64) error
	listFn           func(ctx context.Context, role *domain.UserRole, limit, offset int) ([]domain.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, dto)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.getByIDFn == nil {
		panic("GetByID not configured")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getByEmailFn == nil {
		panic("GetByEmail not configured")
	}
	return f.getByEmailFn(ctx, email)
}

func (f *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if f.getByPhoneFn == nil {
		panic("GetByPhone not configured")
	}
	return f.getByPhoneFn(ctx, phone)
}

func (f *fakeUserRepo) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, id, dto)
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if f.updatePasswordFn == nil {
		panic("UpdatePassword not configured")
	}
	return f.updatePasswordFn(ctx, id, passwordHash)
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeUserRepo) List(ctx context.Context, role *domain.UserRole, limit, offset int) ([]domain.User, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx, role, limit, offset)
}

type fakeAnimalRepo struct {
	createFn        func(ctx context.Context, dto domain.CreateAnimalDTO) (int64, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.Animal, error)
	updateFn        func(ctx context.Context, id int64, dto domain.UpdateAnimalDTO) error
	updatePhotoFn   func(ctx context.Context, id int64, photoURL string) error
	deleteFn        func(ctx context.Context, id int64) error
	listFn          func(ctx context.Context, filter domain.AnimalFilter) ([]domain.Animal, error)
	countByFilterFn func(ctx context.Context, filter domain.AnimalFilter) (int, error)
	existsByIDFn    func(ctx context.Context, id int64) (bool, error)
	listSpeciesFn   func(ctx context.Context) ([]domain.Species, error)
	listBreedsFn    func(ctx context.Context, speciesID *int64) ([]domain.Breed, error)
}

func (f *fakeAnimalRepo) Create(ctx context.Context, dto domain.CreateAnimalDTO) (int64, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, dto)
}

func (f *fakeAnimalRepo) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	if f.getByIDFn == nil {
		panic("GetByID not configured")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeAnimalRepo) Update(ctx context.Context, id int64, dto domain.UpdateAnimalDTO) error {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, id, dto)
}

func (f *fakeAnimalRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	if f.updatePhotoFn == nil {
		panic("UpdatePhoto not configured")
	}
	return f.updatePhotoFn(ctx, id, photoURL)
}

func (f *fakeAnimalRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeAnimalRepo) List(ctx context.Context, filter domain.AnimalFilter) ([]domain.Animal, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx, filter)
}

func (f *fakeAnimalRepo) CountByFilter(ctx context.Context, filter domain.AnimalFilter) (int, error) {
	if f.countByFilterFn == nil {
		panic("CountByFilter not configured")
	}
	return f.countByFilterFn(ctx, filter)
}

func (f *fakeAnimalRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if f.existsByIDFn == nil {
		panic("ExistsByID not configured")
	}
	return f.existsByIDFn(ctx, id)
}

func (f *fakeAnimalRepo) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	if f.listSpeciesFn == nil {
		panic("ListSpecies not configured")
	}
	return f.listSpeciesFn(ctx)
}

func (f *fakeAnimalRepo) ListBreeds(ctx context.Context, speciesID *int64) ([]domain.Breed, error) {
	if f.listBreedsFn == nil {
		panic("ListBreeds not configured")
	}
	return f.listBreedsFn(ctx, speciesID)
}

type fakeAppointmentRepo struct {
	createFn                   func(ctx context.Context, dto domain.CreateAppointmentDTO) (int64, error)
	getByIDFn                  func(ctx context.Context, id int64) (*domain.Appointment, error)
	updateFn                   func(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error
	deleteFn                   func(ctx context.Context, id int64) error
	existsByIDFn               func(ctx context.Context, id int64) (bool, error)
	listFn                     func(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	countByFilterFn            func(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	existsOverlappingFn        func(ctx context.Context, start, end time.Time, veterinarianID *int64) (bool, error)
	findOverlappingFn          func(ctx context.Context, start, end time.Time, veterinarianID *int64) ([]domain.Appointment, error)
	findByVeterinarianOnDateFn func(ctx context.Context, veterinarianID int64, date time.Time) ([]domain.Appointment, error)
	findLastByAnimalFn         func(ctx context.Context, animalID int64) (*domain.Appointment, error)
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, dto domain.CreateAppointmentDTO) (int64, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, dto)
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.getByIDFn == nil {
		panic("GetByID not configured")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, id, dto)
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeAppointmentRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if f.existsByIDFn == nil {
		panic("ExistsByID not configured")
	}
	return f.existsByIDFn(ctx, id)
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx, filter)
}

func (f *fakeAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	if f.countByFilterFn == nil {
		panic("CountByFilter not configured")
	}
	return f.countByFilterFn(ctx, filter)
}

func (f *fakeAppointmentRepo) ExistsOverlapping(ctx context.Context, start, end time.Time, veterinarianID *int64) (bool, error) {
	if f.existsOverlappingFn == nil {
		panic("ExistsOverlapping not configured")
	}
	return f.existsOverlappingFn(ctx, start, end, veterinarianID)
}

func (f *fakeAppointmentRepo) FindOverlapping(ctx context.Context, start, end time.Time, veterinarianID *int64) ([]domain.Appointment, error) {
	if f.findOverlappingFn == nil {
		panic("FindOverlapping not configured")
	}
	return f.findOverlappingFn(ctx, start, end, veterinarianID)
}

func (f *fakeAppointmentRepo) FindByVeterinarianOnDate(ctx context.Context, veterinarianID int64, date time.Time) ([]domain.Appointment, error) {
	if f.findByVeterinarianOnDateFn == nil {
		panic("FindByVeterinarianOnDate not configured")
	}
	return f.findByVeterinarianOnDateFn(ctx, veterinarianID, date)
}

func (f *fakeAppointmentRepo) FindLastByAnimal(ctx context.Context, animalID int64) (*domain.Appointment, error) {
	if f.findLastByAnimalFn == nil {
		panic("FindLastByAnimal not configured")
	}
	return f.findLastByAnimalFn(ctx, animalID)
}

type fakeScheduleRepo struct {
	createFn                       func(ctx context.Context, veterinarianID int64, dto domain.CreateAvailabilityBlockDTO) (int64, error)
	getByIDFn                      func(ctx context.Context, id int64) (*domain.AvailabilityBlock, error)
	updateFn                       func(ctx context.Context, id int64, dto domain.UpdateAvailabilityBlockDTO) error
	deleteFn                       func(ctx context.Context, id int64) error
	listByVeterinarianFn           func(ctx context.Context, veterinarianID int64) ([]domain.AvailabilityBlock, error)
	findByVeterinarianAndWeekdayFn func(ctx context.Context, veterinarianID int64, weekday int) ([]domain.AvailabilityBlock, error)
}

func (f *fakeScheduleRepo) Create(ctx context.Context, veterinarianID int64, dto domain.CreateAvailabilityBlockDTO) (int64, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, veterinarianID, dto)
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error) {
	if f.getByIDFn == nil {
		panic("GetByID not configured")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeScheduleRepo) Update(ctx context.Context, id int64, dto domain.UpdateAvailabilityBlockDTO) error {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, id, dto)
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeScheduleRepo) ListByVeterinarian(ctx context.Context, veterinarianID int64) ([]domain.AvailabilityBlock, error) {
	if f.listByVeterinarianFn == nil {
		panic("ListByVeterinarian not configured")
	}
	return f.listByVeterinarianFn(ctx, veterinarianID)
}

func (f *fakeScheduleRepo) FindByVeterinarianAndWeekday(ctx context.Context, veterinarianID int64, weekday int) ([]domain.AvailabilityBlock, error) {
	if f.findByVeterinarianAndWeekdayFn == nil {
		panic("FindByVeterinarianAndWeekday not configured")
	}
	return f.findByVeterinarianAndWeekdayFn(ctx, veterinarianID, weekday)
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMailer) lastSent() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMail{}
	}
	return f.sent[len(f.sent)-1]
}

type fakeAuthRepo struct {
	createSessionFn            func(ctx context.Context, session domain.Session) error
	getSessionByRefreshTokenFn func(ctx context.Context, refreshToken string) (*domain.Session, error)
	deleteSessionFn            func(ctx context.Context, id string) error
	deleteSessionsByUserIDFn   func(ctx context.Context, userID int64) error
}

func (f *fakeAuthRepo) CreateSession(ctx context.Context, session domain.Session) error {
	if f.createSessionFn == nil {
		panic("CreateSession not configured")
	}
	return f.createSessionFn(ctx, session)
}

func (f *fakeAuthRepo) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if f.getSessionByRefreshTokenFn == nil {
		panic("GetSessionByRefreshToken not configured")
	}
	return f.getSessionByRefreshTokenFn(ctx, refreshToken)
}

func (f *fakeAuthRepo) DeleteSession(ctx context.Context, id string) error {
	if f.deleteSessionFn == nil {
		panic("DeleteSession not configured")
	}
	return f.deleteSessionFn(ctx, id)
}

func (f *fakeAuthRepo) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	if f.deleteSessionsByUserIDFn == nil {
		panic("DeleteSessionsByUserID not configured")
	}
	return f.deleteSessionsByUserIDFn(ctx, userID)
}

func ptr[T any](v T) *T {
	return &v
}
