package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func AppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	}
}

type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeVaccination  AppointmentType = "vaccination"
	AppointmentTypeSurgery      AppointmentType = "surgery"
	AppointmentTypeExam         AppointmentType = "exam"
)

func AppointmentTypes() []AppointmentType {
	return []AppointmentType{
		AppointmentTypeConsultation,
		AppointmentTypeVaccination,
		AppointmentTypeSurgery,
		AppointmentTypeExam,
	}
}

// Время приема хранится полуоткрытым интервалом [StartTime, EndTime):
// начало входит в прием, конец - нет. Все сравнения пересечений в
// репозитории и сервисе используют именно это соглашение.
type Appointment struct {
	ID               int64             `json:"id"`
	AnimalID         int64             `json:"animal_id"`
	ClientID         int64             `json:"client_id"`
	VeterinarianID   int64             `json:"veterinarian_id"`
	ReceptionistID   int64             `json:"receptionist_id"`
	Status           AppointmentStatus `json:"status"`
	Type             AppointmentType   `json:"type"`
	CreatedAt        time.Time         `json:"created_at"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          time.Time         `json:"end_time"`
	Description      string            `json:"description"`
	AnimalName       string            `json:"animal_name,omitempty"`
	ClientName       string            `json:"client_name,omitempty"`
	VeterinarianName string            `json:"veterinarian_name,omitempty"`
}

type CreateAppointmentDTO struct {
	AnimalID       int64 `json:"animal_id" binding:"required"`
	ClientID       int64 `json:"client_id" binding:"required"`
	VeterinarianID int64 `json:"veterinarian_id" binding:"required"`
	// Заполняется сервисом из данных авторизации, в теле запроса не передается.
	ReceptionistID int64           `json:"-"`
	Type           AppointmentType `json:"type" binding:"required,oneof=consultation vaccination surgery exam"`
	StartTime      time.Time       `json:"start_time" binding:"required"`
	EndTime        time.Time       `json:"end_time" binding:"required"`
	Description    string          `json:"description"`
}

// Клиент и регистратор после создания не меняются, поэтому в DTO
// обновления их нет. Время начала и конца принимается и проверяется на
// конфликт, но в базе не перезаписывается (перенос приема оформляется
// отменой и новой записью).
type UpdateAppointmentDTO struct {
	AnimalID       int64             `json:"animal_id" binding:"required"`
	VeterinarianID int64             `json:"veterinarian_id" binding:"required"`
	Type           AppointmentType   `json:"type" binding:"required,oneof=consultation vaccination surgery exam"`
	Status         AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
	StartTime      time.Time         `json:"start_time" binding:"required"`
	EndTime        time.Time         `json:"end_time" binding:"required"`
	Description    string            `json:"description"`
}

type AppointmentFilter struct {
	AnimalID       *int64             `json:"animal_id"`
	ClientID       *int64             `json:"client_id"`
	VeterinarianID *int64             `json:"veterinarian_id"`
	Status         *AppointmentStatus `json:"status"`
	ExcludeStatus  *AppointmentStatus `json:"exclude_status"`
	StartDate      *time.Time         `json:"start_date"`
	EndDate        *time.Time         `json:"end_date"`
	Limit          int                `json:"limit"`
	Offset         int                `json:"offset"`
}
