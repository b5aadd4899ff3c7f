package domain

import (
	"time"
)

// Идентификаторы дней недели: 1 - воскресенье ... 7 - суббота.
const (
	WeekdaySunday    = 1
	WeekdayMonday    = 2
	WeekdayTuesday   = 3
	WeekdayWednesday = 4
	WeekdayThursday  = 5
	WeekdayFriday    = 6
	WeekdaySaturday  = 7
)

// WeekdayID переводит time.Weekday в идентификатор дня недели.
// Функция тотальна: каждому дню соответствует ровно один идентификатор.
func WeekdayID(d time.Weekday) int {
	return int(d) + 1
}

// AvailabilityBlock - повторяющийся еженедельный интервал работы врача.
// У одного врача в один день недели может быть несколько блоков
// (например, утренняя и вечерняя смены). Время хранится строкой "HH:MM".
type AvailabilityBlock struct {
	ID             int64     `json:"id"`
	VeterinarianID int64     `json:"veterinarian_id"`
	Weekday        int       `json:"weekday"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateAvailabilityBlockDTO struct {
	Weekday   int    `json:"weekday" binding:"required,min=1,max=7"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type UpdateAvailabilityBlockDTO struct {
	Weekday   *int    `json:"weekday" binding:"omitempty,min=1,max=7"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}
