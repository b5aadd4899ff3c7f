package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vetclinic/internal/domain"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

const appointmentSelect = `
	SELECT a.id, a.animal_id, a.client_id, a.veterinarian_id, a.receptionist_id,
	       a.status, a.type, a.created_at, a.start_time, a.end_time, a.description,
	       an.name AS animal_name,
	       cu.first_name || ' ' || cu.last_name AS client_name,
	       vu.first_name || ' ' || vu.last_name AS veterinarian_name
	FROM appointments a
	JOIN animals an ON a.animal_id = an.id
	JOIN users cu ON a.client_id = cu.id
	JOIN users vu ON a.veterinarian_id = vu.id
`

// Условие пересечения полуоткрытых интервалов [start_time, end_time) и [$1, $2).
const overlapCondition = "a.start_time < $2 AND a.end_time > $1"

func scanAppointment(row pgx.Row, appointment *domain.Appointment) error {
	return row.Scan(
		&appointment.ID,
		&appointment.AnimalID,
		&appointment.ClientID,
		&appointment.VeterinarianID,
		&appointment.ReceptionistID,
		&appointment.Status,
		&appointment.Type,
		&appointment.CreatedAt,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Description,
		&appointment.AnimalName,
		&appointment.ClientName,
		&appointment.VeterinarianName,
	)
}

// isConflictErr распознает нарушение ограничения непересекаемости интервалов
// (exclusion constraint в схеме - вторая линия защиты от двойного бронирования).
func isConflictErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}

func (r *AppointmentRepo) Create(ctx context.Context, dto domain.CreateAppointmentDTO) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	checkQuery := `
		SELECT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.veterinarian_id = $3 AND ` + overlapCondition + `
		)
	`

	var busy bool
	err = tx.QueryRow(ctx, checkQuery, dto.StartTime, dto.EndTime, dto.VeterinarianID).Scan(&busy)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки занятости времени: %w", err)
	}

	if busy {
		return 0, domain.ErrConflict
	}

	query := `
		INSERT INTO appointments (animal_id, client_id, veterinarian_id, receptionist_id, status, type, created_at, start_time, end_time, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(ctx, query,
		dto.AnimalID,
		dto.ClientID,
		dto.VeterinarianID,
		dto.ReceptionistID,
		domain.AppointmentStatusPending,
		dto.Type,
		time.Now(),
		dto.StartTime,
		dto.EndTime,
		dto.Description,
	).Scan(&id)

	if err != nil {
		if isConflictErr(err) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("ошибка создания приема: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		if isConflictErr(err) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := appointmentSelect + " WHERE a.id = $1"

	var appointment domain.Appointment
	err := scanAppointment(r.db.QueryRow(ctx, query, id), &appointment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения приема: %w", err)
	}

	return &appointment, nil
}

// Update заменяет изменяемые поля приема. Время начала и конца не
// перезаписывается: перенос оформляется отменой и новой записью.
func (r *AppointmentRepo) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	query := `
		UPDATE appointments
		SET animal_id = $1, veterinarian_id = $2, type = $3, status = $4, description = $5, created_at = $6
		WHERE id = $7
	`

	tag, err := r.db.Exec(ctx, query,
		dto.AnimalID,
		dto.VeterinarianID,
		dto.Type,
		dto.Status,
		dto.Description,
		time.Now(),
		id,
	)
	if err != nil {
		if isConflictErr(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("ошибка обновления приема: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM appointments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления приема: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки существования приема: %w", err)
	}
	return exists, nil
}

func (r *AppointmentRepo) ExistsOverlapping(ctx context.Context, start, end time.Time, veterinarianID *int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments a
			WHERE ` + overlapCondition + `
	`
	args := []interface{}{start, end}

	if veterinarianID != nil {
		query += " AND a.veterinarian_id = $3"
		args = append(args, *veterinarianID)
	}
	query += ")"

	var exists bool
	err := r.db.QueryRow(ctx, query, args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки пересечения времени: %w", err)
	}

	return exists, nil
}

func (r *AppointmentRepo) FindOverlapping(ctx context.Context, start, end time.Time, veterinarianID *int64) ([]domain.Appointment, error) {
	query := appointmentSelect + " WHERE " + overlapCondition
	args := []interface{}{start, end}

	if veterinarianID != nil {
		query += " AND a.veterinarian_id = $3"
		args = append(args, *veterinarianID)
	}
	query += " ORDER BY a.start_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пересекающихся приемов: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// FindByVeterinarianOnDate возвращает неотмененные приемы врача, начинающиеся
// в границах календарного дня [полночь, следующая полночь).
func (r *AppointmentRepo) FindByVeterinarianOnDate(ctx context.Context, veterinarianID int64, date time.Time) ([]domain.Appointment, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := appointmentSelect + `
		WHERE a.veterinarian_id = $1
		AND a.start_time >= $2 AND a.start_time < $3
		AND a.status != $4
		ORDER BY a.start_time
	`

	rows, err := r.db.Query(ctx, query, veterinarianID, dayStart, dayEnd, domain.AppointmentStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения приемов врача за день: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentRepo) FindLastByAnimal(ctx context.Context, animalID int64) (*domain.Appointment, error) {
	query := appointmentSelect + `
		WHERE a.animal_id = $1
		ORDER BY a.start_time DESC
		LIMIT 1
	`

	var appointment domain.Appointment
	err := scanAppointment(r.db.QueryRow(ctx, query, animalID), &appointment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения последнего приема животного: %w", err)
	}

	return &appointment, nil
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	query := appointmentSelect

	conditions, args := appointmentFilterConditions(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY a.start_time DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	query := "SELECT COUNT(*) FROM appointments a"

	conditions, args := appointmentFilterConditions(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета приемов: %w", err)
	}

	return count, nil
}

func appointmentFilterConditions(filter domain.AppointmentFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.AnimalID != nil {
		conditions = append(conditions, fmt.Sprintf("a.animal_id = $%d", argCount))
		args = append(args, *filter.AnimalID)
		argCount++
	}

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.client_id = $%d", argCount))
		args = append(args, *filter.ClientID)
		argCount++
	}

	if filter.VeterinarianID != nil {
		conditions = append(conditions, fmt.Sprintf("a.veterinarian_id = $%d", argCount))
		args = append(args, *filter.VeterinarianID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.ExcludeStatus != nil {
		conditions = append(conditions, fmt.Sprintf("a.status != $%d", argCount))
		args = append(args, *filter.ExcludeStatus)
		argCount++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.start_time >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.start_time <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	return conditions, args
}

func collectAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var appointment domain.Appointment
		if err := scanAppointment(rows, &appointment); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки приема: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return appointments, nil
}
