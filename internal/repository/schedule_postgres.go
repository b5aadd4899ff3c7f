package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vetclinic/internal/domain"
)

type ScheduleRepo struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{
		db: db,
	}
}

func (r *ScheduleRepo) Create(ctx context.Context, veterinarianID int64, dto domain.CreateAvailabilityBlockDTO) (int64, error) {
	query := `
		INSERT INTO availability_blocks (veterinarian_id, weekday, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		veterinarianID,
		dto.Weekday,
		dto.StartTime,
		dto.EndTime,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания блока расписания: %w", err)
	}

	return id, nil
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error) {
	query := `
		SELECT id, veterinarian_id, weekday, start_time, end_time, created_at, updated_at
		FROM availability_blocks
		WHERE id = $1
	`

	var block domain.AvailabilityBlock
	err := r.db.QueryRow(ctx, query, id).Scan(
		&block.ID,
		&block.VeterinarianID,
		&block.Weekday,
		&block.StartTime,
		&block.EndTime,
		&block.CreatedAt,
		&block.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения блока расписания: %w", err)
	}

	return &block, nil
}

func (r *ScheduleRepo) Update(ctx context.Context, id int64, dto domain.UpdateAvailabilityBlockDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Weekday != nil {
		updateFields = append(updateFields, fmt.Sprintf("weekday = $%d", argCount))
		args = append(args, *dto.Weekday)
		argCount++
	}

	if dto.StartTime != nil {
		updateFields = append(updateFields, fmt.Sprintf("start_time = $%d", argCount))
		args = append(args, *dto.StartTime)
		argCount++
	}

	if dto.EndTime != nil {
		updateFields = append(updateFields, fmt.Sprintf("end_time = $%d", argCount))
		args = append(args, *dto.EndTime)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE availability_blocks SET %s WHERE id = $%d",
		strings.Join(updateFields, ", "), argCount,
	)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления блока расписания: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ScheduleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM availability_blocks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления блока расписания: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ScheduleRepo) ListByVeterinarian(ctx context.Context, veterinarianID int64) ([]domain.AvailabilityBlock, error) {
	query := `
		SELECT id, veterinarian_id, weekday, start_time, end_time, created_at, updated_at
		FROM availability_blocks
		WHERE veterinarian_id = $1
		ORDER BY weekday, start_time
	`

	rows, err := r.db.Query(ctx, query, veterinarianID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения расписания врача: %w", err)
	}
	defer rows.Close()

	return collectBlocks(rows)
}

func (r *ScheduleRepo) FindByVeterinarianAndWeekday(ctx context.Context, veterinarianID int64, weekday int) ([]domain.AvailabilityBlock, error) {
	query := `
		SELECT id, veterinarian_id, weekday, start_time, end_time, created_at, updated_at
		FROM availability_blocks
		WHERE veterinarian_id = $1 AND weekday = $2
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, veterinarianID, weekday)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения блоков расписания: %w", err)
	}
	defer rows.Close()

	return collectBlocks(rows)
}

func collectBlocks(rows pgx.Rows) ([]domain.AvailabilityBlock, error) {
	blocks := make([]domain.AvailabilityBlock, 0)
	for rows.Next() {
		var block domain.AvailabilityBlock
		if err := rows.Scan(
			&block.ID,
			&block.VeterinarianID,
			&block.Weekday,
			&block.StartTime,
			&block.EndTime,
			&block.CreatedAt,
			&block.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования блока расписания: %w", err)
		}
		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return blocks, nil
}
