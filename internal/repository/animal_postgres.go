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

type AnimalRepo struct {
	db *pgxpool.Pool
}

func NewAnimalRepository(db *pgxpool.Pool) *AnimalRepo {
	return &AnimalRepo{
		db: db,
	}
}

const animalSelect = `
	SELECT a.id, a.owner_id, a.name, a.species_id, a.breed_id, a.sex, a.birth_date, a.weight_kg, a.photo_url, a.created_at, a.updated_at,
	       s.name AS species_name,
	       COALESCE(b.name, '') AS breed_name,
	       u.first_name || ' ' || u.last_name AS owner_name
	FROM animals a
	JOIN species s ON a.species_id = s.id
	LEFT JOIN breeds b ON a.breed_id = b.id
	JOIN users u ON a.owner_id = u.id
`

func scanAnimal(row pgx.Row, animal *domain.Animal) error {
	return row.Scan(
		&animal.ID,
		&animal.OwnerID,
		&animal.Name,
		&animal.SpeciesID,
		&animal.BreedID,
		&animal.Sex,
		&animal.BirthDate,
		&animal.WeightKg,
		&animal.PhotoURL,
		&animal.CreatedAt,
		&animal.UpdatedAt,
		&animal.SpeciesName,
		&animal.BreedName,
		&animal.OwnerName,
	)
}

func (r *AnimalRepo) Create(ctx context.Context, dto domain.CreateAnimalDTO) (int64, error) {
	query := `
		INSERT INTO animals (owner_id, name, species_id, breed_id, sex, birth_date, weight_kg, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '', $8, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		dto.OwnerID,
		dto.Name,
		dto.SpeciesID,
		dto.BreedID,
		dto.Sex,
		dto.BirthDate,
		dto.WeightKg,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания животного: %w", err)
	}

	return id, nil
}

func (r *AnimalRepo) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	var animal domain.Animal
	err := scanAnimal(r.db.QueryRow(ctx, animalSelect+" WHERE a.id = $1", id), &animal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения животного: %w", err)
	}

	return &animal, nil
}

func (r *AnimalRepo) Update(ctx context.Context, id int64, dto domain.UpdateAnimalDTO) error {
	setValues := []string{}
	args := []interface{}{id}
	argId := 2

	if dto.Name != nil {
		setValues = append(setValues, fmt.Sprintf("name = $%d", argId))
		args = append(args, *dto.Name)
		argId++
	}

	if dto.SpeciesID != nil {
		setValues = append(setValues, fmt.Sprintf("species_id = $%d", argId))
		args = append(args, *dto.SpeciesID)
		argId++
	}

	if dto.BreedID != nil {
		setValues = append(setValues, fmt.Sprintf("breed_id = $%d", argId))
		args = append(args, *dto.BreedID)
		argId++
	}

	if dto.Sex != nil {
		setValues = append(setValues, fmt.Sprintf("sex = $%d", argId))
		args = append(args, *dto.Sex)
		argId++
	}

	if dto.BirthDate != nil {
		setValues = append(setValues, fmt.Sprintf("birth_date = $%d", argId))
		args = append(args, *dto.BirthDate)
		argId++
	}

	if dto.WeightKg != nil {
		setValues = append(setValues, fmt.Sprintf("weight_kg = $%d", argId))
		args = append(args, *dto.WeightKg)
		argId++
	}

	if len(setValues) == 0 {
		return nil
	}

	setValues = append(setValues, fmt.Sprintf("updated_at = $%d", argId))
	args = append(args, time.Now())

	query := fmt.Sprintf("UPDATE animals SET %s WHERE id = $1", strings.Join(setValues, ", "))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления животного: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AnimalRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE animals SET photo_url = $2, updated_at = $3 WHERE id = $1",
		id, photoURL, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления фото животного: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AnimalRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM animals WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления животного: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AnimalRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM animals WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки существования животного: %w", err)
	}
	return exists, nil
}

func (r *AnimalRepo) List(ctx context.Context, filter domain.AnimalFilter) ([]domain.Animal, error) {
	query := animalSelect

	conditions, args := animalFilterConditions(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY a.name"

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

	animals := make([]domain.Animal, 0)
	for rows.Next() {
		var animal domain.Animal
		if err := scanAnimal(rows, &animal); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки животного: %w", err)
		}
		animals = append(animals, animal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return animals, nil
}

func (r *AnimalRepo) CountByFilter(ctx context.Context, filter domain.AnimalFilter) (int, error) {
	query := "SELECT COUNT(*) FROM animals a"

	conditions, args := animalFilterConditions(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета животных: %w", err)
	}

	return count, nil
}

func animalFilterConditions(filter domain.AnimalFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("a.owner_id = $%d", argCount))
		args = append(args, *filter.OwnerID)
		argCount++
	}

	if filter.SpeciesID != nil {
		conditions = append(conditions, fmt.Sprintf("a.species_id = $%d", argCount))
		args = append(args, *filter.SpeciesID)
		argCount++
	}

	return conditions, args
}

func (r *AnimalRepo) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM species ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка видов: %w", err)
	}
	defer rows.Close()

	species := make([]domain.Species, 0)
	for rows.Next() {
		var s domain.Species
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вида: %w", err)
		}
		species = append(species, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return species, nil
}

func (r *AnimalRepo) ListBreeds(ctx context.Context, speciesID *int64) ([]domain.Breed, error) {
	query := "SELECT id, species_id, name FROM breeds"
	args := []interface{}{}

	if speciesID != nil {
		query += " WHERE species_id = $1"
		args = append(args, *speciesID)
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пород: %w", err)
	}
	defer rows.Close()

	breeds := make([]domain.Breed, 0)
	for rows.Next() {
		var b domain.Breed
		if err := rows.Scan(&b.ID, &b.SpeciesID, &b.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования породы: %w", err)
		}
		breeds = append(breeds, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return breeds, nil
}
