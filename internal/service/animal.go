package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vetclinic/internal/domain"
	"vetclinic/internal/repository"
	"vetclinic/internal/storage"
)

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type AnimalServiceImpl struct {
	repo        repository.AnimalRepository
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewAnimalService(
	repo repository.AnimalRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) *AnimalServiceImpl {
	if fileStorage == nil {
		fileStorage = storage.Disabled{}
	}
	return &AnimalServiceImpl{
		repo:        repo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *AnimalServiceImpl) Create(ctx context.Context, ownerID int64, dto domain.CreateAnimalDTO) (int64, error) {
	if ownerID != 0 {
		dto.OwnerID = ownerID
	}

	owner, err := s.userRepo.GetByID(ctx, dto.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("%w: владелец не найден", domain.ErrValidation)
		}
		s.logger.Error("ошибка получения владельца", zap.Int64("ownerID", dto.OwnerID), zap.Error(err))
		return 0, errors.New("ошибка при проверке владельца")
	}

	if owner.Role != domain.UserRoleClient {
		return 0, fmt.Errorf("%w: владельцем животного может быть только клиент", domain.ErrValidation)
	}

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("ошибка создания животного", zap.Error(err))
		return 0, errors.New("ошибка при создании животного")
	}

	return id, nil
}

func (s *AnimalServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	animal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения животного", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("ошибка при получении животного")
	}
	return animal, nil
}

func (s *AnimalServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateAnimalDTO) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка проверки животного", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при проверке животного")
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления животного", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении животного")
	}

	return nil
}

func (s *AnimalServiceImpl) Delete(ctx context.Context, id int64) error {
	animal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("животное для удаления не найдено", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при получении животного")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления животного", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении животного")
	}

	if animal.PhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, animal.PhotoURL); err != nil {
			s.logger.Warn("не удалось удалить фото животного", zap.String("url", animal.PhotoURL), zap.Error(err))
		}
	}

	return nil
}

func (s *AnimalServiceImpl) List(ctx context.Context, filter domain.AnimalFilter) ([]domain.Animal, int, error) {
	animals, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка животных", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении списка животных")
	}

	count, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения количества животных", zap.Error(err))
		return animals, 0, nil
	}

	return animals, count, nil
}

func (s *AnimalServiceImpl) UploadPhoto(ctx context.Context, animalID int64, photo []byte, filename string) error {
	animal, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("животное для загрузки фото не найдено", zap.Int64("id", animalID), zap.Error(err))
		return errors.New("ошибка при получении животного")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedPhotoExtensions[ext] {
		return fmt.Errorf("%w: недопустимый формат файла, ожидается jpg, jpeg, png или webp", domain.ErrValidation)
	}

	objectName := fmt.Sprintf("animals/%d/%s%s", animalID, uuid.New().String(), ext)

	url, err := s.fileStorage.UploadFile(ctx, photo, objectName)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return fmt.Errorf("%w: хранилище фотографий не настроено", domain.ErrValidation)
		}
		s.logger.Error("ошибка загрузки фото животного", zap.Int64("id", animalID), zap.Error(err))
		return errors.New("ошибка при загрузке фото")
	}

	if err := s.repo.UpdatePhoto(ctx, animalID, url); err != nil {
		s.logger.Error("ошибка сохранения ссылки на фото", zap.Int64("id", animalID), zap.Error(err))
		return errors.New("ошибка при сохранении фото")
	}

	if animal.PhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, animal.PhotoURL); err != nil {
			s.logger.Warn("не удалось удалить старое фото", zap.String("url", animal.PhotoURL), zap.Error(err))
		}
	}

	return nil
}

func (s *AnimalServiceImpl) DeletePhoto(ctx context.Context, animalID int64) error {
	animal, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("животное для удаления фото не найдено", zap.Int64("id", animalID), zap.Error(err))
		return errors.New("ошибка при получении животного")
	}

	if animal.PhotoURL == "" {
		return nil
	}

	if err := s.fileStorage.DeleteFile(ctx, animal.PhotoURL); err != nil {
		s.logger.Error("ошибка удаления фото животного", zap.Int64("id", animalID), zap.Error(err))
		return errors.New("ошибка при удалении фото")
	}

	if err := s.repo.UpdatePhoto(ctx, animalID, ""); err != nil {
		s.logger.Error("ошибка очистки ссылки на фото", zap.Int64("id", animalID), zap.Error(err))
		return errors.New("ошибка при удалении фото")
	}

	return nil
}

func (s *AnimalServiceImpl) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	species, err := s.repo.ListSpecies(ctx)
	if err != nil {
		s.logger.Error("ошибка получения списка видов", zap.Error(err))
		return nil, errors.New("ошибка при получении списка видов")
	}
	return species, nil
}

func (s *AnimalServiceImpl) ListBreeds(ctx context.Context, speciesID *int64) ([]domain.Breed, error) {
	breeds, err := s.repo.ListBreeds(ctx, speciesID)
	if err != nil {
		s.logger.Error("ошибка получения списка пород", zap.Error(err))
		return nil, errors.New("ошибка при получении списка пород")
	}
	return breeds, nil
}

func (s *AnimalServiceImpl) Sexes() []domain.AnimalSex {
	return domain.AnimalSexes()
}
