package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetclinic/internal/domain"
)

const maxPhotoSize = 10 << 20

// @Summary Добавить животное
// @Description Регистрирует питомца. Клиент добавляет только своих питомцев, персонал - любым владельцам
// @Tags Животные
// @Accept json
// @Produce json
// @Param input body domain.CreateAnimalDTO true "Данные животного"
// @Success 201 {object} map[string]interface{} "ID созданного животного"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /animals [post]
func (h *Handler) createAnimal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateAnimalDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	// Клиент регистрирует питомца только на себя.
	ownerID := int64(0)
	role, _ := getUserRole(c)
	if role == domain.UserRoleClient {
		ownerID = userID
	}

	id, err := h.services.Animal.Create(c.Request.Context(), ownerID, input)
	if err != nil {
		h.logger.Error("ошибка создания животного", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"id": id})
}

// @Summary Получить животное по ID
// @Tags Животные
// @Produce json
// @Param id path int true "ID животного"
// @Success 200 {object} domain.Animal "Данные животного"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Животное не найдено"
// @Security ApiKeyAuth
// @Router /animals/{id} [get]
func (h *Handler) getAnimalByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	animal, err := h.services.Animal.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ошибка получения животного", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	role, _ := getUserRole(c)
	if role == domain.UserRoleClient && animal.OwnerID != userID {
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, animal)
}

// @Summary Обновить животное
// @Tags Животные
// @Accept json
// @Produce json
// @Param id path int true "ID животного"
// @Param input body domain.UpdateAnimalDTO true "Данные для обновления"
// @Success 200 {object} successResponseBody "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Животное не найдено"
// @Security ApiKeyAuth
// @Router /animals/{id} [put]
func (h *Handler) updateAnimal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.requireAnimalAccess(c, id); err != nil {
		return
	}

	var input domain.UpdateAnimalDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Animal.Update(c.Request.Context(), id, input); err != nil {
		h.logger.Error("ошибка обновления животного", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "животное обновлено")
}

// @Summary Удалить животное
// @Tags Животные
// @Produce json
// @Param id path int true "ID животного"
// @Success 204 {object} nil "Животное удалено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Животное не найдено"
// @Security ApiKeyAuth
// @Router /animals/{id} [delete]
func (h *Handler) deleteAnimal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.requireAnimalAccess(c, id); err != nil {
		return
	}

	if err := h.services.Animal.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка удаления животного", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Список животных
// @Description Клиент видит только своих питомцев, персонал - всех
// @Tags Животные
// @Produce json
// @Param owner_id query int false "ID владельца"
// @Param species_id query int false "ID вида"
// @Param limit query int false "Количество записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} paginatedResponse "Список животных"
// @Security ApiKeyAuth
// @Router /animals [get]
func (h *Handler) getAnimals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	filter := domain.AnimalFilter{}

	if ownerIDStr := c.Query("owner_id"); ownerIDStr != "" {
		ownerID, err := strconv.ParseInt(ownerIDStr, 10, 64)
		if err == nil {
			filter.OwnerID = &ownerID
		}
	}

	if speciesIDStr := c.Query("species_id"); speciesIDStr != "" {
		speciesID, err := strconv.ParseInt(speciesIDStr, 10, 64)
		if err == nil {
			filter.SpeciesID = &speciesID
		}
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	filter.Limit = limit
	filter.Offset = offset

	role, _ := getUserRole(c)
	if role == domain.UserRoleClient {
		filter.OwnerID = &userID
	}

	animals, total, err := h.services.Animal.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка получения списка животных", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	page := offset/limit + 1

	paginatedSuccessResponse(c, animals, total, page, limit)
}

// @Summary Загрузить фото животного
// @Tags Животные
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID животного"
// @Param photo formData file true "Файл изображения (jpg, jpeg, png, webp)"
// @Success 200 {object} successResponseBody "Сообщение об успешной загрузке"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Животное не найдено"
// @Security ApiKeyAuth
// @Router /animals/{id}/photo [post]
func (h *Handler) uploadAnimalPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.requireAnimalAccess(c, id); err != nil {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "файл photo обязателен")
		return
	}

	if fileHeader.Size > maxPhotoSize {
		badRequestResponse(c, "размер файла не должен превышать 10 МБ")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("ошибка открытия файла", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка чтения файла")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("ошибка чтения файла", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка чтения файла")
		return
	}

	if err := h.services.Animal.UploadPhoto(c.Request.Context(), id, data, fileHeader.Filename); err != nil {
		h.logger.Error("ошибка загрузки фото животного", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "фото загружено")
}

// @Summary Удалить фото животного
// @Tags Животные
// @Produce json
// @Param id path int true "ID животного"
// @Success 204 {object} nil "Фото удалено"
// @Failure 404 {object} errorResponseBody "Животное не найдено"
// @Security ApiKeyAuth
// @Router /animals/{id}/photo [delete]
func (h *Handler) deleteAnimalPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.requireAnimalAccess(c, id); err != nil {
		return
	}

	if err := h.services.Animal.DeletePhoto(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка удаления фото животного", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// requireAnimalAccess обрывает запрос, если клиент пытается менять чужого
// питомца. Ответ уже записан, когда возвращается ошибка.
func (h *Handler) requireAnimalAccess(c *gin.Context, animalID int64) error {
	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return err
	}
	if role != domain.UserRoleClient {
		return nil
	}

	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return err
	}

	animal, err := h.services.Animal.GetByID(c.Request.Context(), animalID)
	if err != nil {
		serviceErrorResponse(c, err)
		return err
	}

	if animal.OwnerID != userID {
		forbiddenResponse(c)
		return domain.ErrValidation
	}

	return nil
}
