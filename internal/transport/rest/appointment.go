package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetclinic/internal/domain"
)

// @Summary Записать питомца на прием
// @Description Создает запись на прием к врачу. Время проверяется на пересечение с другими приемами
// @Tags Приемы
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Данные приема"
// @Success 201 {object} map[string]interface{} "ID созданного приема"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 409 {object} errorResponseBody "Выбранное время уже занято"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Appointment.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Error("ошибка создания приема", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"id": id})
}

// @Summary Получить прием по ID
// @Tags Приемы
// @Produce json
// @Param id path int true "ID приема"
// @Success 200 {object} domain.Appointment "Данные приема"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Прием не найден"
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
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

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ошибка получения приема", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	role, _ := getUserRole(c)
	if role == domain.UserRoleClient && appointment.ClientID != userID {
		forbiddenResponse(c)
		return
	}
	if role == domain.UserRoleVeterinarian && appointment.VeterinarianID != userID {
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Обновить прием
// @Description Обновляет данные приема. Время начала и конца проверяется на пересечение, но не перезаписывается
// @Tags Приемы
// @Accept json
// @Produce json
// @Param id path int true "ID приема"
// @Param input body domain.UpdateAppointmentDTO true "Данные для обновления"
// @Success 200 {object} successResponseBody "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Прием не найден"
// @Failure 409 {object} errorResponseBody "Выбранное время уже занято"
// @Security ApiKeyAuth
// @Router /appointments/{id} [put]
func (h *Handler) updateAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var input domain.UpdateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Appointment.Update(c.Request.Context(), id, input); err != nil {
		h.logger.Error("ошибка обновления приема", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "прием обновлен")
}

// @Summary Удалить прием
// @Description Удаляет запись о приеме из расписания
// @Tags Приемы
// @Produce json
// @Param id path int true "ID приема"
// @Success 204 {object} nil "Прием удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Прием не найден"
// @Security ApiKeyAuth
// @Router /appointments/{id} [delete]
func (h *Handler) deleteAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Appointment.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка удаления приема", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Список приемов
// @Description Возвращает приемы с фильтрами. Клиент видит только свои приемы, врач - только свои
// @Tags Приемы
// @Produce json
// @Param animal_id query int false "ID животного"
// @Param veterinarian_id query int false "ID врача"
// @Param status query string false "Статус (pending, confirmed, completed, cancelled)"
// @Param date_from query string false "Начало периода (ГГГГ-ММ-ДД)"
// @Param date_to query string false "Конец периода (ГГГГ-ММ-ДД)"
// @Param limit query int false "Количество записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} paginatedResponse "Список приемов"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	filter := domain.AppointmentFilter{}

	if animalIDStr := c.Query("animal_id"); animalIDStr != "" {
		animalID, err := strconv.ParseInt(animalIDStr, 10, 64)
		if err == nil {
			filter.AnimalID = &animalID
		}
	}

	if vetIDStr := c.Query("veterinarian_id"); vetIDStr != "" {
		vetID, err := strconv.ParseInt(vetIDStr, 10, 64)
		if err == nil {
			filter.VeterinarianID = &vetID
		}
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.AppointmentStatus(statusStr)
		filter.Status = &status
	}

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		parsed, err := time.Parse("2006-01-02", dateFrom)
		if err == nil {
			filter.StartDate = &parsed
		}
	}

	if dateTo := c.Query("date_to"); dateTo != "" {
		parsed, err := time.Parse("2006-01-02", dateTo)
		if err == nil {
			parsed = parsed.Add(24*time.Hour - time.Second)
			filter.EndDate = &parsed
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

	// Клиенты и врачи видят только собственные приемы.
	role, _ := getUserRole(c)
	switch role {
	case domain.UserRoleClient:
		filter.ClientID = &userID
	case domain.UserRoleVeterinarian:
		filter.VeterinarianID = &userID
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка получения списка приемов", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	page := offset/limit + 1

	paginatedSuccessResponse(c, appointments, total, page, limit)
}

// @Summary Статусы приемов
// @Tags Приемы
// @Produce json
// @Success 200 {array} string "Список статусов"
// @Router /appointments/statuses [get]
func (h *Handler) getAppointmentStatuses(c *gin.Context) {
	successResponse(c, http.StatusOK, h.services.Appointment.Statuses())
}

// @Summary Типы приемов
// @Tags Приемы
// @Produce json
// @Success 200 {array} string "Список типов"
// @Router /appointments/types [get]
func (h *Handler) getAppointmentTypes(c *gin.Context) {
	successResponse(c, http.StatusOK, h.services.Appointment.Types())
}
