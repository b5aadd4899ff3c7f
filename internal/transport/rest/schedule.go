package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetclinic/internal/domain"
)

// @Summary Свободные слоты врача
// @Description Возвращает свободные времена начала приема у врача на указанную дату
// @Tags Расписание
// @Produce json
// @Param id path int true "ID врача"
// @Param date query string true "Дата (ГГГГ-ММ-ДД)"
// @Param slot_minutes query int false "Длительность слота в минутах" default(30)
// @Success 200 {array} string "Времена начала в формате ЧЧ:ММ"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /veterinarians/{id}/available-slots [get]
func (h *Handler) getAvailableSlots(c *gin.Context) {
	veterinarianID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, "параметр date обязателен")
		return
	}

	slotMinutes := 0
	if slotStr := c.Query("slot_minutes"); slotStr != "" {
		slotMinutes, err = strconv.Atoi(slotStr)
		if err != nil {
			badRequestResponse(c, "неверный формат slot_minutes")
			return
		}
	}

	slots, err := h.services.Schedule.ListAvailableSlots(c.Request.Context(), veterinarianID, date, slotMinutes)
	if err != nil {
		h.logger.Error("ошибка получения свободных слотов", zap.Int64("veterinarianID", veterinarianID), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Рабочее расписание врача
// @Description Возвращает еженедельные блоки рабочего времени врача
// @Tags Расписание
// @Produce json
// @Param id path int true "ID врача"
// @Success 200 {array} domain.AvailabilityBlock "Блоки расписания"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /veterinarians/{id}/schedule [get]
func (h *Handler) getVeterinarianSchedule(c *gin.Context) {
	veterinarianID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	blocks, err := h.services.Schedule.ListBlocks(c.Request.Context(), veterinarianID)
	if err != nil {
		h.logger.Error("ошибка получения расписания врача", zap.Int64("veterinarianID", veterinarianID), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, blocks)
}

// @Summary Добавить блок расписания
// @Description Добавляет врачу еженедельный блок рабочего времени
// @Tags Расписание
// @Accept json
// @Produce json
// @Param id path int true "ID врача"
// @Param input body domain.CreateAvailabilityBlockDTO true "Данные блока"
// @Success 201 {object} map[string]interface{} "ID созданного блока"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /veterinarians/{id}/schedule [post]
func (h *Handler) createScheduleBlock(c *gin.Context) {
	veterinarianID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var input domain.CreateAvailabilityBlockDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Schedule.CreateBlock(c.Request.Context(), veterinarianID, input)
	if err != nil {
		h.logger.Error("ошибка создания блока расписания", zap.Int64("veterinarianID", veterinarianID), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"id": id})
}

// @Summary Получить блок расписания
// @Tags Расписание
// @Produce json
// @Param id path int true "ID блока"
// @Success 200 {object} domain.AvailabilityBlock "Данные блока"
// @Failure 404 {object} errorResponseBody "Блок не найден"
// @Security ApiKeyAuth
// @Router /schedule-blocks/{id} [get]
func (h *Handler) getScheduleBlockByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	block, err := h.services.Schedule.GetBlockByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ошибка получения блока расписания", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, block)
}

// @Summary Обновить блок расписания
// @Tags Расписание
// @Accept json
// @Produce json
// @Param id path int true "ID блока"
// @Param input body domain.UpdateAvailabilityBlockDTO true "Данные для обновления"
// @Success 200 {object} successResponseBody "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Блок не найден"
// @Security ApiKeyAuth
// @Router /schedule-blocks/{id} [put]
func (h *Handler) updateScheduleBlock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var input domain.UpdateAvailabilityBlockDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Schedule.UpdateBlock(c.Request.Context(), id, input); err != nil {
		h.logger.Error("ошибка обновления блока расписания", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "блок расписания обновлен")
}

// @Summary Удалить блок расписания
// @Tags Расписание
// @Produce json
// @Param id path int true "ID блока"
// @Success 204 {object} nil "Блок удален"
// @Failure 404 {object} errorResponseBody "Блок не найден"
// @Security ApiKeyAuth
// @Router /schedule-blocks/{id} [delete]
func (h *Handler) deleteScheduleBlock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Schedule.DeleteBlock(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка удаления блока расписания", zap.Int64("id", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
