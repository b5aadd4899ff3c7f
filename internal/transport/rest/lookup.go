package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Список видов животных
// @Tags Справочники
// @Produce json
// @Success 200 {array} domain.Species "Виды животных"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /species [get]
func (h *Handler) getSpecies(c *gin.Context) {
	species, err := h.services.Animal.ListSpecies(c.Request.Context())
	if err != nil {
		h.logger.Error("ошибка получения списка видов", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, species)
}

// @Summary Список пород
// @Description Возвращает породы, опционально отфильтрованные по виду
// @Tags Справочники
// @Produce json
// @Param species_id query int false "ID вида"
// @Success 200 {array} domain.Breed "Породы"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /breeds [get]
func (h *Handler) getBreeds(c *gin.Context) {
	var speciesID *int64
	if speciesIDStr := c.Query("species_id"); speciesIDStr != "" {
		id, err := strconv.ParseInt(speciesIDStr, 10, 64)
		if err != nil {
			badRequestResponse(c, "неверный формат species_id")
			return
		}
		speciesID = &id
	}

	breeds, err := h.services.Animal.ListBreeds(c.Request.Context(), speciesID)
	if err != nil {
		h.logger.Error("ошибка получения списка пород", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, breeds)
}

// @Summary Список полов животных
// @Tags Справочники
// @Produce json
// @Success 200 {array} domain.AnimalSex "Полы животных"
// @Router /sexes [get]
func (h *Handler) getSexes(c *gin.Context) {
	successResponse(c, http.StatusOK, h.services.Animal.Sexes())
}
