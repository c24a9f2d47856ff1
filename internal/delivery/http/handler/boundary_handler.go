package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/pkg/errors"
	"github.com/boundary-resolver/internal/pkg/utils"
	"github.com/boundary-resolver/internal/pkg/validator"
	"github.com/boundary-resolver/internal/usecase"
	"github.com/boundary-resolver/internal/usecase/dto"
)

// BoundaryHandler - разрешение точек и состояние слоёв
type BoundaryHandler struct {
	resolveUC *usecase.ResolveUseCase
	datasetUC *usecase.DatasetUseCase
	logger    *zap.Logger
}

// NewBoundaryHandler - создание нового BoundaryHandler
func NewBoundaryHandler(resolveUC *usecase.ResolveUseCase, datasetUC *usecase.DatasetUseCase, logger *zap.Logger) *BoundaryHandler {
	return &BoundaryHandler{
		resolveUC: resolveUC,
		datasetUC: datasetUC,
		logger:    logger,
	}
}

// Health godoc
// @Summary Состояние сервиса
// @Description Возвращает поколение слоёв и число загруженных объектов
// @Tags System
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.HealthResponse}
// @Router /api/v1/health [get]
func (h *BoundaryHandler) Health(c *fiber.Ctx) error {
	stats := h.datasetUC.Stats()
	return utils.SendSuccess(c, dto.HealthResponse{
		OK:            true,
		Generation:    stats.Generation,
		TotalFeatures: stats.TotalFeatures,
	}, nil)
}

// Resolve godoc
// @Summary Разрешение точки в регионы
// @Description Определяет муниципалитет, провинцию и регионы всех слоёв для точки. Промах по слою описывается причиной (empty_layer или no_match), а не ошибкой.
// @Tags Boundaries
// @Produce json
// @Param lat query number true "Широта (-90..90)"
// @Param lon query number true "Долгота (-180..180)"
// @Success 200 {object} utils.SuccessResponse{data=domain.Resolution}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/resolve [get]
func (h *BoundaryHandler) Resolve(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithMessage("Query parameters lat and lon are required numbers"))
	}

	req := dto.ResolveRequest{Lat: lat, Lon: lon}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithDetails(validator.Details(err)))
	}

	res, err := h.resolveUC.Resolve(c.UserContext(), req.Lat, req.Lon)
	if err != nil {
		h.logger.Error("Failed to resolve point", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, res, nil)
}

// Layers godoc
// @Summary Статистика загрузки слоёв
// @Description Счётчики файлов и объектов по каждому слою, охват и поколение
// @Tags Boundaries
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.RegistryStats}
// @Router /api/v1/layers [get]
func (h *BoundaryHandler) Layers(c *fiber.Ctx) error {
	stats := h.datasetUC.Stats()
	return utils.SendSuccess(c, stats, &utils.Meta{Total: len(stats.Layers), Generation: stats.Generation})
}
