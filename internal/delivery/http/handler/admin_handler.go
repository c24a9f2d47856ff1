package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/pkg/utils"
	"github.com/boundary-resolver/internal/usecase"
	"github.com/boundary-resolver/internal/usecase/dto"
)

// AdminHandler - перезагрузка и обновление наборов данных
type AdminHandler struct {
	datasetUC *usecase.DatasetUseCase
	logger    *zap.Logger
}

// NewAdminHandler - создание нового AdminHandler
func NewAdminHandler(datasetUC *usecase.DatasetUseCase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		datasetUC: datasetUC,
		logger:    logger,
	}
}

// Reload godoc
// @Summary Перезагрузка слоёв с диска
// @Description Перечитывает каталоги выбранных слоёв и атомарно подменяет их
// @Tags Admin
// @Produce json
// @Param X-Admin-Token header string true "Токен администратора"
// @Param which query string false "all, municipality, nsc, mpr, custom (и синонимы)" default(all)
// @Success 200 {object} utils.SuccessResponse{data=dto.ReloadResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/admin/reload [post]
func (h *AdminHandler) Reload(c *fiber.Ctx) error {
	req := dto.AdminRequest{Which: c.Query("which", "all")}

	resp, err := h.datasetUC.Reload(c.UserContext(), req.Which)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// RefreshDatasets godoc
// @Summary Скачать наборы данных из ArcGIS
// @Description Выгружает слои с настроенных ArcGIS REST URL в их каталоги и перезагружает их
// @Tags Admin
// @Produce json
// @Param X-Admin-Token header string true "Токен администратора"
// @Param which query string false "all, municipality, nsc, mpr, custom (и синонимы)" default(all)
// @Success 200 {object} utils.SuccessResponse{data=dto.RefreshResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/admin/refresh-datasets [post]
func (h *AdminHandler) RefreshDatasets(c *fiber.Ctx) error {
	req := dto.AdminRequest{Which: c.Query("which", "all")}

	resp, err := h.datasetUC.Refresh(c.UserContext(), req.Which)
	if err != nil {
		h.logger.Error("Failed to refresh datasets", zap.String("which", req.Which), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}
