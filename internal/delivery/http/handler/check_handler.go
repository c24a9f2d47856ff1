package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/pkg/errors"
	"github.com/boundary-resolver/internal/pkg/utils"
	"github.com/boundary-resolver/internal/pkg/validator"
	"github.com/boundary-resolver/internal/usecase"
	"github.com/boundary-resolver/internal/usecase/dto"
)

// CheckHandler - проверка адресов и история
type CheckHandler struct {
	checkUC *usecase.CheckUseCase
	logger  *zap.Logger
}

// NewCheckHandler - создание нового CheckHandler
func NewCheckHandler(checkUC *usecase.CheckUseCase, logger *zap.Logger) *CheckHandler {
	return &CheckHandler{
		checkUC: checkUC,
		logger:  logger,
	}
}

// Check godoc
// @Summary Проверка адреса
// @Description Геокодирует адрес (если не переданы lat/lon), определяет муниципалитет и регионы, сохраняет результат в историю
// @Tags Check
// @Accept json
// @Produce json
// @Param request body dto.CheckRequest true "Адрес и необязательные координаты"
// @Success 200 {object} utils.SuccessResponse{data=dto.CheckResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/check [post]
func (h *CheckHandler) Check(c *fiber.Ctx) error {
	var req dto.CheckRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(validator.Details(err)))
	}

	resp, err := h.checkUC.Check(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// History godoc
// @Summary История проверок
// @Description Последние проверки, новые первыми
// @Tags Check
// @Produce json
// @Param limit query int false "Количество записей (1..500)" default(50)
// @Success 200 {object} utils.SuccessResponse{data=dto.HistoryResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/history [get]
func (h *CheckHandler) History(c *fiber.Ctx) error {
	req := dto.HistoryRequest{Limit: c.QueryInt("limit", 0)}

	resp, err := h.checkUC.History(c.UserContext(), req.Limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, &utils.Meta{Total: resp.Total, Limit: req.Limit})
}
