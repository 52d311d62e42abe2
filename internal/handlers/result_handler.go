package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hr-validator/internal/logger"
	"alfredoptarigan/hr-validator/internal/models"
	"alfredoptarigan/hr-validator/internal/presenter"
	"alfredoptarigan/hr-validator/internal/repositories"
	"alfredoptarigan/hr-validator/internal/services"
)

type ResultHandler struct {
	evalRepo  repositories.EvaluationRepository
	presenter *presenter.Presenter
}

// NewResultHandler serves stored evaluations. evalRepo is nil when history
// is disabled; every lookup then reports not found.
func NewResultHandler(evalRepo repositories.EvaluationRepository, presenter *presenter.Presenter) *ResultHandler {
	return &ResultHandler{
		evalRepo:  evalRepo,
		presenter: presenter,
	}
}

// HandleGetResult handles GET /result/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	evalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return services.NewInvalidInputError("invalid evaluation ID format")
	}

	if h.evalRepo == nil {
		return services.NewNotFoundError("evaluation history is disabled")
	}

	record, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		if errors.Is(err, repositories.ErrEvaluationNotFound) {
			return services.NewNotFoundError("evaluation not found")
		}
		return err
	}

	response := models.ResultResponse{Record: *record}

	if record.Status == models.StatusCompleted && record.ResultJSON != nil {
		var raw map[string]any
		if err := json.Unmarshal([]byte(*record.ResultJSON), &raw); err != nil {
			logger.Get().Warn("Stored evaluation result is not valid JSON",
				zap.String("id", record.ID.String()),
				zap.Error(err))
		} else {
			result := services.ResultFromMap(raw)
			report := h.presenter.BuildReport(result)
			response.Result = result
			response.Report = &report
		}
	}

	return c.JSON(response)
}

// HandleListResults handles GET /evaluations
func (h *ResultHandler) HandleListResults(c *fiber.Ctx) error {
	if h.evalRepo == nil {
		return c.JSON(fiber.Map{
			"evaluations": []models.EvaluationRecord{},
			"history":     false,
		})
	}

	records, err := h.evalRepo.FindRecent(c.QueryInt("limit", 20))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"evaluations": records,
		"history":     true,
	})
}
