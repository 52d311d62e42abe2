package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hr-validator/internal/models"
	"alfredoptarigan/hr-validator/internal/presenter"
	"alfredoptarigan/hr-validator/internal/services"
)

const mimeTextMarkdown = "text/markdown"

type EvaluationHandler struct {
	screening         services.ScreeningService
	presenter         *presenter.Presenter
	validate          *validator.Validate
	defaultCredential string
	defaultStyle      services.TextStyle
	maxFileSize       int64
}

func NewEvaluationHandler(
	screening services.ScreeningService,
	presenter *presenter.Presenter,
	defaultCredential string,
	defaultStyle services.TextStyle,
	maxFileSize int64,
) *EvaluationHandler {
	return &EvaluationHandler{
		screening:         screening,
		presenter:         presenter,
		validate:          validator.New(),
		defaultCredential: defaultCredential,
		defaultStyle:      defaultStyle,
		maxFileSize:       maxFileSize,
	}
}

// HandleEvaluate handles POST /evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var form models.EvaluateForm
	if err := c.BodyParser(&form); err != nil {
		return services.NewInvalidInputError("failed to parse form")
	}
	form.JobDescription = strings.TrimSpace(form.JobDescription)
	if err := h.validate.Struct(form); err != nil {
		return err
	}

	cvFile, err := c.FormFile("cv")
	if err != nil {
		return services.NewInvalidInputError("cv file is required")
	}
	if cvFile.Size > h.maxFileSize {
		return services.NewInvalidInputError(fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize))
	}

	file, err := cvFile.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}

	style := h.defaultStyle
	if form.Format != "" {
		style = services.TextStyle(form.Format)
	}

	credential := strings.TrimSpace(form.APIKey)
	if credential == "" {
		credential = h.defaultCredential
	}

	outcome, err := h.screening.Screen(c.UserContext(), services.ScreeningRequest{
		JobDescription: form.JobDescription,
		Document:       data,
		Filename:       cvFile.Filename,
		MimeType:       cvFile.Header.Get("Content-Type"),
		Style:          style,
		Credential:     credential,
		Profile:        form.Profile,
		Model:          form.Model,
	})
	if err != nil {
		return err
	}

	response := models.EvaluateResponse{
		Profile:  outcome.Evaluation.Profile.Version,
		Provider: outcome.Evaluation.Provider,
		Model:    outcome.Evaluation.Model,
		Result:   *outcome.Evaluation.Result,
		Report:   outcome.Report,
		Warnings: outcome.Warnings,
	}
	if outcome.ID != nil {
		response.ID = outcome.ID.String()
	}

	// Clients asking for markdown get the rendered report only.
	if c.Accepts(fiber.MIMEApplicationJSON, mimeTextMarkdown) == mimeTextMarkdown {
		c.Set(fiber.HeaderContentType, mimeTextMarkdown+"; charset=utf-8")
		return c.SendString(h.presenter.RenderMarkdown(outcome.Report))
	}

	return c.JSON(response)
}
