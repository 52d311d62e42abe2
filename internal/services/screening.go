package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hr-validator/internal/logger"
	"alfredoptarigan/hr-validator/internal/models"
	"alfredoptarigan/hr-validator/internal/presenter"
	"alfredoptarigan/hr-validator/internal/repositories"
)

// ScreeningRequest is one form submission: a job description and the
// uploaded résumé file.
type ScreeningRequest struct {
	JobDescription string
	Document       []byte
	Filename       string
	MimeType       string
	Style          TextStyle
	Credential     string
	Profile        string
	Model          string
}

type ScreeningOutcome struct {
	ID         *uuid.UUID
	Evaluation *Evaluation
	Report     models.Report
	Document   *DocumentContent
	Warnings   []string
}

type ScreeningService interface {
	Screen(ctx context.Context, req ScreeningRequest) (*ScreeningOutcome, error)
}

type screeningService struct {
	extractor TextExtractor
	evaluator EvaluatorService
	presenter *presenter.Presenter
	evalRepo  repositories.EvaluationRepository
}

// NewScreeningService runs extraction, evaluation and presentation for one
// submission. evalRepo is optional; without it nothing is persisted.
func NewScreeningService(
	extractor TextExtractor,
	evaluator EvaluatorService,
	presenter *presenter.Presenter,
	evalRepo repositories.EvaluationRepository,
) ScreeningService {
	return &screeningService{
		extractor: extractor,
		evaluator: evaluator,
		presenter: presenter,
		evalRepo:  evalRepo,
	}
}

func (s *screeningService) Screen(ctx context.Context, req ScreeningRequest) (*ScreeningOutcome, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, NewInvalidInputError("job description is required")
	}
	if len(req.Document) == 0 {
		return nil, NewInvalidInputError("resume file is required")
	}

	style := req.Style
	if style == "" {
		style = StyleMarkdown
	}

	doc, err := s.extractor.ExtractDocument(req.Document, req.Filename, req.MimeType, style)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if doc.Degraded() {
		warnings = append(warnings, "no text could be extracted from the resume")
	} else if doc.EmptyPages > 0 {
		logger.Get().Warn("Resume has pages without extractable text",
			zap.String("filename", req.Filename),
			zap.Int("empty_pages", doc.EmptyPages),
			zap.Int("pages", doc.PageCount))
	}

	evaluation, err := s.evaluator.Evaluate(ctx, EvaluationRequest{
		JobDescription: req.JobDescription,
		ResumeText:     doc.Text,
		Credential:     req.Credential,
		Profile:        req.Profile,
		Model:          req.Model,
	})
	if err != nil {
		s.recordFailure(req, doc, err)
		return nil, err
	}

	outcome := &ScreeningOutcome{
		Evaluation: evaluation,
		Report:     s.presenter.BuildReport(evaluation.Result),
		Document:   doc,
		Warnings:   append(warnings, evaluation.Warnings...),
	}
	outcome.ID = s.recordSuccess(req, doc, evaluation)

	return outcome, nil
}

func (s *screeningService) recordSuccess(req ScreeningRequest, doc *DocumentContent, evaluation *Evaluation) *uuid.UUID {
	if s.evalRepo == nil {
		return nil
	}

	record := &models.EvaluationRecord{
		Profile:        evaluation.Profile.Version,
		Provider:       evaluation.Provider,
		Model:          evaluation.Model,
		JobDescription: strings.TrimSpace(req.JobDescription),
		ResumeText:     doc.Text,
		ResumeFilename: req.Filename,
		Status:         models.StatusCompleted,
	}
	score := evaluation.Result.Score
	record.Score = &score
	if raw, err := json.Marshal(evaluation.Result.Raw); err == nil {
		rawStr := string(raw)
		record.ResultJSON = &rawStr
	}

	if err := s.evalRepo.Create(record); err != nil {
		logger.Get().Warn("Failed to archive evaluation", zap.Error(err))
		return nil
	}
	return &record.ID
}

func (s *screeningService) recordFailure(req ScreeningRequest, doc *DocumentContent, evalErr error) {
	if s.evalRepo == nil {
		return
	}
	// Rejected input is not an evaluation attempt.
	switch ErrorCodeOf(evalErr) {
	case CodeInvalidInput, CodeUnknownProfile, CodeMissingCredential:
		return
	}

	profileVersion, model := req.Profile, req.Model
	if profile, resolved, err := s.evaluator.Resolve(req.Profile, req.Model); err == nil {
		profileVersion, model = profile.Version, resolved
	}

	msg := evalErr.Error()
	record := &models.EvaluationRecord{
		Profile:        profileVersion,
		Provider:       s.evaluator.Provider(),
		Model:          model,
		JobDescription: strings.TrimSpace(req.JobDescription),
		ResumeText:     doc.Text,
		ResumeFilename: req.Filename,
		Status:         models.StatusFailed,
		ErrorMessage:   &msg,
	}
	if err := s.evalRepo.Create(record); err != nil {
		logger.Get().Warn("Failed to archive failed evaluation", zap.Error(err))
	}
}
