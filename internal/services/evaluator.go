package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/hr-validator/internal/logger"
	"alfredoptarigan/hr-validator/internal/models"
)

type EvaluationRequest struct {
	JobDescription string
	ResumeText     string
	Credential     string
	Profile        string
	Model          string
}

type Evaluation struct {
	Profile  *Profile
	Provider string
	Model    string
	Result   *models.EvaluationResult
	Warnings []string
}

type EvaluatorService interface {
	Evaluate(ctx context.Context, req EvaluationRequest) (*Evaluation, error)
	// Resolve returns the profile and model an evaluation with these
	// request values would use.
	Resolve(profileVersion, model string) (*Profile, string, error)
	Provider() string
}

type evaluatorService struct {
	completion    CompletionClient
	profiles      *ProfileRegistry
	validator     *SchemaValidator
	promptBuilder *PromptBuilder
	defaultModel  string
}

// NewEvaluatorService wires the pipeline. defaultModel overrides the model of
// every profile unless a request names its own; validator may be nil.
func NewEvaluatorService(
	completion CompletionClient,
	profiles *ProfileRegistry,
	validator *SchemaValidator,
	defaultModel string,
) EvaluatorService {
	return &evaluatorService{
		completion:    completion,
		profiles:      profiles,
		validator:     validator,
		promptBuilder: NewPromptBuilder(),
		defaultModel:  defaultModel,
	}
}

// Evaluate implements EvaluatorService. It makes exactly one completion call
// and never retries.
func (e *evaluatorService) Evaluate(ctx context.Context, req EvaluationRequest) (*Evaluation, error) {
	l := logger.Get()

	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, NewInvalidInputError("job description is required")
	}

	profile, model, err := e.Resolve(req.Profile, req.Model)
	if err != nil {
		return nil, err
	}

	if req.Credential == "" {
		return nil, NewMissingCredentialError(e.completion.Provider())
	}

	var warnings []string
	if strings.TrimSpace(req.ResumeText) == "" {
		warnings = append(warnings, "resume text is empty, the evaluation is likely unreliable")
	}

	messages := e.promptBuilder.BuildMessages(profile, req.JobDescription, req.ResumeText)

	l.Info("Evaluating candidate",
		zap.String("profile", profile.Version),
		zap.String("provider", e.completion.Provider()),
		zap.String("model", model),
		zap.Int("job_description_chars", len(req.JobDescription)),
		zap.Int("resume_chars", len(req.ResumeText)))

	started := time.Now()
	content, err := e.completion.Complete(ctx, CompletionRequest{
		Model:       model,
		Messages:    messages,
		Credential:  req.Credential,
		JSONOutput:  true,
		Temperature: profile.Temperature,
		TopP:        profile.TopP,
	})
	if err != nil {
		l.Error("Completion call failed", zap.String("model", model), zap.Error(err))
		return nil, err
	}

	l.Info("Completion received",
		zap.Duration("latency", time.Since(started)),
		zap.Int("response_chars", len(content)))

	raw, err := DecodeOutput(content)
	if err != nil {
		l.Error("Failed to decode model output", zap.Error(err), zap.String("content", truncate(content, 500)))
		return nil, NewMalformedOutputError(err)
	}

	if e.validator != nil {
		fieldErrors, err := e.validator.Validate(profile, raw)
		if err != nil {
			l.Warn("Output schema validation could not run", zap.Error(err))
		}
		for _, fe := range fieldErrors {
			warnings = append(warnings, "schema: "+fe.String())
		}
	}

	return &Evaluation{
		Profile:  profile,
		Provider: e.completion.Provider(),
		Model:    model,
		Result:   ResultFromMap(raw),
		Warnings: warnings,
	}, nil
}

func (e *evaluatorService) Provider() string {
	return e.completion.Provider()
}

// Resolve implements EvaluatorService. The model is the requested one, then
// the configured default, then the profile's own.
func (e *evaluatorService) Resolve(profileVersion, model string) (*Profile, string, error) {
	profile, err := e.profiles.Get(profileVersion)
	if err != nil {
		return nil, "", err
	}
	if m := strings.TrimSpace(model); m != "" {
		return profile, m, nil
	}
	if e.defaultModel != "" {
		return profile, e.defaultModel, nil
	}
	return profile, profile.DefaultModel, nil
}

// DecodeOutput parses the model's text as a JSON object. Markdown code
// fences around the object are tolerated; anything else is an error.
func DecodeOutput(content string) (map[string]any, error) {
	clean := stripCodeFence(content)
	if clean == "" {
		return nil, fmt.Errorf("empty model output")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("model output is not a JSON object")
	}
	return raw, nil
}

func stripCodeFence(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// ResultFromMap applies the documented defaults: score 0, empty texts and
// empty sequences for absent or mistyped keys.
func ResultFromMap(raw map[string]any) *models.EvaluationResult {
	return &models.EvaluationResult{
		Score:       intValue(raw["score"]),
		Explanation: stringValue(raw["explanation"]),
		Motivation:  stringValue(raw["motivation"]),
		Questions:   stringSlice(raw["questions"]),
		Tags:        stringSlice(raw["tags"]),
		SkillTags:   stringSlice(raw["skill_tags"]),
		RoleTags:    stringSlice(raw["role_tags"]),
		Raw:         raw,
	}
}

func intValue(v any) int {
	switch n := v.(type) {
	case float64:
		return int(math.Round(n))
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return int(math.Round(f))
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	case int:
		return n
	}
	return 0
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func stringSlice(v any) []string {
	out := []string{}
	switch items := v.(type) {
	case []any:
		for _, item := range items {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case nil:
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
	case []string:
		out = append(out, items...)
	}
	return out
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "..."
}
