package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/hr-validator/internal/config"
	"alfredoptarigan/hr-validator/internal/logger"
)

type geminiCompletion struct {
	maxOutputTokens int32
}

// NewGeminiCompletion returns a Gemini backed CompletionClient. A client is
// created per call because the API key belongs to the request.
func NewGeminiCompletion() CompletionClient {
	return &geminiCompletion{
		maxOutputTokens: 4096,
	}
}

func (g *geminiCompletion) Provider() string {
	return config.ProviderGemini
}

// Complete implements CompletionClient.
func (g *geminiCompletion) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Credential == "" {
		return "", NewMissingCredentialError(config.ProviderGemini)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  req.Credential,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", NewCompletionError(fmt.Errorf("failed to create gemini client: %w", err))
	}

	system, turns := splitSystem(req.Messages)

	genConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxOutputTokens,
	}
	if system != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.JSONOutput {
		genConfig.ResponseMIMEType = "application/json"
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		genConfig.Temperature = &t
	}
	if req.TopP != nil {
		p := float32(*req.TopP)
		genConfig.TopP = &p
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, m := range turns {
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, genConfig)
	if err != nil {
		if isGeminiAuthError(err) {
			return "", NewError(CodeMissingCredential, "completion service rejected the API key", err)
		}
		logger.Get().Error("Gemini generate content failed", zap.String("model", req.Model), zap.Error(err))
		return "", NewCompletionError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", NewMalformedOutputError(fmt.Errorf("no candidates in gemini response"))
	}

	return resp.Text(), nil
}

// isGeminiAuthError reports whether the API refused the key. An invalid key
// comes back as 400 with an API_KEY_INVALID message rather than 401.
func isGeminiAuthError(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return false
		}
		apiErr = *apiErrPtr
	}

	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		return strings.Contains(apiErr.Message, "API key not valid")
	}
	return false
}
