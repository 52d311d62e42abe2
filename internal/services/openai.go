package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"alfredoptarigan/hr-validator/internal/config"
	"alfredoptarigan/hr-validator/internal/logger"
)

type openAICompletion struct {
	client *openai.Client
}

// NewOpenAICompletion builds a chat-completions client. The SDK's automatic
// retries are switched off; a failed call is reported to the caller as is.
func NewOpenAICompletion(baseURL string) CompletionClient {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openAICompletion{
		client: openai.NewClient(opts...),
	}
}

func (o *openAICompletion) Provider() string {
	return config.ProviderOpenAI
}

// Complete implements CompletionClient.
func (o *openAICompletion) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Credential == "" {
		return "", NewMissingCredentialError(config.ProviderOpenAI)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		default:
			return "", fmt.Errorf("unsupported message role: %s", m.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages: openai.F(messages),
		Model:    openai.F(openai.ChatModel(req.Model)),
	}
	if req.JSONOutput {
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			shared.ResponseFormatJSONObjectParam{
				Type: openai.F(shared.ResponseFormatJSONObjectTypeJSONObject),
			},
		)
	}
	if req.Temperature != nil {
		params.Temperature = openai.F(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.F(*req.TopP)
	}

	completion, err := o.client.Chat.Completions.New(ctx, params, option.WithAPIKey(req.Credential))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", NewError(CodeMissingCredential, "completion service rejected the API key", err)
		}
		logger.Get().Error("OpenAI chat completion failed", zap.String("model", req.Model), zap.Error(err))
		return "", NewCompletionError(err)
	}

	if len(completion.Choices) == 0 {
		return "", NewMalformedOutputError(fmt.Errorf("completion returned no choices"))
	}

	logger.Get().Debug("OpenAI chat completion received",
		zap.String("model", completion.Model),
		zap.Int64("total_tokens", completion.Usage.TotalTokens))

	return completion.Choices[0].Message.Content, nil
}
