package llm

import (
	"context"
	stderrors "errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	apperrors "github.com/kbukum/pageforge/errors"
)

// OpenAIClient implements Client over the official openai-go SDK
// (chat completions).
type OpenAIClient struct {
	model       string
	temperature float64
	maxTokens   int
	opts        []option.RequestOption
}

func NewOpenAIClient(s Settings) (*OpenAIClient, error) {
	if s.APIKey == "" {
		return nil, apperrors.MissingField("model.api_key")
	}
	if s.Model == "" {
		return nil, apperrors.MissingField("model.name")
	}
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &OpenAIClient{
		model:       s.Model,
		temperature: s.Temperature,
		maxTokens:   s.MaxTokens,
		opts:        opts,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(c.opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
			return "", apperrors.ModelTimeout("completion").WithCause(err)
		}
		return "", apperrors.ModelError("chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.ModelError("model returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
