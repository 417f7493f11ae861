package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"travel-ai-planner/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.CompletionAdapter using the Chat
// Completions API via the official SDK.
type OpenAIAdapter struct {
	client    openai.Client
	model     string
	maxTokens int
}

func NewOpenAIAdapter(apiKey, model string, maxTokens int) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (o *OpenAIAdapter) Complete(ctx context.Context, model, system string, messages []adapter.Message) (string, error) {
	if model == "" {
		model = o.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1),
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}
	if system != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(system))
	}
	for _, m := range messages {
		switch m.Role {
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("no choice content")
}

func (o *OpenAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	if model == "" {
		model = o.model
	}
	return countTokensLocal(model, messages)
}
