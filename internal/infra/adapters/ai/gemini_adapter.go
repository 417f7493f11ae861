package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"travel-ai-planner/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
	maxOut       int
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string, maxOut int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) Complete(ctx context.Context, model, system string, messages []adapter.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("gemini: no messages")
	}
	history := toGenAIHistory(messages[:len(messages)-1])

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxOut),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	chat, err := g.client.Chats.Create(ctx, modelOrDefault(model, g.defaultModel), cfg, history)
	if err != nil {
		return "", err
	}

	last := messages[len(messages)-1]
	if strings.ToLower(last.Role) != "user" {
		return "", errors.New("gemini: last message must be from user")
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: last.Content})
	if err != nil {
		return "", err
	}
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			return t, nil
		}
	}
	return "", errors.New("gemini: empty response")
}

func (g *GeminiAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	contents := toGenAIHistory(messages)
	resp, err := g.client.Models.CountTokens(ctx, modelOrDefault(model, g.defaultModel), contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

func toGenAIHistory(messages []adapter.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.RoleUser
		if strings.ToLower(m.Role) == "assistant" {
			role = genai.RoleModel
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out
}

func modelOrDefault(model, def string) string {
	if model != "" {
		return model
	}
	return def
}
