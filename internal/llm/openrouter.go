package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"
const defaultModel = "deepseek/deepseek-chat-v3.1:free"

const systemPrompt = "You are a cautious, empathetic health assistant designed to support general wellness. " +
	"Always reply in the user's language. Be empathetic, clear, culturally sensitive. " +
	"Avoid diagnosing, prescribing, or making clinical decisions. If symptoms are severe, advise to seek immediate care."

// OpenRouterClient calls an OpenAI-compatible chat completion endpoint
// (OpenRouter by default) for the general-chat fallback and the session
// summary. It never sees the structured diagnosis flow.
type OpenRouterClient struct {
	client *openai.Client
	model  string
}

// NewOpenRouterClient constructs a client for the given API key. An empty
// model selects the default free-tier model.
func NewOpenRouterClient(apiKey, model string) *OpenRouterClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = defaultBaseURL
	if model == "" {
		model = defaultModel
	}
	return &OpenRouterClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Chat answers one free-text user message under the cautious health-assistant
// system prompt.
func (c *OpenRouterClient) Chat(ctx context.Context, userText string) (string, error) {
	return c.complete(ctx, systemPrompt, userText, 0.7)
}

// Summarize produces a short empathetic recap of the structured symptom-check
// state described by prompt.
func (c *OpenRouterClient) Summarize(ctx context.Context, prompt string) (string, error) {
	system := "Summarize the following symptom-check session for the user. " +
		"Focus on reported symptoms and current status. Keep it empathetic and concise."
	return c.complete(ctx, system, prompt, 0.5)
}

func (c *OpenRouterClient) complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
