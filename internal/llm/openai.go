package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterURL = "https://openrouter.ai/api/v1"

// OpenAI generates through the chat completions API. It also serves
// OpenRouter and other compatible endpoints.
type OpenAI struct {
	client *openai.Client
	name   string
	model  string
}

// NewOpenAI creates a provider for model. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	return newOpenAICompatible("openai", apiKey, model, baseURL)
}

// NewOpenRouter creates a provider for OpenRouter's compatible API.
func NewOpenRouter(apiKey, model, baseURL string) (*OpenAI, error) {
	if baseURL == "" {
		baseURL = openRouterURL
	}
	return newOpenAICompatible("openrouter", apiKey, model, baseURL)
}

func newOpenAICompatible(name, apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: API key is required", name)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), name: name, model: model}, nil
}

func (o *OpenAI) Name() string  { return o.name }
func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               o.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	if req.Schema != nil {
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      schemaMarshaler(req.Schema.Definition),
				Strict:      true,
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, httpError(apiErr.HTTPStatusCode, nil, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, httpError(reqErr.HTTPStatusCode, nil, err)
		}
		return nil, &Error{Kind: KindUnavailable, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Kind: KindInvalid, Err: errors.New("reply has no choices")}
	}

	choice := resp.Choices[0]
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return complete(req, choice.Message.Content, resp.Model, usage, choice.FinishReason == openai.FinishReasonLength)
}

// schemaMarshaler lets a schema definition be sent as the SDK's
// json.Marshaler.
type schemaMarshaler map[string]any

func (m schemaMarshaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(m))
}
