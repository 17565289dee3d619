package llm

import (
	"context"
	"fmt"

	"medichat/internal/chat"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

type OpenAIAdapter struct {
	client *openai.LLM
	model  string
}

func NewOpenAIAdapter(model, baseURL, apiKey string) (chat.Adapter, error) {
	opts := []openai.Option{
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &OpenAIAdapter{client: client, model: model}, nil
}

func (a *OpenAIAdapter) Reply(ctx context.Context, history []chat.Message, tools []llms.Tool) (string, []chat.ToolCall, error) {
	opts := []llms.CallOption{llms.WithModel(a.model)}
	if len(tools) > 0 {
		opts = append(opts, llms.WithTools(tools))
	}

	resp, err := a.client.GenerateContent(ctx, toMessageContent(history), opts...)
	if err != nil {
		return "", nil, err
	}
	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("empty response from model")
	}

	text, toolCalls := fromChoice(resp.Choices[0])
	return text, toolCalls, nil
}
