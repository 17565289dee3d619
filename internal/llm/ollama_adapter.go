package llm

import (
	"context"
	"fmt"

	"medichat/internal/chat"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

type OllamaAdapter struct {
	client *ollama.LLM
	model  string
}

func NewOllamaAdapter(model, baseURL string) (chat.Adapter, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, ollama.WithServerURL(baseURL))
	}
	client, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return &OllamaAdapter{client: client, model: model}, nil
}

func (a *OllamaAdapter) Reply(ctx context.Context, history []chat.Message, tools []llms.Tool) (string, []chat.ToolCall, error) {
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
