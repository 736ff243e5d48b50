package completion

import (
	"context"
	"iter"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint,
// including Ollama's /v1 surface. The rendered prompt is sent as a single
// user message.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a client for host. "/v1" is appended unless host
// already ends with it.
func NewOpenAIClient(host, apiKey string, httpClient *http.Client) *OpenAIClient {
	base := strings.TrimRight(host, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}

	options := []option.RequestOption{
		option.WithBaseURL(base),
	}
	if apiKey != "" {
		options = append(options, option.WithAPIKey(apiKey))
	}
	if httpClient != nil {
		options = append(options, option.WithHTTPClient(httpClient))
	}
	return &OpenAIClient{client: openai.NewClient(options...)}
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		param := openai.ChatCompletionNewParams{
			Model: req.Model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(req.Prompt),
			},
			Temperature: openai.Float(req.Temperature),
			TopP:        openai.Float(req.TopP),
		}

		stream := c.client.Chat.Completions.NewStreaming(ctx, param)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]
			done := choice.FinishReason != ""
			if !yield(Chunk{Text: choice.Delta.Content, Done: done}, nil) || done {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield(Chunk{}, err)
		}
	}
}

func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

func (c *OpenAIClient) Ping(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}
