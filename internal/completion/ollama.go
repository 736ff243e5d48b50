package completion

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// errStopStream aborts a generation once the consumer stops ranging or the
// final chunk has been delivered.
var errStopStream = errors.New("stream stopped by consumer")

// OllamaClient talks to the native Ollama API through the official client.
type OllamaClient struct {
	client *api.Client
}

// NewOllamaClient creates a client for host. A host without a scheme is
// taken as plain http. A nil httpClient selects a client without an overall
// timeout, since generations stream for as long as the model keeps
// producing text.
func NewOllamaClient(host string, httpClient *http.Client) (*OllamaClient, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	host = strings.TrimRight(host, "/")
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}
	return &OllamaClient{client: api.NewClient(base, httpClient)}, nil
}

func (c *OllamaClient) Generate(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		stream := true
		genReq := &api.GenerateRequest{
			Model:  req.Model,
			Prompt: req.Prompt,
			Stream: &stream,
			Options: map[string]any{
				"temperature": req.Temperature,
				"top_p":       req.TopP,
			},
		}

		err := c.client.Generate(ctx, genReq, func(resp api.GenerateResponse) error {
			if !yield(Chunk{Text: resp.Response, Done: resp.Done}, nil) || resp.Done {
				return errStopStream
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopStream) {
			yield(Chunk{}, ollamaError(err))
		}
	}
}

func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, ollamaError(err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Ping checks that the server answers on its root endpoint.
func (c *OllamaClient) Ping(ctx context.Context) error {
	return ollamaError(c.client.Heartbeat(ctx))
}

// ollamaError prefixes server-reported failures with their HTTP status.
func ollamaError(err error) error {
	var status api.StatusError
	if errors.As(err, &status) {
		msg := status.ErrorMessage
		if msg == "" {
			msg = status.Status
		}
		if status.StatusCode == http.StatusTooManyRequests {
			msg = "rate limit exceeded"
		}
		return fmt.Errorf("HTTP %d: %s", status.StatusCode, msg)
	}
	return err
}
