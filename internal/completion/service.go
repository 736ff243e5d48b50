package completion

import (
	"context"
	"iter"
)

// Request is one text-completion call.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
	TopP        float64
}

// Chunk is one piece of streamed output. Text may be empty on a chunk that
// is not the last one.
type Chunk struct {
	Text string
	Done bool
}

// Service is a text-completion backend.
//
// Generate streams chunks for req. The sequence ends after a chunk with
// Done set, after the first error, or when the consumer stops ranging;
// stopping early releases the underlying connection.
type Service interface {
	Generate(ctx context.Context, req Request) iter.Seq2[Chunk, error]
	ListModels(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
