package telemetry

import (
	"context"
	"iter"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/secagent/secagent/internal/agent"
	"github.com/secagent/secagent/internal/schema"
	"github.com/secagent/secagent/internal/shared/stringutils"
)

const instrumentationName = "github.com/secagent/secagent/internal/telemetry"

// messageAttrLimit bounds the user.message span attribute, in runes.
const messageAttrLimit = 100

// TracedAgent wraps an Assistant with a span per turn plus tool and latency
// metrics. Every method other than Stream and Respond is forwarded unchanged.
type TracedAgent struct {
	agent.Assistant

	tracer       trace.Tracer
	toolCalls    metric.Int64Counter
	toolErrors   metric.Int64Counter
	responseTime metric.Float64Histogram
}

var _ agent.Assistant = (*TracedAgent)(nil)

// NewTracedAgent decorates inner using the given providers.
func NewTracedAgent(inner agent.Assistant, tp trace.TracerProvider, mp metric.MeterProvider) (*TracedAgent, error) {
	meter := mp.Meter(instrumentationName)

	toolCalls, err := meter.Int64Counter("agent.tool_calls",
		metric.WithDescription("Number of tool calls"), metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}
	toolErrors, err := meter.Int64Counter("agent.tool_errors",
		metric.WithDescription("Number of tool errors"), metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}
	responseTime, err := meter.Float64Histogram("agent.response_time",
		metric.WithDescription("Response generation time"), metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &TracedAgent{
		Assistant:    inner,
		tracer:       tp.Tracer(instrumentationName),
		toolCalls:    toolCalls,
		toolErrors:   toolErrors,
		responseTime: responseTime,
	}, nil
}

func (t *TracedAgent) Stream(ctx context.Context, message string) iter.Seq[string] {
	return func(yield func(string) bool) {
		ctx, span := t.startSpan(ctx, "agent.stream_response", message)
		defer span.End()
		t.turn(ctx, span, message, yield)
	}
}

func (t *TracedAgent) Respond(ctx context.Context, message string) string {
	ctx, span := t.startSpan(ctx, "agent.get_response", message)
	defer span.End()

	var sb strings.Builder
	t.turn(ctx, span, message, func(chunk string) bool {
		sb.WriteString(chunk)
		return true
	})
	return sb.String()
}

func (t *TracedAgent) startSpan(ctx context.Context, name, message string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("session.id", t.Assistant.Settings().SessionID),
		attribute.String("user.message", stringutils.Prefix(message, messageAttrLimit)),
	))
}

// turn forwards the wrapped stream to yield and records the turn on span.
func (t *TracedAgent) turn(ctx context.Context, span trace.Span, message string, yield func(string) bool) {
	start := time.Now()
	before := len(t.Assistant.History())
	length := 0
	defer func() {
		t.finish(ctx, span, start, before)
		span.SetAttributes(attribute.Int("response.length", length))
	}()

	for chunk := range t.Assistant.Stream(ctx, message) {
		length += len(chunk)
		if !yield(chunk) {
			span.SetAttributes(attribute.Bool("stream.stopped", true))
			return
		}
	}
	if err := t.Assistant.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("error", true))
	}
}

// finish records latency and counts the tool results appended during the turn.
func (t *TracedAgent) finish(ctx context.Context, span trace.Span, start time.Time, before int) {
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	t.responseTime.Record(ctx, elapsed)
	span.SetAttributes(attribute.Float64("response.time_ms", elapsed))

	history := t.Assistant.History()
	if before > len(history) {
		return
	}
	for _, e := range history[before:] {
		if e.Role != schema.RoleTool {
			continue
		}
		attrs := metric.WithAttributes(attribute.String("tool", e.ToolName))
		t.toolCalls.Add(ctx, 1, attrs)
		if strings.HasPrefix(e.Content, "Error") {
			t.toolErrors.Add(ctx, 1, attrs)
		}
	}
}
