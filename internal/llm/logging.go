package llm

import (
	"context"
	"time"

	"github.com/brightboard/assessment/internal/logger"
)

// RequestEvent captures one LLM API call for diagnostics.
type RequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	CostUSD      float64
	Success      bool
	ErrorMessage string
}

// EventSink receives request events. Implementations must not block for
// long; a failed append never fails the LLM request itself.
type EventSink interface {
	AppendLLMEvent(ctx context.Context, ev RequestEvent) error
}

// LoggingProvider is a decorator that logs every LLM request and optionally
// records it to an EventSink.
type LoggingProvider struct {
	inner Provider
	log   *logger.Logger
	sink  EventSink
}

// WithLogging wraps a Provider with request logging. sink may be nil.
func WithLogging(p Provider, log *logger.Logger, sink EventSink) Provider {
	return &LoggingProvider{inner: p, log: log, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	ev := RequestEvent{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if cost := LookupCost(resp.Model); cost != nil {
			ev.CostUSD = cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
	}

	if err != nil {
		ev.ErrorMessage = err.Error()
		l.log.Warn("llm request failed",
			"purpose", purpose, "model", ev.Model, "latency_ms", ev.LatencyMs, "error", err)
	} else {
		l.log.Debug("llm request",
			"purpose", purpose, "model", ev.Model, "latency_ms", ev.LatencyMs,
			"input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens,
			"cost_usd", ev.CostUSD)
	}

	// Record the event but don't fail the request if the sink does.
	if l.sink != nil {
		if sinkErr := l.sink.AppendLLMEvent(ctx, ev); sinkErr != nil {
			l.log.Warn("failed to record llm event", "error", sinkErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
