// Package gateway fetches short facts (jokes, advice) from external services.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "marboris-intents/internal/common/errors"
	httpclient "marboris-intents/internal/common/http"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/common/metrics"
)

// Kind names a fact family.
type Kind string

const (
	KindJoke   Kind = "joke"
	KindAdvice Kind = "advice"
)

var (
	ErrFactTimeout     = &apperrors.StandardError{Code: apperrors.ErrCodeFactGatewayTimeout}
	ErrFactUnavailable = &apperrors.StandardError{Code: apperrors.ErrCodeFactGatewayUnavailable}
	ErrMalformedFact   = &apperrors.StandardError{Code: apperrors.ErrCodeFactMalformed}
)

// FactGateway is the boundary handlers depend on.
type FactGateway interface {
	FetchFact(ctx context.Context, kind Kind) (string, error)
}

// Config configures the HTTP gateway.
type Config struct {
	JokeURL    string
	AdviceURL  string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPGateway implements FactGateway over public JSON APIs.
type HTTPGateway struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewHTTPGateway(config *Config, log logger.Logger) *HTTPGateway {
	return &HTTPGateway{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "fact-gateway"}),
	}
}

type jokePayload struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

type advicePayload struct {
	Slip struct {
		Advice string `json:"advice"`
	} `json:"slip"`
}

// FetchFact returns one fact. Every failure is a StandardError matching
// ErrFactTimeout, ErrFactUnavailable or ErrMalformedFact.
func (g *HTTPGateway) FetchFact(ctx context.Context, kind Kind) (string, error) {
	var (
		url     string
		target  interface{}
		extract func() string
	)

	switch kind {
	case KindJoke:
		var p jokePayload
		url, target = g.config.JokeURL, &p
		extract = func() string {
			if p.Setup == "" && p.Punchline == "" {
				return ""
			}
			return strings.TrimSpace(p.Setup + " " + p.Punchline)
		}
	case KindAdvice:
		var p advicePayload
		url, target = g.config.AdviceURL, &p
		extract = func() string { return strings.TrimSpace(p.Slip.Advice) }
	default:
		return "", apperrors.NewFactMalformedError(string(kind), "unknown fact kind")
	}

	if err := g.fetch(ctx, kind, url, target); err != nil {
		metrics.FactGatewayRequests.WithLabelValues(string(kind), "error").Inc()
		return "", err
	}

	fact := extract()
	if fact == "" {
		metrics.FactGatewayRequests.WithLabelValues(string(kind), "malformed").Inc()
		return "", apperrors.NewFactMalformedError(string(kind), "empty fact")
	}

	metrics.FactGatewayRequests.WithLabelValues(string(kind), "ok").Inc()
	return fact, nil
}

func (g *HTTPGateway) fetch(ctx context.Context, kind Kind, url string, target interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return apperrors.NewFactGatewayTimeoutError(string(kind), ctx.Err())
			}
		}

		lastErr = g.client.GetJSON(ctx, url, target)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil || errors.Is(lastErr, context.DeadlineExceeded) || isTimeout(lastErr) {
			return apperrors.NewFactGatewayTimeoutError(string(kind), lastErr)
		}

		var decodeErr *httpclient.DecodeError
		if errors.As(lastErr, &decodeErr) {
			return apperrors.NewFactMalformedError(string(kind), decodeErr.Error())
		}

		g.logger.Warn("fact request failed", map[string]interface{}{
			"kind":    string(kind),
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		})
	}

	return apperrors.NewFactGatewayUnavailableError(string(kind), lastErr)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
