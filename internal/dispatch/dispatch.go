// Package dispatch routes intent requests to registered handlers and
// guarantees every call ends in a non-empty result.
package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/common/metrics"
	"marboris-intents/internal/common/observability"
	"marboris-intents/internal/intent"
	"marboris-intents/pkg/registry"
)

// unknownLabel replaces unregistered intent names in metric labels.
const unknownLabel = "_unknown"

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]intent.Handler

	messages map[string]string
	registry *registry.IntentRegistry
	obs      *observability.Observability
	logger   logger.Logger
}

type Option func(*Dispatcher)

// WithMessages overrides the fallback message of failure tags.
func WithMessages(messages map[string]string) Option {
	return func(d *Dispatcher) {
		d.messages = messages
	}
}

// WithRegistry skips registration of intents the registry marks disabled.
func WithRegistry(reg *registry.IntentRegistry) Option {
	return func(d *Dispatcher) {
		d.registry = reg
	}
}

func WithObservability(obs *observability.Observability) Option {
	return func(d *Dispatcher) {
		d.obs = obs
	}
}

func New(log logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]intent.Handler),
		logger:   log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register binds name to h, replacing any previous handler.
func (d *Dispatcher) Register(name string, h intent.Handler) {
	if d.registry.IsDisabled(name) {
		d.logger.Info("intent disabled in registry, skipping", map[string]interface{}{
			"intent": name,
		})
		return
	}

	d.mu.Lock()
	d.handlers[name] = h
	d.mu.Unlock()

	d.logger.Debug("intent registered", map[string]interface{}{
		"intent": name,
	})
}

// Names returns the registered intent names in lexical order.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	d.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (d *Dispatcher) handler(name string) (intent.Handler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.handlers[name]
	return h, ok
}

// Dispatch runs the handler registered under name. It never returns an empty
// tag or message and never panics.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, req *intent.Request) (res intent.Result) {
	requestID := uuid.NewString()
	start := time.Now()

	h, ok := d.handler(name)
	label := name
	if !ok {
		label = unknownLabel
	}

	ctx, span := d.obs.StartSpan(ctx, "intent "+label,
		attribute.String("intent", label),
		attribute.String("request.id", requestID),
	)
	log := d.logger.WithFields(map[string]interface{}{
		"intent":    name,
		"requestId": requestID,
	})

	metrics.IntentsActive.WithLabelValues(label).Inc()
	defer func() {
		elapsed := time.Since(start)
		kind := intent.KindOf(res.Tag)

		metrics.IntentsActive.WithLabelValues(label).Dec()
		metrics.IntentRequests.WithLabelValues(label, res.Tag, string(kind)).Inc()
		metrics.IntentDuration.WithLabelValues(label).Observe(elapsed.Seconds())
		d.obs.RecordIntent(ctx, label, res.Tag, string(kind), elapsed)

		span.SetAttributes(attribute.String("intent.tag", res.Tag), attribute.String("intent.kind", string(kind)))
		if kind != intent.KindSuccess {
			span.SetStatus(codes.Error, res.Tag)
		}
		span.End()

		log.Info("intent handled", map[string]interface{}{
			"tag":      res.Tag,
			"kind":     kind,
			"duration": elapsed.String(),
		})
	}()

	if !ok {
		return d.finalize(intent.Failure(intent.TagUnknownIntent))
	}
	if req == nil {
		req = &intent.Request{}
	}

	return d.finalize(d.execute(ctx, h, req, log))
}

func (d *Dispatcher) execute(ctx context.Context, h intent.Handler, req *intent.Request, log logger.Logger) (res intent.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("intent handler panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			})
			res = intent.Failure(intent.TagInternalError)
		}
	}()
	return h.Execute(ctx, req)
}

func (d *Dispatcher) finalize(res intent.Result) intent.Result {
	if res.Tag == "" {
		res = intent.Failure(intent.TagInternalError)
	}
	if res.IsFailure() {
		if msg := d.messages[res.Tag]; msg != "" {
			res.Message = msg
		}
	}
	if res.Message == "" {
		res.Message = intent.FallbackMessage(res.Tag)
	}
	return res
}
