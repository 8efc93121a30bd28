package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"marboris-intents/internal/common/config"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/common/metrics"
	"marboris-intents/internal/common/observability"
	"marboris-intents/internal/intent"
	"marboris-intents/pkg/registry"
)

func echoHandler(tag string) intent.Handler {
	return intent.HandlerFunc(func(_ context.Context, req *intent.Request) intent.Result {
		return intent.Success(tag, req.Sentence)
	})
}

func TestDispatcher_Dispatch(t *testing.T) {
	d := New(logger.NewTestLogger(t))
	d.Register("math", echoHandler(intent.TagMath))

	before := testutil.ToFloat64(metrics.IntentRequests.WithLabelValues("math", intent.TagMath, string(intent.KindSuccess)))

	res := d.Dispatch(context.Background(), "math", &intent.Request{Sentence: "4"})
	assert.Equal(t, intent.Result{Tag: intent.TagMath, Message: "4"}, res)

	after := testutil.ToFloat64(metrics.IntentRequests.WithLabelValues("math", intent.TagMath, string(intent.KindSuccess)))
	assert.Equal(t, before+1, after)
}

func TestDispatcher_UnknownIntent(t *testing.T) {
	d := New(logger.NewTestLogger(t))

	res := d.Dispatch(context.Background(), "weather", &intent.Request{})
	assert.Equal(t, intent.Result{Tag: intent.TagUnknownIntent, Message: "Unknown intent"}, res)
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	d := New(logger.NewZapAdapter(zap.New(core)))
	d.Register("boom", intent.HandlerFunc(func(context.Context, *intent.Request) intent.Result {
		panic("index out of range")
	}))

	res := d.Dispatch(context.Background(), "boom", &intent.Request{})
	assert.Equal(t, intent.Result{Tag: intent.TagInternalError, Message: "Something went wrong"}, res)

	entries := logs.FilterMessage("intent handler panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "index out of range", entries[0].ContextMap()["panic"])
}

func TestDispatcher_NeverReturnsEmptyResults(t *testing.T) {
	d := New(logger.NewNoOpLogger())
	d.Register("empty", intent.HandlerFunc(func(context.Context, *intent.Request) intent.Result {
		return intent.Result{}
	}))
	d.Register("silent-failure", intent.HandlerFunc(func(context.Context, *intent.Request) intent.Result {
		return intent.Result{Tag: intent.TagNoCountry}
	}))

	res := d.Dispatch(context.Background(), "empty", nil)
	assert.Equal(t, intent.TagInternalError, res.Tag)
	assert.NotEmpty(t, res.Message)

	res = d.Dispatch(context.Background(), "silent-failure", &intent.Request{})
	assert.Equal(t, intent.Result{Tag: intent.TagNoCountry, Message: "Country not found"}, res)
}

func TestDispatcher_MessageOverrides(t *testing.T) {
	d := New(logger.NewNoOpLogger(), WithMessages(map[string]string{
		intent.TagNoCountry: "Je ne connais pas ce pays",
		intent.TagCapital:   "ignored for successes",
	}))
	d.Register("capital", intent.HandlerFunc(func(_ context.Context, req *intent.Request) intent.Result {
		if req.Sentence == "" {
			return intent.Failure(intent.TagNoCountry)
		}
		return intent.Success(intent.TagCapital, "Paris")
	}))

	res := d.Dispatch(context.Background(), "capital", &intent.Request{})
	assert.Equal(t, intent.Result{Tag: intent.TagNoCountry, Message: "Je ne connais pas ce pays"}, res)

	res = d.Dispatch(context.Background(), "capital", &intent.Request{Sentence: "france"})
	assert.Equal(t, intent.Result{Tag: intent.TagCapital, Message: "Paris"}, res)
}

func TestDispatcher_RegistrySkipsDisabled(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Add(registry.Intent{
		ID: "jokes", DisplayName: "Jokes", Category: "facts", TaskType: "jokes",
		SuccessTag: intent.TagJokes, Status: registry.StatusDisabled,
	}))

	d := New(logger.NewTestLogger(t), WithRegistry(reg))
	d.Register("jokes", echoHandler(intent.TagJokes))
	d.Register("math", echoHandler(intent.TagMath))
	d.Register("area", echoHandler(intent.TagArea))

	assert.Equal(t, []string{"area", "math"}, d.Names())
	assert.Equal(t, intent.TagUnknownIntent, d.Dispatch(context.Background(), "jokes", &intent.Request{}).Tag)
}

func TestDispatcher_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs := observability.New("dispatch-test", config.TracingConfig{}, observability.WithSpanProcessor(recorder))
	t.Cleanup(obs.Shutdown)

	d := New(logger.NewNoOpLogger(), WithObservability(obs))
	d.Register("math", echoHandler(intent.TagMath))

	d.Dispatch(context.Background(), "math", &intent.Request{Sentence: "1"})
	d.Dispatch(context.Background(), "nope", &intent.Request{})

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "intent math", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("intent.tag", intent.TagMath))
	assert.Equal(t, "intent "+unknownLabel, spans[1].Name())
	assert.Contains(t, spans[1].Attributes(), attribute.String("intent.tag", intent.TagUnknownIntent))
}

func TestDispatcher_ConcurrentUse(t *testing.T) {
	d := New(logger.NewNoOpLogger())
	d.Register("math", echoHandler(intent.TagMath))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := d.Dispatch(context.Background(), "math", &intent.Request{Sentence: "x"})
			assert.Equal(t, intent.TagMath, res.Tag)
		}()
		d.Register("area", echoHandler(intent.TagArea))
	}
	wg.Wait()
}
