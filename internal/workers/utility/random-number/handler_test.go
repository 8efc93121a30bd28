// internal/workers/utility/random-number/handler_test.go
package randomnumber

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/intent"
)

func request(sentence string) *intent.Request {
	return &intent.Request{Locale: "en", Sentence: sentence, Template: "Your number is %s"}
}

func TestHandler_Execute_Deterministic(t *testing.T) {
	var gotN int
	h := NewHandler(func(n int) int {
		gotN = n
		return n - 1
	}, logger.NewTestLogger(t))

	res := h.Execute(context.Background(), request("random number between 50 and 10"))

	assert.Equal(t, 40, gotN)
	assert.Equal(t, intent.Result{Tag: intent.TagRandomNumber, Message: "Your number is 49"}, res)
}

func TestHandler_Execute_EqualBounds(t *testing.T) {
	h := NewHandler(func(int) int {
		t.Fatal("rng must not be called for an empty range")
		return 0
	}, logger.NewNoOpLogger())

	res := h.Execute(context.Background(), request("between 7 and 7"))
	assert.Equal(t, intent.Result{Tag: intent.TagRandomNumber, Message: "Your number is 7"}, res)
}

func TestHandler_Execute_WithinRange(t *testing.T) {
	h := NewHandler(nil, logger.NewNoOpLogger())

	for i := 0; i < 200; i++ {
		res := h.Execute(context.Background(), request("pick from 3 to 9"))
		require.Equal(t, intent.TagRandomNumber, res.Tag)

		n, err := strconv.Atoi(strings.TrimPrefix(res.Message, "Your number is "))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 3)
		assert.Less(t, n, 9)
	}
}

func TestHandler_Execute_NoRange(t *testing.T) {
	tests := []string{
		"give me a random number",
		"a number below 10",
		"between 1 and 99999999999999999999999",
	}

	h := NewHandler(nil, logger.NewNoOpLogger())
	for _, sentence := range tests {
		t.Run(sentence, func(t *testing.T) {
			res := h.Execute(context.Background(), request(sentence))
			assert.Equal(t, intent.Result{Tag: intent.TagNoRandomRange, Message: "No valid range provided"}, res)
		})
	}
}
