// internal/workers/utility/random-number/handler.go
package randomnumber

import (
	"context"
	"math/rand/v2"
	"strconv"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/extract"
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
)

const (
	TaskType = "random-number"
)

// IntN returns a value in [0, n). It must be safe for concurrent use.
type IntN func(n int) int

type Handler struct {
	intn   IntN
	logger logger.Logger
}

// NewHandler uses the math/rand/v2 global source when intn is nil.
func NewHandler(intn IntN, log logger.Logger) *Handler {
	if intn == nil {
		intn = rand.IntN
	}
	return &Handler{
		intn:   intn,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(_ context.Context, req *intent.Request) intent.Result {
	lo, hi, err := extract.Range(req.Sentence)
	if err != nil {
		return intent.Failure(intent.TagNoRandomRange)
	}

	n := lo
	if hi > lo {
		n = lo + h.intn(hi-lo)
	}

	return intent.Success(intent.TagRandomNumber, format.Render(req.Template, format.Str(strconv.Itoa(n))))
}
