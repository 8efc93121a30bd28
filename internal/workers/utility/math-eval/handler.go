// internal/workers/utility/math-eval/handler.go
package matheval

import (
	"context"
	"errors"

	"marboris-intents/internal/calc"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/extract"
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
)

const (
	TaskType = "math"
)

// Handler evaluates arithmetic in memory and never blocks, so it takes no timeout.
type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(_ context.Context, req *intent.Request) intent.Result {
	expr := extract.MathExpression(req.Sentence)
	if expr == "" {
		return intent.Failure(intent.TagDontUnderstand)
	}

	value, err := calc.Evaluate(expr)
	if err != nil {
		h.logger.Debug("expression rejected", map[string]interface{}{
			"expression":   expr,
			"divideByZero": errors.Is(err, calc.ErrDivisionByZero),
		})
		return intent.Failure(intent.TagMathNotValid)
	}

	return intent.Success(intent.TagMath, format.Render(req.Template, format.Str(format.Number(value))))
}
