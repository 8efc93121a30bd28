package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_IsMatchesCode(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := fmt.Errorf("update profile: %w", NewProfileStoreFailedError("redis", cause))

	assert.True(t, stderrors.Is(err, &StandardError{Code: ErrCodeProfileStoreFailed}))
	assert.False(t, stderrors.Is(err, &StandardError{Code: ErrCodeProfileConflict}))
	assert.True(t, stderrors.Is(err, cause))

	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrCodeProfileStoreFailed, code)
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		retries   int
		retryable bool
		category  string
	}{
		{"store failure retries", NewProfileStoreFailedError("postgres", fmt.Errorf("boom")), 3, true, "PROFILE"},
		{"conflict retries twice", NewProfileConflictError("tok", 5), 2, true, "PROFILE"},
		{"invalid request never retries", NewInvalidRequestError("sentence required"), 0, false, "VALIDATION"},
		{"gateway timeout", NewFactGatewayTimeoutError("joke", fmt.Errorf("deadline")), 2, true, "GATEWAY"},
		{"malformed fact", NewFactMalformedError("advice", "empty body"), 0, false, "GATEWAY"},
		{"search failure", NewSearchQueryFailedError("movies", fmt.Errorf("500")), 3, true, "SEARCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, string(tt.err.Code), bpmn.Code)
			assert.Equal(t, tt.retries, bpmn.Retries)
			assert.Equal(t, tt.retryable, bpmn.Retryable)
			assert.Equal(t, tt.category, GetErrorCategory(tt.err.Code))

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, string(tt.err.Code), vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestNormalize(t *testing.T) {
	std := NewUnknownIntentError("weather")
	assert.Same(t, std, Normalize(fmt.Errorf("wrapped: %w", std)))

	plain := Normalize(fmt.Errorf("plain"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, IsRetryableErrorCode(plain.Code))
}
