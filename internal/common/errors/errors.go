// Package errors provides standardized infrastructure errors and their
// mapping to workflow (BPMN) errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeUnknownIntent  ErrorCode = "UNKNOWN_INTENT"

	ErrCodeProfileStoreFailed ErrorCode = "PROFILE_STORE_FAILED"
	ErrCodeProfileConflict    ErrorCode = "PROFILE_CONFLICT"
	ErrCodeProfileCorrupted   ErrorCode = "PROFILE_CORRUPTED"

	ErrCodeDatasetLoadFailed ErrorCode = "DATASET_LOAD_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeFactGatewayTimeout     ErrorCode = "FACT_GATEWAY_TIMEOUT"
	ErrCodeFactGatewayUnavailable ErrorCode = "FACT_GATEWAY_UNAVAILABLE"
	ErrCodeFactMalformed          ErrorCode = "FACT_MALFORMED"

	ErrCodeWorkflowEngineUnavailable ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"
	ErrCodeWorkflowEngineTimeout     ErrorCode = "WORKFLOW_ENGINE_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError with the same code.
func (e *StandardError) Is(target error) bool {
	var t *StandardError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// CodeOf returns the code of the first StandardError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code, true
	}
	return "", false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid intent request", details, false, nil)
}

// NewUnknownIntentError creates a non-retryable unknown intent error.
func NewUnknownIntentError(name string) *StandardError {
	return newError(ErrCodeUnknownIntent, "Intent is not registered", fmt.Sprintf("intent: %s", name), false, nil)
}

// NewProfileStoreFailedError creates a retryable profile backend error.
func NewProfileStoreFailedError(backend string, err error) *StandardError {
	return newError(ErrCodeProfileStoreFailed, "Profile store operation failed",
		fmt.Sprintf("backend: %s, error: %v", backend, err), true, err)
}

// NewProfileConflictError is returned when optimistic updates exhaust their retries.
func NewProfileConflictError(token string, attempts int) *StandardError {
	return newError(ErrCodeProfileConflict, "Profile update kept conflicting",
		fmt.Sprintf("token: %s, attempts: %d", token, attempts), true, nil)
}

// NewProfileCorruptedError creates a non-retryable decode error for a stored profile.
func NewProfileCorruptedError(token string, err error) *StandardError {
	return newError(ErrCodeProfileCorrupted, "Stored profile could not be decoded",
		fmt.Sprintf("token: %s, error: %v", token, err), false, err)
}

// NewDatasetLoadFailedError creates a dataset loading error.
func NewDatasetLoadFailedError(table, source string, err error) *StandardError {
	return newError(ErrCodeDatasetLoadFailed, "Dataset could not be loaded",
		fmt.Sprintf("table: %s, source: %s, error: %v", table, source, err), false, err)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true, err)
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true, err)
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true, err)
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found",
		fmt.Sprintf("indexName: %s", indexName), false, nil)
}

// NewFactGatewayTimeoutError creates a timeout error for the fact gateway.
func NewFactGatewayTimeoutError(kind string, err error) *StandardError {
	return newError(ErrCodeFactGatewayTimeout, "Fact service timeout",
		fmt.Sprintf("kind: %s, error: %v", kind, err), true, err)
}

// NewFactGatewayUnavailableError creates an upstream failure error for the fact gateway.
func NewFactGatewayUnavailableError(kind string, err error) *StandardError {
	return newError(ErrCodeFactGatewayUnavailable, "Fact service unavailable",
		fmt.Sprintf("kind: %s, error: %v", kind, err), true, err)
}

// NewFactMalformedError creates a non-retryable decode error for a fact payload.
func NewFactMalformedError(kind string, details string) *StandardError {
	return newError(ErrCodeFactMalformed, "Fact service returned an unusable payload",
		fmt.Sprintf("kind: %s, %s", kind, details), false, nil)
}

// NewWorkflowEngineUnavailableError reports a failed call to the Zeebe gateway.
func NewWorkflowEngineUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeWorkflowEngineUnavailable, "Workflow engine unavailable",
		fmt.Sprintf("operation: %s, error: %v", operation, err), true, err)
}

// NewWorkflowEngineTimeoutError reports a Zeebe gateway call that exceeded its deadline.
func NewWorkflowEngineTimeoutError(operation string, timeout time.Duration) *StandardError {
	return newError(ErrCodeWorkflowEngineTimeout, "Workflow engine timeout",
		fmt.Sprintf("operation: %s, timeout: %s", operation, timeout), true, nil)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileStoreFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeFactGatewayUnavailable,
		ErrCodeWorkflowEngineUnavailable:
		return 3

	case ErrCodeProfileConflict,
		ErrCodeFactGatewayTimeout,
		ErrCodeWorkflowEngineTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILE"
	case strings.Contains(codeStr, "DATASET"):
		return "DATASET"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY_EXECUTION"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "FACT"):
		return "GATEWAY"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "UNKNOWN"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
