// Package intent defines the request/result contract shared by every intent handler.
package intent

import "context"

// Request is the input of every intent handler.
type Request struct {
	Locale   string `json:"locale"`
	Sentence string `json:"sentence"`
	Template string `json:"template"`
	Token    string `json:"token,omitempty"`
}

// Result is the single output shape of every handler, success or failure.
type Result struct {
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Handler is implemented by every intent worker.
type Handler interface {
	Execute(ctx context.Context, req *Request) Result
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) Result

func (f HandlerFunc) Execute(ctx context.Context, req *Request) Result {
	return f(ctx, req)
}

// Success builds a success result. An empty rendered message falls back to the tag.
func Success(tag, message string) Result {
	if message == "" {
		message = tag
	}
	return Result{Tag: tag, Message: message}
}

// Failure builds a failure result carrying the default fallback message of tag.
func Failure(tag string) Result {
	return Result{Tag: tag, Message: FallbackMessage(tag)}
}

// IsFailure reports whether r carries one of the known failure tags.
func (r Result) IsFailure() bool {
	_, ok := fallbackMessages[r.Tag]
	return ok
}
