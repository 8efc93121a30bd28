package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailure_CarriesFallbackMessage(t *testing.T) {
	tests := []struct {
		tag     string
		message string
		kind    Kind
	}{
		{TagNoCountry, "Country not found", KindNotFound},
		{TagDontUnderstand, "Could not understand the math operation", KindMalformedInput},
		{TagMathNotValid, "Invalid math operation", KindEvaluationFailure},
		{TagNoRandomRange, "No valid range provided", KindMalformedInput},
		{TagNoJokes, "No jokes available", KindExternalFailure},
		{TagNoAdvices, "No advices available", KindExternalFailure},
		{TagDontKnowName, "Name is not set", KindStateAbsent},
		{TagNoName, "No valid name found", KindNotFound},
		{TagNoGenres, "No valid genres found", KindNotFound},
		{TagNoMovie, "No movie found", KindNotFound},
		{TagNoGenresSaved, "No genres saved", KindStateAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			res := Failure(tt.tag)
			assert.Equal(t, tt.tag, res.Tag)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, tt.kind, KindOf(tt.tag))
			assert.True(t, res.IsFailure())
		})
	}
}

func TestFailureTags_AllHaveMessages(t *testing.T) {
	for _, tag := range FailureTags() {
		assert.NotEmpty(t, FallbackMessage(tag), tag)
		assert.NotEqual(t, KindSuccess, KindOf(tag), tag)
	}
}

func TestSuccess_NeverEmpty(t *testing.T) {
	res := Success(TagCapital, "")
	assert.Equal(t, TagCapital, res.Message)
	assert.False(t, res.IsFailure())
	assert.Equal(t, KindSuccess, KindOf(TagCapital))
}

func TestHandlerFunc(t *testing.T) {
	h := HandlerFunc(func(_ context.Context, req *Request) Result {
		return Success(TagMath, req.Sentence)
	})
	res := h.Execute(context.Background(), &Request{Sentence: "2"})
	assert.Equal(t, Result{Tag: TagMath, Message: "2"}, res)
}
