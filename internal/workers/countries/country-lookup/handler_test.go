// internal/workers/countries/country-lookup/handler_test.go
package countrylookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/models"
)

func createTestCountries() []models.Country {
	return []models.Country{
		{
			Code:     "FR",
			Name:     map[string]string{"en": "France", "fr": "France"},
			Capital:  "Paris",
			Area:     643801,
			Currency: "EUR",
		},
		{
			Code: "AQ",
			Name: map[string]string{"en": "Antarctica"},
			Area: 14200000,
		},
		{
			Code:     "DE",
			Name:     map[string]string{"en": "Germany", "de": "Deutschland"},
			Capital:  "Berlin",
			Area:     357022.5,
			Currency: "EUR",
		},
	}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name     string
		attr     Attribute
		request  intent.Request
		expected intent.Result
	}{
		{
			name:     "capital found",
			attr:     Capital,
			request:  intent.Request{Locale: "en", Sentence: "What is the capital of France?", Template: "The capital of %s is %s."},
			expected: intent.Result{Tag: intent.TagCapital, Message: "The capital of France is Paris."},
		},
		{
			name:     "capital uses locale name",
			attr:     Capital,
			request:  intent.Request{Locale: "de", Sentence: "hauptstadt von deutschland", Template: "%s: %s"},
			expected: intent.Result{Tag: intent.TagCapital, Message: "Deutschland: Berlin"},
		},
		{
			name:     "capital missing in record",
			attr:     Capital,
			request:  intent.Request{Locale: "en", Sentence: "capital of antarctica", Template: "%s %s"},
			expected: intent.Result{Tag: intent.TagNoCountry, Message: "Country not found"},
		},
		{
			name:     "area plain number",
			attr:     Area,
			request:  intent.Request{Locale: "en", Sentence: "how big is germany", Template: "The area of %s is %gkm²"},
			expected: intent.Result{Tag: intent.TagArea, Message: "The area of Germany is 357022.5km²"},
		},
		{
			name:     "currency found",
			attr:     Currency,
			request:  intent.Request{Locale: "en", Sentence: "what currency do they use in FRANCE", Template: "%s uses %s"},
			expected: intent.Result{Tag: intent.TagCurrency, Message: "France uses EUR"},
		},
		{
			name:     "currency missing in record",
			attr:     Currency,
			request:  intent.Request{Locale: "en", Sentence: "antarctica money", Template: "%s uses %s"},
			expected: intent.Result{Tag: intent.TagNoCountry, Message: "Country not found"},
		},
		{
			name:     "no country in sentence",
			attr:     Capital,
			request:  intent.Request{Locale: "en", Sentence: "capital of Atlantis", Template: "%s %s"},
			expected: intent.Result{Tag: intent.TagNoCountry, Message: "Country not found"},
		},
		{
			name:     "locale without names",
			attr:     Capital,
			request:  intent.Request{Locale: "it", Sentence: "capitale della France", Template: "%s %s"},
			expected: intent.Result{Tag: intent.TagNoCountry, Message: "Country not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.attr, createTestCountries(), logger.NewTestLogger(t))
			assert.Equal(t, tt.attr.TaskType, h.TaskType())
			assert.Equal(t, tt.expected, h.Execute(context.Background(), &tt.request))
		})
	}
}

func TestHandler_EmptyTemplateFallsBackToTag(t *testing.T) {
	h := NewHandler(Capital, createTestCountries(), logger.NewNoOpLogger())
	res := h.Execute(context.Background(), &intent.Request{Locale: "en", Sentence: "france"})
	assert.Equal(t, intent.Result{Tag: intent.TagCapital, Message: intent.TagCapital}, res)
}

func TestAttributes(t *testing.T) {
	var taskTypes []string
	for _, a := range Attributes() {
		taskTypes = append(taskTypes, a.TaskType)
	}
	assert.Equal(t, []string{"capital", "area", "currency"}, taskTypes)
}
