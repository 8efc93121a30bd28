// internal/workers/countries/country-lookup/handler.go
package countrylookup

import (
	"context"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/extract"
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/models"
)

type Handler struct {
	attr      Attribute
	countries []models.Country
	logger    logger.Logger
}

func NewHandler(attr Attribute, countries []models.Country, log logger.Logger) *Handler {
	return &Handler{
		attr:      attr,
		countries: countries,
		logger:    log.WithFields(map[string]interface{}{"taskType": attr.TaskType}),
	}
}

func (h *Handler) TaskType() string {
	return h.attr.TaskType
}

func (h *Handler) Execute(_ context.Context, req *intent.Request) intent.Result {
	country, ok := extract.Country(h.countries, req.Locale, req.Sentence)
	if !ok {
		h.logger.Debug("no country in sentence", map[string]interface{}{
			"locale": req.Locale,
		})
		return intent.Failure(intent.TagNoCountry)
	}

	arg, ok := h.attr.value(country)
	if !ok {
		h.logger.Debug("country record lacks attribute", map[string]interface{}{
			"country": country.Code,
		})
		return intent.Failure(intent.TagNoCountry)
	}

	name, _ := country.LocalizedName(req.Locale)
	return intent.Success(h.attr.Tag, format.Render(req.Template, format.Str(name), arg))
}
