// internal/workers/countries/country-lookup/models.go
package countrylookup

import (
	"marboris-intents/internal/format"
	"marboris-intents/internal/intent"
	"marboris-intents/internal/models"
)

// Attribute is the country field a lookup intent answers with.
type Attribute struct {
	TaskType string
	Tag      string
	// value returns the template argument for the field, false when the record lacks it.
	value func(c models.Country) (format.Arg, bool)
}

var (
	Capital = Attribute{
		TaskType: "capital",
		Tag:      intent.TagCapital,
		value: func(c models.Country) (format.Arg, bool) {
			return format.Str(c.Capital), c.Capital != ""
		},
	}
	Area = Attribute{
		TaskType: "area",
		Tag:      intent.TagArea,
		value: func(c models.Country) (format.Arg, bool) {
			return format.Num(c.Area), c.Area != 0
		},
	}
	Currency = Attribute{
		TaskType: "currency",
		Tag:      intent.TagCurrency,
		value: func(c models.Country) (format.Arg, bool) {
			return format.Str(c.Currency), c.Currency != ""
		},
	}
)

// Attributes lists every country lookup intent.
func Attributes() []Attribute {
	return []Attribute{Capital, Area, Currency}
}
