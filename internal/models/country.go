package models

// Country is an immutable record of the countries dataset.
type Country struct {
	Code     string            `json:"code"`
	Name     map[string]string `json:"name"`
	Capital  string            `json:"capital"`
	Area     float64           `json:"area"`
	Currency string            `json:"currency"`
}

// LocalizedName returns the country name for locale.
func (c Country) LocalizedName(locale string) (string, bool) {
	name, ok := c.Name[locale]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
