// pkg/registry/schema.go
package registry

const (
	StatusPlanned  = "planned"
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

type IntentRegistry struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Intents     []Intent `json:"intents"`
}

type Intent struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"displayName"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	TaskType      string   `json:"taskType"`
	RequiresToken bool     `json:"requiresToken"`
	SuccessTag    string   `json:"successTag"`
	FailureTags   []string `json:"failureTags"`
	Status        string   `json:"status"`
}
