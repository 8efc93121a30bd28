// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var (
	ErrIntentExists   = errors.New("intent already exists")
	ErrIntentNotFound = errors.New("intent not found")
)

func LoadRegistry(path string) (*IntentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg IntentRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// SaveRegistry writes reg as indented JSON, creating parent directories.
func SaveRegistry(reg *IntentRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func New() *IntentRegistry {
	return &IntentRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Now().Format(time.RFC3339),
		Intents:     []Intent{},
	}
}

func (r *IntentRegistry) Find(id string) (*Intent, bool) {
	for i := range r.Intents {
		if r.Intents[i].ID == id {
			return &r.Intents[i], true
		}
	}
	return nil, false
}

// IsDisabled reports whether the intent serving taskType is marked disabled.
// Intents missing from the registry are not disabled.
func (r *IntentRegistry) IsDisabled(taskType string) bool {
	if r == nil {
		return false
	}
	for _, in := range r.Intents {
		if in.TaskType == taskType {
			return in.Status == StatusDisabled
		}
	}
	return false
}

func (r *IntentRegistry) Add(in Intent) error {
	if _, ok := r.Find(in.ID); ok {
		return fmt.Errorf("%w: %s", ErrIntentExists, in.ID)
	}
	if in.FailureTags == nil {
		in.FailureTags = []string{}
	}
	r.Intents = append(r.Intents, in)
	r.touch()
	return nil
}

// Update sets one field of intent id from its string form.
func (r *IntentRegistry) Update(id, field, value string) error {
	in, ok := r.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrIntentNotFound, id)
	}

	switch field {
	case "status":
		in.Status = value
	case "displayName":
		in.DisplayName = value
	case "description":
		in.Description = value
	case "category":
		in.Category = value
	case "taskType":
		in.TaskType = value
	case "successTag":
		in.SuccessTag = value
	case "requiresToken":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid requiresToken value: %w", err)
		}
		in.RequiresToken = b
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	r.touch()
	return nil
}

func (r *IntentRegistry) Validate() error {
	if len(r.Intents) == 0 {
		return fmt.Errorf("registry contains no intents")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, in := range r.Intents {
		if in.ID == "" {
			return fmt.Errorf("intent missing required field: ID")
		}
		if ids[in.ID] {
			return fmt.Errorf("duplicate intent ID: %s", in.ID)
		}
		ids[in.ID] = true

		if in.DisplayName == "" {
			return fmt.Errorf("intent %s missing required field: DisplayName", in.ID)
		}
		if in.TaskType == "" {
			return fmt.Errorf("intent %s missing required field: TaskType", in.ID)
		}
		if taskTypes[in.TaskType] {
			return fmt.Errorf("duplicate task type: %s", in.TaskType)
		}
		taskTypes[in.TaskType] = true

		if in.Category == "" {
			return fmt.Errorf("intent %s missing required field: Category", in.ID)
		}
		if in.SuccessTag == "" {
			return fmt.Errorf("intent %s missing required field: SuccessTag", in.ID)
		}
		switch in.Status {
		case StatusPlanned, StatusEnabled, StatusDisabled:
		default:
			return fmt.Errorf("intent %s has unknown status %q", in.ID, in.Status)
		}
	}
	return nil
}

func (r *IntentRegistry) touch() {
	r.LastUpdated = time.Now().Format(time.RFC3339)
}
