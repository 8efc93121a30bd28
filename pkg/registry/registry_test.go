package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestIntent(id string) Intent {
	return Intent{
		ID:          id,
		DisplayName: "Capital",
		Description: "Answers with the capital of a country",
		Category:    "countries",
		TaskType:    id,
		SuccessTag:  "capital",
		FailureTags: []string{"no country"},
		Status:      StatusEnabled,
	}
}

func TestRegistry_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "intents.json")

	reg := New()
	require.NoError(t, reg.Add(createTestIntent("capital")))
	require.NoError(t, SaveRegistry(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Intents, loaded.Intents)
	assert.NoError(t, loaded.Validate())
}

func TestRegistry_Add(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Add(createTestIntent("capital")))
	assert.ErrorIs(t, reg.Add(createTestIntent("capital")), ErrIntentExists)
}

func TestRegistry_Update(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Add(createTestIntent("name-getter")))

	require.NoError(t, reg.Update("name-getter", "status", StatusDisabled))
	require.NoError(t, reg.Update("name-getter", "requiresToken", "true"))

	in, ok := reg.Find("name-getter")
	require.True(t, ok)
	assert.Equal(t, StatusDisabled, in.Status)
	assert.True(t, in.RequiresToken)

	assert.ErrorIs(t, reg.Update("missing", "status", StatusEnabled), ErrIntentNotFound)
	assert.Error(t, reg.Update("name-getter", "requiresToken", "maybe"))
	assert.Error(t, reg.Update("name-getter", "colour", "blue"))
}

func TestRegistry_IsDisabled(t *testing.T) {
	reg := New()
	disabled := createTestIntent("jokes")
	disabled.Status = StatusDisabled
	require.NoError(t, reg.Add(disabled))
	require.NoError(t, reg.Add(createTestIntent("capital")))

	assert.True(t, reg.IsDisabled("jokes"))
	assert.False(t, reg.IsDisabled("capital"))
	assert.False(t, reg.IsDisabled("unlisted"))

	var nilReg *IntentRegistry
	assert.False(t, nilReg.IsDisabled("jokes"))
}

func TestRegistry_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *IntentRegistry)
	}{
		{"empty", func(r *IntentRegistry) { r.Intents = nil }},
		{"duplicate id", func(r *IntentRegistry) { r.Intents = append(r.Intents, r.Intents[0]) }},
		{"duplicate task type", func(r *IntentRegistry) {
			dup := createTestIntent("other")
			dup.TaskType = "capital"
			r.Intents = append(r.Intents, dup)
		}},
		{"missing display name", func(r *IntentRegistry) { r.Intents[0].DisplayName = "" }},
		{"missing success tag", func(r *IntentRegistry) { r.Intents[0].SuccessTag = "" }},
		{"unknown status", func(r *IntentRegistry) { r.Intents[0].Status = "verified" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := New()
			require.NoError(t, reg.Add(createTestIntent("capital")))
			tt.mutate(reg)
			assert.Error(t, reg.Validate())
		})
	}
}
