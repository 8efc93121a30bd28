// cmd/tools/intent-generator/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"marboris-intents/internal/intent"
	"marboris-intents/pkg/registry"
)

// HandlerData holds data for templates
type HandlerData struct {
	Name          string
	PackageName   string
	TaskType      string
	Description   string
	Category      string
	RequiresToken bool
	SuccessTag    string
	FailureTags   []string
}

// tagConst returns the intent package constant for a tag, or a quoted literal.
func tagConst(tag string) string {
	if name, ok := knownTags[tag]; ok {
		return "intent." + name
	}
	return strconv.Quote(tag)
}

var knownTags = map[string]string{
	intent.TagNoCountry:          "TagNoCountry",
	intent.TagDontUnderstand:     "TagDontUnderstand",
	intent.TagMathNotValid:       "TagMathNotValid",
	intent.TagNoRandomRange:      "TagNoRandomRange",
	intent.TagNoJokes:            "TagNoJokes",
	intent.TagNoAdvices:          "TagNoAdvices",
	intent.TagDontKnowName:       "TagDontKnowName",
	intent.TagNoName:             "TagNoName",
	intent.TagNoGenres:           "TagNoGenres",
	intent.TagNoMovie:            "TagNoMovie",
	intent.TagNoGenresSaved:      "TagNoGenresSaved",
	intent.TagNoToken:            "TagNoToken",
	intent.TagProfileUnavailable: "TagProfileUnavailable",
}

// packageName turns an intent id into a Go package name.
func packageName(id string) string {
	return strings.NewReplacer("-", "", "_", "", ".", "").Replace(strings.ToLower(id))
}

const handlerTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/handler.go
package {{ .PackageName }}

import (
	"context"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/intent"
{{- if .RequiresToken }}
	"marboris-intents/internal/profile"
{{- end }}
)

const (
	TaskType = "{{ .TaskType }}"
)

type Handler struct {
	config *Config
{{- if .RequiresToken }}
	store  profile.Store
{{- end }}
	logger logger.Logger
}

func NewHandler(config *Config{{ if .RequiresToken }}, store profile.Store{{ end }}, log logger.Logger) *Handler {
	return &Handler{
		config: config,
{{- if .RequiresToken }}
		store:  store,
{{- end }}
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute answers the {{ .Name }} intent. {{ .Description }}
func (h *Handler) Execute(ctx context.Context, req *intent.Request) intent.Result {
{{- if .RequiresToken }}
	if req.Token == "" {
		return intent.Failure(intent.TagNoToken)
	}
{{- end }}
{{- if .FailureTags }}
	return intent.Failure({{ tagConst (index .FailureTags 0) }})
{{- else }}
	return intent.Success({{ tagConst .SuccessTag }}, req.Template)
{{- end }}
}
`

const configTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 3 * time.Second,
	}
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/intent"
{{- if .RequiresToken }}
	"marboris-intents/internal/profile"
{{- end }}
)

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(LoadConfig(){{ if .RequiresToken }}, profile.NewMemoryStore(){{ end }}, logger.NewTestLogger(t))

	res := h.Execute(context.Background(), &intent.Request{Locale: "en", Sentence: "", Template: "%s"{{ if .RequiresToken }}, Token: "t"{{ end }}})
	assert.NotEmpty(t, res.Tag)
	assert.NotEmpty(t, res.Message)
}
`

func main() {
	id := flag.String("intent", "", "Intent ID from registry (e.g., capital)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated handler")
	registryPath := flag.String("registry", "configs/intents.json", "Path to the intent registry JSON file")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *id == "" {
		fmt.Print("Usage: intent-generator --intent <id> [--output <dir>] [--registry <path>] [--force]\n")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	in, ok := reg.Find(*id)
	if !ok {
		fmt.Printf("Intent '%s' not found in registry %s\n", *id, *registryPath)
		os.Exit(1)
	}

	data := HandlerData{
		Name:          in.DisplayName,
		PackageName:   packageName(in.TaskType),
		TaskType:      in.TaskType,
		Description:   in.Description,
		Category:      strings.ToLower(in.Category),
		RequiresToken: in.RequiresToken,
		SuccessTag:    in.SuccessTag,
		FailureTags:   in.FailureTags,
	}

	dir := filepath.Join(*outputDir, data.Category, data.TaskType)
	written, err := generate(dir, data, *force)
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nHandler scaffold generated at: %s\n", dir)
	fmt.Print("Register it in cmd/intent-manager/main.go and add an intents entry to configs/config.yaml.\n")
}

var errExists = errors.New("file exists, use --force to overwrite")

// generate renders every template into dir and returns the written paths.
func generate(dir string, data HandlerData, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	funcMap := template.FuncMap{"tagConst": tagConst}
	templates := []struct {
		name string
		body string
	}{
		{"config.go", configTemplate},
		{"handler.go", handlerTemplate},
		{"handler_test.go", testTemplate},
	}

	var written []string
	for _, t := range templates {
		path := filepath.Join(dir, t.name)
		if _, err := os.Stat(path); err == nil && !force {
			return written, fmt.Errorf("%s: %w", path, errExists)
		}

		tmpl, err := template.New(t.name).Funcs(funcMap).Parse(t.body)
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", t.name, err)
		}

		var b strings.Builder
		if err := tmpl.Execute(&b, data); err != nil {
			return written, fmt.Errorf("render %s: %w", t.name, err)
		}
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
