// cmd/tools/registry-updater/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"marboris-intents/pkg/registry"
)

const defaultRegistryPath = "configs/intents.json"

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	var registryPath string
	for _, fs := range []*flag.FlagSet{addCmd, updateCmd, validateCmd, listCmd} {
		fs.StringVar(&registryPath, "path", defaultRegistryPath, "Path to registry file")
	}

	// Add command flags
	idAdd := addCmd.String("id", "", "Intent ID (e.g., capital)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Country Capital)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., countries)")
	taskType := addCmd.String("taskType", "", "Intent name / Zeebe job type (defaults to id)")
	successTag := addCmd.String("successTag", "", "Tag returned on success")
	failureTags := addCmd.String("failureTags", "", "Comma-separated failure tags")
	requiresToken := addCmd.Bool("requiresToken", false, "Whether the intent needs a user token")
	status := addCmd.String("status", registry.StatusPlanned, "Status (planned, enabled, disabled)")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Intent ID to update")
	field := updateCmd.String("field", "", "Field to update (status, displayName, successTag, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *category == "" || *successTag == "" {
			fmt.Println("Error: id, displayName, category, and successTag are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if *taskType == "" {
			*taskType = *idAdd
		}
		in := registry.Intent{
			ID:            *idAdd,
			DisplayName:   *displayName,
			Description:   *description,
			Category:      *category,
			TaskType:      *taskType,
			RequiresToken: *requiresToken,
			SuccessTag:    *successTag,
			FailureTags:   splitTags(*failureTags),
			Status:        *status,
		}
		if err := addIntent(registryPath, in); err != nil {
			fmt.Printf("Error adding intent: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added intent: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateIntent(registryPath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating intent: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated intent %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d intents.\n", len(reg.Intents))

	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		listIntents(reg)

	case "help":
		fallthrough
	default:
		help()
	}
}

func addIntent(path string, in registry.Intent) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = registry.New()
	}

	if err := reg.Add(in); err != nil {
		return err
	}
	return registry.SaveRegistry(reg, path)
}

func updateIntent(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Update(id, field, value); err != nil {
		return err
	}
	return registry.SaveRegistry(reg, path)
}

func listIntents(reg *registry.IntentRegistry) {
	fmt.Printf("%-26s %-12s %-10s %-6s %s\n", "TASK TYPE", "CATEGORY", "STATUS", "TOKEN", "SUCCESS TAG")
	for _, in := range reg.Intents {
		token := "no"
		if in.RequiresToken {
			token = "yes"
		}
		fmt.Printf("%-26s %-12s %-10s %-6s %s\n", in.TaskType, in.Category, in.Status, token, in.SuccessTag)
	}
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new intent to the registry
  update   Update an existing intent's field
  validate Validate the registry file
  list     List registered intents
  help     Show this help message

Examples:
  registry-updater add -id capital -displayName "Country Capital" -category countries -successTag capital -failureTags "no country" -status enabled
  registry-updater update -id jokes -field status -value disabled
  registry-updater validate -path configs/intents.json
  registry-updater list

Use 'registry-updater <command> -h' for more information about a command.
`)
}
