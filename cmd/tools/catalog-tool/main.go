// cmd/tools/catalog-tool/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"farm-analysis-api/internal/models"
	"farm-analysis-api/pkg/catalog"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Export command flags
	exportPath := exportCmd.String("out", "configs/analysis-catalog.json", "Path to write the catalog file")

	// Validate command flags
	validatePath := validateCmd.String("path", "configs/analysis-catalog.json", "Path to catalog file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		cat := catalog.Build()
		if err := cat.Save(*exportPath); err != nil {
			fmt.Printf("Error writing catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote catalog with %d analysis types to %s\n", len(cat.Entries), *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateCatalog(*validatePath); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog validation passed.")

	case "list":
		for _, entry := range catalog.Build().Entries {
			fmt.Printf("%-20s %-10s %s\n", entry.ID, entry.Category, entry.Description)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func validateCatalog(path string) error {
	cat, err := catalog.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if len(cat.Entries) == 0 {
		return fmt.Errorf("catalog contains no entries")
	}

	ids := make(map[string]bool)
	for _, entry := range cat.Entries {
		if ids[entry.ID] {
			return fmt.Errorf("duplicate entry ID: %s", entry.ID)
		}
		ids[entry.ID] = true

		if entry.ID == "" {
			return fmt.Errorf("entry missing required field: ID")
		}
		if !models.AnalysisType(entry.ID).IsValid() {
			return fmt.Errorf("entry %s is not a supported analysis type", entry.ID)
		}
		if entry.DisplayName == "" {
			return fmt.Errorf("entry %s missing required field: DisplayName", entry.ID)
		}
		if entry.Category == "" {
			return fmt.Errorf("entry %s missing required field: Category", entry.ID)
		}
	}

	// Every supported type must be present.
	for _, t := range models.AllAnalysisTypes() {
		if !ids[string(t)] {
			return fmt.Errorf("catalog is missing analysis type: %s", t)
		}
	}

	fmt.Printf("Catalog validation passed. Found %d entries.\n", len(cat.Entries))
	return nil
}

func help() {
	fmt.Print(`
Usage: catalog-tool <command> [flags]

Commands:
  export   Write the built-in analysis catalog to a JSON file
  validate Validate a catalog file against the supported analysis types
  list     Print the supported analysis types
  help     Show this help message

Examples:
  catalog-tool export -out configs/analysis-catalog.json
  catalog-tool validate -path configs/analysis-catalog.json
  catalog-tool list

Use 'catalog-tool <command> -h' for more information about a command.

`)
}
