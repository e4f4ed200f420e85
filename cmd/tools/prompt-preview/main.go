// cmd/tools/prompt-preview/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"farm-analysis-api/internal/analysis/prompt"
	"farm-analysis-api/internal/analysis/requirements"
	"farm-analysis-api/internal/models"
)

func main() {
	analysisType := flag.String("type", "general", "Analysis type (e.g. poultry_laying, swine_farrowing)")
	dataPath := flag.String("data", "", "Path to a JSON file with the dataset to analyze")
	reqPath := flag.String("requirements", "", "Optional path to a JSON file with partial requirements")
	flag.Parse()

	if *dataPath == "" {
		fmt.Println("Error: -data is required.")
		flag.Usage()
		os.Exit(1)
	}

	t := models.AnalysisType(*analysisType)
	if !t.IsValid() {
		fmt.Printf("Warning: %q is not a supported analysis type, using general instructions.\n\n", *analysisType)
	}

	data, err := readJSONFile(*dataPath)
	if err != nil {
		fmt.Printf("Error reading data file: %v\n", err)
		os.Exit(1)
	}

	var partial map[string]any
	if *reqPath != "" {
		partial, err = readJSONFile(*reqPath)
		if err != nil {
			fmt.Printf("Error reading requirements file: %v\n", err)
			os.Exit(1)
		}
	}

	reqs := requirements.Normalize(partial)

	userPrompt, err := prompt.BuildUserPrompt(data, t, reqs)
	if err != nil {
		fmt.Printf("Error building user prompt: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== SYSTEM PROMPT ===")
	fmt.Println(prompt.BuildSystemPrompt(t))
	fmt.Println()
	fmt.Println("=== USER PROMPT ===")
	fmt.Println(userPrompt)
}

func readJSONFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s is not a JSON object: %w", path, err)
	}
	return out, nil
}
