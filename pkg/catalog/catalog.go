// pkg/catalog/catalog.go

// Package catalog publishes the closed set of analysis types together with
// display metadata, for the types endpoint and export tooling.
package catalog

import (
	"encoding/json"
	"os"
	"time"

	"farm-analysis-api/internal/models"
)

const Version = "1.0.0"

type entryInfo struct {
	description string
	category    string
	tags        []string
}

var entryInfos = map[models.AnalysisType]entryInfo{
	models.AnalysisTypePoultryLaying: {
		description: "Egg production performance: laying rate, egg quality, feed conversion and flock mortality.",
		category:    "poultry",
		tags:        []string{"layers", "egg-production"},
	},
	models.AnalysisTypePoultryHatching: {
		description: "Hatchery performance: fertility, hatch rates, embryonic mortality and chick quality.",
		category:    "poultry",
		tags:        []string{"hatchery", "incubation"},
	},
	models.AnalysisTypePoultryFeeding: {
		description: "Poultry feeding programs: intake, conversion efficiency, ration phases and feed cost.",
		category:    "poultry",
		tags:        []string{"feeding", "fcr"},
	},
	models.AnalysisTypeSwineBreeding: {
		description: "Sow herd reproduction: conception rates, wean-to-service interval and litters per sow per year.",
		category:    "swine",
		tags:        []string{"breeding", "reproduction"},
	},
	models.AnalysisTypeSwineFarrowing: {
		description: "Farrowing outcomes: born alive, pre-weaning mortality and weaning performance.",
		category:    "swine",
		tags:        []string{"farrowing", "piglets"},
	},
	models.AnalysisTypeSwineFeeding: {
		description: "Swine feeding programs: daily gain, conversion per phase and days to market weight.",
		category:    "swine",
		tags:        []string{"feeding", "growth"},
	},
	models.AnalysisTypeSales: {
		description: "Sales performance: revenue and volume trends, pricing, margins and customer concentration.",
		category:    "commerce",
		tags:        []string{"sales", "revenue"},
	},
	models.AnalysisTypeGeneral: {
		description: "Cross-cutting farm analysis for datasets spanning multiple operations, and the fallback when no specific type fits.",
		category:    "general",
		tags:        []string{"overview"},
	},
}

// Build assembles the catalog from the canonical analysis type list.
func Build() *Catalog {
	entries := make([]Entry, 0, len(entryInfos))
	for _, analysisType := range models.AllAnalysisTypes() {
		info := entryInfos[analysisType]
		entries = append(entries, Entry{
			ID:          string(analysisType),
			DisplayName: analysisType.DisplayName(),
			Description: info.description,
			Category:    info.category,
			Tags:        info.tags,
		})
	}

	return &Catalog{
		Version:     Version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:     entries,
	}
}

// Load reads a previously exported catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	err = json.Unmarshal(data, &c)
	return &c, err
}

// Save writes the catalog as indented JSON.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Lookup returns the entry for id, if present.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	for _, entry := range c.Entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}
