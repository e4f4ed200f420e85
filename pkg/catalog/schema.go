// pkg/catalog/schema.go
package catalog

// Catalog describes the supported analysis types for API consumers and
// external tooling.
type Catalog struct {
	Version     string  `json:"version"`
	GeneratedAt string  `json:"generatedAt"`
	Entries     []Entry `json:"entries"`
}

// Entry is one selectable analysis type.
type Entry struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}
