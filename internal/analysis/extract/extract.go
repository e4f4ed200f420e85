// internal/analysis/extract/extract.go

// Package extract slices the marker-delimited sections out of a model
// response. Extraction never fails: a missing marker yields an empty field.
package extract

import (
	"strings"

	"farm-analysis-api/internal/models"
)

// sectionMarkers is the canonical heading sequence the prompt package
// instructs the model to emit. Order matters: each field ends where the
// next marker begins.
var sectionMarkers = []string{
	"Summary:",
	"Key Findings:",
	"Recommendations:",
	"Risks:",
	"Opportunities:",
}

// Extract slices content into the five insight fields. Marker matching is
// ASCII case-insensitive and uses the first occurrence only, so a marker word
// appearing earlier in free text wins over a later real heading. A field
// whose start or end marker is missing comes back empty; the final field
// runs to the end of the text.
func Extract(content string) models.ParsedInsights {
	sections := make([]string, len(sectionMarkers))
	lower := lowerASCII(content)

	for i, marker := range sectionMarkers {
		start := strings.Index(lower, lowerASCII(marker))
		if start < 0 {
			continue
		}
		begin := start + len(marker)

		if i == len(sectionMarkers)-1 {
			sections[i] = strings.TrimSpace(content[begin:])
			continue
		}

		end := strings.Index(lower[begin:], lowerASCII(sectionMarkers[i+1]))
		if end < 0 {
			continue
		}
		sections[i] = strings.TrimSpace(content[begin : begin+end])
	}

	return models.ParsedInsights{
		Summary:         sections[0],
		KeyFindings:     sections[1],
		Recommendations: sections[2],
		Risks:           sections[3],
		Opportunities:   sections[4],
	}
}

// lowerASCII folds only the ASCII letters of s. Unlike strings.ToLower it
// never changes the byte length, so indices found in the folded copy are
// valid in the original string. The markers are plain ASCII, so this is all
// the case folding matching needs.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
