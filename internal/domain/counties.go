package domain

import (
	"sort"
	"strings"
)

// countySuffixes are designation suffixes providers append to county names.
// Ordered longest-first so "(City and Borough)" strips before "(Borough)".
var countySuffixes = []string{
	"(City and Borough)",
	"(Census Area)",
	"(Municipio)",
	"(County)",
	"(Parish)",
	"(Borough)",
	"(city)",
}

// NormalizeCountyName strips the provider's designation suffix from a county
// name, case-insensitively, and trims surrounding whitespace.
func NormalizeCountyName(name string) string {
	result := strings.TrimSpace(name)
	for _, suffix := range countySuffixes {
		if idx := indexFold(result, suffix); idx >= 0 {
			result = strings.TrimSpace(result[:idx] + result[idx+len(suffix):])
		}
	}
	return result
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}

// NormalizeCounties cleans a provider county list: suffixes stripped, blanks
// and duplicates dropped, names sorted case-insensitively. When the
// "Statewide" sentinel appears it is hoisted to the front and statewide is
// reported true.
func NormalizeCounties(names []string) (counties []string, statewide bool) {
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		name := NormalizeCountyName(raw)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, StatewideCounty) {
			statewide = true
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		counties = append(counties, name)
	}

	sort.Slice(counties, func(i, j int) bool {
		return strings.ToLower(counties[i]) < strings.ToLower(counties[j])
	})
	if statewide {
		counties = append([]string{StatewideCounty}, counties...)
	}
	return counties, statewide
}
