package lookup

import (
	"strings"
	"sunscrape/internal/scrapers/campaignfinance"
)

// columns resolves extract header names to positions.
type columns map[string]int

func newColumns(extract campaignfinance.Extract) columns {
	out := columns{}
	for i, name := range extract.Header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := out[key]; !exists {
			out[key] = i
		}
	}
	return out
}

func (c columns) has(names ...string) bool {
	for _, name := range names {
		if _, ok := c[strings.ToLower(name)]; ok {
			return true
		}
	}
	return false
}

// get returns the trimmed value of the first of names present in the header
// that holds a value on this row.
func (c columns) get(row []string, names ...string) string {
	for _, name := range names {
		i, ok := c[strings.ToLower(name)]
		if !ok || i >= len(row) {
			continue
		}
		if value := strings.TrimSpace(row[i]); value != "" {
			return value
		}
	}
	return ""
}
