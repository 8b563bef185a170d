package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// walkObjects calls fn for every JSON object nested anywhere inside v.
func walkObjects(v any, fn func(map[string]any)) {
	switch val := v.(type) {
	case map[string]any:
		fn(val)
		for _, child := range val {
			walkObjects(child, fn)
		}
	case []any:
		for _, child := range val {
			walkObjects(child, fn)
		}
	}
}

// jsonLDBlocks decodes every application/ld+json script in a document.
// Malformed blocks are skipped.
func jsonLDBlocks(doc *goquery.Document) []any {
	var blocks []any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return
		}
		blocks = append(blocks, payload)
	})
	return blocks
}

// jsonLDNames collects event names from JSON-LD blocks.
func jsonLDNames(blocks []any) []string {
	var names []string
	for _, block := range blocks {
		walkObjects(block, func(obj map[string]any) {
			if name, ok := obj["name"].(string); ok && name != "" {
				names = append(names, name)
			}
		})
	}
	return names
}

// jsonLDStartDate returns the first start-date string found in JSON-LD
// blocks, or "".
func jsonLDStartDate(blocks []any) string {
	return jsonLDDateKey(blocks, "startDate", "dateStart", "start_date")
}

// jsonLDEndDate returns the first end-date string found in JSON-LD
// blocks, or "".
func jsonLDEndDate(blocks []any) string {
	return jsonLDDateKey(blocks, "endDate", "dateEnd", "end_date")
}

func jsonLDDateKey(blocks []any, keys ...string) string {
	found := ""
	for _, block := range blocks {
		if found != "" {
			break
		}
		walkObjects(block, func(obj map[string]any) {
			if found != "" {
				return
			}
			for _, key := range keys {
				if value, ok := obj[key].(string); ok && value != "" {
					found = value
					return
				}
			}
		})
	}
	return found
}

// firstString returns the first non-empty string value among keys in obj.
func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := obj[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
