// Package filter provides pure filter functions for items.
// All functions are simple: []Item in, []Item out. No side effects.
package filter

import (
	"strings"

	"github.com/abelbrown/flick/internal/model"
)

// commonPrefixes are prefixes commonly used in news titles that should be
// ignored when comparing titles for deduplication.
var commonPrefixes = []string{
	"breaking:",
	"update:",
	"updated:",
	"exclusive:",
	"just in:",
	"developing:",
	"watch:",
	"live:",
	"opinion:",
	"analysis:",
}

// normalizeTitle lowercases a title and removes one common news prefix.
func normalizeTitle(title string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	for _, prefix := range commonPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(normalized, prefix))
		}
	}
	return normalized
}

// Dedup drops items whose key, URL or normalized title was already seen.
// First occurrence wins. The same story often shows up under several topics.
func Dedup(items []model.Item) []model.Item {
	if len(items) == 0 {
		return []model.Item{}
	}

	seenKeys := make(map[string]bool, len(items))
	seenURLs := make(map[string]bool, len(items))
	seenTitles := make(map[string]bool, len(items))
	result := make([]model.Item, 0, len(items))

	for _, item := range items {
		key := item.Key()
		title := normalizeTitle(item.Title)

		if seenKeys[key] {
			continue
		}
		if item.URL != "" && seenURLs[item.URL] {
			continue
		}
		if title != "" && seenTitles[title] {
			continue
		}

		seenKeys[key] = true
		if item.URL != "" {
			seenURLs[item.URL] = true
		}
		if title != "" {
			seenTitles[title] = true
		}
		result = append(result, item)
	}
	return result
}
