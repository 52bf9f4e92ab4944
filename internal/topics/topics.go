// Package topics is the catalog of news topics a session can subscribe to.
package topics

import (
	_ "embed"
	"fmt"
	"html"

	"gopkg.in/yaml.v3"
)

// DefaultKey is used when a lookup misses.
const DefaultKey = "inflation"

// Topic describes one subscribable topic.
type Topic struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	Query       string `yaml:"query" json:"query"`
	Icon        string `yaml:"icon" json:"icon"`
	Glyph       string `yaml:"glyph" json:"-"`
	Color       string `yaml:"color" json:"color"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
	Feed        string `yaml:"feed" json:"feed,omitempty"`
}

//go:embed topics.yaml
var catalogYAML []byte

var (
	catalog []Topic
	byKey   map[string]Topic
)

func init() {
	var err error
	catalog, err = parse(catalogYAML)
	if err != nil {
		panic(err)
	}
	byKey = make(map[string]Topic, len(catalog))
	for _, t := range catalog {
		byKey[t.Key] = t
	}
}

func parse(data []byte) ([]Topic, error) {
	var out []Topic
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse topic catalog: %w", err)
	}
	seen := make(map[string]bool, len(out))
	for _, t := range out {
		if t.Key == "" || t.Name == "" {
			return nil, fmt.Errorf("topic catalog entry missing key or name: %+v", t)
		}
		if seen[t.Key] {
			return nil, fmt.Errorf("duplicate topic %q", t.Key)
		}
		seen[t.Key] = true
	}
	return out, nil
}

// All returns the catalog in display order.
func All() []Topic {
	out := make([]Topic, len(catalog))
	copy(out, catalog)
	return out
}

// Keys returns every topic key in display order.
func Keys() []string {
	keys := make([]string, len(catalog))
	for i, t := range catalog {
		keys[i] = t.Key
	}
	return keys
}

// Lookup returns the topic for key, falling back to DefaultKey.
func Lookup(key string) Topic {
	if t, ok := byKey[key]; ok {
		return t
	}
	return byKey[DefaultKey]
}

// Valid reports whether key names a catalog topic.
func Valid(key string) bool {
	_, ok := byKey[key]
	return ok
}

// FallbackImage returns an inline SVG placeholder: a 400x300 rectangle in
// the topic color with the topic name centered. The name is XML-escaped.
func FallbackImage(key string) string {
	t := Lookup(key)
	return `data:image/svg+xml;charset=utf8,<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300">` +
		`<rect width="100%" height="100%" fill="%23` + t.Color + `"/>` +
		`<text x="50%" y="50%" font-family="Arial" font-size="24" fill="white" text-anchor="middle" dy=".3em">` +
		html.EscapeString(t.Name) + `</text></svg>`
}
