package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the source catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	setDefaults(&catalog)

	if err := validate(&catalog); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", path, err)
	}

	for _, category := range catalog.Categories {
		slog.Debug("Category configured", "category", category.Name, "feeds", len(category.Feeds))
	}

	return &catalog, nil
}

func setDefaults(catalog *Catalog) {
	for i := range catalog.Categories {
		for j := range catalog.Categories[i].Feeds {
			if catalog.Categories[i].Feeds[j].Type == "" {
				catalog.Categories[i].Feeds[j].Type = SourceTypeRSS
			}
		}
	}
}

func validate(catalog *Catalog) error {
	seen := make(map[string]bool, len(catalog.Categories))
	for _, category := range catalog.Categories {
		if category.Name == "" {
			return fmt.Errorf("category name is required")
		}
		if category.Name == "all" {
			return fmt.Errorf("category name 'all' is reserved for batch requests")
		}
		if seen[category.Name] {
			return fmt.Errorf("duplicate category %q", category.Name)
		}
		seen[category.Name] = true

		for i, feed := range category.Feeds {
			if feed.URL == "" {
				return fmt.Errorf("category %q: feed %d: url is required", category.Name, i)
			}
			if feed.SourceName == "" {
				return fmt.Errorf("category %q: feed %d: source_name is required", category.Name, i)
			}
			switch feed.Type {
			case SourceTypeRSS, SourceTypeJSON, SourceTypeHTML:
			default:
				return fmt.Errorf("category %q: feed %d: unknown type %q", category.Name, i, feed.Type)
			}
		}
	}

	for i, proxy := range catalog.Proxies {
		if !strings.HasPrefix(proxy, "http") {
			return fmt.Errorf("proxy %d: template must be an absolute URL", i)
		}
		if _, err := url.Parse(proxy); err != nil {
			return fmt.Errorf("proxy %d: %w", i, err)
		}
	}

	return nil
}

// Feeds returns the ordered feed sources configured for a category.
func (c *Catalog) Feeds(category string) ([]Source, bool) {
	for _, cat := range c.Categories {
		if cat.Name == category {
			return cat.Feeds, true
		}
	}
	return nil, false
}

// CategoryNames returns category names in declared order.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}
