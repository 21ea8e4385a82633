package config

// SourceType selects the parsing strategy for a feed source.
type SourceType string

const (
	SourceTypeRSS  SourceType = "rss"
	SourceTypeJSON SourceType = "json"
	SourceTypeHTML SourceType = "html"
)

// Source is one configured upstream contributing to a category.
type Source struct {
	URL        string     `yaml:"url"`
	Type       SourceType `yaml:"type"`
	SourceName string     `yaml:"source_name"`
}

// Category is a named, ordered list of feed sources aggregated together.
type Category struct {
	Name  string   `yaml:"name"`
	Feeds []Source `yaml:"feeds"`
}

// Catalog is the full source configuration: categories in declared order
// plus the ordered list of relay endpoint templates used for proxy fallback.
type Catalog struct {
	Categories []Category `yaml:"categories"`
	Proxies    []string   `yaml:"proxies"`
}
