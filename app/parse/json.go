package parse

import (
	"cmp"
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"
)

// JSONParser handles JSON feeds: newsapi-style payloads with an "articles"
// key, WordPress REST listings, and bare arrays of article objects.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Parse(content []byte, sourceURL, sourceName string) []Article {
	var decoded any
	if err := json.Unmarshal(content, &decoded); err != nil {
		return nil
	}

	var raw []any
	switch v := decoded.(type) {
	case map[string]any:
		if list, ok := v["articles"].([]any); ok {
			raw = list
		}
	case []any:
		// Some APIs return the article list directly.
		if len(v) > 0 {
			if first, ok := v[0].(map[string]any); ok {
				if _, hasTitle := first["title"]; hasTitle {
					raw = v
				}
			}
		}
	}

	items := make([]Article, 0, len(raw))
	for _, entry := range raw {
		article, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		link := firstString(article, "url", "link", "newsUrl")
		if link == "" {
			continue
		}

		title := renderedString(article["title"])
		excerpt := firstRendered(article, "excerpt", "description", "newsOverView")
		image := firstString(article, "jetpack_featured_media_url", "urlToImage", "image", "thumbnailUrl")
		if image == "" {
			image = embeddedFeaturedMedia(article)
		}

		items = append(items, Article{
			ID:          MakeID(link),
			Title:       StripTags(title),
			Link:        link,
			Description: Truncate(StripTags(excerpt), DescriptionLimit),
			PublishedAt: parseWhen(firstString(article, "date", "publishedAt", "pubDate", "publishedDate")),
			SourceName:  cmp.Or(sourceName, "News"),
			ImageURL:    image,
		})
	}

	return items
}

// parseWhen parses a feed timestamp leniently. A missing value means the
// source supplies none and defaults to fetch time; an unparsable value sorts
// one day into the past instead of breaking ordering.
func parseWhen(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Now().Add(-24 * time.Hour)
	}
	return t
}

// firstString returns the first non-empty string value among aliased keys.
func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstRendered is firstString with WordPress "{rendered: ...}" unwrapping.
func firstRendered(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := renderedString(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

// renderedString unwraps a value that is either a plain string or a
// WordPress REST object of the form {"rendered": "..."}.
func renderedString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["rendered"].(string); ok {
			return s
		}
	}
	return ""
}

// embeddedFeaturedMedia digs the image URL out of a WordPress REST
// _embedded wp:featuredmedia block.
func embeddedFeaturedMedia(article map[string]any) string {
	embedded, ok := article["_embedded"].(map[string]any)
	if !ok {
		return ""
	}
	media, ok := embedded["wp:featuredmedia"].([]any)
	if !ok || len(media) == 0 {
		return ""
	}
	first, ok := media[0].(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := first["source_url"].(string); ok {
		return s
	}
	return ""
}
