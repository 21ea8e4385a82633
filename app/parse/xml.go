package parse

import (
	"bytes"
	"cmp"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

var imgTagRe = regexp.MustCompile(`(?i)<img[^>]+(?:src|data-src)=["']([^"']+\.(?:jpg|jpeg|png|webp|gif)[^"']*)["']`)

// XMLParser handles RSS 2.0 and Atom feeds via gofeed.
type XMLParser struct {
	gofeedParser *gofeed.Parser
}

func NewXMLParser() *XMLParser {
	return &XMLParser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *XMLParser) Parse(content []byte, sourceURL, sourceName string) []Article {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(stripPreamble(content)))
	if err != nil || feed == nil {
		return nil
	}

	items := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		// RSS items occasionally carry only a guid; Atom link selection
		// (rel="alternate" preferred) is handled by gofeed itself.
		link := strings.TrimSpace(cmp.Or(item.Link, item.GUID))
		if link == "" {
			continue
		}

		// content:encoded (or the Atom content element) is richer than the
		// plain description when present.
		description := cmp.Or(item.Content, item.Description)

		items = append(items, Article{
			ID:          MakeID(link),
			Title:       StripTags(item.Title),
			Link:        link,
			Description: Truncate(StripTags(description), DescriptionLimit),
			PublishedAt: itemTime(item),
			SourceName:  sourceName,
			ImageURL:    extractImage(item),
		})
	}

	return items
}

// stripPreamble drops any junk bytes (BOM variants, PHP warnings, blank
// output) emitted before the XML declaration.
func stripPreamble(content []byte) []byte {
	if idx := bytes.Index(content, []byte("<?xml")); idx > 0 {
		return content[idx:]
	}
	return content
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	// A raw value gofeed could not parse sorts a day into the past so it
	// drifts toward the end instead of breaking ordering.
	if item.Published != "" || item.Updated != "" {
		return time.Now().Add(-24 * time.Hour)
	}
	return time.Now()
}

// extractImage locates a representative image: media namespace elements
// first, then an image enclosure, then the first <img> inside the item HTML.
func extractImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.Contains(enclosure.Type, "image") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	if match := imgTagRe.FindStringSubmatch(item.Description + item.Content); match != nil {
		return match[1]
	}

	return ""
}
