package parse

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// maxScrapedItems caps HTML scrape output regardless of tier.
	maxScrapedItems = 30
	// maxGenericCards bounds how many candidate cards the generic tier collects.
	maxGenericCards = 25
)

// genericAreaTerms mark chrome containers (menus, sidebars, recirculation
// blocks) whose cards must not be mistaken for listing content.
var genericAreaTerms = []string{
	"header", "footer", "menu", "sidebar", "trending",
	"related", "megamenu", "popular", "recommend",
}

// HTMLParser scrapes article cards out of listing pages. Selection runs in
// two tiers: a site-specific rule when the host is known, then a generic
// heuristic fallback.
type HTMLParser struct{}

func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

func (p *HTMLParser) Parse(content []byte, sourceURL, sourceName string) []Article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil
	}

	base := origin(sourceURL)
	fetchedAt := time.Now()

	var items []Article
	if rule := ruleFor(sourceURL); rule != nil {
		items = p.applyRule(doc, rule, base, sourceName, fetchedAt, false)
	}
	if len(items) == 0 {
		items = p.applyRule(doc, &genericRule, base, sourceName, fetchedAt, true)
	}

	if len(items) > maxScrapedItems {
		items = items[:maxScrapedItems]
	}
	return items
}

func (p *HTMLParser) applyRule(doc *goquery.Document, rule *siteRule, base, sourceName string, fetchedAt time.Time, generic bool) []Article {
	var cards *goquery.Selection
	for _, selector := range rule.containers {
		cards = doc.Find(selector)
		if cards.Length() > 0 {
			break
		}
	}
	if cards == nil || cards.Length() == 0 {
		return nil
	}

	var items []Article
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if generic && len(items) >= maxGenericCards {
			return false
		}
		if inGenericArea(card) {
			return true
		}

		anchor := card.Find("a").First()
		title := strings.TrimSpace(card.Find(rule.title).First().Text())
		if anchor.Length() == 0 || title == "" {
			return true
		}

		link := resolveCardLink(anchor.AttrOr("href", ""), base)
		if link == "" {
			return true
		}

		id := MakeID(link)
		if generic {
			// Generic candidates are looser; fold in the title so two cards
			// sharing an index link still get distinct fingerprints.
			id = MakeID(link, title)
		}

		items = append(items, Article{
			ID:          id,
			Title:       title,
			Link:        link,
			Description: "",
			PublishedAt: fetchedAt,
			SourceName:  sourceName,
			ImageURL:    cardImage(card, rule.imageAttrs),
		})
		return true
	})

	return items
}

// inGenericArea reports whether any ancestor of the card is page chrome.
// Chrome containers sit several levels up, so the walk covers the full
// ancestor chain, not just the immediate parent.
func inGenericArea(card *goquery.Selection) bool {
	found := false
	card.Parents().EachWithBreak(func(_ int, ancestor *goquery.Selection) bool {
		switch goquery.NodeName(ancestor) {
		case "header", "footer", "nav":
			found = true
			return false
		}

		haystack := strings.ToLower(ancestor.AttrOr("class", "") + " " + ancestor.AttrOr("id", ""))
		for _, term := range genericAreaTerms {
			if strings.Contains(haystack, term) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// resolveCardLink absolutizes a card href against the source origin and
// rejects placeholder anchors.
func resolveCardLink(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" || strings.Contains(href, "javascript") {
		return ""
	}
	if !strings.HasPrefix(href, "http") {
		return base + href
	}
	return href
}

// cardImage finds the first image descendant and reads the preferred
// attributes in order, covering lazy-load variants.
func cardImage(card *goquery.Selection, attrs []string) string {
	img := card.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	for _, attr := range attrs {
		if v := img.AttrOr(attr, ""); v != "" {
			return v
		}
	}
	return ""
}

// origin reduces a URL to scheme://host for resolving relative links.
func origin(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
