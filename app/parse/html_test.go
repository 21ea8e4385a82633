package parse

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseHTMLSiteRule(t *testing.T) {
	htmlData := `<html><body>
<div class="ok-listing-posts">
  <div class="ok-news-post">
    <a href="https://www.onlinekhabar.com/story-one"><h2>Story One</h2></a>
    <img src="https://www.onlinekhabar.com/one.jpg"/>
  </div>
  <div class="ok-news-post">
    <a href="/story-two"><h2>Story Two</h2></a>
  </div>
</div>
</body></html>`

	parser := NewHTMLParser()
	items := parser.Parse([]byte(htmlData), "https://www.onlinekhabar.com/content/news", "Onlinekhabar")

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	item := items[0]
	if item.Title != "Story One" {
		t.Errorf("Expected title 'Story One', got: %s", item.Title)
	}
	if item.Link != "https://www.onlinekhabar.com/story-one" {
		t.Errorf("Expected absolute link kept, got: %s", item.Link)
	}
	if item.ImageURL != "https://www.onlinekhabar.com/one.jpg" {
		t.Errorf("Expected card image, got: %s", item.ImageURL)
	}
	if item.SourceName != "Onlinekhabar" {
		t.Errorf("Expected source name 'Onlinekhabar', got: %s", item.SourceName)
	}

	// Relative hrefs resolve against the source origin.
	if items[1].Link != "https://www.onlinekhabar.com/story-two" {
		t.Errorf("Expected resolved link, got: %s", items[1].Link)
	}
}

func TestParseHTMLGenericFallback(t *testing.T) {
	htmlData := `<html><body>
<main>
  <article><a href="/a"><h2>Alpha</h2></a></article>
  <article><a href="/b"><h2>Beta</h2></a></article>
</main>
</body></html>`

	parser := NewHTMLParser()
	items := parser.Parse([]byte(htmlData), "https://unknownsite.example/news", "Unknown")

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}
	if items[0].Title != "Alpha" {
		t.Errorf("Expected title 'Alpha', got: %s", items[0].Title)
	}
	if items[0].Link != "https://unknownsite.example/a" {
		t.Errorf("Expected resolved link, got: %s", items[0].Link)
	}
	if items[0].ID == items[1].ID {
		t.Error("Expected distinct IDs for distinct cards")
	}
}

func TestParseHTMLSkipsChromeAreas(t *testing.T) {
	htmlData := `<html><body>
<nav class="megamenu">
  <div class="wrap">
    <div class="inner">
      <article><a href="/menu-item"><h2>Menu Item</h2></a></article>
    </div>
  </div>
</nav>
<div class="trending-now">
  <article><a href="/hot"><h2>Hot Item</h2></a></article>
</div>
<main>
  <article><a href="/real"><h2>Real Story</h2></a></article>
</main>
</body></html>`

	parser := NewHTMLParser()
	items := parser.Parse([]byte(htmlData), "https://unknownsite.example/news", "Unknown")

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Title != "Real Story" {
		t.Errorf("Expected only the main story, got: %s", items[0].Title)
	}
}

func TestParseHTMLRejectsPlaceholderLinks(t *testing.T) {
	htmlData := `<html><body><main>
<article><a href="#"><h2>Hash Card</h2></a></article>
<article><a href="javascript:void(0)"><h2>JS Card</h2></a></article>
<article><a href="/ok"><h2>OK Card</h2></a></article>
</main></body></html>`

	parser := NewHTMLParser()
	items := parser.Parse([]byte(htmlData), "https://unknownsite.example/news", "Unknown")

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Title != "OK Card" {
		t.Errorf("Expected 'OK Card', got: %s", items[0].Title)
	}
}

func TestParseHTMLOutputCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body><main>")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, `<article><a href="/s%d"><h2>Story %d</h2></a></article>`, i, i)
	}
	sb.WriteString("</main></body></html>")

	parser := NewHTMLParser()
	items := parser.Parse([]byte(sb.String()), "https://unknownsite.example/news", "Unknown")

	if len(items) > maxGenericCards {
		t.Errorf("Expected at most %d items from generic tier, got: %d", maxGenericCards, len(items))
	}
	if len(items) == 0 {
		t.Fatal("Expected some items")
	}
}

func TestParseHTMLLazyImageAttr(t *testing.T) {
	htmlData := `<html><body>
<div class="news-cat-list">
  <div class="items">
    <a href="https://www.setopati.com/story"><span class="main-title">Lazy Story</span></a>
    <img data-src="https://www.setopati.com/lazy.jpg"/>
  </div>
</div>
</body></html>`

	parser := NewHTMLParser()
	items := parser.Parse([]byte(htmlData), "https://www.setopati.com/", "Setopati")

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].ImageURL != "https://www.setopati.com/lazy.jpg" {
		t.Errorf("Expected data-src image, got: %s", items[0].ImageURL)
	}
}

func TestParseHTMLSiteRuleFallsBackWhenEmpty(t *testing.T) {
	// Known host but a redesigned page with none of the rule's cards.
	htmlData := `<html><body><main>
<div class="post-card"><a href="/fresh"><h3>Fresh Layout</h3></a></div>
</main></body></html>`

	parser := NewHTMLParser()
	items := parser.Parse([]byte(htmlData), "https://www.onlinekhabar.com/", "Onlinekhabar")

	if len(items) != 1 {
		t.Fatalf("Expected generic fallback to find 1 item, got: %d", len(items))
	}
	if items[0].Title != "Fresh Layout" {
		t.Errorf("Expected title 'Fresh Layout', got: %s", items[0].Title)
	}
}

func TestRuleFor(t *testing.T) {
	if rule := ruleFor("https://www.onlinekhabar.com/content/news"); rule == nil {
		t.Error("Expected a rule for onlinekhabar.com")
	}
	if rule := ruleFor("https://nowhere.example/"); rule != nil {
		t.Error("Expected no rule for unknown host")
	}
}
