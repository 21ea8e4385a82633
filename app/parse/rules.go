package parse

import "strings"

// siteRule is one markup-selector recipe for a known site: structural paths
// identifying repeating card elements plus sub-paths for the title and the
// preferred image attributes. Rules are data records matched by hostname
// substring, not a type hierarchy.
type siteRule struct {
	hosts      []string
	containers []string // tried in order until one yields cards
	title      string
	imageAttrs []string
}

// siteRules is consulted in order; the first matching entry wins.
var siteRules = []siteRule{
	{
		hosts: []string{"onlinekhabar.com"},
		containers: []string{
			`div[class*='ok-listing-posts'] div[class*='ok-news-post'], div[class*='ok-post-parent-wrapper'] div[class*='okv4-post']`,
			`div[class*='ok-news-post'], div[class*='okv4-post']`,
		},
		title:      `h2, h3, h1, span[class*='title']`,
		imageAttrs: []string{"src", "data-src", "data-lazy-src"},
	},
	{
		hosts: []string{"swasthyakhabar.com"},
		containers: []string{
			`div[class*='samachar-box'], div[class*='news-break']`,
		},
		title:      `span[class*='main-title'], h3, h2`,
		imageAttrs: []string{"src", "data-src"},
	},
	{
		hosts: []string{"ratopati.com"},
		containers: []string{
			`div[class*='content-listing'] div[class*='columnnews'], div[class*='col-sm-8'] div[class*='columnnews']`,
			`div[class*='columnnews'], div[class*='raw-story'], div[class*='item']`,
		},
		title:      `h3, h2, h4, span[class*='title']`,
		imageAttrs: []string{"src", "data-src"},
	},
	{
		hosts: []string{"setopati.com"},
		containers: []string{
			`div[class*='news-cat-list'] div[class*='items']`,
			`div[class*='breaking-news-item'], div[class*='items']`,
		},
		title:      `span[class*='main-title'], h3, h2`,
		imageAttrs: []string{"data-src", "src"},
	},
	{
		hosts: []string{"kathmandupost.com", "myrepublica", "annapurnapost.com"},
		containers: []string{
			`article, div[class*='grid__card'], div[class*='category-box'], div[class*='news-card']`,
		},
		title:      `h1, h2, h3, h4, h5, span[class*='main-title'], div[class*='news__title']`,
		imageAttrs: []string{"src", "data-src", "data-lazy-src"},
	},
}

// genericRule is the heuristic fallback used when no site rule matches or a
// matching rule produces zero cards.
var genericRule = siteRule{
	containers: []string{
		`article, div[class*='post'], div[class*='article'], div[class*='news-card']`,
	},
	title:      `h1, h2, h3, h4, h5, span[class*='title']`,
	imageAttrs: []string{"src", "data-src", "data-lazy-src"},
}

// ruleFor returns the first site rule whose host substring appears in the
// source URL, or nil when the site is unknown.
func ruleFor(sourceURL string) *siteRule {
	for i := range siteRules {
		for _, host := range siteRules[i].hosts {
			if strings.Contains(sourceURL, host) {
				return &siteRules[i]
			}
		}
	}
	return nil
}
