package datasource

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/finfetch/internal/infra"
	"github.com/seenimoa/finfetch/pkg/models"
)

type newsFeed struct {
	Name string
	URL  string
}

// newsFeeds are the RSS sources polled for Indian market news.
var newsFeeds = []newsFeed{
	{"Economic Times Markets", "https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms"},
	{"Moneycontrol", "https://www.moneycontrol.com/rss/marketreports.xml"},
	{"LiveMint Markets", "https://www.livemint.com/rss/markets"},
	{"Business Standard Markets", "https://www.business-standard.com/rss/markets-106.rss"},
}

// News aggregates ticker-relevant articles from Indian market RSS feeds.
type News struct {
	parser  *gofeed.Parser
	cache   *infra.Cache
	limiter *infra.RateLimiter
	feeds   []newsFeed
	limit   int
}

// NewNews builds a news reader. Articles per ticker are capped at limit and
// cached for ttl to keep repeat lookups off the feed servers; feed requests
// are rate-limited to two per second across all tickers.
func NewNews(limit int, ttl time.Duration) *News {
	parser := gofeed.NewParser()
	parser.UserAgent = infra.DefaultUserAgent
	return &News{
		parser:  parser,
		cache:   infra.NewCache(ttl),
		limiter: infra.NewRateLimiter(2, time.Second),
		feeds:   newsFeeds,
		limit:   limit,
	}
}

// FetchStockNews returns recent articles mentioning the ticker or company
// name, newest first. Feed failures are logged and skipped; the result is
// whatever the reachable feeds produced, possibly empty.
func (n *News) FetchStockNews(ctx context.Context, ticker, companyName string) []models.NewsArticle {
	key := "news:" + strings.ToUpper(ticker)
	if cached, ok := n.cache.Get(key); ok {
		return cached.([]models.NewsArticle)
	}

	needles := []string{strings.ToLower(ticker)}
	if companyName != "" {
		needles = append(needles, strings.ToLower(companyName))
	}

	var articles []models.NewsArticle
	for _, feed := range n.feeds {
		if err := n.limiter.Wait(ctx); err != nil {
			log.Printf("[news] feed polling stopped: %v", err)
			break
		}
		parsed, err := n.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			log.Printf("[news] %s unreachable: %v", feed.Name, err)
			continue
		}
		for _, item := range parsed.Items {
			if !mentionsAny(item, needles) {
				continue
			}
			published := time.Now()
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			}
			articles = append(articles, models.NewsArticle{
				Title:       strings.TrimSpace(item.Title),
				Link:        item.Link,
				Source:      feed.Name,
				PublishedAt: published,
				Summary:     strings.TrimSpace(item.Description),
			})
		}
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if n.limit > 0 && len(articles) > n.limit {
		articles = articles[:n.limit]
	}

	n.cache.Set(key, articles)
	return articles
}

// mentionsAny reports whether the item's title or description contains any of
// the lower-cased needles.
func mentionsAny(item *gofeed.Item, needles []string) bool {
	haystack := strings.ToLower(item.Title + " " + item.Description)
	for _, needle := range needles {
		if needle != "" && strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
