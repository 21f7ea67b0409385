package models

import "time"

// NewsArticle represents a single news item relevant to a ticker.
type NewsArticle struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
}

// StockBundle aggregates everything FinFetch can produce for one ticker:
// fundamentals (merged across sources), the technical report, and recent news.
type StockBundle struct {
	Ticker       string           `json:"ticker"`
	Fundamentals Metrics          `json:"fundamentals,omitempty"`
	Technical    *TechnicalReport `json:"technical,omitempty"`
	News         []NewsArticle    `json:"news,omitempty"`
	FetchedAt    time.Time        `json:"fetched_at"`
}
