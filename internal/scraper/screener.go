// Package scraper extracts financial statements from Screener.in company
// pages. It is deliberately polite: robots.txt is honored, every request is
// preceded by a randomized multi-second delay, a single session with cookies
// is reused, rate-limit responses trigger one long pause and one retry, and
// results are cached so a ticker is never fetched twice within the TTL.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"

	"github.com/seenimoa/finfetch/internal/analysis/fundamental"
	"github.com/seenimoa/finfetch/internal/config"
	"github.com/seenimoa/finfetch/internal/infra"
	"github.com/seenimoa/finfetch/pkg/models"
	"github.com/seenimoa/finfetch/pkg/utils"
)

const defaultBaseURL = "https://www.screener.in"

// ErrBlocked means the site refused the request outright (HTTP 403). The
// scraper gives up immediately rather than hammering a host that said no.
var ErrBlocked = errors.New("access forbidden by site")

// ErrDisallowed means robots.txt forbids fetching the path.
var ErrDisallowed = errors.New("path disallowed by robots.txt")

// Screener scrapes statement tables from Screener.in and derives the
// canonical metric set from them. It implements fundamental.Source.
type Screener struct {
	baseURL string
	cfg     config.ScraperConfig
	client  *http.Client
	cache   *infra.Cache

	robotsOnce sync.Once
	robots     *robotstxt.RobotsData

	rng   *rand.Rand
	rngMu sync.Mutex
	sleep func(time.Duration)

	// MonthlyCloses optionally supplies monthly close history for the
	// trend regression; the scraped page carries no price series.
	MonthlyCloses func(ctx context.Context, base, exchange string) []float64
}

// NewScreener builds a scraper with a fresh cookie session.
func NewScreener(cfg config.ScraperConfig) *Screener {
	jar, _ := cookiejar.New(nil)
	timeout := time.Duration(cfg.TimeoutSec * float64(time.Second))
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Screener{
		baseURL: defaultBaseURL,
		cfg:     cfg,
		client:  &http.Client{Jar: jar, Timeout: timeout},
		cache:   infra.NewCache(time.Duration(cfg.CacheTTLSec) * time.Second),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   time.Sleep,
	}
}

// Name identifies the source in logs.
func (s *Screener) Name() string { return "screener" }

// GetFinanceValues scrapes the company page and derives the metric set.
// The consolidated view is preferred; companies without consolidated
// statements fall back to standalone. Results are cached per ticker unless
// forceRefresh is set.
func (s *Screener) GetFinanceValues(ctx context.Context, ticker, exchange string, forceRefresh bool) (models.Metrics, error) {
	base, detected := utils.NormalizeTicker(ticker)
	if detected != "" {
		exchange = detected
	}

	cacheKey := "screener:" + base
	if !forceRefresh {
		if cached, ok := s.cache.Get(cacheKey); ok {
			return cached.(models.Metrics), nil
		}
	}

	doc, dataType, err := s.fetchCompanyPage(ctx, base)
	if err != nil {
		return nil, err
	}

	in := s.buildInputs(ctx, doc, base, exchange, dataType)
	metrics := fundamental.BuildMetrics(in)
	s.cache.Set(cacheKey, metrics)
	return metrics, nil
}

// fetchCompanyPage loads the consolidated page, falling back to standalone
// when the consolidated view has no profit & loss section.
func (s *Screener) fetchCompanyPage(ctx context.Context, base string) (*goquery.Document, string, error) {
	doc, err := s.fetchDocument(ctx, "/company/"+base+"/consolidated/")
	if err == nil && doc.Find("section#profit-loss table tbody tr").Length() > 0 {
		return doc, "Consolidated", nil
	}
	if err != nil && (errors.Is(err, ErrBlocked) || errors.Is(err, ErrDisallowed)) {
		return nil, "", err
	}

	doc, err = s.fetchDocument(ctx, "/company/"+base+"/")
	if err != nil {
		return nil, "", err
	}
	return doc, "Standalone", nil
}

// fetchDocument performs one polite page fetch: robots check, randomized
// delay, then the request. A 429 earns a single long pause and one retry;
// a 403 aborts.
func (s *Screener) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	if !s.allowed(ctx, path) {
		return nil, fmt.Errorf("%w: %s", ErrDisallowed, path)
	}

	s.politeDelay(ctx)

	body, err := s.get(ctx, s.baseURL+path)
	if err != nil {
		var httpErr *infra.ErrHTTP
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusForbidden:
				return nil, fmt.Errorf("%w: %s", ErrBlocked, path)
			case http.StatusTooManyRequests:
				wait := time.Duration(s.cfg.RateLimitWait * float64(time.Second))
				log.Printf("[screener] rate limited on %s — pausing %s before one retry", path, wait)
				s.sleep(wait)
				body, err = s.get(ctx, s.baseURL+path)
				if err != nil {
					return nil, err
				}
			default:
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("screener: parse html: %w", err)
	}
	return doc, nil
}

// get issues a single GET through the cookie session.
func (s *Screener) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", infra.DefaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &infra.ErrHTTP{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(snippet)}
	}
	return io.ReadAll(resp.Body)
}

// allowed consults robots.txt, loaded once per session. An unreachable or
// malformed robots file is treated as permissive.
func (s *Screener) allowed(ctx context.Context, path string) bool {
	s.robotsOnce.Do(func() {
		body, err := s.get(ctx, s.baseURL+"/robots.txt")
		if err != nil {
			log.Printf("[screener] robots.txt unavailable, assuming permissive: %v", err)
			return
		}
		robots, err := robotstxt.FromBytes(body)
		if err != nil {
			log.Printf("[screener] robots.txt unparseable, assuming permissive: %v", err)
			return
		}
		s.robots = robots
	})
	if s.robots == nil {
		return true
	}
	return s.robots.TestAgent(path, infra.DefaultUserAgent)
}

// politeDelay sleeps a random duration inside the configured window.
func (s *Screener) politeDelay(ctx context.Context) {
	min, max := s.cfg.DelayMinSec, s.cfg.DelayMaxSec
	if max <= min {
		max = min + 1
	}
	s.rngMu.Lock()
	span := min + s.rng.Float64()*(max-min)
	s.rngMu.Unlock()
	s.sleep(time.Duration(span * float64(time.Second)))
}
