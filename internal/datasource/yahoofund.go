package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"unicode"

	"github.com/seenimoa/finfetch/internal/analysis/fundamental"
	"github.com/seenimoa/finfetch/internal/infra"
	"github.com/seenimoa/finfetch/pkg/models"
	"github.com/seenimoa/finfetch/pkg/utils"
)

const yahooQuoteSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/"

var yahooFundModules = []string{
	"incomeStatementHistory",
	"balanceSheetHistory",
	"cashflowStatementHistory",
	"incomeStatementHistoryQuarterly",
	"summaryDetail",
	"defaultKeyStatistics",
	"financialData",
	"price",
	"summaryProfile",
}

// YahooFundamentals derives the canonical metric set from Yahoo's statement
// and snapshot modules. It implements the fundamental.Source interface as the
// alternate to the scraped statements.
type YahooFundamentals struct {
	opts  infra.HTTPOptions
	chart *Yahoo
}

// NewYahooFundamentals builds the Yahoo statements source. The chart client
// supplies the monthly close history behind the consistency regression.
func NewYahooFundamentals(opts infra.HTTPOptions) *YahooFundamentals {
	return &YahooFundamentals{opts: opts, chart: NewYahoo(opts)}
}

// Name identifies the source in logs.
func (y *YahooFundamentals) Name() string { return "yahoo_statements" }

// rawValue is Yahoo's number envelope. Fields the vendor has no data for
// arrive as an empty object, leaving Raw nil.
type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetFinanceValues fetches the quoteSummary modules and builds the metric
// set. forceRefresh is accepted for interface symmetry; this source does not
// cache.
func (y *YahooFundamentals) GetFinanceValues(ctx context.Context, ticker, exchange string, forceRefresh bool) (models.Metrics, error) {
	base, detected := utils.NormalizeTicker(ticker)
	if detected != "" {
		exchange = detected
	}
	symbol := utils.YahooSymbol(base, exchange)

	q := url.Values{}
	q.Set("modules", strings.Join(yahooFundModules, ","))
	u := yahooQuoteSummaryURL + url.PathEscape(symbol) + "?" + q.Encode()

	body, err := infra.GetWithRetry(ctx, u, "yahoo_statements", y.opts)
	if err != nil {
		return nil, err
	}

	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("yahoo_statements: decode response: %w", err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo_statements: %s: %s",
			resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, ErrNoData
	}
	modules := resp.QuoteSummary.Result[0]

	in := fundamental.Inputs{
		PL:   statementTable(modules, "incomeStatementHistory", "incomeStatementHistory"),
		BS:   statementTable(modules, "balanceSheetHistory", "balanceSheetStatements"),
		CF:   statementTable(modules, "cashflowStatementHistory", "cashflowStatements"),
		Info: y.infoBlock(modules),
	}
	in.Industry, in.IsFinancial = profileBlock(modules)
	in.QuarterlyRevenue = quarterlyRevenue(modules)
	in.MonthlyCloses = y.monthlyCloses(ctx, base, exchange)

	return fundamental.BuildMetrics(in), nil
}

// statementTable decodes one statement module into a latest-first table with
// humanized line item labels, e.g. "totalRevenue" becomes "Total Revenue".
func statementTable(modules map[string]json.RawMessage, module, listKey string) *fundamental.StatementTable {
	raw, ok := modules[module]
	if !ok {
		return nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil
	}
	var statements []map[string]json.RawMessage
	if err := json.Unmarshal(wrapper[listKey], &statements); err != nil || len(statements) == 0 {
		return nil
	}

	periods := make([]string, len(statements))
	for i, stmt := range statements {
		var end rawValue
		_ = json.Unmarshal(stmt["endDate"], &end)
		periods[i] = end.Fmt
	}

	table := fundamental.NewStatementTable(periods)
	seen := map[string]bool{}
	for i, stmt := range statements {
		for field, cell := range stmt {
			if field == "endDate" || field == "maxAge" {
				continue
			}
			var v rawValue
			if err := json.Unmarshal(cell, &v); err != nil || v.Raw == nil {
				continue
			}
			label := camelToTitle(field)
			if !seen[label] {
				values := make([]*float64, len(statements))
				table.AddRow(label, values)
				seen[label] = true
			}
			table.SetCell(label, i, v.Raw)
		}
	}
	return table
}

// quarterlyRevenue extracts the quarterly revenue line, latest-first.
func quarterlyRevenue(modules map[string]json.RawMessage) *fundamental.LineSeries {
	table := statementTable(modules, "incomeStatementHistoryQuarterly", "incomeStatementHistory")
	if table.Empty() {
		return nil
	}
	return table.Series("Total Revenue", "Revenue")
}

// infoBlock maps the snapshot modules into display units: fractions become
// percentages here so the metric builder never needs source-specific scaling.
func (y *YahooFundamentals) infoBlock(modules map[string]json.RawMessage) fundamental.Info {
	price := moduleFields(modules, "price")
	detail := moduleFields(modules, "summaryDetail")
	stats := moduleFields(modules, "defaultKeyStatistics")
	fin := moduleFields(modules, "financialData")

	return fundamental.Info{
		CurrentPrice:      field(price, "regularMarketPrice"),
		MarketCap:         field(price, "marketCap"),
		FiftyTwoWeekHigh:  field(detail, "fiftyTwoWeekHigh"),
		FiftyTwoWeekLow:   field(detail, "fiftyTwoWeekLow"),
		TrailingPE:        field(detail, "trailingPE"),
		DividendYield:     scale(field(detail, "dividendYield"), 100),
		PayoutRatio:       scale(field(detail, "payoutRatio"), 100),
		BookValue:         field(stats, "bookValue"),
		PEGRatio:          field(stats, "pegRatio"),
		SharesOutstanding: field(stats, "sharesOutstanding"),
		PromoterHolding:   scale(field(stats, "heldPercentInsiders"), 100),
		ROE:               scale(field(fin, "returnOnEquity"), 100),
		ReturnOnAssets:    scale(field(fin, "returnOnAssets"), 100),
		DebtToEquity:      field(fin, "debtToEquity"),
		RevenueGrowthYoY:  scale(field(fin, "revenueGrowth"), 100),
	}
}

// profileBlock extracts the industry label and the financial-sector flag.
func profileBlock(modules map[string]json.RawMessage) (string, *bool) {
	raw, ok := modules["summaryProfile"]
	if !ok {
		return "", nil
	}
	var profile struct {
		Industry string `json:"industry"`
		Sector   string `json:"sector"`
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return "", nil
	}
	var isFin *bool
	if profile.Sector != "" {
		v := strings.EqualFold(profile.Sector, "Financial Services")
		isFin = &v
	}
	return profile.Industry, isFin
}

// monthlyCloses fetches ten years of monthly bars for the trend regression.
// Failures are tolerated: the consistency metrics simply stay missing.
func (y *YahooFundamentals) monthlyCloses(ctx context.Context, base, exchange string) []float64 {
	if exchange == "" {
		exchange = "NSE"
	}
	series, err := y.chart.Fetch(ctx, Request{Base: base, Period: "10y", Interval: "1mo"}, exchange)
	if err != nil {
		log.Printf("[yahoo_statements] monthly history unavailable for %s: %v", base, err)
		return nil
	}
	return series.Closes()
}

// moduleFields decodes a snapshot module into its raw field map.
func moduleFields(modules map[string]json.RawMessage, name string) map[string]rawValue {
	raw, ok := modules[name]
	if !ok {
		return nil
	}
	out := map[string]rawValue{}
	if err := json.Unmarshal(raw, &out); err != nil {
		// Modules mix numeric envelopes with plain strings; decode
		// field-by-field instead.
		var loose map[string]json.RawMessage
		if err := json.Unmarshal(raw, &loose); err != nil {
			return nil
		}
		out = map[string]rawValue{}
		for k, cell := range loose {
			var v rawValue
			if err := json.Unmarshal(cell, &v); err == nil {
				out[k] = v
			}
		}
	}
	return out
}

func field(fields map[string]rawValue, name string) *float64 {
	v, ok := fields[name]
	if !ok {
		return nil
	}
	return v.Raw
}

func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := *v * factor
	return &scaled
}

// camelToTitle turns a camelCase field name into a spaced title,
// e.g. "totalCurrentAssets" -> "Total Current Assets".
func camelToTitle(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
