package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/finfetch/internal/analysis/fundamental"
	"github.com/seenimoa/finfetch/pkg/utils"
)

// financialKeywords flag a company as a bank/NBFC/insurer, where asset-based
// ratios read differently.
var financialKeywords = []string{
	"bank", "finance", "financial services", "insurance", "nbfc",
	"asset management", "broking",
}

// buildInputs extracts every statement section from the company page into
// metric-builder inputs.
func (s *Screener) buildInputs(ctx context.Context, doc *goquery.Document, base, exchange, dataType string) fundamental.Inputs {
	pl := extractTable(doc, "profit-loss")
	ratios := extractTable(doc, "ratios")
	quarters := extractTable(doc, "quarters")

	in := fundamental.Inputs{
		DataType: dataType,
		PL:       pl,
		BS:       extractTable(doc, "balance-sheet"),
		CF:       extractTable(doc, "cash-flow"),
		Info:     s.topRatios(doc),
	}

	// The margin series lives in the profit & loss table; the return
	// series live in the ratios table.
	if pl != nil {
		in.OPM = pl.Series("OPM %", "OPM")
	}
	if ratios != nil {
		in.ROE = ratios.Series("Return on Equity", "ROE %")
		in.ROCE = ratios.Series("ROCE %", "Return on Capital Employed")
	}
	if quarters != nil {
		in.QuarterlyRevenue = quarters.Series("Sales", "Revenue")
	}

	in.Info.PromoterHolding = s.promoterHolding(doc)
	in.Industry = industryLabel(doc)
	in.IsFinancial = classifyFinancial(doc, in.Industry)

	if s.MonthlyCloses != nil {
		in.MonthlyCloses = s.MonthlyCloses(ctx, base, exchange)
	}
	return in
}

// extractTable parses one statement section (e.g. section#profit-loss) into a
// latest-first table. Screener renders periods oldest-first left to right;
// the column order is validated by parsing the first and last period labels
// before reversing, so a layout change cannot silently flip the data.
func extractTable(doc *goquery.Document, sectionID string) *fundamental.StatementTable {
	table := doc.Find("section#" + sectionID + " table").First()
	if table.Length() == 0 {
		return nil
	}

	var periods []string
	table.Find("thead th").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return // label column
		}
		periods = append(periods, strings.TrimSpace(cell.Text()))
	})
	if len(periods) == 0 {
		return nil
	}

	reversed := oldestFirst(periods)
	if reversed {
		periods = reverse(periods)
	}

	out := fundamental.NewStatementTable(periods)
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		label = strings.TrimSpace(strings.TrimSuffix(label, "+"))
		if label == "" {
			return
		}

		values := make([]*float64, 0, len(periods))
		cells.Each(func(i int, cell *goquery.Selection) {
			if i == 0 {
				return
			}
			values = append(values, utils.ParseNumber(cell.Text()))
		})
		if reversed {
			values = reverseValues(values)
		}
		out.AddRow(label, values)
	})
	if out.Empty() {
		return nil
	}
	return out
}

// oldestFirst reports whether the period labels run oldest to latest. Labels
// that do not parse as dates fall back to the site's documented oldest-first
// layout. A trailing "TTM" column counts as the latest period.
func oldestFirst(periods []string) bool {
	firstIdx, lastIdx := 0, len(periods)-1
	if strings.EqualFold(strings.TrimSpace(periods[lastIdx]), "TTM") {
		if lastIdx == 0 {
			return false
		}
		lastIdx--
	}
	first, okF := fundamental.ParsePeriod(periods[firstIdx])
	last, okL := fundamental.ParsePeriod(periods[lastIdx])
	if !okF || !okL {
		return true
	}
	return !first.After(last)
}

func reverse(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func reverseValues(in []*float64) []*float64 {
	out := make([]*float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// topRatios parses the key-figure strip at the top of the page (market cap,
// current price, 52-week range, P/E, book value, dividend yield, ROCE, ROE).
func (s *Screener) topRatios(doc *goquery.Document) fundamental.Info {
	info := fundamental.Info{}
	doc.Find("#top-ratios li").Each(func(_ int, item *goquery.Selection) {
		name := strings.TrimSpace(item.Find(".name").Text())
		value := strings.TrimSpace(item.Find(".value").Text())
		if name == "" || value == "" {
			return
		}

		switch {
		case containsFold(name, "market cap"):
			info.MarketCap = utils.ParseNumber(value)
		case containsFold(name, "current price"):
			info.CurrentPrice = utils.ParseNumber(value)
		case containsFold(name, "high / low"), containsFold(name, "high/low"):
			high, low := splitHighLow(value)
			info.FiftyTwoWeekHigh = high
			info.FiftyTwoWeekLow = low
		case containsFold(name, "stock p/e"), containsFold(name, "p/e"):
			info.TrailingPE = utils.ParseNumber(value)
		case containsFold(name, "book value"):
			info.BookValue = utils.ParseNumber(value)
		case containsFold(name, "dividend yield"):
			info.DividendYield = utils.ParseNumber(value)
		case containsFold(name, "roce"):
			info.ROCE = utils.ParseNumber(value)
		case containsFold(name, "roe"):
			info.ROE = utils.ParseNumber(value)
		case containsFold(name, "pledged"):
			info.PledgedPct = utils.ParseNumber(value)
		}
	})
	return info
}

// splitHighLow splits a combined "3,035 / 1,941" cell into both sides.
func splitHighLow(value string) (high, low *float64) {
	parts := strings.SplitN(value, "/", 2)
	high = utils.ParseNumber(parts[0])
	if len(parts) == 2 {
		low = utils.ParseNumber(parts[1])
	}
	return high, low
}

// promoterHolding reads the latest promoter percentage from the shareholding
// section.
func (s *Screener) promoterHolding(doc *goquery.Document) *float64 {
	table := extractTable(doc, "shareholding")
	if table == nil {
		return nil
	}
	return table.Series("Promoters", "Promoter").At(0)
}

// industryLabel reads the peer-comparison heading, which names the industry.
func industryLabel(doc *goquery.Document) string {
	label := strings.TrimSpace(doc.Find("section#peers p.sub small").First().Text())
	if label == "" {
		label = strings.TrimSpace(doc.Find("section#peers .sub a").First().Text())
	}
	return label
}

// classifyFinancial flags banks, NBFCs, and insurers from the industry label
// and the about blurb.
func classifyFinancial(doc *goquery.Document, industry string) *bool {
	haystack := strings.ToLower(industry + " " + doc.Find(".company-profile .about").Text())
	v := false
	for _, kw := range financialKeywords {
		if strings.Contains(haystack, kw) {
			v = true
			break
		}
	}
	return &v
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
