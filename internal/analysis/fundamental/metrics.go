package fundamental

import (
	"math"

	"github.com/seenimoa/finfetch/pkg/models"
)

// Info carries per-share and market snapshot values alongside the statements.
// All numeric fields are in final display units (prices in rupees, yields and
// returns in percent); source adapters do any unit conversion before filling
// this in.
type Info struct {
	CurrentPrice      *float64
	FiftyTwoWeekHigh  *float64
	FiftyTwoWeekLow   *float64
	MarketCap         *float64
	BookValue         *float64
	DividendYield     *float64 // percent
	TrailingPE        *float64
	ROE               *float64 // percent
	ROCE              *float64 // percent
	DebtToEquity      *float64
	PEGRatio          *float64
	PayoutRatio       *float64 // percent
	ReturnOnAssets    *float64 // percent
	RevenueGrowthYoY  *float64 // percent, latest quarter vs year-ago quarter
	SharesOutstanding *float64
	PromoterHolding   *float64 // percent
	PledgedPct        *float64 // percent
}

// Inputs is everything a statements source hands to BuildMetrics.
type Inputs struct {
	DataType    string // "Consolidated" or "Standalone"
	Industry    string
	IsFinancial *bool // nil when the source cannot tell

	PL *StatementTable // profit & loss, annual
	BS *StatementTable // balance sheet
	CF *StatementTable // cash flow

	// Pre-computed ratio series when the source publishes them (the scraped
	// ratios table does). Left nil, they are derived from the statements.
	OPM  *LineSeries // percent
	ROE  *LineSeries // percent
	ROCE *LineSeries // percent

	QuarterlyRevenue *LineSeries
	MonthlyCloses    []float64 // oldest-first, for the trend regression

	Info Info
}

// Synonym candidate lists for statement line items, tried in order. Screener
// labels come first, vendor statement labels after.
var (
	revenueCandidates = []string{"Sales", "Revenue", "Net Sales", "Total Revenue", "Operating Revenue", "Total Income"}
	profitCandidates  = []string{"Net Profit", "Profit after tax", "PAT", "Net Income", "Net Income Common Stockholders"}
	opProfitCandidates = []string{"Operating Profit", "EBIT", "Operating Income", "PBDIT", "EBITDA"}
	interestCandidates = []string{"Interest", "Finance Costs", "Interest Expense"}
	taxCandidates      = []string{"Tax", "Tax Provision", "Income Tax"}

	equityCandidates    = []string{"Shareholders' Funds", "Total Equity", "Net Worth", "Stockholders Equity", "Common Stock Equity", "Total Stockholder Equity", "Equity"}
	assetsCandidates    = []string{"Total Assets", "Balance Sheet Total"}
	currAssetCandidates = []string{"Current Assets", "Total Current Assets", "Other Assets"}
	totalLiabCandidates = []string{"Total Liabilities", "Total Liabilities Net Minority Interest", "Liabilities"}
	currLiabCandidates  = []string{"Current Liabilities", "Total Current Liabilities"}
	debtCandidates      = []string{"Total Debt", "Borrowings"}
	longDebtCandidates  = []string{"Long Term Borrowings", "Long Term Debt", "Long-term Debt"}
	shortDebtCandidates = []string{"Short Term Borrowings", "Current Borrowings", "Current Debt"}
	netBlockCandidates  = []string{"Net Block", "Fixed Assets", "Net Fixed Assets", "Net PPE", "Property Plant Equipment Net"}
	cwipCandidates      = []string{"Capital Work in Progress", "CWIP", "Construction In Progress"}
	shareCapCandidates  = []string{"Equity Share Capital", "Share Capital", "Ordinary Shares Number"}

	opCashCandidates = []string{"Cash from Operating Activity", "Operating Cash Flow", "Cash Flow from Operations", "Cash From Operating Activities"}
	payoutCandidates = []string{"Dividend Payout", "Dividend Payout %"}
)

// BuildMetrics derives the full canonical metric set from statement inputs.
// It always returns every key; anything underivable stays missing. All ratios
// that cross statements use nearest-period alignment, and every numeric output
// is rounded to two decimals by the metric constructor.
func BuildMetrics(in Inputs) models.Metrics {
	m := models.NewMetrics()

	m["Data Type"] = models.Label(in.DataType)
	m["Industry"] = models.Label(in.Industry)
	if in.IsFinancial != nil {
		m["isFinancial"] = models.Flag(*in.IsFinancial)
	}

	r2, trend := ConsistencyScore(in.MonthlyCloses)
	if r2 != nil {
		// R-squared keeps its three-decimal precision.
		m["Consistency Score (R2)"] = models.NumberPrecise(*r2)
	}
	if trend != nil {
		m["45-Degree Trend"] = models.Label(*trend)
	}

	revenue := seriesOf(in.PL, revenueCandidates)
	profit := seriesOf(in.PL, profitCandidates)
	opProfit := seriesOf(in.PL, opProfitCandidates)
	interest := seriesOf(in.PL, interestCandidates)
	tax := seriesOf(in.PL, taxCandidates)

	equity := seriesOf(in.BS, equityCandidates)
	assets := seriesOf(in.BS, assetsCandidates)
	currAssets := seriesOf(in.BS, currAssetCandidates)
	totalLiab := seriesOf(in.BS, totalLiabCandidates)
	currLiab := seriesOf(in.BS, currLiabCandidates)
	netBlock := seriesOf(in.BS, netBlockCandidates)
	cwip := seriesOf(in.BS, cwipCandidates)
	opCash := seriesOf(in.CF, opCashCandidates)

	// EBIT: the reported operating line when present, otherwise rebuilt as
	// net profit + tax + interest.
	ebit := opProfit
	if ebit == nil && profit != nil && tax != nil && interest != nil {
		ebit = AddSeries(profit, tax, interest)
	}

	// Debt: a direct line when present, otherwise long-term + short-term
	// borrowings. A single missing component counts as zero so a company
	// with only one kind of borrowing still gets a figure; both missing
	// means no debt series at all.
	debt := seriesOf(in.BS, debtCandidates)
	if debt == nil {
		longDebt := seriesOf(in.BS, longDebtCandidates)
		shortDebt := seriesOf(in.BS, shortDebtCandidates)
		debt = sumMissingAsZero(longDebt, shortDebt)
	}

	// Growth.
	m["Sales growth (Current/Last Year)"] = models.MaybeNumber(YoYGrowth(revenue, 0, 1))
	m["Profit growth (Current/Last Year)"] = models.MaybeNumber(YoYGrowth(profit, 0, 1))
	for _, years := range []int{3, 5, 7, 10} {
		m[growthKey("Sales", years)] = models.MaybeNumber(CAGR(revenue, years))
		m[growthKey("Profit", years)] = models.MaybeNumber(CAGR(profit, years))
	}

	// Margins.
	opm := in.OPM
	if opm == nil {
		opm = Ratio(opProfit, revenue, 100)
	}
	m["OPM (Operating Profit Margin - Current)"] = models.MaybeNumber(opm.At(0))
	m["OPM last year"] = models.MaybeNumber(opm.At(1))
	m["OPM 5Year"] = models.MaybeNumber(Average(opm, 5))
	m["OPM 10Year"] = models.MaybeNumber(Average(opm, 10))

	// Returns on equity and capital.
	roe := in.ROE
	if roe == nil {
		roe = Ratio(profit, equity, 100)
	}
	m["Return on equity (Current)"] = models.MaybeNumber(roe.At(0))
	m["Return on equity preceding year"] = models.MaybeNumber(roe.At(1))
	for _, years := range []int{3, 5, 7, 10} {
		m[avgKey("return on equity", years)] = models.MaybeNumber(Average(roe, years))
	}

	roce := in.ROCE
	if roce == nil {
		capitalEmployed := Subtract(assets, currLiab)
		roce = Ratio(ebit, capitalEmployed, 100)
	}
	m["Return on capital employed (Current ROCE)"] = models.MaybeNumber(roce.At(0))
	for _, years := range []int{3, 5, 7, 10} {
		m[avgKey("return on capital employed", years)] = models.MaybeNumber(Average(roce, years))
	}

	// Leverage and coverage.
	de := Ratio(debt, equity, 1)
	if v := de.At(0); v != nil {
		m["Debt to equity"] = models.MaybeNumber(v)
	} else if in.Info.DebtToEquity != nil {
		// Vendor reports debt/equity as a percentage.
		m["Debt to equity"] = models.Number(*in.Info.DebtToEquity / 100)
	}
	m["Interest Coverage Ratio"] = models.MaybeNumber(Ratio(ebit, absSeries(interest), 1).At(0))
	m["Financial leverage"] = models.MaybeNumber(Ratio(assets, equity, 1).At(0))

	// Cash flow and EBIT aggregates.
	m["Operating cash flow 5years"] = models.MaybeNumber(Sum(opCash, 5))
	m["Average EBIT 5Year"] = models.MaybeNumber(Average(ebit, 5))
	m["Cash from operations last year"] = models.MaybeNumber(opCash.At(0))

	// Price position within the 52-week range.
	if p, lo := in.Info.CurrentPrice, in.Info.FiftyTwoWeekLow; p != nil && lo != nil && *lo > 0 {
		m["Up from 52w low"] = models.Number((*p - *lo) / *lo * 100)
	}
	if p, hi := in.Info.CurrentPrice, in.Info.FiftyTwoWeekHigh; p != nil && hi != nil && *hi > 0 {
		m["Down from 52w high"] = models.Number((*hi - *p) / *hi * 100)
	}

	// Asset base.
	m["Net block (Current)"] = models.MaybeNumber(netBlock.At(0))
	m["Net block (Preceding Year)"] = models.MaybeNumber(netBlock.At(1))
	m["Capital work in progress (Current)"] = models.MaybeNumber(cwip.At(0))
	m["Capital work in progress (Preceding Year)"] = models.MaybeNumber(cwip.At(1))

	// Ownership and market snapshot.
	m["Market Capitalization"] = models.MaybeNumber(in.Info.MarketCap)
	m["Promoter holding"] = models.MaybeNumber(in.Info.PromoterHolding)
	m["Pledged percentage"] = models.MaybeNumber(in.Info.PledgedPct)

	// Quarterly momentum: same quarter a year earlier is four rows back.
	if g := YoYGrowth(in.QuarterlyRevenue, 0, 4); g != nil {
		m["YOY Quarterly sales growth"] = models.MaybeNumber(g)
	} else {
		m["YOY Quarterly sales growth"] = models.MaybeNumber(in.Info.RevenueGrowthYoY)
	}

	m["Interest last year"] = models.MaybeNumber(interest.At(1))

	if in.Info.ReturnOnAssets != nil {
		m["Return on assets"] = models.MaybeNumber(in.Info.ReturnOnAssets)
	} else {
		m["Return on assets"] = models.MaybeNumber(Ratio(profit, assets, 100).At(0))
	}

	// Net current asset value per share.
	if ca, tl := currAssets.At(0), totalLiab.At(0); ca != nil && tl != nil {
		if shares := sharesOutstanding(in); shares != nil && *shares > 0 {
			m["NCAVPS"] = models.Number((*ca - *tl) / *shares)
		}
	}

	// PEG from trailing P/E over five-year profit CAGR; vendor value as a
	// fallback when either input is missing or growth is non-positive.
	pg5 := CAGR(profit, 5)
	if in.Info.TrailingPE != nil && pg5 != nil && *pg5 > 0 {
		m["PEG Ratio"] = models.Number(*in.Info.TrailingPE / *pg5)
	} else {
		m["PEG Ratio"] = models.MaybeNumber(in.Info.PEGRatio)
	}

	if v := seriesOf(in.PL, payoutCandidates).At(0); v != nil {
		m["Dividend Payout Ratio"] = models.MaybeNumber(v)
	} else {
		m["Dividend Payout Ratio"] = models.MaybeNumber(in.Info.PayoutRatio)
	}

	m["currentPrice"] = models.MaybeNumber(in.Info.CurrentPrice)
	m["fiftyTwoWeekHigh"] = models.MaybeNumber(in.Info.FiftyTwoWeekHigh)
	m["fiftyTwoWeekLow"] = models.MaybeNumber(in.Info.FiftyTwoWeekLow)
	m["bookValue"] = models.MaybeNumber(in.Info.BookValue)
	m["dividendYield"] = models.MaybeNumber(in.Info.DividendYield)
	m["trailingPE"] = models.MaybeNumber(in.Info.TrailingPE)
	if v, ok := m["Return on equity (Current)"].Float(); ok {
		m["roe"] = models.Number(v)
	} else {
		m["roe"] = models.MaybeNumber(in.Info.ROE)
	}
	if v, ok := m["Return on capital employed (Current ROCE)"].Float(); ok {
		m["roce"] = models.Number(v)
	} else {
		m["roce"] = models.MaybeNumber(in.Info.ROCE)
	}

	return m
}

// seriesOf is a nil-safe lookup over a possibly-absent statement table.
func seriesOf(t *StatementTable, candidates []string) *LineSeries {
	if t.Empty() {
		return nil
	}
	return t.Series(candidates...)
}

// sharesOutstanding prefers the vendor share count and falls back to scraped
// equity share capital at face value 1.
func sharesOutstanding(in Inputs) *float64 {
	if in.Info.SharesOutstanding != nil {
		return in.Info.SharesOutstanding
	}
	return seriesOf(in.BS, shareCapCandidates).At(0)
}

// sumMissingAsZero adds two series treating a fully-missing operand as zero.
// Returns nil only when both operands are missing.
func sumMissingAsZero(a, b *LineSeries) *LineSeries {
	if a == nil && b == nil {
		return nil
	}
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	aligned := b.ReindexNearest(a)
	out := &LineSeries{Periods: a.Periods, Values: make([]*float64, a.Len())}
	for i := 0; i < a.Len(); i++ {
		av, bv := a.At(i), aligned.At(i)
		if av == nil && bv == nil {
			continue
		}
		sum := 0.0
		if av != nil {
			sum += *av
		}
		if bv != nil {
			sum += *bv
		}
		v := sum
		out.Values[i] = &v
	}
	return out
}

// absSeries maps a series through absolute value.
func absSeries(s *LineSeries) *LineSeries {
	if s == nil {
		return nil
	}
	out := &LineSeries{Periods: s.Periods, Values: make([]*float64, s.Len())}
	for i, v := range s.Values {
		if v == nil {
			continue
		}
		a := math.Abs(*v)
		out.Values[i] = &a
	}
	return out
}

func growthKey(what string, years int) string {
	switch years {
	case 3:
		return what + " growth 3Years"
	case 5:
		return what + " growth 5Years"
	case 7:
		return what + " growth 7Years"
	default:
		return what + " growth 10Years"
	}
}

func avgKey(what string, years int) string {
	switch years {
	case 3:
		return "Average " + what + " 3Years"
	case 5:
		return "Average " + what + " 5Years"
	case 7:
		return "Average " + what + " 7Years"
	default:
		return "Average " + what + " 10Years"
	}
}
