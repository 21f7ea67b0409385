package technical

import (
	"context"
	"testing"
	"time"

	"github.com/seenimoa/finfetch/internal/config"
	"github.com/seenimoa/finfetch/internal/datasource"
	"github.com/seenimoa/finfetch/pkg/models"
)

type staticSource struct {
	series models.Series
	name   string
}

func (s staticSource) Fetch(ctx context.Context, req datasource.Request) (models.Series, string) {
	return s.series, s.name
}

func testParams() config.IndicatorsConfig {
	return config.IndicatorsConfig{
		RSILength: 14, RSISMALength: 14, RSIEMALength: 14,
		ADXLength: 14, ADXSmoothing: 14,
		PSARAFStart: 0.002, PSARAFStep: 0.002, PSARAFMax: 0.5,
		SuperTrendPeriod: 7, SuperTrendMultiplier: 3,
		DonchianLength: 20, DonchianSlopeBars: 5,
		OBVSMALength: 20, VolumeSMALength: 20,
	}
}

func syntheticSeries(n int) models.Series {
	series := make(models.Series, n)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)*0.5
		series[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   base,
			High:   base + 2,
			Low:    base - 2,
			Close:  base + 1,
			Volume: 10000 + float64(i)*10,
		}
	}
	return series
}

func TestAnalyzeTotalFailureShape(t *testing.T) {
	engine := NewEngineWithSource(staticSource{series: nil, name: "none"}, testParams(), "NSE")

	report := engine.Analyze(context.Background(), "NODATA", "1y", "1d")
	if report.Error == nil {
		t.Fatal("total data failure must set the error field")
	}
	if report.DataSource != "none" {
		t.Errorf("data_source = %q, want none", report.DataSource)
	}
	if report.AsOf != nil || report.CurrentPrice != nil {
		t.Error("as_of and current_price must be null on failure")
	}

	ind := report.Indicators
	if ind.SMA.SMA20 != nil || ind.EMA.EMA50 != nil || ind.RSI.RSI != nil ||
		ind.ADX.ADX != nil || ind.PSAR.PSAR != nil || ind.SuperTrend.SuperTrend != nil ||
		ind.Donchian.Upper != nil || ind.OBV.OBV != nil || ind.Volume.Latest != nil {
		t.Error("every indicator must be null on failure — shape is identical to success")
	}
	if report.Ticker != "NODATA" || report.Exchange != "NSE" || report.Currency != "INR" {
		t.Errorf("report identity fields wrong: %+v", report)
	}
}

func TestAnalyzeFullReport(t *testing.T) {
	engine := NewEngineWithSource(staticSource{series: syntheticSeries(120), name: "yahoo_nse"}, testParams(), "NSE")

	report := engine.Analyze(context.Background(), "RELIANCE.NS", "1y", "1d")
	if report.Error != nil {
		t.Fatalf("unexpected error: %s", *report.Error)
	}
	if report.DataSource != "yahoo_nse" {
		t.Errorf("data_source = %q", report.DataSource)
	}
	if report.Ticker != "RELIANCE" || report.Exchange != "NSE" {
		t.Errorf("ticker/exchange = %q/%q", report.Ticker, report.Exchange)
	}
	if report.AsOf == nil || report.CurrentPrice == nil {
		t.Fatal("as_of and current_price must be set")
	}

	ind := report.Indicators
	for name, v := range map[string]*float64{
		"sma_20":     ind.SMA.SMA20,
		"sma_50":     ind.SMA.SMA50,
		"ema_20":     ind.EMA.EMA20,
		"rsi":        ind.RSI.RSI,
		"adx":        ind.ADX.ADX,
		"psar":       ind.PSAR.PSAR,
		"supertrend": ind.SuperTrend.SuperTrend,
		"upper":      ind.Donchian.Upper,
		"slope":      ind.DonchianSlope.Slope,
		"obv":        ind.OBV.OBV,
		"volume":     ind.Volume.Latest,
	} {
		if v == nil {
			t.Errorf("%s should be computed over 120 bars", name)
		}
	}
	if ind.Delivery.DeliveryPct != nil || ind.Delivery.SourceNote == nil {
		t.Error("delivery must be null with a note")
	}
	if ind.CandleWick.CandleType == nil {
		t.Error("candle anatomy should be computed")
	}
}

func TestAnalyzeShortSeriesPartialGating(t *testing.T) {
	// Ten bars: enough for a candle and SMA nothing else at the standard
	// windows.
	engine := NewEngineWithSource(staticSource{series: syntheticSeries(10), name: "stooq"}, testParams(), "NSE")

	report := engine.Analyze(context.Background(), "TEST", "1mo", "1d")
	if report.Error != nil {
		t.Fatal("partial data is not an error")
	}
	ind := report.Indicators
	if ind.SMA.SMA20 != nil || ind.RSI.RSI != nil || ind.ADX.ADX != nil {
		t.Error("long-lookback indicators must gate to null on 10 bars")
	}
	if ind.PSAR.PSAR == nil {
		t.Error("PSAR needs only two bars")
	}
	if ind.CandleWick.CandleType == nil {
		t.Error("candle anatomy needs only the latest bar")
	}
	if ind.Volume.Trend == nil || *ind.Volume.Trend != "insufficient_data" {
		t.Errorf("volume trend = %v, want insufficient_data", ind.Volume.Trend)
	}
}

func TestAnalyzePreferredExchangeApplied(t *testing.T) {
	engine := NewEngineWithSource(staticSource{series: syntheticSeries(5), name: "x"}, testParams(), "BSE")
	report := engine.Analyze(context.Background(), "TCS", "1y", "1d")
	if report.Exchange != "BSE" {
		t.Errorf("exchange = %q, want configured BSE", report.Exchange)
	}
	report = engine.Analyze(context.Background(), "TCS.NS", "1y", "1d")
	if report.Exchange != "NSE" {
		t.Errorf("suffix must win over preference, got %q", report.Exchange)
	}
}
