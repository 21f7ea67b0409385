package technical

import (
	"context"

	"github.com/seenimoa/finfetch/internal/config"
	"github.com/seenimoa/finfetch/internal/datasource"
	"github.com/seenimoa/finfetch/pkg/models"
	"github.com/seenimoa/finfetch/pkg/utils"
)

// PriceSource supplies the OHLCV history the engine analyzes. Satisfied by
// *datasource.Chain.
type PriceSource interface {
	Fetch(ctx context.Context, req datasource.Request) (models.Series, string)
}

// Engine computes the full technical report for a ticker.
type Engine struct {
	source            PriceSource
	params            config.IndicatorsConfig
	preferredExchange string
}

// NewEngine builds an engine over the standard provider chain.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		source:            datasource.NewPriceChain(cfg),
		params:            cfg.Indicators,
		preferredExchange: cfg.Providers.PreferredExchange,
	}
}

// NewEngineWithSource builds an engine over an explicit price source.
func NewEngineWithSource(source PriceSource, params config.IndicatorsConfig, preferredExchange string) *Engine {
	return &Engine{source: source, params: params, preferredExchange: preferredExchange}
}

// Analyze fetches price history and computes every indicator group. The
// report shape is identical on success and failure: when no provider returns
// data every indicator stays null, DataSource is "none", and Error carries
// the reason. Analyze never panics and never returns an error value.
func (e *Engine) Analyze(ctx context.Context, ticker, period, interval string) *models.TechnicalReport {
	base, exchange := utils.NormalizeTicker(ticker)
	if exchange == "" {
		exchange = e.preferredExchange
	}

	report := &models.TechnicalReport{
		Ticker:   base,
		Exchange: exchange,
		Currency: "INR",
		Period:   period,
		Interval: interval,
	}

	series, source := e.source.Fetch(ctx, datasource.Request{
		Base:     base,
		Exchange: exchange,
		Period:   period,
		Interval: interval,
	})
	report.DataSource = source
	if series.Empty() {
		msg := "no price data available from any provider"
		report.Error = &msg
		return report
	}

	last := series.Last()
	asOf := last.Date.Format("2006-01-02")
	report.AsOf = &asOf
	report.CurrentPrice = round4(last.Close)
	report.Indicators = e.indicators(series)
	return report
}

// indicators computes every group; each applies its own null gate.
func (e *Engine) indicators(series models.Series) models.IndicatorSet {
	p := e.params
	highs := series.Highs()
	lows := series.Lows()
	closes := series.Closes()
	volumes := series.Volumes()
	last := series.Last()

	return models.IndicatorSet{
		SMA: models.SMAGroup{
			SMA20: sma(closes, 20),
			SMA30: sma(closes, 30),
			SMA50: sma(closes, 50),
		},
		EMA: models.EMAGroup{
			EMA20: ema(closes, 20),
			EMA30: ema(closes, 30),
			EMA50: ema(closes, 50),
		},
		RSI:           rsi(closes, p.RSILength, p.RSISMALength, p.RSIEMALength),
		ADX:           adx(highs, lows, closes, p.ADXLength, p.ADXSmoothing),
		PSAR:          psar(highs, lows, p.PSARAFStart, p.PSARAFStep, p.PSARAFMax),
		SuperTrend:    supertrend(highs, lows, closes, p.SuperTrendPeriod, p.SuperTrendMultiplier),
		Donchian:      donchian(highs, lows, p.DonchianLength),
		DonchianSlope: donchianSlope(highs, lows, p.DonchianLength, p.DonchianSlopeBars),
		CandleWick:    candleWick(last.Open, last.High, last.Low, last.Close),
		OBV:           obv(closes, volumes, p.OBVSMALength),
		Volume:        volumeStats(volumes, p.VolumeSMALength),
		Delivery:      delivery(),
	}
}
