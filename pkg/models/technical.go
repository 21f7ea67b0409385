package models

// TechnicalReport is the full technical analysis output for one ticker. The
// shape is identical on success and failure: on total data failure every
// indicator field is null and Error is set, so consumers never branch on
// missing keys.
type TechnicalReport struct {
	Ticker       string       `json:"ticker"`
	Exchange     string       `json:"exchange"`
	Currency     string       `json:"currency"`
	DataSource   string       `json:"data_source"`
	AsOf         *string      `json:"as_of"`
	CurrentPrice *float64     `json:"current_price"`
	Period       string       `json:"period"`
	Interval     string       `json:"interval"`
	Indicators   IndicatorSet `json:"indicators"`
	Error        *string      `json:"error"`
}

// IndicatorSet groups every indicator family computed by the engine.
type IndicatorSet struct {
	SMA           SMAGroup           `json:"sma"`
	EMA           EMAGroup           `json:"ema"`
	RSI           RSIGroup           `json:"rsi"`
	ADX           ADXGroup           `json:"adx"`
	PSAR          PSARGroup          `json:"psar"`
	SuperTrend    SuperTrendGroup    `json:"supertrend"`
	Donchian      DonchianGroup      `json:"donchian"`
	DonchianSlope DonchianSlopeGroup `json:"donchian_slope"`
	CandleWick    CandleWickGroup    `json:"candle_wick"`
	OBV           OBVGroup           `json:"obv"`
	Volume        VolumeGroup        `json:"volume"`
	Delivery      DeliveryGroup      `json:"delivery"`
}

// SMAGroup holds simple moving averages at the standard windows.
type SMAGroup struct {
	SMA20 *float64 `json:"sma_20"`
	SMA30 *float64 `json:"sma_30"`
	SMA50 *float64 `json:"sma_50"`
}

// EMAGroup holds exponential moving averages at the standard windows.
type EMAGroup struct {
	EMA20 *float64 `json:"ema_20"`
	EMA30 *float64 `json:"ema_30"`
	EMA50 *float64 `json:"ema_50"`
}

// RSIGroup holds the RSI oscillator plus its own smoothed averages.
type RSIGroup struct {
	RSI    *float64 `json:"rsi"`
	RSISMA *float64 `json:"rsi_sma"`
	RSIEMA *float64 `json:"rsi_ema"`
}

// ADXGroup holds the average directional index and directional indicators.
type ADXGroup struct {
	ADX     *float64 `json:"adx"`
	DIPlus  *float64 `json:"di_plus"`
	DIMinus *float64 `json:"di_minus"`
}

// PSARGroup holds the parabolic stop-and-reverse level and trend state.
type PSARGroup struct {
	PSAR  *float64 `json:"psar"`
	Trend *string  `json:"psar_trend"`
}

// SuperTrendGroup holds the supertrend band value and direction.
type SuperTrendGroup struct {
	SuperTrend *float64 `json:"supertrend"`
	Trend      *string  `json:"supertrend_trend"`
}

// DonchianGroup holds the Donchian channel bands.
type DonchianGroup struct {
	Upper  *float64 `json:"upper"`
	Middle *float64 `json:"middle"`
	Lower  *float64 `json:"lower"`
}

// DonchianSlopeGroup holds the channel midline slope classification.
type DonchianSlopeGroup struct {
	Slope     *float64 `json:"slope"`
	SlopePct  *float64 `json:"slope_pct"`
	Direction *string  `json:"slope_direction"`
}

// CandleWickGroup decomposes the latest bar into body and wick anatomy.
type CandleWickGroup struct {
	CandleRange    *float64 `json:"candle_range"`
	Body           *float64 `json:"body"`
	UpperWick      *float64 `json:"upper_wick"`
	LowerWick      *float64 `json:"lower_wick"`
	UpperWickPct   *float64 `json:"upper_wick_pct"`
	LowerWickPct   *float64 `json:"lower_wick_pct"`
	BodyPct        *float64 `json:"body_pct"`
	CandleType     *string  `json:"candle_type"`
	IsHammer       *bool    `json:"is_hammer"`
	IsShootingStar *bool    `json:"is_shooting_star"`
	IsDoji         *bool    `json:"is_doji"`
	IsPinBar       *bool    `json:"is_pin_bar"`
}

// OBVGroup holds on-balance volume and its moving-average trend.
type OBVGroup struct {
	OBV    *float64 `json:"obv"`
	OBVSMA *float64 `json:"obv_sma"`
	Trend  *string  `json:"obv_trend"`
}

// VolumeGroup compares the latest volume against its rolling average.
type VolumeGroup struct {
	Latest *float64 `json:"volume_latest"`
	SMA    *float64 `json:"volume_sma"`
	Ratio  *float64 `json:"volume_ratio"`
	Trend  *string  `json:"volume_trend"`
}

// DeliveryGroup reports delivery percentage. No integrated provider supplies
// it, so DeliveryPct is always null with an explanatory note.
type DeliveryGroup struct {
	DeliveryPct *float64 `json:"delivery_pct"`
	SourceNote  *string  `json:"source_note"`
}
