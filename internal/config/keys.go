package config

// KeyStatus describes whether a provider API key is configured.
type KeyStatus struct {
	Name   string
	IsSet  bool
	Masked string
}

// CheckAPIKeys reports the configuration state of all provider API keys.
// Providers with missing keys are silently skipped by the fallback chain.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	return []KeyStatus{
		{Name: "Twelve Data", IsSet: cfg.Providers.TwelveDataKey != "", Masked: mask(cfg.Providers.TwelveDataKey)},
		{Name: "Tiingo", IsSet: cfg.Providers.TiingoKey != "", Masked: mask(cfg.Providers.TiingoKey)},
	}
}

// mask hides all but the last four characters of a key.
func mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
