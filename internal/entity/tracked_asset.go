package entity

// TrackedAsset is an ETF tracked for news purposes. The watchlist is static
// configuration, immutable during a run.
type TrackedAsset struct {
	Ticker    string   `mapstructure:"ticker" json:"ticker"`
	FocusArea string   `mapstructure:"focus_area" json:"focus_area"`
	Keywords  []string `mapstructure:"keywords" json:"keywords"`
}
