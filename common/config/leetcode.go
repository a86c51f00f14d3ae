package config

import "leetcode_stats/lib/customfields"

type LeetCodeConfig struct {
	// SessionToken is the LEETCODE_SESSION cookie value taken from an
	// authenticated browser session. Without it the sync pipeline stays off.
	SessionToken string `yaml:"SessionToken"`
	CSRFToken    string `yaml:"CSRFToken,omitempty"`

	BaseURL string `yaml:"BaseURL,omitempty"`

	// MaxRetries is the number of retries after the first failed attempt
	MaxRetries int               `yaml:"MaxRetries,omitempty"`
	RetryDelay customfields.Time `yaml:"RetryDelay,omitempty"`

	// PageDelay is the pause between pages of one paginated fetch
	PageDelay customfields.Time `yaml:"PageDelay,omitempty"`

	RecentLimit     int `yaml:"RecentLimit,omitempty"`
	HistoricalLimit int `yaml:"HistoricalLimit,omitempty"`
}

func fillInLeetCodeConfig(config *LeetCodeConfig) {
	if config.BaseURL == "" {
		config.BaseURL = "https://leetcode.com"
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay.FromStr("1s")
	}
	if config.PageDelay == 0 {
		config.PageDelay.FromStr("500ms")
	}
	if config.RecentLimit == 0 {
		config.RecentLimit = 15
	}
	if config.HistoricalLimit == 0 {
		config.HistoricalLimit = 5000
	}
}
