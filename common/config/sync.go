package config

import "leetcode_stats/lib/customfields"

type SyncConfig struct {
	PollInterval customfields.Time `yaml:"PollInterval,omitempty"`

	// Recommendation defaults, overridable per request
	DaysNotAttempted int `yaml:"DaysNotAttempted,omitempty"`
	RecommendEasy    int `yaml:"RecommendEasy,omitempty"`
	RecommendMedium  int `yaml:"RecommendMedium,omitempty"`
	RecommendHard    int `yaml:"RecommendHard,omitempty"`
}

func fillInSyncConfig(config *SyncConfig) {
	if config.PollInterval == 0 {
		config.PollInterval.FromStr("5m")
	}
	if config.DaysNotAttempted == 0 {
		config.DaysNotAttempted = 5
	}
	if config.RecommendEasy == 0 {
		config.RecommendEasy = 3
	}
	if config.RecommendMedium == 0 {
		config.RecommendMedium = 2
	}
	if config.RecommendHard == 0 {
		config.RecommendHard = 2
	}
}
