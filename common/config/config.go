package config

import (
	"os"

	"leetcode_stats/lib/logger"

	"github.com/xorcare/pointer"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port int     `yaml:"Port"`
	Host *string `yaml:"Host,omitempty"` // leave empty for localhost

	Logger *logger.Config `yaml:"Logger,omitempty"`

	DB       DBConfig       `yaml:"DB"`
	LeetCode LeetCodeConfig `yaml:"LeetCode"`
	Sync     SyncConfig     `yaml:"Sync,omitempty"`
}

func ReadConfig(configPath string) *Config {
	content, err := os.ReadFile(configPath)
	if err != nil {
		panic(err)
	}

	config := new(Config)
	err = yaml.Unmarshal(content, config)
	if err != nil {
		panic(err)
	}

	fillInConfig(config)

	return config
}

func fillInConfig(config *Config) {
	if config.Host == nil {
		config.Host = pointer.String("localhost")
	}
	if config.Port == 0 {
		config.Port = 8000
	}

	fillInLeetCodeConfig(&config.LeetCode)
	fillInSyncConfig(&config.Sync)
}
