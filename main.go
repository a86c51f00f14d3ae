package main

import (
	"os"

	"leetcode_stats/common"
	"leetcode_stats/stats"
	"leetcode_stats/syncer"
)

func main() {
	configPath := os.Args[1]
	t := common.InitTracker(configPath)

	syncer.Setup(t)
	stats.Setup(t)

	t.Run()
}
