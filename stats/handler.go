package stats

import (
	"net/http"
	"strconv"
	"time"

	"leetcode_stats/common"
	"leetcode_stats/common/config"
	"leetcode_stats/lib/handler"
	"leetcode_stats/lib/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *Engine
	config *config.SyncConfig
}

func Setup(t *common.Tracker) {
	h := &Handler{
		engine: NewEngine(t.DB),
		config: &t.Config.Sync,
	}

	api := t.Router.Group("/api/v1")
	api.GET("/stats/overview", h.handleOverview)
	api.GET("/stats/daily", h.handleDaily)
	api.GET("/stats/tags", h.handleTags)
	api.GET("/recommendations", h.handleRecommendations)
}

const overviewTopTags = 5

func (h *Handler) handleOverview(c *gin.Context) {
	totalSolved, err := h.engine.TotalSolved(c)
	if err == nil {
		var currentStreak, bestStreak int
		var topTags []TagCount
		var daily []DailyCount

		currentStreak, err = h.engine.CurrentStreak(c)
		if err == nil {
			bestStreak, err = h.engine.BestStreak(c)
		}
		if err == nil {
			topTags, err = h.engine.TopTags(c, overviewTopTags)
		}
		if err == nil {
			end := time.Now().UTC()
			daily, err = h.engine.DailyStats(c, end.AddDate(-1, 0, 0), end)
		}
		if err == nil {
			handler.RespOK(c, gin.H{
				"total_solved":   totalSolved,
				"current_streak": currentStreak,
				"best_streak":    bestStreak,
				"top_tags":       topTags,
				"daily_stats":    daily,
			})
			return
		}
	}
	logger.Error("overview stats query failed: %v", err)
	handler.RespErr(c, http.StatusInternalServerError, "internal error")
}

func (h *Handler) handleDaily(c *gin.Context) {
	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)

	var parseErr error
	if raw := c.Query("start_date"); raw != "" {
		start, parseErr = time.Parse(time.DateOnly, raw)
	}
	if raw := c.Query("end_date"); parseErr == nil && raw != "" {
		end, parseErr = time.Parse(time.DateOnly, raw)
		// make the end date inclusive
		end = end.AddDate(0, 0, 1).Add(-time.Second)
	}
	if parseErr != nil {
		handler.RespErr(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	daily, err := h.engine.DailyStats(c, start, end)
	if err != nil {
		logger.Error("daily stats query failed: %v", err)
		handler.RespErr(c, http.StatusInternalServerError, "internal error")
		return
	}
	handler.RespOK(c, gin.H{"submissions": daily})
}

func (h *Handler) handleTags(c *gin.Context) {
	start, startErr := time.Parse(time.DateOnly, c.Query("start_date"))
	end, endErr := time.Parse(time.DateOnly, c.Query("end_date"))
	if startErr != nil || endErr != nil {
		handler.RespErr(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}
	end = end.AddDate(0, 0, 1).Add(-time.Second)

	breakdowns, err := h.engine.TagStats(c, start, end)
	if err != nil {
		logger.Error("tag stats query failed: %v", err)
		handler.RespErr(c, http.StatusInternalServerError, "internal error")
		return
	}
	handler.RespOK(c, gin.H{"tags": breakdowns})
}

func (h *Handler) handleRecommendations(c *gin.Context) {
	counts := RecommendationCounts{
		Easy:   h.config.RecommendEasy,
		Medium: h.config.RecommendMedium,
		Hard:   h.config.RecommendHard,
	}
	days := h.config.DaysNotAttempted

	ok := true
	for _, param := range []struct {
		name   string
		target *int
	}{
		{"easy_count", &counts.Easy},
		{"medium_count", &counts.Medium},
		{"hard_count", &counts.Hard},
		{"days_not_attempted", &days},
	} {
		raw := c.Query(param.name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			ok = false
			break
		}
		*param.target = value
	}
	if !ok || days == 0 {
		handler.RespErr(c, http.StatusBadRequest, "count parameters must be non-negative integers")
		return
	}

	recommendations, err := h.engine.Recommendations(c, counts, days)
	if err != nil {
		logger.Error("recommendations query failed: %v", err)
		handler.RespErr(c, http.StatusInternalServerError, "internal error")
		return
	}
	handler.RespOK(c, gin.H{"recommendations": recommendations})
}
