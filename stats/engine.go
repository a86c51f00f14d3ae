package stats

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"leetcode_stats/common/constants/difficulty"
	"leetcode_stats/common/constants/status"
	"leetcode_stats/common/db/models"

	"gorm.io/gorm"
)

// Engine computes aggregates purely from locally stored data. All queries are
// read-only and safe to run concurrently with an in-flight sync cycle: they
// only ever see committed upserts.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TagBreakdown struct {
	Tag         string `json:"tag"`
	TotalSolved int    `json:"total_solved"`
	EasyCount   int    `json:"easy_count"`
	MediumCount int    `json:"medium_count"`
	HardCount   int    `json:"hard_count"`
}

type Recommendation struct {
	ID         uint64                `json:"id"`
	Title      string                `json:"title"`
	Difficulty difficulty.Difficulty `json:"difficulty"`
	Tags       []string              `json:"tags"`
}

type RecommendationCounts struct {
	Easy   int
	Medium int
	Hard   int
}

// TotalSolved counts distinct problems with at least one accepted submission.
func (e *Engine) TotalSolved(ctx context.Context) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("status = ?", status.Accepted).
		Distinct("problem_id").
		Count(&count).Error
	return count, err
}

// CurrentStreak is the length of the most recent run of consecutive active
// dates. The run is reported even when it does not include today.
func (e *Engine) CurrentStreak(ctx context.Context) (int, error) {
	runs, err := e.activeRuns(ctx)
	if err != nil || len(runs) == 0 {
		return 0, err
	}
	return runs[len(runs)-1], nil
}

// BestStreak is the maximum run length across all history.
func (e *Engine) BestStreak(ctx context.Context) (int, error) {
	runs, err := e.activeRuns(ctx)
	if err != nil {
		return 0, err
	}
	best := 0
	for _, run := range runs {
		if run > best {
			best = run
		}
	}
	return best, nil
}

// activeRuns groups the calendar dates having at least one accepted
// submission into maximal runs of consecutive days, oldest run first.
func (e *Engine) activeRuns(ctx context.Context) ([]int, error) {
	var times []time.Time
	err := e.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("status = ?", status.Accepted).
		Order("submitted_at").
		Pluck("submitted_at", &times).Error
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	seen := make(map[time.Time]bool)
	for _, at := range times {
		day := midnight(at)
		if !seen[day] {
			seen[day] = true
			dates = append(dates, day)
		}
	}

	var runs []int
	for i, day := range dates {
		if i > 0 && day.Sub(dates[i-1]) == 24*time.Hour {
			runs[len(runs)-1]++
		} else {
			runs = append(runs, 1)
		}
	}
	return runs, nil
}

const topTagsQuery = `
SELECT tags.name AS tag, COUNT(DISTINCT submissions.problem_id) AS count
FROM tags
JOIN problem_tags ON problem_tags.tag_id = tags.id
JOIN submissions ON submissions.problem_id = problem_tags.problem_id
WHERE submissions.status = ?
GROUP BY tags.name
ORDER BY count DESC, tag ASC
LIMIT ?`

// TopTags ranks tags by count of distinct solved problems, descending.
func (e *Engine) TopTags(ctx context.Context, limit int) ([]TagCount, error) {
	tags := make([]TagCount, 0, limit)
	err := e.db.WithContext(ctx).Raw(topTagsQuery, status.Accepted, limit).Scan(&tags).Error
	return tags, err
}

// DailyStats reports the distinct-problems-solved count per calendar day
// within [start, end].
func (e *Engine) DailyStats(ctx context.Context, start, end time.Time) ([]DailyCount, error) {
	var submissions []models.Submission
	err := e.db.WithContext(ctx).
		Where("status = ?", status.Accepted).
		Where("submitted_at BETWEEN ? AND ?", start, end).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	perDay := make(map[time.Time]map[uint]bool)
	for _, s := range submissions {
		day := midnight(s.SubmittedAt)
		if perDay[day] == nil {
			perDay[day] = make(map[uint]bool)
		}
		perDay[day][s.ProblemID] = true
	}

	days := make([]time.Time, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	counts := make([]DailyCount, 0, len(days))
	for _, day := range days {
		counts = append(counts, DailyCount{
			Date:  day.Format(time.DateOnly),
			Count: len(perDay[day]),
		})
	}
	return counts, nil
}

const tagStatsQuery = `
SELECT tags.name AS tag,
       COUNT(DISTINCT submissions.problem_id) AS total_solved,
       COUNT(DISTINCT CASE WHEN problems.difficulty = 'easy' THEN submissions.problem_id END) AS easy_count,
       COUNT(DISTINCT CASE WHEN problems.difficulty = 'medium' THEN submissions.problem_id END) AS medium_count,
       COUNT(DISTINCT CASE WHEN problems.difficulty = 'hard' THEN submissions.problem_id END) AS hard_count
FROM tags
JOIN problem_tags ON problem_tags.tag_id = tags.id
JOIN submissions ON submissions.problem_id = problem_tags.problem_id
JOIN problems ON problems.id = submissions.problem_id
WHERE submissions.status = ? AND submissions.submitted_at BETWEEN ? AND ?
GROUP BY tags.name
ORDER BY total_solved DESC, tag ASC`

// TagStats reports, per tag, the distinct solved count and its
// difficulty-wise subtotals over the supplied date range.
func (e *Engine) TagStats(ctx context.Context, start, end time.Time) ([]TagBreakdown, error) {
	var breakdowns []TagBreakdown
	err := e.db.WithContext(ctx).Raw(tagStatsQuery, status.Accepted, start, end).Scan(&breakdowns).Error
	return breakdowns, err
}

// Recommendations samples problems the user has solved at least once but not
// attempted within the last daysNotAttempted days. Buckets with fewer
// candidates than requested return all they have.
func (e *Engine) Recommendations(ctx context.Context, counts RecommendationCounts, daysNotAttempted int) ([]Recommendation, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysNotAttempted)

	var candidates []models.Problem
	err := e.db.WithContext(ctx).
		Where("id IN (?)",
			e.db.Model(&models.Submission{}).Select("problem_id").Where("status = ?", status.Accepted)).
		Where("id NOT IN (?)",
			e.db.Model(&models.Submission{}).Select("problem_id").Where("submitted_at >= ?", cutoff)).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[difficulty.Difficulty][]models.Problem)
	for _, p := range candidates {
		buckets[p.Difficulty] = append(buckets[p.Difficulty], p)
	}

	var picked []models.Problem
	for _, bucket := range []struct {
		difficulty difficulty.Difficulty
		count      int
	}{
		{difficulty.Easy, counts.Easy},
		{difficulty.Medium, counts.Medium},
		{difficulty.Hard, counts.Hard},
	} {
		pool := buckets[bucket.difficulty]
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		take := bucket.count
		if take > len(pool) {
			take = len(pool)
		}
		picked = append(picked, pool[:take]...)
	}

	recommendations := make([]Recommendation, 0, len(picked))
	for _, p := range picked {
		tags, err := e.problemTags(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		recommendations = append(recommendations, Recommendation{
			ID:         p.LeetCodeID,
			Title:      p.Title,
			Difficulty: p.Difficulty,
			Tags:       tags,
		})
	}
	return recommendations, nil
}

const problemTagsQuery = `
SELECT tags.name
FROM tags
JOIN problem_tags ON problem_tags.tag_id = tags.id
WHERE problem_tags.problem_id = ?
ORDER BY tags.name`

func (e *Engine) problemTags(ctx context.Context, problemID uint) ([]string, error) {
	names := []string{}
	err := e.db.WithContext(ctx).Raw(problemTagsQuery, problemID).Scan(&names).Error
	return names, err
}

func midnight(at time.Time) time.Time {
	year, month, day := at.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
