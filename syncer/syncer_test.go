package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"leetcode_stats/common/config"
	"leetcode_stats/common/constants/status"
	"leetcode_stats/common/db"
	"leetcode_stats/common/db/models"
	"leetcode_stats/leetcode/client"
	"leetcode_stats/leetcode/session"
	"leetcode_stats/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRemote is a single-page in-memory rendition of the leetcode GraphQL API.
type fakeRemote struct {
	mu sync.Mutex

	recent      []map[string]any
	solved      []map[string]any
	submissions map[string][]map[string]any
	metadata    map[string]map[string]any

	metadataCalls   int
	submissionCalls int
}

func (f *fakeRemote) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	respond := func(data map[string]any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}

	switch {
	case strings.Contains(req.Query, "userStatus"):
		respond(map[string]any{"userStatus": map[string]any{"isSignedIn": true, "username": "gopher"}})
	case strings.Contains(req.Query, "recentAcSubmissionList"):
		respond(map[string]any{"recentAcSubmissionList": f.recent})
	case strings.Contains(req.Query, "userProgressQuestionList"):
		respond(map[string]any{"userProgressQuestionList": map[string]any{
			"totalNum":  len(f.solved),
			"questions": f.solved,
		}})
	case strings.Contains(req.Query, "submissionList"):
		f.submissionCalls++
		slug := req.Variables["questionSlug"].(string)
		respond(map[string]any{"submissionList": map[string]any{
			"lastKey": "", "hasNext": false,
			"submissions": f.submissions[slug],
		}})
	case strings.Contains(req.Query, "question("):
		f.metadataCalls++
		slug := req.Variables["titleSlug"].(string)
		respond(map[string]any{"question": f.metadata[slug]})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func twoSumRemote() *fakeRemote {
	return &fakeRemote{
		recent: []map[string]any{
			{"id": "11", "title": "Two Sum", "titleSlug": "two-sum", "timestamp": "1704103200"},
			{"id": "10", "title": "Two Sum", "titleSlug": "two-sum", "timestamp": "1704016800"},
		},
		solved: []map[string]any{
			{"title": "Two Sum", "titleSlug": "two-sum", "difficulty": "EASY"},
		},
		submissions: map[string][]map[string]any{
			"two-sum": {
				{"id": "3", "timestamp": "300", "statusDisplay": "Accepted"},
				{"id": "2", "timestamp": "200", "statusDisplay": "Memory Limit Exceeded"},
				{"id": "1", "timestamp": "100", "statusDisplay": "Some Garbage Status"},
			},
		},
		metadata: map[string]map[string]any{
			"two-sum": {
				"questionId": "1", "title": "Two Sum", "titleSlug": "two-sum",
				"difficulty": "Easy", "content": "<p>...</p>",
				"topicTags": []map[string]any{{"name": "Array", "id": "t1", "slug": "array"}},
			},
		},
	}
}

func newTestSyncer(t *testing.T, remote *fakeRemote) (*Syncer, *gorm.DB, *httptest.Server) {
	srv := httptest.NewServer(http.HandlerFunc(remote.handler))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		LeetCode: config.LeetCodeConfig{
			SessionToken:    "test-session",
			BaseURL:         srv.URL,
			MaxRetries:      1,
			RecentLimit:     15,
			HistoricalLimit: 5000,
		},
	}
	cfg.LeetCode.RetryDelay.FromStr("1ms")
	cfg.LeetCode.PageDelay.FromStr("1ms")
	cfg.Sync.PollInterval.FromStr("1s")

	database, err := db.NewDB(config.DBConfig{InMemory: true})
	require.NoError(t, err)

	sess := session.NewManager(&cfg.LeetCode)
	s := NewSyncer(cfg, sess, client.NewClient(sess, &cfg.LeetCode, nil), repository.New(database), nil)
	return s, database, srv
}

func countRows(t *testing.T, database *gorm.DB, model any) int64 {
	var count int64
	require.NoError(t, database.Model(model).Count(&count).Error)
	return count
}

func TestPollIdempotent(t *testing.T) {
	remote := twoSumRemote()
	s, database, _ := newTestSyncer(t, remote)
	ctx := context.Background()

	require.NoError(t, s.poll(ctx))
	require.NoError(t, s.poll(ctx))

	assert.EqualValues(t, 1, countRows(t, database, &models.Problem{}))
	assert.EqualValues(t, 2, countRows(t, database, &models.Submission{}))
	assert.EqualValues(t, 1, countRows(t, database, &models.Tag{}))
	// metadata is fetched only while the problem is unknown locally
	assert.Equal(t, 1, remote.metadataCalls)
}

func TestBackfillNormalizesStatuses(t *testing.T) {
	remote := twoSumRemote()
	s, database, _ := newTestSyncer(t, remote)

	require.NoError(t, s.backfill(context.Background()))

	var submissions []models.Submission
	require.NoError(t, database.Order("submitted_at").Find(&submissions).Error)
	require.Len(t, submissions, 3)
	assert.Equal(t, status.WrongAnswer, submissions[0].Status)       // unrecognized remote status
	assert.Equal(t, status.TimeLimitExceeded, submissions[1].Status) // Memory Limit Exceeded
	assert.Equal(t, status.Accepted, submissions[2].Status)
}

func TestBackfillWatermark(t *testing.T) {
	remote := twoSumRemote()
	s, database, _ := newTestSyncer(t, remote)
	ctx := context.Background()

	require.NoError(t, s.backfill(ctx))
	require.EqualValues(t, 3, countRows(t, database, &models.Submission{}))
	created := make(map[uint]models.Submission)
	var stored []models.Submission
	require.NoError(t, database.Find(&stored).Error)
	for _, submission := range stored {
		created[submission.ID] = submission
	}

	// a repeated backfill with no new remote activity writes nothing
	require.NoError(t, s.backfill(ctx))
	require.EqualValues(t, 3, countRows(t, database, &models.Submission{}))
	require.NoError(t, database.Find(&stored).Error)
	for _, submission := range stored {
		assert.True(t, submission.CreatedAt.Equal(created[submission.ID].CreatedAt))
	}
}

func TestBackfillContinuesPastBadProblem(t *testing.T) {
	remote := twoSumRemote()
	remote.solved = append([]map[string]any{
		{"title": "Ghost", "titleSlug": "ghost", "difficulty": "HARD"},
	}, remote.solved...)
	remote.submissions["ghost"] = []map[string]any{
		{"id": "9", "timestamp": "400", "statusDisplay": "Accepted"},
	}
	// no metadata for "ghost": the problem upsert cannot happen

	s, database, _ := newTestSyncer(t, remote)
	require.NoError(t, s.backfill(context.Background()))

	// the bad problem is skipped, the rest of the batch still lands
	assert.EqualValues(t, 1, countRows(t, database, &models.Problem{}))
	assert.EqualValues(t, 3, countRows(t, database, &models.Submission{}))
}

func TestRunCycleSkipsWhenBusy(t *testing.T) {
	s := &Syncer{}
	s.cycleMutex.Lock()
	called := false
	s.runCycle(context.Background(), "poll", func(ctx context.Context) error {
		called = true
		return nil
	})
	s.cycleMutex.Unlock()
	assert.False(t, called)
}
