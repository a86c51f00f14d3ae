package syncer

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"leetcode_stats/common"
	"leetcode_stats/common/config"
	"leetcode_stats/common/constants/difficulty"
	"leetcode_stats/common/db/models"
	"leetcode_stats/common/metrics"
	"leetcode_stats/leetcode/client"
	"leetcode_stats/leetcode/session"
	"leetcode_stats/lib/logger"
	"leetcode_stats/repository"

	"github.com/google/uuid"
)

// Syncer reconciles remote leetcode state with local storage: a historical
// backfill once at startup, then an incremental poll on every timer tick.
// Cycles never overlap, a tick arriving while a cycle is in flight is skipped.
type Syncer struct {
	config  *config.Config
	session *session.Manager
	client  *client.Client
	repo    *repository.Repository
	metrics *metrics.Collector

	cycleMutex sync.Mutex
}

func NewSyncer(
	cfg *config.Config,
	sess *session.Manager,
	cl *client.Client,
	repo *repository.Repository,
	collector *metrics.Collector,
) *Syncer {
	return &Syncer{
		config:  cfg,
		session: sess,
		client:  cl,
		repo:    repo,
		metrics: collector,
	}
}

func Setup(t *common.Tracker) {
	sess := session.NewManager(&t.Config.LeetCode)
	s := NewSyncer(
		t.Config,
		sess,
		client.NewClient(sess, &t.Config.LeetCode, t.Metrics),
		repository.New(t.DB),
		t.Metrics,
	)

	t.AddProcess(func() { s.run(t.StopCtx) })
	t.AddDefer(sess.Close)
}

func (s *Syncer) run(ctx context.Context) {
	// A rejected session is a hard stop for this startup attempt: the stats
	// API keeps serving, polling stays off until the process is restarted.
	if !s.session.Init(ctx) {
		logger.Error("leetcode session validation failed, sync is disabled")
		return
	}

	logger.Info("starting historical backfill")
	s.runCycle(ctx, "backfill", s.backfill)

	interval := s.config.Sync.PollInterval.Duration()
	logger.Info("starting incremental poll loop, interval %v", interval)
	t := time.Tick(interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping sync loop")
			return
		case <-t:
			go s.runCycle(ctx, "poll", s.poll)
		}
	}
}

func (s *Syncer) runCycle(ctx context.Context, kind string, cycle func(ctx context.Context) error) {
	if !s.cycleMutex.TryLock() {
		logger.Warn("previous sync cycle is still in flight, skipping this %s tick", kind)
		s.metrics.CycleFinished(metrics.CycleSkipped)
		return
	}
	defer s.cycleMutex.Unlock()

	cycleID := uuid.NewString()
	logger.Debug("%s cycle %s started", kind, cycleID)
	if err := cycle(ctx); err != nil {
		logger.Error("%s cycle %s failed: %v", kind, cycleID, err)
		s.metrics.CycleFinished(metrics.CycleError)
		return
	}
	logger.Debug("%s cycle %s finished", kind, cycleID)
	s.metrics.CycleFinished(metrics.CycleOK)
}

// ensureProblem returns the locally stored problem for slug, fetching and
// upserting metadata only when the problem is not yet known.
func (s *Syncer) ensureProblem(ctx context.Context, slug string) (*models.Problem, error) {
	problem, err := s.repo.ProblemBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if problem != nil {
		return problem, nil
	}
	return s.refreshProblem(ctx, slug)
}

// refreshProblem fetches current metadata and upserts the problem with its tags.
func (s *Syncer) refreshProblem(ctx context.Context, slug string) (*models.Problem, error) {
	meta, ok := s.client.FetchProblemMetadata(ctx, slug)
	if !ok {
		return nil, fmt.Errorf("no metadata available for %s", slug)
	}
	problem, tags, err := buildProblem(meta)
	if err != nil {
		return nil, err
	}
	if err = s.repo.UpsertProblem(ctx, problem); err != nil {
		return nil, err
	}
	s.metrics.ProblemStored()
	if err = s.repo.UpsertTags(ctx, problem, tags); err != nil {
		return nil, err
	}
	return problem, nil
}

func buildProblem(meta *client.ProblemMetadata) (*models.Problem, []string, error) {
	leetCodeID, err := strconv.ParseUint(meta.QuestionID, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("malformed question id %q for %s", meta.QuestionID, meta.TitleSlug)
	}
	diff, ok := difficulty.Parse(meta.Difficulty)
	if !ok {
		return nil, nil, fmt.Errorf("unknown difficulty %q for %s", meta.Difficulty, meta.TitleSlug)
	}
	tags := make([]string, 0, len(meta.TopicTags))
	for _, tag := range meta.TopicTags {
		tags = append(tags, tag.Name)
	}
	problem := &models.Problem{
		LeetCodeID:  leetCodeID,
		Title:       meta.Title,
		TitleSlug:   meta.TitleSlug,
		Difficulty:  diff,
		Description: meta.Content,
	}
	return problem, tags, nil
}
