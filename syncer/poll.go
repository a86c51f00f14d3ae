package syncer

import (
	"context"

	"leetcode_stats/common/constants/status"
	"leetcode_stats/common/db/models"
	"leetcode_stats/leetcode/client"
	"leetcode_stats/lib/logger"
)

// poll is the incremental sync: fetch recent accepted submissions and store
// each one, problem first, submission second. One bad record never aborts
// the cycle.
func (s *Syncer) poll(ctx context.Context) error {
	submissions, ok := s.client.FetchRecentSubmissions(ctx, s.config.LeetCode.RecentLimit)
	if !ok {
		logger.Info("recent submissions are unavailable, will retry next cycle")
		return nil
	}
	logger.Info("found %d recent submissions", len(submissions))

	for i := range submissions {
		if err := s.storeAccepted(ctx, &submissions[i]); err != nil {
			logger.Warn("failed to sync submission for %s: %v", submissions[i].TitleSlug, err)
		}
	}
	return nil
}

func (s *Syncer) storeAccepted(ctx context.Context, submission *client.AcceptedSubmission) error {
	problem, err := s.ensureProblem(ctx, submission.TitleSlug)
	if err != nil {
		return err
	}
	stored, err := s.repo.UpsertSubmission(ctx, &models.Submission{
		ProblemID:   problem.ID,
		SubmittedAt: submission.SubmittedAt,
		Status:      status.Accepted,
	})
	if err != nil {
		return err
	}
	if stored {
		s.metrics.SubmissionStored()
	}
	return nil
}
