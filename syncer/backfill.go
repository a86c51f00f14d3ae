package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leetcode_stats/common/constants/status"
	"leetcode_stats/common/db/models"
	"leetcode_stats/lib/logger"
)

// backfill enumerates all solved problems and, per problem, fetches only the
// submissions newer than the local watermark. A problem with no remote
// activity since the previous run costs one metadata fetch and zero
// submission fetches.
func (s *Syncer) backfill(ctx context.Context) error {
	solved, ok := s.client.FetchAllSolvedProblems(ctx)
	if !ok {
		return errors.New("solved problems enumeration returned no data")
	}
	logger.Info("backfill: enumerated %d solved problems", len(solved))

	for _, problem := range solved {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.backfillProblem(ctx, problem.TitleSlug); err != nil {
			logger.Warn("backfill of %s failed: %v", problem.TitleSlug, err)
		}
	}
	return nil
}

func (s *Syncer) backfillProblem(ctx context.Context, slug string) error {
	var watermark time.Time
	existing, err := s.repo.ProblemBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if existing != nil {
		latest, ok, err := s.repo.LatestSubmissionTime(ctx, existing.ID)
		if err != nil {
			return err
		}
		if ok {
			watermark = latest
		}
	}

	submissions, ok := s.client.FetchSubmissionsForProblem(ctx, slug, watermark)
	if !ok {
		return fmt.Errorf("no submission history available for %s", slug)
	}

	problem, err := s.refreshProblem(ctx, slug)
	if err != nil {
		return err
	}

	for _, submission := range submissions {
		stored, err := s.repo.UpsertSubmission(ctx, &models.Submission{
			ProblemID:   problem.ID,
			SubmittedAt: submission.SubmittedAt,
			Status:      status.Normalize(submission.Status),
		})
		if err != nil {
			logger.Warn("failed to store submission %s of %s: %v", submission.RemoteID, slug, err)
			continue
		}
		if stored {
			s.metrics.SubmissionStored()
		}
	}
	return nil
}
