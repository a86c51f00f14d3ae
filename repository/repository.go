package repository

import (
	"context"
	"errors"
	"time"

	"leetcode_stats/common/db/models"
	"leetcode_stats/lib/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the sole writer of local storage. All writes are idempotent
// upserts keyed by natural keys, each running in its own transaction: a failed
// write always rolls back, leaving storage in the prior consistent state.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertProblem inserts the problem or, when a row with the same leetcode id
// already exists, updates it in place. On return p carries the local row ID.
func (r *Repository) UpsertProblem(ctx context.Context, p *models.Problem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "leet_code_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "title_slug", "difficulty", "description", "updated_at",
			}),
		}).Create(p).Error
		if err != nil {
			return err
		}
		// Reload so the conflict path also yields the stored row ID. A fresh
		// struct keeps the possibly stale p.ID out of the query conditions.
		var stored models.Problem
		if err = tx.Where("leet_code_id = ?", p.LeetCodeID).First(&stored).Error; err != nil {
			return err
		}
		*p = stored
		return nil
	})
}

// UpsertTags makes sure every named tag exists and is linked to the problem.
// Re-applying the same names leaves storage unchanged.
func (r *Repository) UpsertTags(ctx context.Context, problem *models.Problem, names []string) error {
	if problem.ID == 0 {
		return errors.New("can not attach tags to a problem without an ID")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			tag := models.Tag{Name: name}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&tag).Error
			if err != nil {
				return err
			}
			if tag.ID == 0 {
				if err = tx.Where("name = ?", name).First(&tag).Error; err != nil {
					return err
				}
			}
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.ProblemTag{ProblemID: problem.ID, TagID: tag.ID}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertSubmission stores the submission, updating in place on a
// (problem_id, submitted_at) conflict. Returns (false, nil) when the
// referenced problem does not exist locally: the orchestrator must upsert
// the problem before its submissions.
func (r *Repository) UpsertSubmission(ctx context.Context, s *models.Submission) (bool, error) {
	var stored bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Problem{}).Where("id = ?", s.ProblemID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			logger.Warn("submission at %v references unknown problem %d, skipping", s.SubmittedAt, s.ProblemID)
			return nil
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "problem_id"}, {Name: "submitted_at"}},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).Create(s).Error
		if err != nil {
			return err
		}
		stored = true
		return nil
	})
	return stored, err
}

// LatestSubmissionTime is the watermark query: the most recent submitted_at
// already persisted for the problem. ok is false when none exist.
func (r *Repository) LatestSubmissionTime(ctx context.Context, problemID uint) (time.Time, bool, error) {
	var latest models.Submission
	err := r.db.WithContext(ctx).
		Where("problem_id = ?", problemID).
		Order("submitted_at DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return latest.SubmittedAt, true, nil
}

func (r *Repository) ProblemBySlug(ctx context.Context, slug string) (*models.Problem, error) {
	return r.findProblem(ctx, "title_slug = ?", slug)
}

func (r *Repository) ProblemByLeetCodeID(ctx context.Context, leetCodeID uint64) (*models.Problem, error) {
	return r.findProblem(ctx, "leet_code_id = ?", leetCodeID)
}

func (r *Repository) findProblem(ctx context.Context, query string, arg any) (*models.Problem, error) {
	problem := new(models.Problem)
	err := r.db.WithContext(ctx).Where(query, arg).First(problem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return problem, nil
}

// DeleteProblem removes the problem together with its submissions and tag
// links. The cascade is explicit here instead of relying on ORM-declared
// relationships.
func (r *Repository) DeleteProblem(ctx context.Context, problemID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("problem_id = ?", problemID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("problem_id = ?", problemID).Delete(&models.ProblemTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Problem{}, problemID).Error
	})
}
