package models

import (
	"fmt"
	"time"

	"leetcode_stats/common/constants/status"

	"gorm.io/gorm"
)

type Submission struct {
	ID uint `gorm:"primarykey"`

	// (ProblemID, SubmittedAt) is the natural key: a resubmission at the
	// same instant for the same problem updates the existing row.
	ProblemID   uint          `gorm:"uniqueIndex:idx_submissions_problem_submitted;not null"`
	SubmittedAt time.Time     `gorm:"uniqueIndex:idx_submissions_problem_submitted;not null"`
	Status      status.Status `gorm:"not null"`

	CreatedAt time.Time
}

func (s *Submission) BeforeSave(tx *gorm.DB) error {
	if !s.Status.Valid() {
		return fmt.Errorf("invalid submission status %q", s.Status)
	}
	return nil
}
