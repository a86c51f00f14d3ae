package models

import (
	"fmt"
	"time"

	"leetcode_stats/common/constants/difficulty"

	"gorm.io/gorm"
)

type Problem struct {
	ID         uint   `gorm:"primarykey"`
	LeetCodeID uint64 `gorm:"uniqueIndex;not null"`

	Title       string                `gorm:"not null"`
	TitleSlug   string                `gorm:"uniqueIndex;not null"`
	Difficulty  difficulty.Difficulty `gorm:"not null"`
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Problem) BeforeSave(tx *gorm.DB) error {
	if !p.Difficulty.Valid() {
		return fmt.Errorf("invalid problem difficulty %q", p.Difficulty)
	}
	return nil
}

type Tag struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// ProblemTag is the problems<->tags junction. Cascades are handled by the
// repository, not by gorm association loading.
type ProblemTag struct {
	ProblemID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey"`
}

func (ProblemTag) TableName() string {
	return "problem_tags"
}
