package models

import (
	"testing"
	"time"

	"leetcode_stats/common/constants/difficulty"
	"leetcode_stats/common/constants/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func fixtureDb(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	for _, model := range []any{&Problem{}, &Tag{}, &ProblemTag{}, &Submission{}} {
		require.NoError(t, db.AutoMigrate(model))
	}
	return db
}

func TestProblemDifficultyValidation(t *testing.T) {
	db := fixtureDb(t)
	problem := Problem{
		LeetCodeID: 1,
		Title:      "Two Sum",
		TitleSlug:  "two-sum",
		Difficulty: difficulty.Easy,
	}
	require.Nil(t, db.Create(&problem).Error)

	bad := Problem{
		LeetCodeID: 2,
		Title:      "Broken",
		TitleSlug:  "broken",
		Difficulty: "impossible",
	}
	assert.Error(t, db.Create(&bad).Error)
}

func TestSubmissionStatusValidation(t *testing.T) {
	db := fixtureDb(t)
	problem := Problem{
		LeetCodeID: 1,
		Title:      "Two Sum",
		TitleSlug:  "two-sum",
		Difficulty: difficulty.Easy,
	}
	require.Nil(t, db.Create(&problem).Error)

	submission := Submission{
		ProblemID:   problem.ID,
		SubmittedAt: time.Now(),
		Status:      status.Accepted,
	}
	require.Nil(t, db.Create(&submission).Error)

	// Raw remote strings must go through status.Normalize before storage
	bad := Submission{
		ProblemID:   problem.ID,
		SubmittedAt: time.Now().Add(time.Minute),
		Status:      "Memory Limit Exceeded",
	}
	assert.Error(t, db.Create(&bad).Error)
}

func TestSubmissionNaturalKeyUnique(t *testing.T) {
	db := fixtureDb(t)
	problem := Problem{
		LeetCodeID: 1,
		Title:      "Two Sum",
		TitleSlug:  "two-sum",
		Difficulty: difficulty.Easy,
	}
	require.Nil(t, db.Create(&problem).Error)

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	first := Submission{ProblemID: problem.ID, SubmittedAt: at, Status: status.Accepted}
	require.Nil(t, db.Create(&first).Error)
	second := Submission{ProblemID: problem.ID, SubmittedAt: at, Status: status.Accepted}
	assert.Error(t, db.Create(&second).Error)
}
