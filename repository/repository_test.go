package repository

import (
	"context"
	"testing"
	"time"

	"leetcode_stats/common/config"
	"leetcode_stats/common/constants/difficulty"
	"leetcode_stats/common/constants/status"
	"leetcode_stats/common/db"
	"leetcode_stats/common/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRepo(t *testing.T) *Repository {
	database, err := db.NewDB(config.DBConfig{InMemory: true})
	require.NoError(t, err)
	return New(database)
}

func fixtureProblem(t *testing.T, r *Repository) *models.Problem {
	problem := &models.Problem{
		LeetCodeID: 1,
		Title:      "Two Sum",
		TitleSlug:  "two-sum",
		Difficulty: difficulty.Easy,
	}
	require.NoError(t, r.UpsertProblem(context.Background(), problem))
	require.NotZero(t, problem.ID)
	return problem
}

func TestUpsertProblemIdempotent(t *testing.T) {
	r := fixtureRepo(t)
	ctx := context.Background()
	problem := fixtureProblem(t, r)

	updated := &models.Problem{
		LeetCodeID:  1,
		Title:       "Two Sum (updated)",
		TitleSlug:   "two-sum",
		Difficulty:  difficulty.Medium,
		Description: "now with a description",
	}
	require.NoError(t, r.UpsertProblem(ctx, updated))
	assert.Equal(t, problem.ID, updated.ID)

	var count int64
	require.NoError(t, r.db.Model(&models.Problem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stored, err := r.ProblemBySlug(ctx, "two-sum")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Two Sum (updated)", stored.Title)
	assert.Equal(t, difficulty.Medium, stored.Difficulty)
	assert.Equal(t, "now with a description", stored.Description)
}

func TestUpsertTagsIdempotent(t *testing.T) {
	r := fixtureRepo(t)
	ctx := context.Background()
	problem := fixtureProblem(t, r)

	require.NoError(t, r.UpsertTags(ctx, problem, []string{"array", "hash-table"}))
	require.NoError(t, r.UpsertTags(ctx, problem, []string{"array", "hash-table"}))

	var tagCount, linkCount int64
	require.NoError(t, r.db.Model(&models.Tag{}).Count(&tagCount).Error)
	require.NoError(t, r.db.Model(&models.ProblemTag{}).Count(&linkCount).Error)
	assert.EqualValues(t, 2, tagCount)
	assert.EqualValues(t, 2, linkCount)
}

func TestUpsertSubmission(t *testing.T) {
	r := fixtureRepo(t)
	ctx := context.Background()

	t.Run("unknown problem fails soft", func(t *testing.T) {
		stored, err := r.UpsertSubmission(ctx, &models.Submission{
			ProblemID:   12345,
			SubmittedAt: time.Now().UTC(),
			Status:      status.Accepted,
		})
		require.NoError(t, err)
		assert.False(t, stored)
	})

	problem := fixtureProblem(t, r)
	at := time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)

	t.Run("insert", func(t *testing.T) {
		stored, err := r.UpsertSubmission(ctx, &models.Submission{
			ProblemID:   problem.ID,
			SubmittedAt: at,
			Status:      status.WrongAnswer,
		})
		require.NoError(t, err)
		assert.True(t, stored)
	})

	t.Run("same instant updates in place", func(t *testing.T) {
		stored, err := r.UpsertSubmission(ctx, &models.Submission{
			ProblemID:   problem.ID,
			SubmittedAt: at,
			Status:      status.Accepted,
		})
		require.NoError(t, err)
		assert.True(t, stored)

		var count int64
		require.NoError(t, r.db.Model(&models.Submission{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		var submission models.Submission
		require.NoError(t, r.db.First(&submission).Error)
		assert.Equal(t, status.Accepted, submission.Status)
	})
}

func TestLatestSubmissionTime(t *testing.T) {
	r := fixtureRepo(t)
	ctx := context.Background()
	problem := fixtureProblem(t, r)

	_, ok, err := r.LatestSubmissionTime(ctx, problem.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	times := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
	}
	for _, at := range times {
		stored, err := r.UpsertSubmission(ctx, &models.Submission{
			ProblemID:   problem.ID,
			SubmittedAt: at,
			Status:      status.Accepted,
		})
		require.NoError(t, err)
		require.True(t, stored)
	}

	latest, ok, err := r.LatestSubmissionTime(ctx, problem.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, latest.Equal(time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)))
}

func TestDeleteProblemCascades(t *testing.T) {
	r := fixtureRepo(t)
	ctx := context.Background()
	problem := fixtureProblem(t, r)

	require.NoError(t, r.UpsertTags(ctx, problem, []string{"array"}))
	stored, err := r.UpsertSubmission(ctx, &models.Submission{
		ProblemID:   problem.ID,
		SubmittedAt: time.Now().UTC(),
		Status:      status.Accepted,
	})
	require.NoError(t, err)
	require.True(t, stored)

	require.NoError(t, r.DeleteProblem(ctx, problem.ID))

	var problems, submissions, links, tags int64
	require.NoError(t, r.db.Model(&models.Problem{}).Count(&problems).Error)
	require.NoError(t, r.db.Model(&models.Submission{}).Count(&submissions).Error)
	require.NoError(t, r.db.Model(&models.ProblemTag{}).Count(&links).Error)
	require.NoError(t, r.db.Model(&models.Tag{}).Count(&tags).Error)
	assert.Zero(t, problems)
	assert.Zero(t, submissions)
	assert.Zero(t, links)
	// tags have independent lifetime, they survive the problem
	assert.EqualValues(t, 1, tags)
}
