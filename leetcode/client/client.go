package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"leetcode_stats/common/config"
	"leetcode_stats/common/metrics"
	"leetcode_stats/leetcode/session"
	"leetcode_stats/lib/logger"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

const (
	progressPageSize   = 50
	submissionPageSize = 20
)

var errRateLimited = errors.New("rate limited by leetcode")

// Client executes GraphQL queries through the authenticated session.
// Rate limiting and transient failures are retried with exponential backoff;
// after the retries are exhausted every operation degrades to an explicit
// "no data" result. Callers treat that as "try again next cycle", never as fatal.
type Client struct {
	session *session.Manager
	config  *config.LeetCodeConfig
	metrics *metrics.Collector

	// pages spaces requests of one paginated fetch to respect rate limits
	pages *rate.Limiter
}

func NewClient(session *session.Manager, config *config.LeetCodeConfig, collector *metrics.Collector) *Client {
	return &Client{
		session: session,
		config:  config,
		metrics: collector,
		pages:   rate.NewLimiter(rate.Every(config.PageDelay.Duration()), 1),
	}
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryDelay.Duration()
	b.RandomizationFactor = 0
	b.Multiplier = 2
	return b
}

func execute[T any](ctx context.Context, c *Client, operation, query string, variables map[string]any) (*T, bool) {
	if variables == nil {
		variables = map[string]any{}
	}
	result, err := backoff.Retry(
		ctx,
		func() (*T, error) {
			r, err := c.session.R(ctx)
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			var envelope struct {
				Data   *T             `json:"data,omitempty"`
				Errors []graphQLError `json:"errors,omitempty"`
			}
			r.SetBody(map[string]any{"query": query, "variables": variables})
			r.SetResult(&envelope)
			c.metrics.RemoteRequest(operation)
			resp, err := r.Post(graphQLPath)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode() == http.StatusTooManyRequests {
				return nil, errRateLimited
			}
			if resp.IsError() {
				return nil, fmt.Errorf("query %s failed with code %d", operation, resp.StatusCode())
			}
			if len(envelope.Errors) > 0 {
				return nil, fmt.Errorf("query %s failed: %s", operation, envelope.Errors[0].Message)
			}
			if envelope.Data == nil {
				return nil, fmt.Errorf("query %s returned no data", operation)
			}
			return envelope.Data, nil
		},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.config.MaxRetries)+1),
		backoff.WithNotify(func(err error, delay time.Duration) {
			c.metrics.RemoteRetry(operation)
			logger.Warn("leetcode query %s failed: %v, retrying in %v", operation, err, delay)
		}),
	)
	if err != nil {
		logger.Warn("leetcode query %s gave up after %d attempts: %v", operation, c.config.MaxRetries+1, err)
		return nil, false
	}
	return result, true
}

// FetchAccountStatus runs the identity query. Used for username resolution
// and as a liveness probe.
func (c *Client) FetchAccountStatus(ctx context.Context) (*AccountStatus, bool) {
	data, ok := execute[accountStatusData](ctx, c, "userStatus", accountStatusQuery, nil)
	if !ok {
		return nil, false
	}
	return &data.UserStatus, true
}

// FetchRecentSubmissions returns up to limit most recent accepted submissions
// of the authenticated user, newest first.
func (c *Client) FetchRecentSubmissions(ctx context.Context, limit int) ([]AcceptedSubmission, bool) {
	username, err := c.session.Username(ctx)
	if err != nil {
		logger.Error("can not resolve username for recent submissions fetch: %v", err)
		return nil, false
	}
	data, ok := execute[recentSubmissionsData](ctx, c, "recentAcSubmissions", recentAcSubmissionsQuery,
		map[string]any{"username": username, "limit": limit})
	if !ok {
		return nil, false
	}

	submissions := make([]AcceptedSubmission, 0, len(data.RecentAcSubmissionList))
	for _, raw := range data.RecentAcSubmissionList {
		at, err := parseTimestamp(raw.Timestamp)
		if err != nil {
			logger.Warn("skipping recent submission %s: %v", raw.ID, err)
			continue
		}
		submissions = append(submissions, AcceptedSubmission{
			RemoteID:    raw.ID,
			Title:       raw.Title,
			TitleSlug:   raw.TitleSlug,
			SubmittedAt: at,
		})
	}
	return submissions, true
}

// FetchAllSolvedProblems paginates the progress list until a short page is
// returned. Pages are fetched strictly sequentially with an inter-page delay.
func (c *Client) FetchAllSolvedProblems(ctx context.Context) ([]SolvedProblem, bool) {
	var all []SolvedProblem
	for skip := 0; ; skip += progressPageSize {
		if err := c.pages.Wait(ctx); err != nil {
			return nil, false
		}
		data, ok := execute[progressListData](ctx, c, "userProgressQuestionList", progressListQuery,
			map[string]any{"filters": map[string]any{"skip": skip, "limit": progressPageSize}})
		if !ok {
			return nil, false
		}
		page := data.UserProgressQuestionList.Questions
		all = append(all, page...)
		if len(page) < progressPageSize {
			break
		}
		if len(all) >= c.config.HistoricalLimit {
			logger.Warn("historical fetch limit of %d problems reached, stopping enumeration", c.config.HistoricalLimit)
			break
		}
	}
	return all, true
}

// FetchSubmissionsForProblem pages through the submission history of one
// problem, newest first, following the opaque lastKey cursor. It stops early
// once it sees a submission at or before the watermark, so history that is
// already persisted is never refetched.
func (c *Client) FetchSubmissionsForProblem(ctx context.Context, slug string, watermark time.Time) ([]ProblemSubmission, bool) {
	var newer []ProblemSubmission
	lastKey := ""
	for offset := 0; ; offset += submissionPageSize {
		if err := c.pages.Wait(ctx); err != nil {
			return nil, false
		}
		variables := map[string]any{
			"offset":       offset,
			"limit":        submissionPageSize,
			"questionSlug": slug,
			"lastKey":      nil,
		}
		if lastKey != "" {
			variables["lastKey"] = lastKey
		}
		data, ok := execute[submissionListData](ctx, c, "submissionList", submissionListQuery, variables)
		if !ok {
			return nil, false
		}
		list := data.SubmissionList

		reachedKnown := false
		for _, raw := range list.Submissions {
			at, err := parseTimestamp(raw.Timestamp)
			if err != nil {
				logger.Warn("skipping submission %s of %s: %v", raw.ID, slug, err)
				continue
			}
			if !watermark.IsZero() && !at.After(watermark) {
				reachedKnown = true
				break
			}
			newer = append(newer, ProblemSubmission{
				RemoteID:    raw.ID,
				SubmittedAt: at,
				Status:      raw.StatusDisplay,
			})
		}

		if reachedKnown || !list.HasNext {
			break
		}
		lastKey = list.LastKey
	}
	return newer, true
}

// FetchProblemMetadata is a single-shot fetch of one problem's title,
// difficulty, body and tags.
func (c *Client) FetchProblemMetadata(ctx context.Context, slug string) (*ProblemMetadata, bool) {
	data, ok := execute[problemMetadataData](ctx, c, "questionContent", problemMetadataQuery,
		map[string]any{"titleSlug": slug})
	if !ok || data.Question == nil {
		return nil, false
	}
	return data.Question, true
}

func parseTimestamp(raw string) (time.Time, error) {
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q", raw)
	}
	return time.Unix(seconds, 0).UTC(), nil
}
