package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"leetcode_stats/common/config"
	"leetcode_stats/lib/logger"

	"github.com/go-resty/resty/v2"
)

var ErrNotAuthenticated = errors.New("leetcode session is not authenticated")

// Manager owns the single authenticated session used for all remote calls.
// Init validates the configured LEETCODE_SESSION cookie once; afterwards the
// session is assumed valid and failures surface on the next actual request.
type Manager struct {
	config *config.LeetCodeConfig

	mutex    sync.Mutex
	client   *resty.Client
	username string
}

func NewManager(config *config.LeetCodeConfig) *Manager {
	return &Manager{config: config}
}

// Init opens the long-lived client and probes the remote API with an identity
// query. Returns false, not an error, when no token is configured or the
// remote side reports the session invalid.
func (m *Manager) Init(ctx context.Context) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.initLocked(ctx)
}

func (m *Manager) initLocked(ctx context.Context) bool {
	if m.client != nil {
		return true
	}
	if m.config.SessionToken == "" {
		logger.Error("LeetCode session token is not configured. " +
			"Take the LEETCODE_SESSION cookie from your browser and set LeetCode.SessionToken")
		return false
	}

	client := resty.New()
	client.SetBaseURL(m.config.BaseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Referer", m.config.BaseURL)
	client.SetCookie(&http.Cookie{Name: "LEETCODE_SESSION", Value: m.config.SessionToken})
	if m.config.CSRFToken != "" {
		client.SetHeader("x-csrftoken", m.config.CSRFToken)
		client.SetCookie(&http.Cookie{Name: "csrftoken", Value: m.config.CSRFToken})
	}

	username, ok := probeSignedIn(ctx, client)
	if !ok {
		logger.Error("LeetCode session token was rejected, probably it is expired")
		return false
	}

	logger.Info("LeetCode session is valid, signed in as %s", username)
	m.username = username
	m.client = client
	return true
}

// EnsureValid re-runs Init when no client is open and otherwise assumes the
// session is still good. There is no periodic re-validation.
func (m *Manager) EnsureValid(ctx context.Context) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.initLocked(ctx)
}

// R returns a request bound to the authenticated client.
func (m *Manager) R(ctx context.Context) (*resty.Request, error) {
	if !m.EnsureValid(ctx) {
		return nil, ErrNotAuthenticated
	}
	m.mutex.Lock()
	client := m.client
	m.mutex.Unlock()
	return client.R().SetContext(ctx), nil
}

func (m *Manager) AuthHeaders(ctx context.Context) (map[string]string, error) {
	if !m.EnsureValid(ctx) {
		return nil, ErrNotAuthenticated
	}
	headers := map[string]string{
		"Content-Type": "application/json",
		"Cookie":       "LEETCODE_SESSION=" + m.config.SessionToken,
	}
	if m.config.CSRFToken != "" {
		headers["x-csrftoken"] = m.config.CSRFToken
	}
	return headers, nil
}

// Username returns the remote account name resolved during Init. It is cached
// for the process lifetime.
func (m *Manager) Username(ctx context.Context) (string, error) {
	if !m.EnsureValid(ctx) {
		return "", ErrNotAuthenticated
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.username, nil
}

// Close releases the underlying client. Idempotent.
func (m *Manager) Close() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.client == nil {
		return
	}
	m.client.GetClient().CloseIdleConnections()
	m.client = nil
	m.username = ""
}

// Single-shot identity probe. The retrying typed fetch lives in the client
// package; validation here must not loop on a dead token.
const userStatusQuery = `
query globalData {
    userStatus {
        userId
        isSignedIn
        username
    }
}`

func probeSignedIn(ctx context.Context, client *resty.Client) (string, bool) {
	var envelope struct {
		Data struct {
			UserStatus struct {
				IsSignedIn bool   `json:"isSignedIn"`
				Username   string `json:"username"`
			} `json:"userStatus"`
		} `json:"data"`
	}
	resp, err := client.R().
		SetContext(ctx).
		SetBody(map[string]any{"query": userStatusQuery, "variables": map[string]any{}}).
		SetResult(&envelope).
		Post("/graphql")
	if err != nil {
		logger.Error("LeetCode identity query failed: %v", err)
		return "", false
	}
	if resp.IsError() {
		logger.Error("LeetCode identity query failed with code %d", resp.StatusCode())
		return "", false
	}
	if !envelope.Data.UserStatus.IsSignedIn {
		return "", false
	}
	return envelope.Data.UserStatus.Username, true
}
