package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	operationLabel = "operation"
	resultLabel    = "result"
)

const (
	CycleOK      = "ok"
	CycleError   = "error"
	CycleSkipped = "skipped"
)

type Collector struct {
	SyncCycles          *prometheus.CounterVec
	ProblemsUpserted    prometheus.Counter
	SubmissionsUpserted prometheus.Counter
	RemoteRequests      *prometheus.CounterVec
	RemoteRetries       *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{}

	c.SyncCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lcstats",
			Subsystem: "sync",
			Name:      "cycles_count",
			Help:      "Number of finished sync cycles by result",
		},
		[]string{resultLabel},
	)

	c.ProblemsUpserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lcstats",
		Subsystem: "sync",
		Name:      "problems_upserted_count",
		Help:      "Number of problem upserts performed by the sync pipeline",
	})

	c.SubmissionsUpserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lcstats",
		Subsystem: "sync",
		Name:      "submissions_upserted_count",
		Help:      "Number of submission upserts performed by the sync pipeline",
	})

	c.RemoteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lcstats",
			Subsystem: "remote",
			Name:      "requests_count",
			Help:      "Number of GraphQL requests sent to leetcode",
		},
		[]string{operationLabel},
	)

	c.RemoteRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lcstats",
			Subsystem: "remote",
			Name:      "retries_count",
			Help:      "Number of retried GraphQL requests (rate limit or transient failure)",
		},
		[]string{operationLabel},
	)

	prometheus.MustRegister(
		c.SyncCycles,
		c.ProblemsUpserted,
		c.SubmissionsUpserted,
		c.RemoteRequests,
		c.RemoteRetries,
	)
	return c
}

// All observers are nil-safe so components under test may run without a collector.

func (c *Collector) CycleFinished(result string) {
	if c != nil {
		c.SyncCycles.With(prometheus.Labels{resultLabel: result}).Inc()
	}
}

func (c *Collector) ProblemStored() {
	if c != nil {
		c.ProblemsUpserted.Inc()
	}
}

func (c *Collector) SubmissionStored() {
	if c != nil {
		c.SubmissionsUpserted.Inc()
	}
}

func (c *Collector) RemoteRequest(operation string) {
	if c != nil {
		c.RemoteRequests.With(prometheus.Labels{operationLabel: operation}).Inc()
	}
}

func (c *Collector) RemoteRetry(operation string) {
	if c != nil {
		c.RemoteRetries.With(prometheus.Labels{operationLabel: operation}).Inc()
	}
}
