package common

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"leetcode_stats/common/config"
	"leetcode_stats/common/db"
	"leetcode_stats/common/metrics"
	"leetcode_stats/lib/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Tracker holds the process-wide pieces: config, database, router, metrics,
// and the lifecycle of background processes. There is no global state, every
// component receives what it needs from here.
type Tracker struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Metrics *metrics.Collector

	processes []func()
	defers    []func()

	StopCtx  context.Context
	stopFunc context.CancelFunc
	stopWG   sync.WaitGroup
}

func InitTracker(configPath string) *Tracker {
	t := &Tracker{
		Config: config.ReadConfig(configPath),
	}
	logger.InitLogger(t.Config.Logger)

	t.initServer()

	var err error
	t.DB, err = db.NewDB(t.Config.DB)
	if err != nil {
		logger.Panic("Can not set up db connection, error: %s", err.Error())
	}

	t.Metrics = metrics.NewCollector()

	return t
}

// AddProcess registers a background process started by Run. A process panic
// shuts the whole tracker down gracefully.
func (t *Tracker) AddProcess(f func()) {
	t.processes = append(t.processes, f)
}

// AddDefer registers a cleanup executed after all processes have stopped.
func (t *Tracker) AddDefer(f func()) {
	t.defers = append(t.defers, f)
}

func (t *Tracker) Run() {
	var ctx context.Context
	var cancel context.CancelFunc
	ctx, t.stopFunc = context.WithCancel(context.Background())
	t.StopCtx, cancel = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, process := range t.processes {
		t.Go(process)
	}

	t.runServer()

	t.stopWG.Wait()

	for _, d := range t.defers {
		d()
	}
}

func (t *Tracker) Go(f func()) {
	t.stopWG.Add(1)
	go t.runProcess(f)
}

func (t *Tracker) runProcess(f func()) {
	defer func() {
		v := recover()
		if v != nil {
			logger.Error("One process got panic: %v, shutting down all processes gracefully", v)
			t.stopFunc()
		}
		t.stopWG.Done()
	}()

	f()
}
