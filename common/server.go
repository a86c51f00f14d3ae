package common

import (
	"context"
	"net/http"
	"strconv"

	"leetcode_stats/lib/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (t *Tracker) initServer() {
	gin.SetMode(gin.ReleaseMode)
	t.Router = gin.New()

	if logger.GetLevel() <= logger.LogLevelTrace {
		t.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
			Output: logger.CreateWriter(logger.LogLevelTrace, "Handler log:"),
		}))
	}
	t.Router.Use(gin.CustomRecoveryWithWriter(
		logger.CreateWriter(logger.LogLevelError, "Panic in handler:"),
		func(c *gin.Context, err any) {
			c.AbortWithStatus(http.StatusInternalServerError)
		},
	))

	t.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (t *Tracker) runServer() {
	addr := ":" + strconv.Itoa(t.Config.Port)
	if t.Config.Host != nil {
		addr = *t.Config.Host + addr
	}
	logger.Info("Starting server at " + addr)
	server := http.Server{
		Addr:    addr,
		Handler: t.Router,
	}
	go func() {
		<-t.StopCtx.Done()
		logger.Info("Shutting down server")
		server.Shutdown(context.Background())
	}()
	server.ListenAndServe()
}
