package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpetrenko/flightsched/api"
	"github.com/mpetrenko/flightsched/config"
	"github.com/mpetrenko/flightsched/internal/service/flights"
	"github.com/mpetrenko/flightsched/pkg/logger"
	"github.com/mpetrenko/flightsched/pkg/metrics"
	"github.com/mpetrenko/flightsched/pkg/middleware"
)

// PingFunc reports whether the backing store is reachable.
type PingFunc func(ctx context.Context) error

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger, m *metrics.Metrics, flightSvc flights.FlightUseCase, ping PingFunc) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(log, m, flightSvc, ping),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(log logger.Logger, m *metrics.Metrics, flightSvc flights.FlightUseCase, ping PingFunc) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log), middleware.Metrics(m))

	api.NewFlightHandler(flightSvc, m).Register(router.Group("/flights"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
