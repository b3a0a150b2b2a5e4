package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/travelplanner/api"
	"github.com/Domenick1991/travelplanner/config"
	"github.com/Domenick1991/travelplanner/internal/airports"
	"github.com/Domenick1991/travelplanner/internal/service/planner"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, planSvc planner.PlannerUseCase, resolver *airports.Resolver) error {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "airports": resolver.Len()})
	})

	v1 := router.Group("/api/v1")
	api.NewPlanHandler(planSvc, resolver).Register(v1.Group("/plans"))
	api.NewAirportHandler(resolver).Register(v1.Group("/airports"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
