package api

import (
	"context"
	"net/http"
	"time"

	"restaurant-ops/internal/common/httpx"
	"restaurant-ops/internal/common/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// Routes is implemented by each microservice handler.
type Routes interface {
	Register(r gin.IRouter)
}

// NewRouter builds the gin engine with logging, recovery, health and metrics.
func NewRouter(log zerolog.Logger, checks map[string]Pinger, routes ...Routes) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestLogger(log))

	r.GET("/health", health(checks))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	for _, rt := range routes {
		rt.Register(r)
	}
	return r
}

func health(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				components[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{"status": state, "components": components})
	}
}
