package routes

import (
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type DashboardRoutes struct {
	handler   *handlers.DashboardHandler
	jwtSecret string
}

func NewDashboardRoutes(handler *handlers.DashboardHandler, jwtSecret string) *DashboardRoutes {
	return &DashboardRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers the dashboard routes. GetMetrics does its own
// caching, so the shared cache middleware is not applied here.
func (d *DashboardRoutes) RegisterRoutes(router *gin.Engine) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.NewAuthMiddleware(d.jwtSecret))

	dashboard.GET("/metrics", gzip.Gzip(gzip.DefaultCompression), d.handler.GetMetrics)
	dashboard.POST("/metrics/refresh", d.handler.RefreshMetrics)
}
