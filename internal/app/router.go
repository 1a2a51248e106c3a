package app

import (
	"codex_backend/docs"
	"codex_backend/pkg/monitoring"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Version = a.Config.Server.Version
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/", c.health.Status)
	router.GET("/health", c.health.HealthCheck)

	a.registerAPIRoutes(router, c)

	router.NoRoute(notFoundHandler(availableRoutes(router)))
}

func (a *App) registerAPIRoutes(router *gin.Engine, c *controllers) {
	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.POST("/analyze", a.quota.Middleware(), c.analysis.Analyze)

		history := api.Group("/history")
		history.GET("/:userId", c.history.ListHistory)
		history.POST("", c.history.SaveHistory)
		history.DELETE("/:id", c.history.DeleteHistory)
	}
}

// availableRoutes 404 响应中列出的路由，不含 swagger 和 metrics
func availableRoutes(router *gin.Engine) []string {
	var routes []string
	for _, r := range router.Routes() {
		if strings.HasPrefix(r.Path, "/swagger") || r.Path == "/metrics" {
			continue
		}
		routes = append(routes, r.Method+" "+r.Path)
	}
	sort.Strings(routes)
	return routes
}

func notFoundHandler(routes []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":           "Not Found",
			"message":         fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path),
			"availableRoutes": routes,
		})
	}
}
