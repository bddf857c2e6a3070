package restapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures and returns the Gin router.
func SetupRouter(reportHandler *ReportHandler) *gin.Engine {
	router := gin.Default()

	// The dashboard frontend is served from a different origin.
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/report/:address", reportHandler.GetReportHandler)
		v1.GET("/report/:address/history", reportHandler.GetValueHistoryHandler)
		v1.GET("/stats", reportHandler.GetStatsHandler)
	}

	router.GET("/health", reportHandler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
