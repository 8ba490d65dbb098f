package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pr3ssf/elephant-detector/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "detector-service",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// Uploaded and processed media for report viewers
	r.Static("/static", deps.StaticDir)

	reportHandler := handler.NewReportHandler(deps)

	// POST / - Upload media and enqueue a detection job
	r.POST("/", reportHandler.Upload)

	// GET /progress/:report_id - Poll job progress
	r.GET("/progress/:report_id", reportHandler.Progress)

	// GET /history - List reports newest first
	r.GET("/history", reportHandler.ListReports)

	// GET /report/:report_id - Get one report with decoded details
	r.GET("/report/:report_id", reportHandler.GetReport)

	// GET /export - Download all reports as CSV
	r.GET("/export", reportHandler.ExportCSV)

	// GET /export_details/:report_id - Download one report's details as JSON
	r.GET("/export_details/:report_id", reportHandler.ExportDetails)

	return r
}
