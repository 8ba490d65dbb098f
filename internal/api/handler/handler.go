package handler

import (
	"log/slog"

	"github.com/pr3ssf/elephant-detector/internal/metrics"
	"github.com/pr3ssf/elephant-detector/internal/progress"
	"github.com/pr3ssf/elephant-detector/internal/storage"
	"github.com/pr3ssf/elephant-detector/shared/rabbitmq"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Storage      *storage.Storage
	RabbitClient *rabbitmq.Client
	Tracker      *progress.Tracker
	Metrics      *metrics.Metrics
	StaticDir    string
	UploadDir    string
}

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	logger       *slog.Logger
	storage      *storage.Storage
	rabbitClient *rabbitmq.Client
	tracker      *progress.Tracker
	uploadDir    string
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(deps *Dependencies) *ReportHandler {
	return &ReportHandler{
		logger:       deps.Logger,
		storage:      deps.Storage,
		rabbitClient: deps.RabbitClient,
		tracker:      deps.Tracker,
		uploadDir:    deps.UploadDir,
	}
}
