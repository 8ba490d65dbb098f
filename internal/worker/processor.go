package worker

import (
	"context"
	"log/slog"

	"github.com/pr3ssf/elephant-detector/internal/domain"
)

// processJob runs one detection job through the media pipeline. Any error is
// terminal for the job; there is no retry at any layer.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	w.logger.Info("Processing job",
		slog.Int64("report_id", msg.ReportID),
		slog.String("media_type", msg.MediaType),
		slog.String("filename", msg.Filename),
		slog.String("worker_id", w.workerID),
	)

	return w.pipeline.Run(ctx, *msg)
}
