// Package pipeline turns a stored upload into a finalized detection report.
//
// Image jobs run the model once over the whole frame. Video jobs make two
// sequential passes over the source: a transcode pass producing a
// browser-playable copy, then a detection pass producing the annotated
// output. Progress moves through fixed bands (image jumps 20 to 100; video
// climbs 10 to 30 during transcode and 30 to 100 during detection) and hits
// 100 only after the report row is durably stored.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pr3ssf/elephant-detector/internal/detect"
	"github.com/pr3ssf/elephant-detector/internal/domain"
	"github.com/pr3ssf/elephant-detector/internal/media"
	"github.com/pr3ssf/elephant-detector/internal/metrics"
)

// Subdirectories under the static root; stored paths are relative to it.
const (
	UploadSubdir    = "uploads"
	ProcessedSubdir = "processed"
)

// ProgressTracker receives percentage updates for a running job.
type ProgressTracker interface {
	Set(reportID int64, percent int)
}

// ReportStore persists the finalized report. Exactly one write per job.
type ReportStore interface {
	FinalizeReport(ctx context.Context, reportID int64, originalPath *string, processedPath string, detailsJSON string) error
}

// Config holds pipeline dependencies
type Config struct {
	Logger       *slog.Logger
	Detector     detect.Detector
	Store        ReportStore
	Tracker      ProgressTracker
	Video        media.VideoIO
	Metrics      *metrics.Metrics
	UploadDir    string
	ProcessedDir string
}

// Pipeline orchestrates one detection job from stored upload to report.
type Pipeline struct {
	logger       *slog.Logger
	detector     detect.Detector
	store        ReportStore
	tracker      ProgressTracker
	video        media.VideoIO
	metrics      *metrics.Metrics
	uploadDir    string
	processedDir string
}

// New creates a pipeline instance.
func New(cfg *Config) *Pipeline {
	return &Pipeline{
		logger:       cfg.Logger,
		detector:     cfg.Detector,
		store:        cfg.Store,
		tracker:      cfg.Tracker,
		video:        cfg.Video,
		metrics:      cfg.Metrics,
		uploadDir:    cfg.UploadDir,
		processedDir: cfg.ProcessedDir,
	}
}

// Run processes one job to completion. On error nothing is stored and the
// tracker keeps its last value, so pollers never see 100 for a failed job.
func (p *Pipeline) Run(ctx context.Context, job domain.JobMessage) error {
	start := time.Now()

	p.logger.Info("Pipeline started",
		slog.Int64("report_id", job.ReportID),
		slog.String("media_type", job.MediaType),
		slog.String("filename", job.Filename),
	)
	p.metrics.JobsStarted.WithLabelValues(job.MediaType).Inc()

	var (
		detections    []domain.Detection
		processedPath string
		viewablePath  *string
		err           error
	)

	if domain.IsImage(job.MediaType) {
		detections, processedPath, err = p.processImage(ctx, job)
	} else {
		detections, processedPath, viewablePath, err = p.processVideo(ctx, job)
	}

	if err != nil {
		p.metrics.JobsFailed.WithLabelValues(job.MediaType).Inc()
		return fmt.Errorf("process %s: %w", job.MediaType, err)
	}

	elapsed := time.Since(start).Seconds()
	details := BuildDetails(job.MediaType, detections, elapsed)

	payload, err := json.Marshal(details)
	if err != nil {
		p.metrics.JobsFailed.WithLabelValues(job.MediaType).Inc()
		return fmt.Errorf("marshal report details: %w", err)
	}

	if err := p.store.FinalizeReport(ctx, job.ReportID, viewablePath, processedPath, string(payload)); err != nil {
		p.metrics.JobsFailed.WithLabelValues(job.MediaType).Inc()
		return fmt.Errorf("finalize report: %w", err)
	}

	// 100 only after the store write succeeded, so a poller that sees 100
	// can always retrieve the report.
	p.tracker.Set(job.ReportID, 100)

	p.metrics.JobsCompleted.WithLabelValues(job.MediaType).Inc()
	p.metrics.JobDuration.WithLabelValues(job.MediaType).Observe(elapsed)

	p.logger.Info("Pipeline completed",
		slog.Int64("report_id", job.ReportID),
		slog.Int("detections", len(detections)),
		slog.Float64("processing_time", elapsed),
	)

	return nil
}

// processImage runs the model once over the whole image, annotates it in
// place and writes the processed copy.
func (p *Pipeline) processImage(ctx context.Context, job domain.JobMessage) ([]domain.Detection, string, error) {
	p.tracker.Set(job.ReportID, 20)

	frame, err := media.DecodeImage(filepath.Join(p.uploadDir, job.Filename))
	if err != nil {
		return nil, "", err
	}

	detections, err := p.detector.Detect(ctx, frame)
	if err != nil {
		return nil, "", fmt.Errorf("detect: %w", err)
	}
	p.metrics.FramesProcessed.Inc()
	p.metrics.DetectionsTotal.Add(float64(len(detections)))

	media.Annotate(frame, detections)

	processedName := "processed_" + job.Filename
	if err := media.EncodeImage(filepath.Join(p.processedDir, processedName), frame); err != nil {
		return nil, "", err
	}

	return detections, path.Join(ProcessedSubdir, processedName), nil
}

// processVideo runs the two-pass video branch: transcode for playback, then
// per-frame detection and annotation. Both passes read the source from the
// beginning so no pass needs the whole video in memory.
func (p *Pipeline) processVideo(ctx context.Context, job domain.JobMessage) ([]domain.Detection, string, *string, error) {
	p.tracker.Set(job.ReportID, 10)

	inPath := filepath.Join(p.uploadDir, job.Filename)
	info, err := p.video.Probe(ctx, inPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("probe: %w", err)
	}

	base := strings.TrimSuffix(job.Filename, filepath.Ext(job.Filename))

	viewableName := "viewable_" + base + ".webm"
	if err := p.transcodePass(ctx, job.ReportID, inPath, filepath.Join(p.uploadDir, viewableName), info); err != nil {
		return nil, "", nil, fmt.Errorf("transcode pass: %w", err)
	}

	processedName := "processed_" + base + ".webm"
	detections, err := p.detectionPass(ctx, job.ReportID, inPath, filepath.Join(p.processedDir, processedName), info)
	if err != nil {
		return nil, "", nil, fmt.Errorf("detection pass: %w", err)
	}

	viewablePath := path.Join(UploadSubdir, viewableName)
	return detections, path.Join(ProcessedSubdir, processedName), &viewablePath, nil
}

// transcodePass copies frames unmodified into a browser-playable container,
// advancing progress through the 10 to 30 band.
func (p *Pipeline) transcodePass(ctx context.Context, reportID int64, inPath, outPath string, info media.ProbeInfo) error {
	reader, err := p.video.OpenReader(ctx, inPath, info.Width, info.Height)
	if err != nil {
		return err
	}
	defer reader.Close()

	writer, err := p.video.NewWriter(ctx, outPath, info.Width, info.Height, info.FPS)
	if err != nil {
		return err
	}
	defer writer.Close()

	for i := 0; i < info.TotalFrames; i++ {
		frame, err := reader.ReadFrame()
		if err == io.EOF {
			// Fewer frames than the probe promised; partial output is fine.
			break
		}
		if err != nil {
			return err
		}

		if err := writer.WriteFrame(frame); err != nil {
			return err
		}
		p.tracker.Set(reportID, 10+i*20/info.TotalFrames)
	}

	return writer.Close()
}

// detectionPass reopens the source, runs the model on every frame, tags each
// detection with its frame index, annotates and appends to the output.
// Progress advances through the 30 to 100 band.
func (p *Pipeline) detectionPass(ctx context.Context, reportID int64, inPath, outPath string, info media.ProbeInfo) ([]domain.Detection, error) {
	reader, err := p.video.OpenReader(ctx, inPath, info.Width, info.Height)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	writer, err := p.video.NewWriter(ctx, outPath, info.Width, info.Height, info.FPS)
	if err != nil {
		return nil, err
	}
	defer writer.Close()

	var all []domain.Detection
	for i := 0; i < info.TotalFrames; i++ {
		frame, err := reader.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		detections, err := p.detector.Detect(ctx, frame)
		if err != nil {
			return nil, fmt.Errorf("detect frame %d: %w", i, err)
		}
		p.metrics.FramesProcessed.Inc()
		p.metrics.DetectionsTotal.Add(float64(len(detections)))

		frameIndex := i
		for j := range detections {
			detections[j].Frame = &frameIndex
		}

		media.Annotate(frame, detections)
		all = append(all, detections...)

		if err := writer.WriteFrame(frame); err != nil {
			return nil, err
		}
		p.tracker.Set(reportID, 30+i*70/info.TotalFrames)
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return all, nil
}
