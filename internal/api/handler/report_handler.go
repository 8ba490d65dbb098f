package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pr3ssf/elephant-detector/internal/api/dto"
	"github.com/pr3ssf/elephant-detector/internal/domain"
	"github.com/pr3ssf/elephant-detector/internal/pipeline"
	"github.com/pr3ssf/elephant-detector/internal/storage"
)

// Upload handles POST /
// Stores the uploaded file, creates a pending report and publishes the
// detection job. Returns immediately; the pipeline runs in the background.
func (h *ReportHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No file",
		})
		return
	}

	// uuid prefix keeps concurrent uploads of the same filename apart
	storedName := uuid.New().String()[:8] + "_" + filepath.Base(file.Filename)
	mediaType := domain.MediaTypeOf(storedName)

	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, storedName)); err != nil {
		h.logger.Error("Failed to save upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save file",
		})
		return
	}

	originalPath := path.Join(pipeline.UploadSubdir, storedName)
	reportID, err := h.storage.CreateReport(c.Request.Context(), mediaType, originalPath)
	if err != nil {
		h.logger.Error("Failed to create report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create report",
		})
		return
	}

	h.tracker.Set(reportID, 0)

	body, err := json.Marshal(domain.JobMessage{
		ReportID:  reportID,
		Filename:  storedName,
		MediaType: mediaType,
	})
	if err != nil {
		h.logger.Error("Failed to marshal job message", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to enqueue job",
		})
		return
	}

	if err := h.rabbitClient.PublishWithRetry(c.Request.Context(), body, "application/json"); err != nil {
		h.logger.Error("Failed to publish job message",
			slog.Int64("report_id", reportID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to enqueue job",
		})
		return
	}

	h.logger.Info("Upload accepted",
		slog.Int64("report_id", reportID),
		slog.String("media_type", mediaType),
		slog.String("filename", storedName),
	)

	c.JSON(http.StatusOK, dto.UploadResponse{ReportID: reportID})
}

// Progress handles GET /progress/:report_id
// Unknown ids report 0, never an error.
func (h *ReportHandler) Progress(c *gin.Context) {
	reportID, err := strconv.ParseInt(c.Param("report_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "report_id must be an integer",
		})
		return
	}

	c.JSON(http.StatusOK, dto.ProgressResponse{Progress: h.tracker.Get(reportID)})
}

// GetReport handles GET /report/:report_id
// Retrieves one report; details stays null until the pipeline finalized it.
func (h *ReportHandler) GetReport(c *gin.Context) {
	reportID, err := strconv.ParseInt(c.Param("report_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "report_id must be an integer",
		})
		return
	}

	report, err := h.storage.GetReport(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Report not found",
			})
			return
		}
		h.logger.Error("Failed to get report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get report",
		})
		return
	}

	resp := dto.ReportDetailResponse{
		ID:            report.ID,
		Timestamp:     report.Timestamp.Format(time.RFC3339),
		MediaType:     report.MediaType,
		OriginalPath:  report.OriginalPath,
		ProcessedPath: report.ProcessedPath,
	}

	if report.Details != "" {
		var details domain.ReportDetails
		if err := json.Unmarshal([]byte(report.Details), &details); err != nil {
			h.logger.Error("Failed to decode report details",
				slog.Int64("report_id", reportID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to decode report details",
			})
			return
		}
		resp.Details = &details
	}

	c.JSON(http.StatusOK, resp)
}

// ListReports handles GET /history
// Lists reports newest first with cursor pagination
func (h *ReportHandler) ListReports(c *gin.Context) {
	var req dto.ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeReportCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	reports, err := h.storage.ListReports(c.Request.Context(), storage.ReportFilter{
		MediaType: req.MediaType,
		PageSize:  req.PageSize,
		Cursor:    cursor,
	})
	if err != nil {
		h.logger.Error("Failed to list reports", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list reports",
		})
		return
	}

	hasMore := len(reports) > req.PageSize
	if hasMore {
		reports = reports[:req.PageSize]
	}

	out := make([]dto.ReportDTO, len(reports))
	for i, report := range reports {
		out[i] = dto.ReportDTO{
			ID:            report.ID,
			Timestamp:     report.Timestamp.Format(time.RFC3339),
			MediaType:     report.MediaType,
			OriginalPath:  report.OriginalPath,
			ProcessedPath: report.ProcessedPath,
			Completed:     report.Details != "",
		}
	}

	var nextCursor string
	if hasMore {
		last := reports[len(reports)-1]
		nextCursor = EncodeReportCursor(&storage.ReportCursor{
			Timestamp: last.Timestamp,
			ID:        last.ID,
		})
	}

	c.JSON(http.StatusOK, dto.ListReportsResponse{
		Reports:    out,
		NextCursor: nextCursor,
	})
}
