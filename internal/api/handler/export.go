package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pr3ssf/elephant-detector/internal/domain"
	"github.com/pr3ssf/elephant-detector/internal/storage"
)

// ExportCSV handles GET /export
// Streams every report as a CSV attachment. Details are emitted as the raw
// JSON text so spreadsheet users keep the full structure in one cell.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	reports, err := h.storage.ListReports(c.Request.Context(), storage.ReportFilter{})
	if err != nil {
		h.logger.Error("Failed to export reports", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to export reports",
		})
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"id", "timestamp", "media_type", "original_path", "processed_path", "details"})
	for _, report := range reports {
		_ = w.Write([]string{
			strconv.FormatInt(report.ID, 10),
			report.Timestamp.Format(time.RFC3339),
			report.MediaType,
			report.OriginalPath,
			report.ProcessedPath,
			report.Details,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Error("Failed to write export csv", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to export reports",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="reports.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportDetails handles GET /export_details/:report_id
// Downloads one report's details as a pretty-printed JSON attachment.
func (h *ReportHandler) ExportDetails(c *gin.Context) {
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

	if report.Details == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Report has no details yet",
		})
		return
	}

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

	pretty, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to encode report details",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="details_%d.json"`, reportID))
	c.Data(http.StatusOK, "application/json", pretty)
}
