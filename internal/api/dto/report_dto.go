package dto

import "github.com/pr3ssf/elephant-detector/internal/domain"

type UploadResponse struct {
	ReportID int64 `json:"report_id"`
}

type ProgressResponse struct {
	Progress int `json:"progress"`
}

type ListReportsRequest struct {
	MediaType string `form:"media_type"`
	PageSize  int    `form:"page_size"`
	Cursor    string `form:"cursor"`
}

type ReportDTO struct {
	ID            int64  `json:"id"`
	Timestamp     string `json:"timestamp"`
	MediaType     string `json:"media_type"`
	OriginalPath  string `json:"original_path"`
	ProcessedPath string `json:"processed_path"`
	Completed     bool   `json:"completed"`
}

type ListReportsResponse struct {
	Reports    []ReportDTO `json:"reports"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type ReportDetailResponse struct {
	ID            int64                 `json:"id"`
	Timestamp     string                `json:"timestamp"`
	MediaType     string                `json:"media_type"`
	OriginalPath  string                `json:"original_path"`
	ProcessedPath string                `json:"processed_path"`
	Details       *domain.ReportDetails `json:"details"`
}
