package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pr3ssf/elephant-detector/internal/domain"
	"github.com/pr3ssf/elephant-detector/shared/postgresql"
)

// Storage handles all database operations for reports
type Storage struct {
	db *sqlx.DB
}

// NewStorage creates a Storage over the shared PostgreSQL client.
func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// CreateReport inserts a pending report row and returns its serial id.
// Ids are assigned monotonically by the database.
func (s *Storage) CreateReport(ctx context.Context, mediaType, originalPath string) (int64, error) {
	query := `
		INSERT INTO reports (timestamp, media_type, original_path, processed_path, details)
		VALUES (NOW(), $1, $2, '', '')
		RETURNING id
	`

	var id int64
	if err := s.db.QueryRowContext(ctx, query, mediaType, originalPath).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create report: %w", err)
	}

	return id, nil
}

// FinalizeReport writes the pipeline outcome. originalPath is non-nil for
// videos only, where the viewable transcode replaces the raw upload for
// display. This is the single write the pipeline performs per job.
func (s *Storage) FinalizeReport(ctx context.Context, reportID int64, originalPath *string, processedPath string, detailsJSON string) error {
	query := `
		UPDATE reports
		SET original_path = COALESCE($1, original_path),
		    processed_path = $2,
		    details = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, originalPath, processedPath, detailsJSON, reportID)
	if err != nil {
		return fmt.Errorf("failed to finalize report: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrReportNotFound
	}

	return nil
}

// GetReport retrieves a report by id.
func (s *Storage) GetReport(ctx context.Context, reportID int64) (*domain.Report, error) {
	query := `
		SELECT id, timestamp, media_type, original_path, processed_path, details
		FROM reports
		WHERE id = $1
	`

	var report domain.Report
	if err := s.db.GetContext(ctx, &report, query, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &report, nil
}

// ReportFilter narrows and paginates report listings.
type ReportFilter struct {
	MediaType string
	PageSize  int
	Cursor    *ReportCursor
}

// ReportCursor is a (timestamp, id) keyset position for pagination.
type ReportCursor struct {
	Timestamp time.Time
	ID        int64
}

// ListReports returns reports newest first. One extra row beyond PageSize is
// fetched so the caller can tell whether more results exist.
func (s *Storage) ListReports(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	query := `
		SELECT id, timestamp, media_type, original_path, processed_path, details
		FROM reports
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.MediaType != "" {
		query += fmt.Sprintf(" AND media_type = $%d", argIdx)
		args = append(args, filter.MediaType)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (timestamp, id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.Timestamp, filter.Cursor.ID)
		argIdx += 2
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if filter.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.PageSize+1)
	}

	var reports []domain.Report
	if err := s.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, nil
}
