package domain

import "errors"

var (
	// ErrReportNotFound is returned when a report cannot be found in the database
	ErrReportNotFound = errors.New("report not found")

	// ErrNoFile is returned when an upload request carries no file part
	ErrNoFile = errors.New("no file provided")
)
