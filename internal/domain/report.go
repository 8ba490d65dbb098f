package domain

import "time"

// Report represents one uploaded media file and its detection outcome.
// Details stays empty until the pipeline finalizes the job.
type Report struct {
	ID            int64     `db:"id" json:"id"`
	Timestamp     time.Time `db:"timestamp" json:"timestamp"`
	MediaType     string    `db:"media_type" json:"media_type"`
	OriginalPath  string    `db:"original_path" json:"original_path"`
	ProcessedPath string    `db:"processed_path" json:"processed_path"`
	Details       string    `db:"details" json:"-"` // JSON string
}

// ReportDetails is the finalized metrics payload stored in the details column.
type ReportDetails struct {
	ProcessingTime    float64     `json:"processing_time"`
	AverageConfidence *float64    `json:"average_confidence"`
	MaxConfidence     *float64    `json:"max_confidence"`
	Detections        []Detection `json:"detections"`
}

// Detection is one model-reported bounding box with its confidence.
// Frame is set for video detections only. The model does not guarantee
// x1<x2 or y1<y2; coordinates are stored as reported.
type Detection struct {
	Frame      *int    `json:"frame,omitempty"`
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Confidence float64 `json:"confidence"`
}

// JobMessage represents a detection job message published to RabbitMQ
type JobMessage struct {
	ReportID    int64  `json:"report_id"`
	Filename    string `json:"filename"`
	MediaType   string `json:"media_type"`
	DeliveryTag uint64 `json:"-"`
}
