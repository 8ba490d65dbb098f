package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/pr3ssf/elephant-detector/internal/storage"
)

func DecodeReportCursor(cursorStr string) (*storage.ReportCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(string(decoded), "|")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var timestamp int64
	if _, err := fmt.Sscanf(parts[0], "%d", &timestamp); err != nil {
		return nil, fmt.Errorf("invalid timestamp in cursor: %w", err)
	}

	var id int64
	if _, err := fmt.Sscanf(parts[1], "%d", &id); err != nil {
		return nil, fmt.Errorf("invalid id in cursor: %w", err)
	}

	return &storage.ReportCursor{
		Timestamp: time.Unix(0, timestamp),
		ID:        id,
	}, nil
}

func EncodeReportCursor(cursor *storage.ReportCursor) string {
	cs := fmt.Sprintf("%d|%d", cursor.Timestamp.UnixNano(), cursor.ID)
	return base64.StdEncoding.EncodeToString([]byte(cs))
}
