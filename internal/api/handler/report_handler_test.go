package handler

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr3ssf/elephant-detector/internal/progress"
	"github.com/pr3ssf/elephant-detector/internal/storage"
)

func newTestHandler(t *testing.T) (*ReportHandler, *progress.Tracker) {
	t.Helper()

	tracker := progress.NewTracker()
	h := NewReportHandler(&Dependencies{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracker:   tracker,
		UploadDir: t.TempDir(),
	})
	return h, tracker
}

func TestProgress(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		reportID   string
		setPercent int
		wantStatus int
		wantBody   string
	}{
		{
			name:       "known report",
			reportID:   "42",
			setPercent: 30,
			wantStatus: http.StatusOK,
			wantBody:   `{"progress":30}`,
		},
		{
			name:       "unknown report reads zero",
			reportID:   "999",
			wantStatus: http.StatusOK,
			wantBody:   `{"progress":0}`,
		},
		{
			name:       "non-numeric id",
			reportID:   "abc",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, tracker := newTestHandler(t)
			if tt.setPercent > 0 {
				tracker.Set(42, tt.setPercent)
			}

			r := gin.New()
			r.GET("/progress/:report_id", h.Progress)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/progress/"+tt.reportID, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestUploadMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t)

	r := gin.New()
	r.POST("/", h.Upload)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No file"}`, w.Body.String())
}

func TestReportCursorRoundTrip(t *testing.T) {
	orig := &storage.ReportCursor{
		Timestamp: time.Date(2025, 6, 1, 12, 30, 0, 500, time.UTC),
		ID:        77,
	}

	encoded := EncodeReportCursor(orig)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeReportCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)

	assert.True(t, orig.Timestamp.Equal(decoded.Timestamp))
	assert.Equal(t, orig.ID, decoded.ID)
}

func TestDecodeReportCursor(t *testing.T) {
	tests := []struct {
		name      string
		cursorStr string
		wantErr   bool
		wantNil   bool
	}{
		{
			name:      "empty string means first page",
			cursorStr: "",
			wantNil:   true,
		},
		{
			name:      "not base64",
			cursorStr: "%%%not-base64%%%",
			wantErr:   true,
		},
		{
			name:      "wrong part count",
			cursorStr: base64.StdEncoding.EncodeToString([]byte("123")),
			wantErr:   true,
		},
		{
			name:      "non-numeric fields",
			cursorStr: base64.StdEncoding.EncodeToString([]byte("abc|def")),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor, err := DecodeReportCursor(tt.cursorStr)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, cursor)
			}
		})
	}
}
