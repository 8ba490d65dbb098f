package detect

import (
	"context"
	"image"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 32, 32))
}

func TestModelAdapter_Detect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"detections":[
			{"x1":10,"y1":20,"x2":110,"y2":220,"confidence":0.93},
			{"x1":5,"y1":6,"x2":7,"y2":8,"confidence":0.41}
		]}`))
	}))
	defer srv.Close()

	adapter := NewModelAdapter(&Config{
		InferenceURL: srv.URL,
		Timeout:      2 * time.Second,
	}, slog.Default())

	dets, err := adapter.Detect(context.Background(), testFrame())
	require.NoError(t, err)
	require.Len(t, dets, 2)

	// Model-output order is preserved
	assert.Equal(t, 10, dets[0].X1)
	assert.Equal(t, 220, dets[0].Y2)
	assert.InDelta(t, 0.93, dets[0].Confidence, 1e-9)
	assert.InDelta(t, 0.41, dets[1].Confidence, 1e-9)
	assert.Nil(t, dets[0].Frame)
}

func TestModelAdapter_DetectEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detections":[]}`))
	}))
	defer srv.Close()

	adapter := NewModelAdapter(&Config{InferenceURL: srv.URL, Timeout: time.Second}, slog.Default())

	dets, err := adapter.Detect(context.Background(), testFrame())
	require.NoError(t, err)
	assert.Empty(t, dets)
}

func TestModelAdapter_DetectErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	adapter := NewModelAdapter(&Config{InferenceURL: srv.URL, Timeout: time.Second}, slog.Default())

	_, err := adapter.Detect(context.Background(), testFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inference failed with status: 500")
}

func TestModelAdapter_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	adapter := NewModelAdapter(&Config{InferenceURL: srv.URL, Timeout: time.Second}, slog.Default())

	assert.NoError(t, adapter.Health(context.Background()))
}
