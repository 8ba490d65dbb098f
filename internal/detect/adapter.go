package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pr3ssf/elephant-detector/internal/domain"
)

// Config holds inference service connection settings
type Config struct {
	InferenceURL string
	Timeout      time.Duration
}

// ModelAdapter talks to the external inference service that hosts the
// detection model. One frame per request; the call blocks until the model
// responds or the client timeout fires.
type ModelAdapter struct {
	inferenceURL string
	client       *http.Client
	logger       *slog.Logger
}

// NewModelAdapter creates an adapter for the configured inference endpoint.
func NewModelAdapter(cfg *Config, logger *slog.Logger) *ModelAdapter {
	return &ModelAdapter{
		inferenceURL: cfg.InferenceURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Detect sends one frame to the inference service and returns the reported
// bounding boxes in model-output order.
func (m *ModelAdapter) Detect(ctx context.Context, frame image.Image) ([]domain.Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}

	if err := jpeg.Encode(part, frame, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.inferenceURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Detections []domain.Detection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	m.logger.Debug("Inference completed",
		slog.Int("detections", len(result.Detections)),
	)

	return result.Detections, nil
}

// Health checks that the inference service is reachable.
func (m *ModelAdapter) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.inferenceURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}

	return nil
}
