package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr3ssf/elephant-detector/internal/domain"
)

func dets(confidences ...float64) []domain.Detection {
	out := make([]domain.Detection, len(confidences))
	for i, c := range confidences {
		out[i] = domain.Detection{Confidence: c}
	}
	return out
}

func TestBuildDetails_Empty(t *testing.T) {
	for _, mediaType := range []string{domain.MediaTypeImage, domain.MediaTypeVideo} {
		details := BuildDetails(mediaType, nil, 1.5)

		assert.Nil(t, details.AverageConfidence, mediaType)
		assert.Nil(t, details.MaxConfidence, mediaType)
		assert.NotNil(t, details.Detections, mediaType)
		assert.Empty(t, details.Detections, mediaType)
		assert.Equal(t, 1.5, details.ProcessingTime, mediaType)
	}
}

func TestBuildDetails_ImageAverageThreshold(t *testing.T) {
	tests := []struct {
		name        string
		confidences []float64
		wantAverage bool
	}{
		{name: "one detection", confidences: []float64{0.9}, wantAverage: false},
		{name: "two detections", confidences: []float64{0.9, 0.4}, wantAverage: false},
		{name: "three detections", confidences: []float64{0.9, 0.4, 0.7}, wantAverage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := BuildDetails(domain.MediaTypeImage, dets(tt.confidences...), 0)

			require.NotNil(t, details.MaxConfidence)
			assert.InDelta(t, 0.9, *details.MaxConfidence, 1e-9)

			if tt.wantAverage {
				require.NotNil(t, details.AverageConfidence)
				assert.InDelta(t, 0.6667, *details.AverageConfidence, 1e-4)
			} else {
				assert.Nil(t, details.AverageConfidence)
			}
		})
	}
}

func TestBuildDetails_VideoAverageAlwaysComputed(t *testing.T) {
	details := BuildDetails(domain.MediaTypeVideo, dets(0.8), 0)

	require.NotNil(t, details.AverageConfidence)
	assert.InDelta(t, 0.8, *details.AverageConfidence, 1e-9)
	require.NotNil(t, details.MaxConfidence)
	assert.InDelta(t, 0.8, *details.MaxConfidence, 1e-9)
}

func TestBuildDetails_MaxConfidence(t *testing.T) {
	details := BuildDetails(domain.MediaTypeVideo, dets(0.2, 0.95, 0.5), 0)

	require.NotNil(t, details.MaxConfidence)
	assert.InDelta(t, 0.95, *details.MaxConfidence, 1e-9)
}
