package detect

import (
	"context"
	"image"

	"github.com/pr3ssf/elephant-detector/internal/domain"
)

// Detector runs object detection on a single frame. An error is fatal for the
// job that made the call; there is no retry at this layer.
type Detector interface {
	Detect(ctx context.Context, frame image.Image) ([]domain.Detection, error)
}
