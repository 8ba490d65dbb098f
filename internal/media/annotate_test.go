package media

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr3ssf/elephant-detector/internal/domain"
)

func TestAnnotate_DrawsBox(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))

	Annotate(frame, []domain.Detection{
		{X1: 20, Y1: 30, X2: 80, Y2: 90, Confidence: 0.75},
	})

	// Border pixels carry the annotation color
	assert.Equal(t, boxColor, frame.RGBAAt(20, 30))
	assert.Equal(t, boxColor, frame.RGBAAt(50, 30))
	assert.Equal(t, boxColor, frame.RGBAAt(80, 90))
	assert.Equal(t, boxColor, frame.RGBAAt(20, 60))

	// Interior stays untouched
	assert.NotEqual(t, boxColor, frame.RGBAAt(50, 60))
}

func TestAnnotate_ToleratesInvertedCoordinates(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))

	// The model does not guarantee x1<x2 / y1<y2
	Annotate(frame, []domain.Detection{
		{X1: 80, Y1: 90, X2: 20, Y2: 30, Confidence: 0.5},
	})

	assert.Equal(t, boxColor, frame.RGBAAt(20, 30))
	assert.Equal(t, boxColor, frame.RGBAAt(80, 90))
}

func TestAnnotate_ClipsOutOfBoundsBox(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 50, 50))

	require.NotPanics(t, func() {
		Annotate(frame, []domain.Detection{
			{X1: -10, Y1: -10, X2: 200, Y2: 200, Confidence: 0.9},
		})
	})
}

func TestAnnotate_DoesNotModifyDetections(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	dets := []domain.Detection{
		{X1: 90, Y1: 10, X2: 10, Y2: 90, Confidence: 0.33},
	}

	Annotate(frame, dets)

	assert.Equal(t, domain.Detection{X1: 90, Y1: 10, X2: 10, Y2: 90, Confidence: 0.33}, dets[0])
}
