package media

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{name: "png", filename: "frame.png"},
		{name: "bmp", filename: "frame.bmp"},
		{name: "jpeg", filename: "frame.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, 16, 8))
			src.SetRGBA(3, 4, color.RGBA{R: 255, A: 255})

			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, EncodeImage(path, src))

			decoded, err := DecodeImage(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), decoded.Bounds())
		})
	}
}

func TestDecodeImage_MissingFile(t *testing.T) {
	_, err := DecodeImage(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open image")
}

func TestParseFrameRate(t *testing.T) {
	assert.InDelta(t, 25.0, parseFrameRate("25/1"), 1e-9)
	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.01)
	assert.InDelta(t, 24.0, parseFrameRate("24"), 1e-9)
	assert.Equal(t, 0.0, parseFrameRate("0/0"))
	assert.Equal(t, 0.0, parseFrameRate("garbage"))
}
