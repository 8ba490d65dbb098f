package domain

import (
	"path/filepath"
	"strings"
)

// Media type constants
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// imageExtensions lists the raster formats handled by the image branch.
// Anything else is treated as video.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// MediaTypeOf classifies a filename by extension. The classification is
// fixed at upload time and never changes for the lifetime of a report.
func MediaTypeOf(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if imageExtensions[ext] {
		return MediaTypeImage
	}
	return MediaTypeVideo
}

// IsImage reports whether the media type is the image kind.
func IsImage(mediaType string) bool {
	return mediaType == MediaTypeImage
}
