package pipeline

import "github.com/pr3ssf/elephant-detector/internal/domain"

// BuildDetails aggregates per-frame detections into the persisted report
// payload. elapsedSeconds is the wall clock spanning the full pipeline run.
func BuildDetails(mediaType string, detections []domain.Detection, elapsedSeconds float64) domain.ReportDetails {
	details := domain.ReportDetails{
		ProcessingTime: elapsedSeconds,
		Detections:     detections,
	}
	if details.Detections == nil {
		details.Detections = []domain.Detection{}
	}
	if len(detections) == 0 {
		return details
	}

	maxConf := detections[0].Confidence
	sum := 0.0
	for _, det := range detections {
		if det.Confidence > maxConf {
			maxConf = det.Confidence
		}
		sum += det.Confidence
	}
	details.MaxConfidence = &maxConf

	// Average is always computed for video; for images only with more than
	// two boxes. Inherited policy, kept as observed.
	if !domain.IsImage(mediaType) || len(detections) > 2 {
		avg := sum / float64(len(detections))
		details.AverageConfidence = &avg
	}

	return details
}
