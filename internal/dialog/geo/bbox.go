// Package geo provides the bounding-box arithmetic used when forwarding an
// analysis request with coordinates.
package geo

import "github.com/dataground/geochat/server/internal/dialog/model"

// DefaultBuffer is the bbox expansion applied when a task has no specific
// entry, in degrees.
const DefaultBuffer = 0.25

// BBox is a lat/lon bounding box.
type BBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// CalculateBBox expands a point by buffer degrees in every direction.
func CalculateBBox(c model.Coordinates, buffer float64) BBox {
	return BBox{
		MinLat: c.Lat - buffer,
		MinLon: c.Lng - buffer,
		MaxLat: c.Lat + buffer,
		MaxLon: c.Lng + buffer,
	}
}

// Per-task buffer sizes. All current tasks share the default; the table
// exists so a task can widen its area without touching callers.
var bufferByTask = map[model.AnalysisType]float64{
	model.SeaLevelRise:           DefaultBuffer,
	model.UrbanAnalysis:          DefaultBuffer,
	model.InfrastructureAnalysis: DefaultBuffer,
}

// StandardBuffer returns the buffer size for an analysis task.
func StandardBuffer(t model.AnalysisType) float64 {
	if b, ok := bufferByTask[t]; ok {
		return b
	}
	return DefaultBuffer
}
