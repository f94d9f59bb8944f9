// Package intent classifies a free-text message as one of the analysis
// tasks, or none. The engine depends only on the Detector interface; the
// default implementation is deterministic keyword matching, with an optional
// Gemini-backed classifier for messages the keyword table cannot place.
package intent

import (
	"context"

	"github.com/dataground/geochat/server/internal/dialog/model"
)

// Detector maps a message to an analysis type. The boolean is false when no
// analysis intent was recognized; the error is reserved for collaborator
// failures (network, model), never for "no intent".
type Detector interface {
	Detect(ctx context.Context, message string) (model.AnalysisType, bool, error)
}
