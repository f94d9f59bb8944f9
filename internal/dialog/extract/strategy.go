// Package extract scans raw messages for candidate parameter values. One
// strategy exists per analysis task; the location-based tasks share an
// implementation parameterized by task type.
package extract

import (
	"context"
	"fmt"

	"github.com/dataground/geochat/server/internal/dialog/location"
	"github.com/dataground/geochat/server/internal/dialog/model"
	"github.com/dataground/geochat/server/internal/dialog/validate"
)

// Strategy extracts candidate parameters for one analysis task.
//
// Extract may mutate the caller-supplied existing set: an exact location
// match clears stale location diagnostics in place. The returned set holds
// only what this message produced; merging is the collector's job.
type Strategy interface {
	Type() model.AnalysisType
	Extract(ctx context.Context, message string, existing *model.ParamSet) (model.ParamSet, error)
	RequiredParams() []string
	Question(param string) string
}

// Result is the outcome of one collection pass.
type Result struct {
	Params        model.ParamSet
	Validation    validate.Result
	NeedsMoreInfo bool
}

// Collector dispatches to the per-task strategies and merges their output
// into the accumulated parameter set.
type Collector struct {
	strategies map[model.AnalysisType]Strategy
}

// NewCollector registers the four task strategies. The location-based ones
// share the given resolver.
func NewCollector(resolver location.Resolver) *Collector {
	c := &Collector{strategies: make(map[model.AnalysisType]Strategy)}
	for _, t := range []model.AnalysisType{model.SeaLevelRise, model.UrbanAnalysis, model.InfrastructureAnalysis} {
		c.strategies[t] = newLocationStrategy(t, resolver)
	}
	c.strategies[model.TopicModeling] = newTopicStrategy()
	return c
}

// Strategy returns the registered strategy for a task.
func (c *Collector) Strategy(t model.AnalysisType) (Strategy, bool) {
	s, ok := c.strategies[t]
	return s, ok
}

// Collect runs one extract+validate pass, merging this message's findings
// into a copy of existing. The existing set itself is only touched by the
// strategy's diagnostic clearing; the merged result is returned for the
// caller to commit.
func (c *Collector) Collect(ctx context.Context, message string, t model.AnalysisType, existing *model.ParamSet) (Result, error) {
	s, ok := c.strategies[t]
	if !ok {
		return Result{}, fmt.Errorf("no extraction strategy for analysis type %q", t)
	}

	extracted, err := s.Extract(ctx, message, existing)
	if err != nil {
		return Result{}, err
	}

	merged := existing.Clone()
	merged.Merge(extracted)
	merged.NormalizeLocation()

	v := validate.Validate(merged, t)
	return Result{Params: merged, Validation: v, NeedsMoreInfo: !v.Valid}, nil
}

// FirstQuestion produces the single clarifying question for the first
// missing parameter. Location is always gathered first: a missing country
// outranks everything, then a missing city, regardless of the task's own
// parameter order.
func (c *Collector) FirstQuestion(missing []string, t model.AnalysisType) string {
	for _, name := range missing {
		if name == model.ParamCountryName {
			return questionCountry
		}
	}
	for _, name := range missing {
		if name == model.ParamCityName {
			return questionCity
		}
	}
	if len(missing) == 0 {
		return "Additional information is needed."
	}
	if s, ok := c.strategies[t]; ok {
		return s.Question(missing[0])
	}
	return defaultQuestion(missing[0])
}
