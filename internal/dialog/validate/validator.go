// Package validate decides whether an accumulated parameter set is complete
// and internally consistent for a given analysis task.
package validate

import (
	"fmt"

	"github.com/dataground/geochat/server/internal/dialog/model"
)

// Result reports which required parameters are missing (in the task's
// declared order) and which present values are out of domain.
type Result struct {
	Valid   bool
	Missing []string
	Invalid []string
}

// Validate checks params against the task's required-parameter list.
func Validate(params model.ParamSet, taskType model.AnalysisType) Result {
	var missing, invalid []string

	for _, name := range model.RequiredParams(taskType) {
		if !params.Has(name) {
			missing = append(missing, name)
			continue
		}
		switch name {
		case model.ParamYear, model.ParamStartYear, model.ParamEndYear:
			if y, ok := params.Int(name); !ok || !model.ValidYear(y) {
				invalid = append(invalid, fmt.Sprintf("%s must be between %d-%d, got %v",
					name, model.MinYear, model.MaxYear, params.Values[name]))
			}
		case model.ParamThreshold:
			if v, ok := params.Float(name); !ok || !model.ValidThreshold(v) {
				invalid = append(invalid, fmt.Sprintf("threshold must be between %g-%g, got %v",
					model.MinThreshold, model.MaxThreshold, params.Values[name]))
			}
		}
	}

	if taskType == model.UrbanAnalysis {
		start, okS := params.Int(model.ParamStartYear)
		end, okE := params.Int(model.ParamEndYear)
		if okS && okE && start > end {
			invalid = append(invalid, fmt.Sprintf("start_year (%d) must be <= end_year (%d)", start, end))
		}
	}

	// A leftover location error does not block the set once both location
	// fields are confirmed; extraction normally clears it first.
	return Result{
		Valid:   len(missing) == 0 && len(invalid) == 0,
		Missing: missing,
		Invalid: invalid,
	}
}

// AreAllParametersCollected is a convenience alias for Validate(...).Valid.
func AreAllParametersCollected(params model.ParamSet, taskType model.AnalysisType) bool {
	return Validate(params, taskType).Valid
}
