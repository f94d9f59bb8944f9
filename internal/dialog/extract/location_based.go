package extract

import (
	"context"
	"strings"

	"github.com/dataground/geochat/server/internal/dialog/location"
	"github.com/dataground/geochat/server/internal/dialog/model"
	logx "github.com/dataground/geochat/server/pkg/logger"
)

// locationStrategy covers the three geospatial tasks. The steps run in a
// fixed order (location, years, threshold) because the location step may
// clear diagnostics the later steps and the caller observe.
type locationStrategy struct {
	taskType model.AnalysisType
	resolver location.Resolver
}

func newLocationStrategy(t model.AnalysisType, resolver location.Resolver) *locationStrategy {
	return &locationStrategy{taskType: t, resolver: resolver}
}

func (s *locationStrategy) Type() model.AnalysisType {
	return s.taskType
}

func (s *locationStrategy) RequiredParams() []string {
	return model.RequiredParams(s.taskType)
}

func (s *locationStrategy) Question(param string) string {
	if q, ok := locationQuestions[param]; ok {
		return q
	}
	return defaultQuestion(param)
}

func (s *locationStrategy) Extract(ctx context.Context, message string, existing *model.ParamSet) (model.ParamSet, error) {
	extracted := model.NewParamSet()
	lower := strings.ToLower(message)

	if err := s.extractLocation(ctx, message, existing, &extracted); err != nil {
		return model.ParamSet{}, err
	}
	s.extractYears(lower, existing, &extracted)

	if v, ok := findThreshold(lower); ok {
		extracted.Set(model.ParamThreshold, v)
	}

	return extracted, nil
}

// extractLocation tries a city match first and falls back to a country-only
// match. An exact hit stores the canonical fields and clears any stale
// suggestion or error diagnostics on the caller's set; a near-miss stores
// suggestion fields instead; no hit at all records a location error.
func (s *locationStrategy) extractLocation(ctx context.Context, message string, existing, extracted *model.ParamSet) error {
	cityRes, err := s.resolver.Resolve(ctx, message, location.KindCity)
	if err != nil {
		return err
	}

	if cityRes.Found {
		if cityRes.ExactMatch {
			extracted.Set(model.ParamCityName, cityRes.City)
			extracted.Set(model.ParamCountryName, cityRes.Country)
			if cityRes.Coordinates != nil {
				extracted.Set(model.ParamCoordinates, *cityRes.Coordinates)
			}
			existing.Diagnostics.ClearLocation()
			logx.Debug().Str("city", cityRes.City).Str("country", cityRes.Country).Msg("location confirmed")
		} else {
			extracted.Diagnostics.SuggestedCity = cityRes.SuggestedCity
			extracted.Diagnostics.SuggestedCountry = cityRes.SuggestedCountry
			extracted.Diagnostics.SuggestionMessage = cityRes.Message
		}
		return nil
	}

	countryRes, err := s.resolver.Resolve(ctx, message, location.KindCountry)
	if err != nil {
		return err
	}

	switch {
	case countryRes.Found && countryRes.ExactMatch:
		extracted.Set(model.ParamCountryName, countryRes.Country)
		if len(countryRes.Cities) > 0 {
			extracted.Diagnostics.SuggestedCities = countryRes.Cities
		}
		existing.Diagnostics.ClearLocation()
	case countryRes.Found:
		extracted.Diagnostics.SuggestedCountry = countryRes.SuggestedCountry
		extracted.Diagnostics.SuggestionMessage = countryRes.Message
	default:
		extracted.Diagnostics.LocationError = "Location information not found."
	}
	return nil
}

// extractYears handles the task's year shape: urban analysis wants a range
// and falls back to a single year assigned to whichever endpoint is still
// open; the other tasks take a single year.
func (s *locationStrategy) extractYears(lower string, existing, extracted *model.ParamSet) {
	if s.taskType != model.UrbanAnalysis {
		if y, ok := findYear(lower); ok {
			extracted.Set(model.ParamYear, y)
		}
		return
	}

	if start, end, ok := findYearRange(lower); ok {
		extracted.Set(model.ParamStartYear, start)
		extracted.Set(model.ParamEndYear, end)
		logx.Debug().Int("start_year", start).Int("end_year", end).Msg("year range extracted")
		return
	}

	if y, ok := findYear(lower); ok {
		if existing.Has(model.ParamStartYear) {
			extracted.Set(model.ParamEndYear, y)
		} else {
			extracted.Set(model.ParamStartYear, y)
		}
	}
}

var _ Strategy = (*locationStrategy)(nil)
