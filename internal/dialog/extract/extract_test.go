package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataground/geochat/server/internal/dialog/location"
	"github.com/dataground/geochat/server/internal/dialog/model"
)

// fakeResolver returns canned results keyed by lowercase substring.
type fakeResolver struct {
	cities    map[string]location.Result
	countries map[string]location.Result
}

func (f *fakeResolver) Resolve(_ context.Context, text string, kind location.Kind) (location.Result, error) {
	table := f.cities
	if kind == location.KindCountry {
		table = f.countries
	}
	lower := strings.ToLower(text)
	for key, res := range table {
		if strings.Contains(lower, key) {
			return res, nil
		}
	}
	return location.Result{Found: false}, nil
}

func seoulResolver() *fakeResolver {
	return &fakeResolver{
		cities: map[string]location.Result{
			"seoul": {
				Found:       true,
				ExactMatch:  true,
				City:        "Seoul",
				Country:     "South Korea",
				Coordinates: &model.Coordinates{Lat: 37.56, Lng: 126.99},
			},
			"busan": {
				Found:       true,
				ExactMatch:  true,
				City:        "Busan",
				Country:     "South Korea",
				Coordinates: &model.Coordinates{Lat: 35.18, Lng: 129.075},
			},
			"soul": {
				Found:         true,
				ExactMatch:    false,
				SuggestedCity: "Seoul",
				Message:       "Did you mean 'Seoul, South Korea'?",
			},
		},
		countries: map[string]location.Result{
			"south korea": {
				Found:      true,
				ExactMatch: true,
				Country:    "South Korea",
				Cities:     []model.CityRef{{City: "Seoul", Lat: 37.56, Lng: 126.99}},
			},
		},
	}
}

func TestFindYearRange(t *testing.T) {
	cases := []struct {
		message    string
		start, end int
		ok         bool
	}{
		{"from 2015 to 2020", 2015, 2020, true},
		{"2015-2020", 2015, 2020, true},
		{"2015~2020", 2015, 2020, true},
		{"2015부터 2020까지", 2015, 2020, true},
		{"from 2020 to 2015", 0, 0, false}, // reversed range
		{"from 1990 to 2020", 0, 0, false}, // start out of domain
		{"no years here", 0, 0, false},
	}
	for _, c := range cases {
		start, end, ok := findYearRange(c.message)
		assert.Equal(t, c.ok, ok, c.message)
		if c.ok {
			assert.Equal(t, c.start, start, c.message)
			assert.Equal(t, c.end, end, c.message)
		}
	}
}

func TestFindThresholdBoundaries(t *testing.T) {
	cases := []struct {
		message string
		want    float64
		ok      bool
	}{
		{"0.5 meters", 0.5, true},
		{"5.0m", 5.0, true},
		{"2 meters", 2.0, true},
		{"1.5미터", 1.5, true},
		{"threshold: 3.2", 3.2, true},
		{"0.4 meters", 0, false},
		{"5.1m", 0, false},
		{"just words", 0, false},
	}
	for _, c := range cases {
		v, ok := findThreshold(c.message)
		assert.Equal(t, c.ok, ok, c.message)
		if c.ok {
			assert.Equal(t, c.want, v, c.message)
		}
	}
}

func TestFindYearSkipsOutOfDomain(t *testing.T) {
	_, ok := findYear("back in 1995")
	assert.False(t, ok)

	y, ok := findYear("in 2018")
	require.True(t, ok)
	assert.Equal(t, 2018, y)
}

func TestUrbanSingleYearFallback(t *testing.T) {
	s := newLocationStrategy(model.UrbanAnalysis, seoulResolver())
	ctx := context.Background()

	existing := model.NewParamSet()
	extracted, err := s.Extract(ctx, "2015", &existing)
	require.NoError(t, err)
	start, ok := extracted.Int(model.ParamStartYear)
	require.True(t, ok)
	assert.Equal(t, 2015, start)
	assert.False(t, extracted.Has(model.ParamEndYear))

	// once a start year is fixed, a lone year fills the end slot
	existing.Set(model.ParamStartYear, 2015)
	extracted, err = s.Extract(ctx, "2020", &existing)
	require.NoError(t, err)
	end, ok := extracted.Int(model.ParamEndYear)
	require.True(t, ok)
	assert.Equal(t, 2020, end)
}

func TestExtractFullUrbanRequest(t *testing.T) {
	s := newLocationStrategy(model.UrbanAnalysis, seoulResolver())

	existing := model.NewParamSet()
	extracted, err := s.Extract(context.Background(),
		"I want urban analysis in Seoul from 2015 to 2020 with 2m threshold", &existing)
	require.NoError(t, err)

	city, _ := extracted.String(model.ParamCityName)
	country, _ := extracted.String(model.ParamCountryName)
	start, _ := extracted.Int(model.ParamStartYear)
	end, _ := extracted.Int(model.ParamEndYear)
	threshold, _ := extracted.Float(model.ParamThreshold)

	assert.Equal(t, "Seoul", city)
	assert.Equal(t, "South Korea", country)
	assert.Equal(t, 2015, start)
	assert.Equal(t, 2020, end)
	assert.Equal(t, 2.0, threshold)
}

func TestExtractRecordsLocationError(t *testing.T) {
	s := newLocationStrategy(model.SeaLevelRise, seoulResolver())

	existing := model.NewParamSet()
	extracted, err := s.Extract(context.Background(), "somewhere nice", &existing)
	require.NoError(t, err)
	assert.Equal(t, "Location information not found.", extracted.Diagnostics.LocationError)
}

func TestExactMatchClearsDiagnostics(t *testing.T) {
	s := newLocationStrategy(model.SeaLevelRise, seoulResolver())

	existing := model.NewParamSet()
	existing.Diagnostics.LocationError = "Location information not found."
	existing.Diagnostics.SuggestionMessage = "Did you mean 'Seoul, South Korea'?"

	_, err := s.Extract(context.Background(), "Busan", &existing)
	require.NoError(t, err)
	assert.Empty(t, existing.Diagnostics.LocationError)
	assert.False(t, existing.Diagnostics.HasSuggestion())
}

func TestCollectMergeIsIdempotent(t *testing.T) {
	c := NewCollector(seoulResolver())
	ctx := context.Background()

	existing := model.NewParamSet()
	first, err := c.Collect(ctx, "Busan in 2020", model.SeaLevelRise, &existing)
	require.NoError(t, err)

	base := first.Params.Clone()
	second, err := c.Collect(ctx, "Busan in 2020", model.SeaLevelRise, &base)
	require.NoError(t, err)

	assert.Equal(t, first.Params.Values, second.Params.Values)
	assert.Equal(t, first.Params.Diagnostics, second.Params.Diagnostics)
}

func TestCollectDropsLocationErrorOnceLocated(t *testing.T) {
	c := NewCollector(seoulResolver())
	ctx := context.Background()

	existing := model.NewParamSet()
	res, err := c.Collect(ctx, "somewhere nice", model.SeaLevelRise, &existing)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Params.Diagnostics.LocationError)

	carried := res.Params
	res, err = c.Collect(ctx, "Seoul", model.SeaLevelRise, &carried)
	require.NoError(t, err)
	assert.True(t, res.Params.HasLocation())
	assert.Empty(t, res.Params.Diagnostics.LocationError)
}

func TestFirstQuestionOrdering(t *testing.T) {
	c := NewCollector(seoulResolver())

	q := c.FirstQuestion([]string{model.ParamYear, model.ParamCountryName}, model.SeaLevelRise)
	assert.Equal(t, questionCountry, q)

	q = c.FirstQuestion([]string{model.ParamCityName, model.ParamThreshold}, model.SeaLevelRise)
	assert.Equal(t, questionCity, q)

	q = c.FirstQuestion([]string{model.ParamThreshold}, model.SeaLevelRise)
	assert.Equal(t, questionThreshold, q)

	q = c.FirstQuestion([]string{model.ParamMethod}, model.TopicModeling)
	assert.Equal(t, questionMethod, q)
}

func TestTopicExtraction(t *testing.T) {
	c := NewCollector(seoulResolver())

	existing := model.NewParamSet()
	res, err := c.Collect(context.Background(), "use lda with 10 topics", model.TopicModeling, &existing)
	require.NoError(t, err)

	method, _ := res.Params.String(model.ParamMethod)
	n, _ := res.Params.Int(model.ParamNTopics)
	assert.Equal(t, "lda", method)
	assert.Equal(t, 10, n)
	assert.False(t, res.NeedsMoreInfo)
}
