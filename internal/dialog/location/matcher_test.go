package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCities() []City {
	return []City{
		{Name: "Seoul", Country: "South Korea", Lat: 37.5665, Lng: 126.978},
		{Name: "Busan", Country: "South Korea", Lat: 35.1796, Lng: 129.0756},
		{Name: "Incheon", Country: "South Korea", Lat: 37.4563, Lng: 126.7052},
		{Name: "New York", Country: "United States of America", Lat: 40.7128, Lng: -74.006},
		{Name: "London", Country: "United Kingdom", Lat: 51.5074, Lng: -0.1278},
	}
}

func TestExactCityMatch(t *testing.T) {
	m := NewMatcher(testCities(), 0.8)

	res, err := m.Resolve(context.Background(), "Busan", KindCity)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.True(t, res.ExactMatch)
	assert.Equal(t, "Busan", res.City)
	assert.Equal(t, "South Korea", res.Country)
	require.NotNil(t, res.Coordinates)
	assert.InDelta(t, 35.1796, res.Coordinates.Lat, 0.0001)
}

func TestCityFoundInsideSentence(t *testing.T) {
	m := NewMatcher(testCities(), 0.8)

	res, err := m.Resolve(context.Background(), "Busan 2020", KindCity)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.True(t, res.ExactMatch)
	assert.Equal(t, "Busan", res.City)

	res, err = m.Resolve(context.Background(), "I want urban analysis in Seoul from 2015 to 2020", KindCity)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "Seoul", res.City)
}

func TestMultiWordCityName(t *testing.T) {
	m := NewMatcher(testCities(), 0.8)

	res, err := m.Resolve(context.Background(), "show me flood risk for New York please", KindCity)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.True(t, res.ExactMatch)
	assert.Equal(t, "New York", res.City)
}

func TestNearMissProducesSuggestion(t *testing.T) {
	m := NewMatcher(testCities(), 0.8)

	res, err := m.Resolve(context.Background(), "Soul", KindCity)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.False(t, res.ExactMatch)
	assert.Equal(t, "Seoul", res.SuggestedCity)
	assert.Contains(t, res.Message, "Did you mean 'Seoul, South Korea'?")
}

func TestCountryAliases(t *testing.T) {
	m := NewMatcher(testCities(), 0.8)

	for _, input := range []string{"South Korea", "south korea"} {
		res, err := m.Resolve(context.Background(), input, KindCountry)
		require.NoError(t, err)
		assert.True(t, res.Found, input)
		assert.True(t, res.ExactMatch, input)
		assert.Equal(t, "South Korea", res.Country, input)
		assert.NotEmpty(t, res.Cities, input)
	}

	res, err := m.Resolve(context.Background(), "usa", KindCountry)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.True(t, res.ExactMatch)
}

func TestConfirmationWordsAreNotLocations(t *testing.T) {
	m := NewMatcher(testCities(), 0.8)

	for _, word := range []string{"yes", "no", "ok", "2 meters", "네"} {
		res, err := m.Resolve(context.Background(), word, KindCity)
		require.NoError(t, err)
		assert.False(t, res.Found, word)
	}
}

func TestNegativePrefixStripped(t *testing.T) {
	m := NewMatcher(testCities(), 0.8)

	// the bare 아니 needs no comma or trailing space
	for _, input := range []string{"no, Busan", "아니 Busan", "아니Busan", "아니, Busan"} {
		res, err := m.Resolve(context.Background(), input, KindCity)
		require.NoError(t, err)
		assert.True(t, res.Found, input)
		assert.Equal(t, "Busan", res.City, input)
	}
}

func TestSimilarityBounds(t *testing.T) {
	assert.Equal(t, 1.0, similarity("seoul", "seoul"))
	assert.Equal(t, 0.0, similarity("", "seoul"))
	assert.Greater(t, similarity("soul", "seoul"), 0.8)
	assert.Less(t, similarity("tokyo", "seoul"), 0.5)
}
