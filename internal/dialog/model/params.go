package model

// Parameter names used across extraction, validation and execution.
const (
	ParamCountryName = "country_name"
	ParamCityName    = "city_name"
	ParamCoordinates = "coordinates"
	ParamYear        = "year"
	ParamStartYear   = "start_year"
	ParamEndYear     = "end_year"
	ParamThreshold   = "threshold"
	ParamMethod      = "method"
	ParamNTopics     = "n_topics"
)

// Coordinates is a WGS84 point for a matched city.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CityRef is a lightweight city reference used for country-level suggestions.
type CityRef struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Diagnostics carries the transient extraction hints that are not analysis
// parameters but shape the next question. Keeping them out of Values means
// status rendering and payload building never have to filter keys.
type Diagnostics struct {
	LocationError     string    `json:"location_error,omitempty"`
	SuggestionMessage string    `json:"suggestion_message,omitempty"`
	SuggestedCity     string    `json:"suggested_city,omitempty"`
	SuggestedCountry  string    `json:"suggested_country,omitempty"`
	SuggestedCities   []CityRef `json:"suggested_cities,omitempty"`
}

// ClearLocation drops every location-related hint. Extraction calls this on
// the caller's set once an exact city or country match is established.
func (d *Diagnostics) ClearLocation() {
	d.LocationError = ""
	d.SuggestionMessage = ""
	d.SuggestedCity = ""
	d.SuggestedCountry = ""
	d.SuggestedCities = nil
}

// HasSuggestion reports whether a near-match suggestion is pending.
func (d Diagnostics) HasSuggestion() bool {
	return d.SuggestionMessage != ""
}

// ParamSet is the accumulated parameter map for the task being configured,
// with diagnostics held separately from confirmed business values.
type ParamSet struct {
	Values      map[string]any `json:"values"`
	Diagnostics Diagnostics    `json:"diagnostics"`
}

// NewParamSet returns an empty set with an allocated value map.
func NewParamSet() ParamSet {
	return ParamSet{Values: map[string]any{}}
}

// Set stores a confirmed parameter value.
func (p *ParamSet) Set(key string, v any) {
	if p.Values == nil {
		p.Values = map[string]any{}
	}
	p.Values[key] = v
}

// Has reports whether the key is present with a non-nil value.
func (p ParamSet) Has(key string) bool {
	v, ok := p.Values[key]
	return ok && v != nil
}

// Int returns the value as an int. JSON round-trips store numbers as
// float64, so both representations are accepted.
func (p ParamSet) Int(key string) (int, bool) {
	switch v := p.Values[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Float returns the value as a float64.
func (p ParamSet) Float(key string) (float64, bool) {
	switch v := p.Values[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// String returns the value as a string.
func (p ParamSet) String(key string) (string, bool) {
	v, ok := p.Values[key].(string)
	return v, ok
}

// Coords returns the stored coordinates. A set loaded back from Redis holds
// them as a JSON object, so the map form is accepted too.
func (p ParamSet) Coords() (Coordinates, bool) {
	switch v := p.Values[ParamCoordinates].(type) {
	case Coordinates:
		return v, true
	case map[string]any:
		lat, latOK := v["lat"].(float64)
		lng, lngOK := v["lng"].(float64)
		if latOK && lngOK {
			return Coordinates{Lat: lat, Lng: lng}, true
		}
	}
	return Coordinates{}, false
}

// HasLocation reports whether both country and city are confirmed.
func (p ParamSet) HasLocation() bool {
	return p.Has(ParamCityName) && p.Has(ParamCountryName)
}

// Clone returns a deep-enough copy: the value map is copied, diagnostics are
// value-copied (the suggested-cities slice is shared, which is fine because
// it is only ever replaced, never appended to).
func (p ParamSet) Clone() ParamSet {
	out := ParamSet{Values: make(map[string]any, len(p.Values)), Diagnostics: p.Diagnostics}
	for k, v := range p.Values {
		out.Values[k] = v
	}
	return out
}

// Merge applies extracted values over the receiver. Values always win;
// diagnostic fields win only when the extracted set actually produced them,
// so a cleared field stays cleared and an untouched one is carried forward.
func (p *ParamSet) Merge(extracted ParamSet) {
	for k, v := range extracted.Values {
		p.Set(k, v)
	}
	d := extracted.Diagnostics
	if d.LocationError != "" {
		p.Diagnostics.LocationError = d.LocationError
	}
	if d.SuggestionMessage != "" {
		p.Diagnostics.SuggestionMessage = d.SuggestionMessage
	}
	if d.SuggestedCity != "" {
		p.Diagnostics.SuggestedCity = d.SuggestedCity
	}
	if d.SuggestedCountry != "" {
		p.Diagnostics.SuggestedCountry = d.SuggestedCountry
	}
	if d.SuggestedCities != nil {
		p.Diagnostics.SuggestedCities = d.SuggestedCities
	}
}

// NormalizeLocation drops a stale location error once both location fields
// are confirmed. Validation treats the error as non-blocking in that case;
// this keeps the stored state consistent with that rule.
func (p *ParamSet) NormalizeLocation() {
	if p.Diagnostics.LocationError != "" && p.HasLocation() {
		p.Diagnostics.LocationError = ""
	}
}
