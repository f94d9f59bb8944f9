package location

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dataground/geochat/server/internal/dialog/model"
	logx "github.com/dataground/geochat/server/pkg/logger"
)

// City is one row of the world-cities table.
type City struct {
	Name    string
	Country string
	Lat     float64
	Lng     float64
}

// Matcher is a Resolver backed by an in-memory city table.
type Matcher struct {
	cities    []City
	countries map[string][]int // lowercase country -> row indexes, insertion order
	threshold float64
}

// Country aliases the table does not spell the way users do.
var countryAliases = map[string]string{
	"south korea":    "korea, south",
	"north korea":    "korea, north",
	"united states":  "united states of america",
	"usa":            "united states of america",
	"uk":             "united kingdom",
	"united kingdom": "united kingdom",
}

// Tokens that never name a place; lookups on these short-circuit to
// not-found so confirmation words or units are not fuzzy-matched to cities.
var nonLocationWords = map[string]struct{}{
	"yes": {}, "no": {}, "ok": {}, "okay": {},
	"year": {}, "years": {}, "meter": {}, "meters": {}, "m": {}, "threshold": {},
	"analysis": {}, "city": {}, "region": {},
	"해수면": {}, "상승": {}, "분석": {}, "위험": {}, "도시": {}, "지역": {},
	"인프라": {}, "노출": {}, "토픽": {}, "모델링": {}, "년": {}, "미터": {},
	"응": {}, "아니": {}, "맞아": {}, "맞다": {},
}

// Leading negation words stripped before matching ("No, Busan" → "Busan").
// Longer forms come first so the bare "아니" never truncates them.
var negativePrefixes = []string{"no,", "아니,", "아니요", "아니다", "아니"}

// NewMatcher builds a matcher over the given rows. threshold is the minimum
// similarity for a near-match suggestion; 0 selects the default 0.8.
func NewMatcher(cities []City, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = 0.8
	}
	m := &Matcher{
		cities:    cities,
		countries: make(map[string][]int),
		threshold: threshold,
	}
	for i, c := range cities {
		key := strings.ToLower(c.Country)
		m.countries[key] = append(m.countries[key], i)
	}
	logx.Info().Int("cities", len(cities)).Int("countries", len(m.countries)).Msg("location table loaded")
	return m
}

// LoadCSV reads a worldcities-style CSV. Required header columns: city, lat,
// lng, country; other columns are ignored. Rows with a missing city or
// country are skipped.
func LoadCSV(path string) ([]City, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cities csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read cities csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cities csv %s is empty", path)
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"city", "lat", "lng", "country"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("cities csv %s missing column %q", path, required)
		}
	}

	cities := make([]City, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(name string) string {
			i := col[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		name, country := get("city"), get("country")
		if name == "" || country == "" {
			continue
		}
		lat, _ := strconv.ParseFloat(get("lat"), 64)
		lng, _ := strconv.ParseFloat(get("lng"), 64)
		cities = append(cities, City{Name: name, Country: country, Lat: lat, Lng: lng})
	}
	return cities, nil
}

// Resolve implements Resolver.
func (m *Matcher) Resolve(_ context.Context, text string, kind Kind) (Result, error) {
	if len(m.cities) == 0 {
		return Result{Found: false, Message: "no location data available"}, nil
	}

	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	for _, p := range negativePrefixes {
		if strings.HasPrefix(lower, p) {
			text = strings.TrimSpace(text[len(p):])
			lower = strings.ToLower(text)
			break
		}
	}
	if text == "" {
		return Result{Found: false, Message: "no location text provided"}, nil
	}
	if _, skip := nonLocationWords[lower]; skip {
		return Result{Found: false, Message: "not a location"}, nil
	}

	cands := candidates(text)
	if len(cands) == 0 {
		return Result{Found: false, Message: "not a location"}, nil
	}

	// Exact matches win over a suggestion from an earlier candidate, so the
	// passes are separate.
	for _, cand := range cands {
		if res := m.find(cand, kind); res.Found && res.ExactMatch {
			return res, nil
		}
	}
	for _, cand := range cands {
		if res := m.find(cand, kind); res.Found {
			return res, nil
		}
	}

	return m.find(text, kind), nil
}

func (m *Matcher) find(name string, kind Kind) Result {
	if kind == KindCountry {
		return m.findCountry(name)
	}
	return m.findCity(name)
}

// candidates expands free text into lookup terms: each comma-separated part
// in full, then word n-grams (longest first) within each part. Terms that
// are too short, known non-location words, or contain digits are dropped, so
// "Busan 2020" yields just "Busan".
func candidates(text string) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if len(s) <= 2 || strings.ContainsAny(s, "0123456789") {
			return
		}
		if _, skip := nonLocationWords[strings.ToLower(s)]; skip {
			return
		}
		out = append(out, s)
	}

	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		add(part)
		words := strings.Fields(part)
		if len(words) <= 1 {
			continue
		}
		maxN := len(words)
		if maxN > 3 {
			maxN = 3
		}
		for n := maxN; n >= 1; n-- {
			for i := 0; i+n <= len(words); i++ {
				gram := strings.Join(words[i:i+n], " ")
				if n == len(words) {
					continue // already added as the whole part
				}
				add(gram)
			}
		}
	}
	return out
}

func (m *Matcher) findCity(name string) Result {
	target := strings.ToLower(strings.TrimSpace(name))

	for _, c := range m.cities {
		if strings.ToLower(c.Name) == target {
			logx.Debug().Str("city", c.Name).Str("country", c.Country).Msg("exact city match")
			return Result{
				Found:       true,
				ExactMatch:  true,
				City:        c.Name,
				Country:     c.Country,
				Coordinates: &model.Coordinates{Lat: c.Lat, Lng: c.Lng},
			}
		}
	}

	names := make([]string, len(m.cities))
	for i, c := range m.cities {
		names[i] = strings.ToLower(c.Name)
	}
	best, score := bestMatch(target, names, m.threshold)
	if best != "" {
		for _, c := range m.cities {
			if strings.ToLower(c.Name) == best {
				return Result{
					Found:            true,
					ExactMatch:       false,
					City:             c.Name,
					Country:          c.Country,
					Coordinates:      &model.Coordinates{Lat: c.Lat, Lng: c.Lng},
					SuggestedCity:    titleCase(best),
					SuggestedCountry: c.Country,
					SimilarityScore:  score,
					Message:          fmt.Sprintf("Did you mean '%s, %s'?", titleCase(best), c.Country),
				}
			}
		}
	}

	return Result{Found: false, Message: fmt.Sprintf("No city matching '%s' was found. Please try another city name.", name)}
}

func (m *Matcher) findCountry(name string) Result {
	target := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := countryAliases[target]; ok {
		target = mapped
	}

	if idx, ok := m.countries[target]; ok {
		return Result{
			Found:      true,
			ExactMatch: true,
			Country:    titleCase(name),
			Cities:     m.majorCities(idx),
		}
	}

	names := make([]string, 0, len(m.countries))
	for c := range m.countries {
		names = append(names, c)
	}
	best, score := bestMatch(target, names, m.threshold)
	if best != "" {
		return Result{
			Found:            true,
			ExactMatch:       false,
			Country:          titleCase(best),
			Cities:           m.majorCities(m.countries[best]),
			SuggestedCountry: titleCase(best),
			SimilarityScore:  score,
			Message:          fmt.Sprintf("Did you mean '%s'?", titleCase(best)),
		}
	}

	return Result{Found: false, Message: fmt.Sprintf("No country matching '%s' was found. Please try another country name.", name)}
}

// majorCities returns up to five cities for a country, in table order.
func (m *Matcher) majorCities(idx []int) []model.CityRef {
	n := len(idx)
	if n > 5 {
		n = 5
	}
	out := make([]model.CityRef, 0, n)
	for _, i := range idx[:n] {
		c := m.cities[i]
		out = append(out, model.CityRef{City: c.Name, Lat: c.Lat, Lng: c.Lng})
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var _ Resolver = (*Matcher)(nil)
