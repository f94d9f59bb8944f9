package extract

import (
	"regexp"
	"strconv"

	"github.com/dataground/geochat/server/internal/dialog/model"
)

// Pattern tables ported from the manual parameter form's accepted phrasings.
// Each list is tried in order; a candidate is accepted only when it lies in
// the valid domain, otherwise the next pattern gets a chance.

var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})`),
	regexp.MustCompile(`year\s*:?\s*(\d{4})`),
	regexp.MustCompile(`in\s+(\d{4})`),
	regexp.MustCompile(`(\d{4})\s*year`),
	regexp.MustCompile(`(\d{4})\s*년`),
}

var yearRangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})\s*[-~]\s*(\d{4})`),
	regexp.MustCompile(`(\d{4})\s+to\s+(\d{4})`),
	regexp.MustCompile(`(\d{4})\s*부터\s*(\d{4})\s*까지`),
	regexp.MustCompile(`from\s+(\d{4})\s+to\s+(\d{4})`),
}

var thresholdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:meters|meter|m|미터)`),
	regexp.MustCompile(`threshold\s*:?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m\s*threshold`),
}

var methodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(lda|nmf|bertopic)\b`),
	regexp.MustCompile(`method\s*:?\s*(lda|nmf|bertopic)`),
}

var nTopicsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*(?:topics|topic)`),
	regexp.MustCompile(`n_topics\s*:?\s*(\d+)`),
}

// findYear returns the first in-domain four-digit year in the message.
func findYear(lower string) (int, bool) {
	for _, p := range yearPatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		y, err := strconv.Atoi(m[1])
		if err == nil && model.ValidYear(y) {
			return y, true
		}
	}
	return 0, false
}

// findYearRange returns an in-domain, correctly ordered year range.
func findYearRange(lower string) (start, end int, ok bool) {
	for _, p := range yearRangePatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		s, errS := strconv.Atoi(m[1])
		e, errE := strconv.Atoi(m[2])
		if errS == nil && errE == nil && model.ValidYear(s) && model.ValidYear(e) && s <= e {
			return s, e, true
		}
	}
	return 0, 0, false
}

// findThreshold returns an in-domain sea-level threshold.
func findThreshold(lower string) (float64, bool) {
	for _, p := range thresholdPatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil && model.ValidThreshold(v) {
			return v, true
		}
	}
	return 0, false
}

func findMethod(lower string) (string, bool) {
	for _, p := range methodPatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func findNTopics(lower string) (int, bool) {
	for _, p := range nTopicsPatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= model.MinTopics && n <= model.MaxTopics {
			return n, true
		}
	}
	return 0, false
}
