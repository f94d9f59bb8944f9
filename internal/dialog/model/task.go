package model

// AnalysisType identifies one of the structured analysis tasks the assistant
// can configure. The set is closed; adding a task means adding a constant
// here plus an extraction strategy for it.
type AnalysisType string

const (
	SeaLevelRise           AnalysisType = "sea_level_rise"
	UrbanAnalysis          AnalysisType = "urban_analysis"
	InfrastructureAnalysis AnalysisType = "infrastructure_analysis"
	TopicModeling          AnalysisType = "topic_modeling"
)

// AllAnalysisTypes lists the known tasks in presentation order.
func AllAnalysisTypes() []AnalysisType {
	return []AnalysisType{SeaLevelRise, UrbanAnalysis, InfrastructureAnalysis, TopicModeling}
}

// ParseAnalysisType resolves a raw label to a known task type.
func ParseAnalysisType(s string) (AnalysisType, bool) {
	t := AnalysisType(s)
	switch t {
	case SeaLevelRise, UrbanAnalysis, InfrastructureAnalysis, TopicModeling:
		return t, true
	}
	return "", false
}

// DisplayName returns the human-readable analysis name used in completion
// messages.
func (t AnalysisType) DisplayName() string {
	switch t {
	case SeaLevelRise:
		return "Sea Level Rise Risk Analysis"
	case UrbanAnalysis:
		return "Urban Area Analysis"
	case InfrastructureAnalysis:
		return "Infrastructure Exposure Analysis"
	case TopicModeling:
		return "Topic Modeling Analysis"
	}
	return string(t)
}

// Spoken returns the task name as spoken in dialog lead-ins, e.g.
// "urban analysis" for urban_analysis.
func (t AnalysisType) Spoken() string {
	out := make([]byte, len(t))
	for i := 0; i < len(t); i++ {
		if t[i] == '_' {
			out[i] = ' '
		} else {
			out[i] = t[i]
		}
	}
	return string(out)
}

// NeedsThreshold reports whether the task carries a sea-level threshold
// parameter in its execution payload.
func (t AnalysisType) NeedsThreshold() bool {
	switch t {
	case SeaLevelRise, UrbanAnalysis, InfrastructureAnalysis:
		return true
	}
	return false
}

// RequiredParams returns the required parameter names for a task, in the
// order they are collected and reported missing.
func RequiredParams(t AnalysisType) []string {
	switch t {
	case SeaLevelRise, InfrastructureAnalysis:
		return []string{ParamCountryName, ParamCityName, ParamYear, ParamThreshold}
	case UrbanAnalysis:
		return []string{ParamCountryName, ParamCityName, ParamStartYear, ParamEndYear, ParamThreshold}
	case TopicModeling:
		return []string{ParamMethod, ParamNTopics}
	}
	return nil
}

// Value domains shared by extraction and validation.
const (
	MinYear = 2000
	MaxYear = 2024

	MinThreshold = 0.5
	MaxThreshold = 5.0

	MinTopics = 2
	MaxTopics = 20
)

// ValidYear reports whether y lies in the accepted year domain.
func ValidYear(y int) bool {
	return y >= MinYear && y <= MaxYear
}

// ValidThreshold reports whether v lies in the accepted threshold domain,
// boundaries included.
func ValidThreshold(v float64) bool {
	return v >= MinThreshold && v <= MaxThreshold
}
