package extract

import (
	"fmt"

	"github.com/dataground/geochat/server/internal/dialog/model"
)

// Question wording follows the manual analysis UI, including its year-range
// examples.
const (
	questionCountry   = "Which country would you like to analyze? (e.g., South Korea, United States)"
	questionCity      = "Which city would you like to analyze? (e.g., Seoul, Busan, New York)"
	questionYear      = "What year would you like to analyze? (2001-2020) (e.g., 2020, 2018)"
	questionStartYear = "Please enter the start year (2001-2020) (e.g., 2014, 2015)"
	questionEndYear   = "Please enter the end year (2001-2020) (e.g., 2020, 2019)"
	questionThreshold = "Please set the sea level rise threshold (e.g., 2.0m, 1.5m)"
	questionMethod    = "Which method would you like to use? (lda, nmf, bertopic)"
	questionNTopics   = "How many topics would you like to analyze? (e.g., 10, 15)"
)

// locationQuestions covers the three location-based tasks; the urban range
// keys replace the single year key there.
var locationQuestions = map[string]string{
	model.ParamCountryName: questionCountry,
	model.ParamCityName:    questionCity,
	model.ParamYear:        questionYear,
	model.ParamStartYear:   questionStartYear,
	model.ParamEndYear:     questionEndYear,
	model.ParamThreshold:   questionThreshold,
}

var topicQuestions = map[string]string{
	model.ParamMethod:  questionMethod,
	model.ParamNTopics: questionNTopics,
}

// defaultQuestion is the fallback for a parameter without a task template.
func defaultQuestion(param string) string {
	return fmt.Sprintf("Please provide %s information.", param)
}

// RestartQuestion is the opening question after a user rejects a
// confirmation summary.
func RestartQuestion(t model.AnalysisType) string {
	if t == model.TopicModeling {
		return questionMethod
	}
	if t == model.UrbanAnalysis {
		return questionStartYear
	}
	return questionYear
}
