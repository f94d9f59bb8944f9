package extract

import (
	"context"
	"strings"

	"github.com/dataground/geochat/server/internal/dialog/model"
)

// topicStrategy extracts topic-modeling parameters. No location, year or
// threshold logic applies to this task.
type topicStrategy struct{}

func newTopicStrategy() *topicStrategy {
	return &topicStrategy{}
}

func (s *topicStrategy) Type() model.AnalysisType {
	return model.TopicModeling
}

func (s *topicStrategy) RequiredParams() []string {
	return model.RequiredParams(model.TopicModeling)
}

func (s *topicStrategy) Question(param string) string {
	if q, ok := topicQuestions[param]; ok {
		return q
	}
	return defaultQuestion(param)
}

func (s *topicStrategy) Extract(_ context.Context, message string, _ *model.ParamSet) (model.ParamSet, error) {
	extracted := model.NewParamSet()
	lower := strings.ToLower(message)

	if m, ok := findMethod(lower); ok {
		extracted.Set(model.ParamMethod, m)
	}
	if n, ok := findNTopics(lower); ok {
		extracted.Set(model.ParamNTopics, n)
	}

	return extracted, nil
}

var _ Strategy = (*topicStrategy)(nil)
