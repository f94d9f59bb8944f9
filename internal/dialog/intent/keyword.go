package intent

import (
	"context"
	"strings"

	"github.com/dataground/geochat/server/internal/dialog/model"
	logx "github.com/dataground/geochat/server/pkg/logger"
)

// keywordTable maps each task to the substrings that trigger it. The order
// of the outer slice is the tie-break: the first task with a hit wins.
var keywordTable = []struct {
	taskType model.AnalysisType
	keywords []string
}{
	{model.SeaLevelRise, []string{
		"sea level", "slr", "sea level rise",
		"해수면", "해수면 상승", "해수면 상승 위험", "해수면 상승 분석",
	}},
	{model.UrbanAnalysis, []string{
		"urban", "urban analysis",
		"도시", "도시지역", "도시 분석", "도시 지역 분석", "도시 확장", "도시화",
	}},
	{model.InfrastructureAnalysis, []string{
		"infrastructure", "infrastructure exposure",
		"인프라", "인프라 노출", "인프라 분석", "인프라 노출 분석",
	}},
	{model.TopicModeling, []string{
		"topic modeling", "topic analysis",
		"토픽", "토픽 모델링", "토픽 분석", "텍스트 분석",
	}},
}

// KeywordDetector is the deterministic default detector.
type KeywordDetector struct{}

func NewKeywordDetector() *KeywordDetector {
	return &KeywordDetector{}
}

func (d *KeywordDetector) Detect(_ context.Context, message string) (model.AnalysisType, bool, error) {
	lower := strings.ToLower(message)
	for _, row := range keywordTable {
		for _, kw := range row.keywords {
			if strings.Contains(lower, kw) {
				logx.Debug().Str("intent", string(row.taskType)).Str("keyword", kw).Msg("intent matched")
				return row.taskType, true, nil
			}
		}
	}
	return "", false, nil
}

var _ Detector = (*KeywordDetector)(nil)
