package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/dataground/geochat/server/internal/dialog/model"
	logx "github.com/dataground/geochat/server/pkg/logger"
)

const geminiIntentPrompt = `You classify a user message for a geospatial analysis assistant.
Answer with exactly one of these labels and nothing else:
sea_level_rise, urban_analysis, infrastructure_analysis, topic_modeling, none

Use "none" when the message does not request any of those analyses.`

// GeminiDetectorConfig holds everything needed to construct the LLM detector.
type GeminiDetectorConfig struct {
	APIKey  string
	BaseURL string
	Model   model.IntentModelConfig
}

// GeminiDetector classifies intent with a Gemini chat model. Responses that
// are not one of the known labels are treated as "none", never as errors.
type GeminiDetector struct {
	chatModel *gemini.ChatModel
	modelName string
}

// NewGeminiDetector builds the genai client and the chat model.
func NewGeminiDetector(ctx context.Context, cfg GeminiDetectorConfig) (*GeminiDetector, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model.Model,
		Temperature: &cfg.Model.Temperature,
		MaxTokens:   &cfg.Model.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating intent model")
		return nil, fmt.Errorf("error creating intent model: %w", err)
	}

	return &GeminiDetector{chatModel: chatModel, modelName: cfg.Model.Model}, nil
}

func (d *GeminiDetector) Detect(ctx context.Context, message string) (model.AnalysisType, bool, error) {
	out, err := d.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(geminiIntentPrompt),
		schema.UserMessage(message),
	})
	if err != nil {
		return "", false, fmt.Errorf("intent model generate: %w", err)
	}
	if out == nil {
		return "", false, nil
	}

	label := strings.ToLower(strings.TrimSpace(out.Content))
	logx.Debug().Str("model", d.modelName).Str("label", label).Msg("intent classified")

	taskType, ok := model.ParseAnalysisType(label)
	if !ok {
		return "", false, nil
	}
	return taskType, true, nil
}

var _ Detector = (*GeminiDetector)(nil)
