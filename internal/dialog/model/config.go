package model

// ================ Config ================

type ConversationConfig struct {
	// TTL applied by the Redis state store on every touch; in-memory stores
	// ignore it.
	TTL string `envconfig:"CONVERSATION_TTL" default:"24h"`
}

type IntentModelConfig struct {
	Model       string  `envconfig:"INTENT_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"INTENT_MAX_TOKENS" default:"64"`
	Temperature float32 `envconfig:"INTENT_TEMPERATURE" default:"0.0"`
}

type LocationConfig struct {
	CitiesCSV           string  `envconfig:"LOCATION_CITIES_CSV" default:"worldcities.csv"`
	SuggestionThreshold float64 `envconfig:"LOCATION_SUGGESTION_THRESHOLD" default:"0.8"`
}

type AnalysisAPIConfig struct {
	BaseURL string `envconfig:"ANALYSIS_API_BASE_URL" default:"http://localhost:8000"`
	// Timeout in seconds for one analysis call.
	Timeout int `envconfig:"ANALYSIS_API_TIMEOUT" default:"60"`
}
