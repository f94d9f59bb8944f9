package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dataground/geochat/server/internal/core"
	"github.com/dataground/geochat/server/internal/dialog/engine"
	"github.com/dataground/geochat/server/internal/dialog/exec"
	"github.com/dataground/geochat/server/internal/dialog/extract"
	"github.com/dataground/geochat/server/internal/dialog/intent"
	"github.com/dataground/geochat/server/internal/dialog/location"
	"github.com/dataground/geochat/server/internal/dialog/model"
	"github.com/dataground/geochat/server/internal/dialog/store"
	logx "github.com/dataground/geochat/server/pkg/logger"
	pkgredis "github.com/dataground/geochat/server/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig defines all configurable parameters for the dialog example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider; leave the key empty to run on keyword detection only.
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Dialog configs
	Intent       model.IntentModelConfig
	Location     model.LocationConfig
	Conversation model.ConversationConfig
	AnalysisAPI  model.AnalysisAPIConfig
}

func main() {
	fmt.Println("Testing DataGround dialog engine...")
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	stateStore := store.NewRedisStore(rdb, ttl)

	cities, err := location.LoadCSV(envCfg.Location.CitiesCSV)
	if err != nil {
		log.Fatalf("Failed to load cities CSV '%s': %v", envCfg.Location.CitiesCSV, err)
	}
	matcher := location.NewMatcher(cities, envCfg.Location.SuggestionThreshold)
	fmt.Printf("Loaded %d cities\n", len(cities))

	var detector intent.Detector = intent.NewKeywordDetector()
	if envCfg.APIKey != "" {
		detector, err = intent.NewGeminiDetector(ctx, intent.GeminiDetectorConfig{
			APIKey:  envCfg.APIKey,
			BaseURL: envCfg.BaseURL,
			Model:   envCfg.Intent,
		})
		if err != nil {
			log.Fatalf("Failed to build Gemini intent detector: %v", err)
		}
	}

	eng := engine.New(
		stateStore,
		detector,
		extract.NewCollector(matcher),
		exec.NewHTTPExecutor(envCfg.AnalysisAPI),
	)

	testTurns := []struct {
		description string
		message     string
		isNewChat   bool
	}{
		{
			description: "Greeting on a fresh chat",
			message:     "hello there",
			isNewChat:   true,
		},
		{
			description: "Sea level rise request with city and year",
			message:     "I want a sea level rise analysis for Busan in 2020",
		},
		{
			description: "Supply the missing threshold",
			message:     "2 meters",
		},
		{
			description: "Confirm the collected parameters",
			message:     "yes",
		},
		{
			description: "Check status with a command",
			message:     "/status",
		},
	}

	userID := "test-user-123451"

	for i, turn := range testTurns {
		fmt.Printf("\n🚀 Turn %d: %s\n", i+1, turn.description)
		fmt.Printf("Message: \"%s\"\n", turn.message)
		fmt.Println("Processing...")

		resp, err := eng.ProcessMessage(ctx, userID, turn.message, turn.isNewChat)
		if err != nil {
			log.Fatalf("Failed to process turn %d: %v", i+1, err)
		}

		fmt.Printf("✅ Response %d [%s]: %s\n", i+1, resp.Status, resp.Message)
		if len(resp.DashboardUpdates) > 0 {
			fmt.Printf("Dashboard updates: %d\n", len(resp.DashboardUpdates))
		}
		fmt.Println("─────────────────────────────────────────────")

		// slight delay between turns for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("\nAll turns completed")
}
