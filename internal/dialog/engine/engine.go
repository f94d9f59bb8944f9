// Package engine drives the slot-filling dialog: one entry point per user
// message, with the state machine, command handling and analysis hand-off
// behind it.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dataground/geochat/server/internal/dialog/command"
	"github.com/dataground/geochat/server/internal/dialog/exec"
	"github.com/dataground/geochat/server/internal/dialog/extract"
	"github.com/dataground/geochat/server/internal/dialog/intent"
	"github.com/dataground/geochat/server/internal/dialog/model"
	"github.com/dataground/geochat/server/internal/dialog/store"
	logx "github.com/dataground/geochat/server/pkg/logger"
)

const (
	collectionErrorMessage = "An error occurred during parameter collection. Please try again."
	duplicateMessage       = "The same request is already being processed. Please wait a moment."

	newChatGreeting = "Hello! I'm the DataGround geospatial analysis system. How can I help you with your analysis?\n\n" +
		"Supported analyses:\n" +
		"- Sea level rise risk analysis\n" +
		"- Urban area analysis\n" +
		"- Infrastructure exposure analysis\n" +
		"- Topic modeling analysis"

	generalChatReply = "Hello! How can I help you today? I can assist you with:\n\n" +
		"• Sea level rise risk analysis\n" +
		"• Urban area analysis\n" +
		"• Infrastructure exposure analysis\n" +
		"• Topic modeling analysis\n\n" +
		"Just let me know what you'd like to analyze!"
)

// Confirmation vocabularies, checked by substring with affirmatives first so
// a mixed reply like "yes, no problem" confirms.
var (
	affirmatives = []string{"yes", "y", "응", "그래", "맞아", "맞다", "맞습니다", "네", "좋아", "ok", "okay"}
	negatives    = []string{"no", "n", "아니", "아니다", "아니요", "아닙니다", "틀렸", "다시", "취소"}
)

// Engine processes user messages against per-user conversation state.
type Engine struct {
	store     store.StateStore
	detector  intent.Detector
	collector *extract.Collector
	executor  exec.Executor // optional; nil means trigger-only responses

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New wires an engine. executor may be nil; analyses are then announced to
// the dashboard without calling the analysis API.
func New(st store.StateStore, detector intent.Detector, collector *extract.Collector, executor exec.Executor) *Engine {
	return &Engine{
		store:     st,
		detector:  detector,
		collector: collector,
		executor:  executor,
		inflight:  make(map[string]struct{}),
	}
}

// ProcessMessage handles one user turn. isNewChat forces a full state reset
// before the message is interpreted. The returned error is reserved for
// store failures; dialog-level problems come back inside the response.
func (e *Engine) ProcessMessage(ctx context.Context, userID, message string, isNewChat bool) (*model.TurnResponse, error) {
	inflightKey := userID + "\x00" + message
	if !e.begin(inflightKey) {
		logx.Debug().Str("user_id", userID).Msg("duplicate in-flight message dropped")
		return &model.TurnResponse{Message: duplicateMessage, Status: model.TurnStatusDuplicate}, nil
	}
	defer e.end(inflightKey)

	var resp *model.TurnResponse
	err := e.store.Mutate(ctx, userID, func(st *model.ConversationState) error {
		resp = e.processTurn(ctx, st, message, isNewChat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (e *Engine) begin(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[key]; busy {
		return false
	}
	e.inflight[key] = struct{}{}
	return true
}

func (e *Engine) end(key string) {
	e.mu.Lock()
	delete(e.inflight, key)
	e.mu.Unlock()
}

func (e *Engine) processTurn(ctx context.Context, st *model.ConversationState, message string, isNewChat bool) *model.TurnResponse {
	if isNewChat {
		st.FullReset()
	}

	if cmd := command.Parse(message); cmd != nil {
		return command.Execute(cmd, st)
	}

	st.AppendContext(model.RoleUser, message)

	logx.Debug().
		Str("status", string(st.Status)).
		Str("analysis_type", string(st.AnalysisType)).
		Msg("processing turn")

	switch st.Status {
	case model.StatusCollecting:
		return e.handleParameterCollection(ctx, st, message)
	case model.StatusAwaitingConfirmation:
		return e.handleConfirmation(ctx, st, message)
	default:
		return e.handleNewRequest(ctx, st, message, isNewChat)
	}
}

func (e *Engine) handleNewRequest(ctx context.Context, st *model.ConversationState, message string, isNewChat bool) *model.TurnResponse {
	analysisType, found, err := e.detector.Detect(ctx, message)
	if err != nil {
		logx.Error().Err(err).Msg("intent detection failed")
		return &model.TurnResponse{Message: collectionErrorMessage, Status: model.TurnStatusError}
	}

	if !found {
		reply := generalChatReply
		if isNewChat {
			reply = newChatGreeting
		}
		st.AppendContext(model.RoleAssistant, reply)
		return &model.TurnResponse{Message: reply, Status: model.TurnStatusGeneralChat}
	}

	fresh := model.NewParamSet()
	result, err := e.collector.Collect(ctx, message, analysisType, &fresh)
	if err != nil {
		logx.Error().Err(err).Str("analysis_type", string(analysisType)).Msg("parameter collection failed")
		return &model.TurnResponse{Message: collectionErrorMessage, Status: model.TurnStatusError}
	}

	st.AnalysisType = analysisType
	st.Params = result.Params

	if result.NeedsMoreInfo {
		st.Status = model.StatusCollecting
		reply := fmt.Sprintf("Yes, I'll help you with %s analysis! %s",
			analysisType.Spoken(), e.collector.FirstQuestion(result.Validation.Missing, analysisType))
		st.AppendContext(model.RoleAssistant, reply)
		return &model.TurnResponse{
			Message:            reply,
			Status:             model.TurnStatusCollecting,
			AnalysisType:       analysisType,
			NeedsClarification: true,
		}
	}

	// Everything arrived in one message; skip confirmation.
	return e.executeAnalysis(ctx, st)
}

func (e *Engine) handleParameterCollection(ctx context.Context, st *model.ConversationState, message string) *model.TurnResponse {
	result, err := e.collector.Collect(ctx, message, st.AnalysisType, &st.Params)
	if err != nil {
		logx.Error().Err(err).Str("analysis_type", string(st.AnalysisType)).Msg("parameter collection failed")
		return &model.TurnResponse{Message: collectionErrorMessage, Status: model.TurnStatusError}
	}

	st.Params = result.Params

	if !st.Params.HasLocation() && st.Params.Diagnostics.HasSuggestion() {
		reply := st.Params.Diagnostics.SuggestionMessage
		st.AppendContext(model.RoleAssistant, reply)
		return &model.TurnResponse{
			Message:            reply,
			Status:             model.TurnStatusCollecting,
			AnalysisType:       st.AnalysisType,
			NeedsClarification: true,
			Suggestion:         true,
		}
	}

	if result.NeedsMoreInfo {
		reply := parameterSummary(st.AnalysisType, st.Params) + "\n\n" +
			e.collector.FirstQuestion(result.Validation.Missing, st.AnalysisType)
		st.AppendContext(model.RoleAssistant, reply)
		return &model.TurnResponse{
			Message:            reply,
			Status:             model.TurnStatusCollecting,
			AnalysisType:       st.AnalysisType,
			NeedsClarification: true,
		}
	}

	return e.askConfirmation(st)
}

func (e *Engine) askConfirmation(st *model.ConversationState) *model.TurnResponse {
	st.Status = model.StatusAwaitingConfirmation
	reply := parameterSummary(st.AnalysisType, st.Params) + "\n\nIs this information correct? (yes/no)"
	st.AppendContext(model.RoleAssistant, reply)
	return &model.TurnResponse{
		Message:      reply,
		Status:       model.TurnStatusAwaiting,
		AnalysisType: st.AnalysisType,
	}
}

func (e *Engine) handleConfirmation(ctx context.Context, st *model.ConversationState, message string) *model.TurnResponse {
	lowered := strings.ToLower(strings.TrimSpace(message))

	if containsAny(lowered, affirmatives) {
		return e.executeAnalysis(ctx, st)
	}

	if containsAny(lowered, negatives) {
		analysisType := st.AnalysisType
		st.Status = model.StatusCollecting
		st.Params = model.NewParamSet()
		reply := fmt.Sprintf("Understood! I'll restart the %s analysis. %s",
			analysisType.Spoken(), extract.RestartQuestion(analysisType))
		st.AppendContext(model.RoleAssistant, reply)
		return &model.TurnResponse{
			Message:            reply,
			Status:             model.TurnStatusCollecting,
			AnalysisType:       analysisType,
			NeedsClarification: true,
		}
	}

	return e.askConfirmation(st)
}

func (e *Engine) executeAnalysis(ctx context.Context, st *model.ConversationState) *model.TurnResponse {
	analysisType := st.AnalysisType
	params := st.Params
	manualParams := buildAnalysisParams(analysisType, params)

	updates := []model.DashboardUpdate{{
		Type:         model.DashboardAnalysisTriggered,
		AnalysisType: analysisType,
		Params:       manualParams,
		AutoExecute:  true,
	}}

	if e.executor != nil {
		execUpdates, err := e.executor.Run(ctx, analysisType, params)
		if err != nil {
			// Keep the conversation flowing; the dashboard trigger still
			// lets the user run the analysis manually.
			logx.Error().Err(err).Str("analysis_type", string(analysisType)).Msg("analysis execution failed")
		} else {
			updates = append(updates, execUpdates...)
		}
	}

	reply := completionMessage(analysisType, params)
	st.AppendContext(model.RoleAssistant, reply)

	st.Status = model.StatusIdle
	st.AnalysisType = ""
	st.Params = model.NewParamSet()

	return &model.TurnResponse{
		Message:              reply,
		Status:               model.TurnStatusCompleted,
		AnalysisType:         analysisType,
		RedirectToManual:     true,
		ManualAnalysisParams: manualParams,
		DashboardUpdated:     true,
		DashboardUpdates:     updates,
	}
}

func containsAny(message string, words []string) bool {
	for _, w := range words {
		if strings.Contains(message, w) {
			return true
		}
	}
	return false
}

func paramOrNone(params model.ParamSet, key string) string {
	if v, ok := params.Values[key]; ok && v != nil {
		if f, isFloat := v.(float64); isFloat && f == float64(int(f)) {
			return fmt.Sprintf("%d", int(f))
		}
		return fmt.Sprintf("%v", v)
	}
	return "None"
}

// parameterSummary renders the collected values in the confirmation layout.
func parameterSummary(t model.AnalysisType, params model.ParamSet) string {
	var b strings.Builder
	b.WriteString("Thank you! I've received the following information:\n")

	if t == model.TopicModeling {
		fmt.Fprintf(&b, "Method: %s\n", paramOrNone(params, model.ParamMethod))
		fmt.Fprintf(&b, "Topics: %s", paramOrNone(params, model.ParamNTopics))
		return b.String()
	}

	fmt.Fprintf(&b, "Country: %s\n", paramOrNone(params, model.ParamCountryName))
	fmt.Fprintf(&b, "City: %s\n", paramOrNone(params, model.ParamCityName))

	if t == model.UrbanAnalysis {
		fmt.Fprintf(&b, "Start Year: %s\n", paramOrNone(params, model.ParamStartYear))
		fmt.Fprintf(&b, "End Year: %s\n", paramOrNone(params, model.ParamEndYear))
	} else {
		fmt.Fprintf(&b, "Year: %s\n", paramOrNone(params, model.ParamYear))
	}

	if t.NeedsThreshold() {
		if v, ok := params.Float(model.ParamThreshold); ok {
			fmt.Fprintf(&b, "Sea-level: %gm", v)
		} else {
			b.WriteString("Sea-level: None")
		}
	} else {
		b.WriteString("Sea-level: None")
	}
	return b.String()
}

// buildAnalysisParams flattens the parameter set into the analysis-request
// payload the manual UI and the executor both understand. task, country,
// city and year1 are present for every task, with zero values when the task
// never collected them.
func buildAnalysisParams(t model.AnalysisType, params model.ParamSet) model.AnalysisParams {
	country, _ := params.String(model.ParamCountryName)
	city, _ := params.String(model.ParamCityName)
	out := model.AnalysisParams{
		"task":    string(t),
		"country": country,
		"city":    city,
	}

	if t == model.UrbanAnalysis {
		start, _ := params.Int(model.ParamStartYear)
		end, _ := params.Int(model.ParamEndYear)
		out["year1"] = start
		out["year2"] = end
	} else {
		year, _ := params.Int(model.ParamYear)
		out["year1"] = year
	}

	if t.NeedsThreshold() {
		threshold, _ := params.Float(model.ParamThreshold)
		out["threshold"] = threshold
	}

	if t == model.TopicModeling {
		method, ok := params.String(model.ParamMethod)
		if !ok || method == "" {
			method = "lda"
		}
		nTopics, ok := params.Int(model.ParamNTopics)
		if !ok {
			nTopics = 10
		}
		out["method"] = method
		out["nTopics"] = nTopics
		out["minDf"] = 2.0
		out["maxDf"] = 0.95
		out["ngramRange"] = "1,1"
		out["inputType"] = "text"
		out["textInput"] = ""
		out["files"] = []string{}
	}
	return out
}

// completionMessage is the rich post-execution notice shown in chat.
func completionMessage(t model.AnalysisType, params model.ParamSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ **%s has been automatically executed!**\n\n", t.DisplayName())
	b.WriteString("\U0001F4CB **Analysis Information:**\n")

	if t == model.TopicModeling {
		fmt.Fprintf(&b, "• Method: %s\n", paramOrNone(params, model.ParamMethod))
		fmt.Fprintf(&b, "• Topics: %s\n", paramOrNone(params, model.ParamNTopics))
	} else {
		fmt.Fprintf(&b, "• Country: %s\n", paramOrNone(params, model.ParamCountryName))
		fmt.Fprintf(&b, "• City: %s\n", paramOrNone(params, model.ParamCityName))
		if t == model.UrbanAnalysis {
			fmt.Fprintf(&b, "• Period: %s-%s\n",
				paramOrNone(params, model.ParamStartYear), paramOrNone(params, model.ParamEndYear))
		} else {
			fmt.Fprintf(&b, "• Year: %s\n", paramOrNone(params, model.ParamYear))
		}
		if t.NeedsThreshold() {
			if v, ok := params.Float(model.ParamThreshold); ok {
				fmt.Fprintf(&b, "• Threshold: %gm\n", v)
			}
		}
	}

	b.WriteString("\n\U0001F50D **Analysis results are displayed on the dashboard.**\n")
	b.WriteString("\U0001F4A1 **Tip:** To modify parameters, you can re-analyze in the \"Map\" tab.")
	return b.String()
}
