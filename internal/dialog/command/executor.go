package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dataground/geochat/server/internal/dialog/model"
	logx "github.com/dataground/geochat/server/pkg/logger"
)

var resetMessages = map[Type]string{
	FullReset:      "Chat has been reset. How can I help you with your analysis?",
	Home:           "Welcome back! What would you like to analyze?",
	StepBack:       "Returned to the previous step.",
	ParameterReset: "Parameters have been cleared. Let's start collecting them again.",
}

// Execute runs a parsed command against the user's state and produces the
// turn response. Help and status never mutate state; the reset variants do.
func Execute(cmd *Command, state *model.ConversationState) *model.TurnResponse {
	logx.Debug().Str("command", string(cmd.Type)).Msg("executing command")

	switch cmd.Type {
	case Help:
		return &model.TurnResponse{Message: HelpMessage(), Status: model.TurnStatusCommandHelp}
	case Status:
		return &model.TurnResponse{Message: statusMessage(state), Status: model.TurnStatusCommandStatus}
	case FullReset, Home, StepBack, ParameterReset:
		return executeReset(cmd.Type, state)
	}

	return &model.TurnResponse{
		Message: fmt.Sprintf("Unknown command: %s", cmd.OriginalMessage),
		Status:  model.TurnStatusError,
	}
}

func executeReset(t Type, state *model.ConversationState) *model.TurnResponse {
	switch t {
	case FullReset:
		state.FullReset()
	case Home:
		state.HomeReset()
	case StepBack:
		state.StepBack()
	case ParameterReset:
		state.ClearParams()
	}

	// Recorded after the reset so it survives a cleared context.
	state.AppendContext(model.RoleUser, "Command: "+string(t))

	return &model.TurnResponse{
		Message:   resetMessages[t],
		Status:    model.TurnStatusCommandReset,
		ResetType: string(t),
	}
}

// statusMessage renders the dialog state. Diagnostics live outside the value
// map, so collected parameters need no key filtering.
func statusMessage(state *model.ConversationState) string {
	analysisType := "None"
	if state.AnalysisType != "" {
		analysisType = string(state.AnalysisType)
	}

	paramsText := "None"
	if len(state.Params.Values) > 0 {
		keys := make([]string, 0, len(state.Params.Values))
		for k := range state.Params.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			items = append(items, fmt.Sprintf("%s: %v", k, state.Params.Values[k]))
		}
		paramsText = strings.Join(items, ", ")
	}

	return fmt.Sprintf("Current analysis type: %s\nStatus: %s\nCollected parameters: %s",
		analysisType, state.Status, paramsText)
}
