package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectingState() *ConversationState {
	s := NewConversationState()
	s.Status = StatusAwaitingConfirmation
	s.AnalysisType = UrbanAnalysis
	s.Params.Set(ParamCityName, "Seoul")
	s.AppendContext(RoleUser, "urban analysis in Seoul")
	return s
}

func TestFullResetClearsContext(t *testing.T) {
	s := collectingState()
	s.FullReset()

	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, s.AnalysisType)
	assert.Empty(t, s.Params.Values)
	assert.Empty(t, s.Context)
	assert.False(t, s.LastResetTime.IsZero())
}

func TestHomeResetKeepsContext(t *testing.T) {
	s := collectingState()
	s.HomeReset()

	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, s.Params.Values)
	assert.Len(t, s.Context, 1)
}

func TestStepBackPreservesAnalysisType(t *testing.T) {
	s := collectingState()
	s.StepBack()

	assert.Equal(t, StatusCollecting, s.Status)
	assert.Equal(t, UrbanAnalysis, s.AnalysisType)
	assert.Empty(t, s.Params.Values)
}

func TestClearParamsFromIdleStaysIdle(t *testing.T) {
	s := NewConversationState()
	s.Params.Set(ParamCityName, "Seoul")
	s.ClearParams()

	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, s.Params.Values)
}
