package model

import "time"

// Status is the dialog phase for one user.
type Status string

const (
	StatusIdle                 Status = "idle"
	StatusCollecting           Status = "collecting_parameters"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
)

// Role tags a conversation context entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContextEntry is one turn of the append-only conversation context.
type ContextEntry struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState is the per-user dialog record. It is created lazily on a
// user's first message and mutated in place by the engine and the command
// executor; it is never deleted, only reset.
type ConversationState struct {
	Status        Status            `json:"status"`
	AnalysisType  AnalysisType      `json:"analysis_type,omitempty"`
	Params        ParamSet          `json:"params"`
	Context       []ContextEntry    `json:"context"`
	LastResetTime time.Time         `json:"last_reset_time,omitempty"`
}

// NewConversationState returns the default idle state.
func NewConversationState() *ConversationState {
	return &ConversationState{
		Status: StatusIdle,
		Params: NewParamSet(),
	}
}

// Clone returns an independent copy of the state for read-only snapshots.
func (s *ConversationState) Clone() *ConversationState {
	out := &ConversationState{
		Status:        s.Status,
		AnalysisType:  s.AnalysisType,
		Params:        s.Params.Clone(),
		LastResetTime: s.LastResetTime,
	}
	if s.Context != nil {
		out.Context = make([]ContextEntry, len(s.Context))
		copy(out.Context, s.Context)
	}
	return out
}

// AppendContext records one context entry stamped with the current time.
func (s *ConversationState) AppendContext(role Role, content string) {
	s.Context = append(s.Context, ContextEntry{Role: role, Content: content, Timestamp: time.Now().UTC()})
}

// FullReset returns the state to idle and clears everything, including the
// conversation context, stamping the reset time.
func (s *ConversationState) FullReset() {
	s.Status = StatusIdle
	s.AnalysisType = ""
	s.Params = NewParamSet()
	s.Context = nil
	s.LastResetTime = time.Now().UTC()
}

// HomeReset is a full reset that preserves the conversation context.
func (s *ConversationState) HomeReset() {
	s.Status = StatusIdle
	s.AnalysisType = ""
	s.Params = NewParamSet()
	s.LastResetTime = time.Now().UTC()
}

// StepBack clears collected parameters and demotes a pending confirmation
// back to collection. The analysis type is preserved.
func (s *ConversationState) StepBack() {
	s.Params = NewParamSet()
	if s.Status == StatusAwaitingConfirmation {
		s.Status = StatusCollecting
	}
}

// ClearParams clears collected parameters; an active collection or
// confirmation phase lands back in collection.
func (s *ConversationState) ClearParams() {
	s.Params = NewParamSet()
	if s.Status == StatusCollecting || s.Status == StatusAwaitingConfirmation {
		s.Status = StatusCollecting
	}
}
