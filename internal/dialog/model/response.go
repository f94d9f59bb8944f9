package model

// Turn response statuses surfaced to the caller.
const (
	TurnStatusGeneralChat   = "general_chat"
	TurnStatusCollecting    = "collecting_parameters"
	TurnStatusAwaiting      = "awaiting_confirmation"
	TurnStatusCompleted     = "analysis_completed"
	TurnStatusError         = "error"
	TurnStatusDuplicate     = "duplicate"
	TurnStatusCommandHelp   = "command_help"
	TurnStatusCommandStatus = "command_status"
	TurnStatusCommandReset  = "command_reset"
)

// Dashboard update kinds.
const (
	DashboardAnalysisTriggered = "analysis_triggered"
	DashboardMapUpdate         = "map_update"
	DashboardChartUpdate       = "chart_update"
)

// AnalysisParams is the flat analysis-request payload handed to the
// execution collaborator and to the manual-analysis UI.
type AnalysisParams map[string]any

// DashboardUpdate is one UI event emitted alongside a turn response.
type DashboardUpdate struct {
	Type         string         `json:"type"`
	AnalysisType AnalysisType   `json:"analysis_type,omitempty"`
	Params       AnalysisParams `json:"params,omitempty"`
	AutoExecute  bool           `json:"auto_execute,omitempty"`
	Data         any            `json:"data,omitempty"`
	Center       []float64      `json:"center,omitempty"`
	Zoom         int            `json:"zoom,omitempty"`
	ChartType    string         `json:"chart_type,omitempty"`
}

// TurnResponse is the full result of processing one user message.
type TurnResponse struct {
	Message              string            `json:"message"`
	Status               string            `json:"status"`
	AnalysisType         AnalysisType      `json:"analysis_type,omitempty"`
	NeedsClarification   bool              `json:"needs_clarification,omitempty"`
	Suggestion           bool              `json:"suggestion,omitempty"`
	ResetType            string            `json:"reset_type,omitempty"`
	RedirectToManual     bool              `json:"redirect_to_manual,omitempty"`
	ManualAnalysisParams AnalysisParams    `json:"manual_analysis_params,omitempty"`
	DashboardUpdated     bool              `json:"dashboard_updated,omitempty"`
	DashboardUpdates     []DashboardUpdate `json:"dashboard_updates,omitempty"`
}
