package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataground/geochat/server/internal/dialog/extract"
	"github.com/dataground/geochat/server/internal/dialog/location"
	"github.com/dataground/geochat/server/internal/dialog/model"
	"github.com/dataground/geochat/server/internal/dialog/store"
)

type stubDetector struct {
	taskType model.AnalysisType
	found    bool
	err      error
}

func (d *stubDetector) Detect(context.Context, string) (model.AnalysisType, bool, error) {
	return d.taskType, d.found, d.err
}

func testMatcher() *location.Matcher {
	return location.NewMatcher([]location.City{
		{Name: "Seoul", Country: "South Korea", Lat: 37.5665, Lng: 126.978},
		{Name: "Busan", Country: "South Korea", Lat: 35.1796, Lng: 129.0756},
	}, 0.8)
}

func newTestEngine(d *stubDetector) (*Engine, *store.MemoryStore) {
	st := store.NewMemoryStore()
	eng := New(st, d, extract.NewCollector(testMatcher()), nil)
	return eng, st
}

func TestUrbanOneShotGoesStraightToExecution(t *testing.T) {
	eng, st := newTestEngine(&stubDetector{taskType: model.UrbanAnalysis, found: true})
	ctx := context.Background()

	resp, err := eng.ProcessMessage(ctx, "u1",
		"I want urban analysis in Seoul from 2015 to 2020 with 2m threshold", false)
	require.NoError(t, err)

	assert.Equal(t, model.TurnStatusCompleted, resp.Status)
	assert.True(t, resp.RedirectToManual)
	assert.True(t, resp.DashboardUpdated)
	require.NotEmpty(t, resp.DashboardUpdates)
	assert.Equal(t, model.DashboardAnalysisTriggered, resp.DashboardUpdates[0].Type)

	p := resp.ManualAnalysisParams
	assert.Equal(t, string(model.UrbanAnalysis), p["task"])
	assert.Equal(t, "Seoul", p["city"])
	assert.Equal(t, "South Korea", p["country"])
	assert.Equal(t, 2015, p["year1"])
	assert.Equal(t, 2020, p["year2"])
	assert.Equal(t, 2.0, p["threshold"])

	// execution resets the dialog
	state, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusIdle, state.Status)
	assert.Empty(t, state.AnalysisType)
	assert.Empty(t, state.Params.Values)
}

func TestSeaLevelCollectionFlow(t *testing.T) {
	eng, st := newTestEngine(&stubDetector{taskType: model.SeaLevelRise, found: true})
	ctx := context.Background()

	resp, err := eng.ProcessMessage(ctx, "u1", "sea level rise analysis for South Korea", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusCollecting, resp.Status)
	assert.True(t, resp.NeedsClarification)
	assert.Contains(t, resp.Message, "Yes, I'll help you with sea level rise analysis!")
	assert.Contains(t, resp.Message, "Which city would you like to analyze?")

	resp, err = eng.ProcessMessage(ctx, "u1", "Busan 2020", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusCollecting, resp.Status)
	assert.Contains(t, resp.Message, "Country: South Korea")
	assert.Contains(t, resp.Message, "City: Busan")
	assert.Contains(t, resp.Message, "Year: 2020")
	assert.Contains(t, resp.Message, "Please set the sea level rise threshold")

	resp, err = eng.ProcessMessage(ctx, "u1", "2 meters", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusAwaiting, resp.Status)
	assert.Contains(t, resp.Message, "Sea-level: 2m")
	assert.Contains(t, resp.Message, "Is this information correct? (yes/no)")

	state, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAwaitingConfirmation, state.Status)

	resp, err = eng.ProcessMessage(ctx, "u1", "yes", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusCompleted, resp.Status)
	assert.Equal(t, 2020, resp.ManualAnalysisParams["year1"])
	assert.Equal(t, 2.0, resp.ManualAnalysisParams["threshold"])
}

func TestTopicPayloadIncludesLocationKeys(t *testing.T) {
	eng, _ := newTestEngine(&stubDetector{taskType: model.TopicModeling, found: true})
	ctx := context.Background()

	resp, err := eng.ProcessMessage(ctx, "u1", "topic modeling with lda and 10 topics", false)
	require.NoError(t, err)
	require.Equal(t, model.TurnStatusCompleted, resp.Status)

	// the flat payload always carries the location keys, zero-valued here
	p := resp.ManualAnalysisParams
	assert.Equal(t, string(model.TopicModeling), p["task"])
	assert.Contains(t, p, "country")
	assert.Contains(t, p, "city")
	assert.Contains(t, p, "year1")
	assert.Equal(t, "", p["country"])
	assert.Equal(t, "", p["city"])
	assert.Equal(t, 0, p["year1"])
	assert.Equal(t, "lda", p["method"])
	assert.Equal(t, 10, p["nTopics"])
	assert.NotContains(t, p, "threshold")
}

func TestConfirmationRejectedRestartsCollection(t *testing.T) {
	eng, st := newTestEngine(&stubDetector{taskType: model.SeaLevelRise, found: true})
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "u1", "sea level rise for Busan in 2020", false)
	require.NoError(t, err)
	_, err = eng.ProcessMessage(ctx, "u1", "2 meters", false)
	require.NoError(t, err)

	state, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, model.StatusAwaitingConfirmation, state.Status)

	resp, err := eng.ProcessMessage(ctx, "u1", "no", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusCollecting, resp.Status)
	assert.Contains(t, resp.Message, "Understood! I'll restart the sea level rise analysis.")

	state, err = st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCollecting, state.Status)
	assert.Empty(t, state.Params.Values)
	assert.Equal(t, model.SeaLevelRise, state.AnalysisType)
}

func TestUnclearConfirmationRepeatsSummary(t *testing.T) {
	eng, _ := newTestEngine(&stubDetector{taskType: model.SeaLevelRise, found: true})
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "u1", "sea level rise for Busan in 2020", false)
	require.NoError(t, err)
	_, err = eng.ProcessMessage(ctx, "u1", "2 meters", false)
	require.NoError(t, err)

	// no affirmative or negative token at all
	resp, err := eng.ProcessMessage(ctx, "u1", "hmm...", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusAwaiting, resp.Status)
	assert.Contains(t, resp.Message, "Is this information correct? (yes/no)")
}

func TestGeneralChatGreetings(t *testing.T) {
	eng, _ := newTestEngine(&stubDetector{found: false})
	ctx := context.Background()

	resp, err := eng.ProcessMessage(ctx, "u1", "hello", true)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusGeneralChat, resp.Status)
	assert.Contains(t, resp.Message, "I'm the DataGround geospatial analysis system")

	resp, err = eng.ProcessMessage(ctx, "u1", "hello again", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusGeneralChat, resp.Status)
	assert.Contains(t, resp.Message, "Just let me know what you'd like to analyze!")
}

func TestDetectorFailureLeavesStateUnchanged(t *testing.T) {
	eng, st := newTestEngine(&stubDetector{err: errors.New("model unavailable")})
	ctx := context.Background()

	resp, err := eng.ProcessMessage(ctx, "u1", "analyze something", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusError, resp.Status)
	assert.Equal(t, collectionErrorMessage, resp.Message)

	state, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusIdle, state.Status)
	assert.Empty(t, state.AnalysisType)
}

func TestStatusCommandThroughEngine(t *testing.T) {
	eng, st := newTestEngine(&stubDetector{taskType: model.SeaLevelRise, found: true})
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "u1", "sea level rise for South Korea", false)
	require.NoError(t, err)
	before, err := st.Get(ctx, "u1")
	require.NoError(t, err)

	resp, err := eng.ProcessMessage(ctx, "u1", "/status", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusCommandStatus, resp.Status)
	assert.Contains(t, resp.Message, "sea_level_rise")
	assert.Contains(t, resp.Message, "collecting_parameters")

	after, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Params.Values, after.Params.Values)
	assert.Len(t, after.Context, len(before.Context))
}

func TestNewChatFlagResetsState(t *testing.T) {
	eng, st := newTestEngine(&stubDetector{taskType: model.SeaLevelRise, found: true})
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "u1", "sea level rise for South Korea", false)
	require.NoError(t, err)
	state, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, model.StatusCollecting, state.Status)

	det := &stubDetector{found: false}
	eng2 := New(st, det, extract.NewCollector(testMatcher()), nil)
	resp, err := eng2.ProcessMessage(ctx, "u1", "hi", true)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusGeneralChat, resp.Status)

	state, err = st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusIdle, state.Status)
	assert.Empty(t, state.Params.Values)
}

func TestSuggestionSurfacedBeforeSummary(t *testing.T) {
	eng, _ := newTestEngine(&stubDetector{taskType: model.SeaLevelRise, found: true})
	ctx := context.Background()

	_, err := eng.ProcessMessage(ctx, "u1", "sea level rise analysis please", false)
	require.NoError(t, err)

	resp, err := eng.ProcessMessage(ctx, "u1", "Soul", false)
	require.NoError(t, err)
	assert.Equal(t, model.TurnStatusCollecting, resp.Status)
	assert.True(t, resp.Suggestion)
	assert.Contains(t, resp.Message, "Did you mean 'Seoul, South Korea'?")
}
