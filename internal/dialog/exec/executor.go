// Package exec calls the backend analysis API once a parameter set has been
// confirmed.
package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dataground/geochat/server/internal/dialog/geo"
	"github.com/dataground/geochat/server/internal/dialog/model"
	logx "github.com/dataground/geochat/server/pkg/logger"
)

// Executor runs a confirmed analysis and returns dashboard updates describing
// the result.
type Executor interface {
	Run(ctx context.Context, analysisType model.AnalysisType, params model.ParamSet) ([]model.DashboardUpdate, error)
}

// Default point used when a parameter set carries no coordinates.
var defaultCoordinates = model.Coordinates{Lat: 35.18, Lng: 129.075}

// HTTPExecutor issues analysis requests against the DataGround analysis API.
type HTTPExecutor struct {
	baseURL string
	client  *http.Client
}

// NewHTTPExecutor builds an executor from config.
func NewHTTPExecutor(cfg model.AnalysisAPIConfig) *HTTPExecutor {
	return &HTTPExecutor{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

func (e *HTTPExecutor) Run(ctx context.Context, analysisType model.AnalysisType, params model.ParamSet) ([]model.DashboardUpdate, error) {
	switch analysisType {
	case model.TopicModeling:
		return e.runTopicModeling(ctx, params)
	case model.SeaLevelRise, model.UrbanAnalysis, model.InfrastructureAnalysis:
		return e.runSpatial(ctx, analysisType, params)
	default:
		return nil, fmt.Errorf("unsupported analysis type: %s", analysisType)
	}
}

func spatialEndpoint(t model.AnalysisType) string {
	switch t {
	case model.SeaLevelRise:
		return "/analysis/sea-level-rise"
	case model.UrbanAnalysis:
		return "/analysis/urban-area-comprehensive-stats"
	default:
		return "/analysis/infrastructure-exposure"
	}
}

func (e *HTTPExecutor) runSpatial(ctx context.Context, analysisType model.AnalysisType, params model.ParamSet) ([]model.DashboardUpdate, error) {
	coords := defaultCoordinates
	if c, ok := params.Coords(); ok {
		coords = c
	}
	bbox := geo.CalculateBBox(coords, geo.StandardBuffer(analysisType))

	q := url.Values{}
	q.Set("min_lat", fmt.Sprintf("%g", bbox.MinLat))
	q.Set("min_lon", fmt.Sprintf("%g", bbox.MinLon))
	q.Set("max_lat", fmt.Sprintf("%g", bbox.MaxLat))
	q.Set("max_lon", fmt.Sprintf("%g", bbox.MaxLon))
	if analysisType == model.SeaLevelRise {
		threshold, _ := params.Float(model.ParamThreshold)
		q.Set("threshold", fmt.Sprintf("%g", threshold))
	}

	reqURL := e.baseURL + spatialEndpoint(analysisType) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	data, err := e.do(req)
	if err != nil {
		return nil, err
	}

	logx.Info().
		Str("analysis_type", string(analysisType)).
		Str("endpoint", spatialEndpoint(analysisType)).
		Msg("analysis request completed")
	return []model.DashboardUpdate{{
		Type:         model.DashboardMapUpdate,
		AnalysisType: analysisType,
		Data:         data,
		Center:       []float64{coords.Lng, coords.Lat},
		Zoom:         10,
	}}, nil
}

func (e *HTTPExecutor) runTopicModeling(ctx context.Context, params model.ParamSet) ([]model.DashboardUpdate, error) {
	method, _ := params.String(model.ParamMethod)
	nTopics, _ := params.Int(model.ParamNTopics)

	body, err := json.Marshal(map[string]interface{}{
		"method":   method,
		"n_topics": nTopics,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/analysis/topic-modeling", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := e.do(req)
	if err != nil {
		return nil, err
	}

	logx.Info().
		Str("analysis_type", string(model.TopicModeling)).
		Str("endpoint", "/analysis/topic-modeling").
		Msg("analysis request completed")
	return []model.DashboardUpdate{{
		Type:         model.DashboardChartUpdate,
		AnalysisType: model.TopicModeling,
		Data:         data,
		ChartType:    "topic_distribution",
	}}, nil
}

func (e *HTTPExecutor) do(req *http.Request) (map[string]interface{}, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("analysis API read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis API returned status %d", resp.StatusCode)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("analysis API response decode failed: %w", err)
	}
	return data, nil
}
