package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/BrandRap-LLC/scorecards-sub002/core"
	"github.com/BrandRap-LLC/scorecards-sub002/core/algo"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleFormatMetric(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metricKey := request.GetString("metric_key", "")
	value, err := optionalNumber(request.GetArguments(), "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(algo.FormatMetricValue(metricKey, value)), nil
}

func (h *toolHandler) handleColorizeMetric(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	metricKey := request.GetString("metric_key", "")

	value, err := optionalNumber(args, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	comparison, err := numberList(args, "comparison")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	policy := h.baseCfg.AbsentPolicy
	if p := request.GetString("absent_policy", ""); p != "" {
		policy = schema.AbsentPolicy(p)
	}
	if policy == "" {
		policy = contract.DefaultAbsentPolicy
	}
	if _, ok := schema.ValidAbsentPolicies[policy]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid absent policy '%s'. must be median, interpolate", policy)), nil
	}

	report := algo.NewColorizer(policy).Report(metricKey, value, comparison)
	return jsonResult(report)
}

func (h *toolHandler) handleDescribeMetric(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metricKey := request.GetString("metric_key", "")
	if metricKey == "" {
		return jsonResult(algo.MetricCatalog())
	}

	description, _ := schema.DescribeMetric(metricKey)
	return jsonResult(schema.MetricInfo{
		Key:         metricKey,
		Class:       algo.ClassifyMetric(metricKey),
		Inverted:    algo.IsInvertedMetric(metricKey),
		Description: description,
	})
}

func (h *toolHandler) handleGetHeatmapGrid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	input := contract.GridInputs(cfg)
	input.Grain = request.GetString("grain", input.Grain)
	input.Axis = request.GetString("axis", input.Axis)
	input.Period = request.GetString("period", input.Period)
	input.Clinic = request.GetString("clinic", input.Clinic)
	input.TrafficSource = request.GetString("traffic_source", input.TrafficSource)
	input.Metrics = request.GetString("metrics", input.Metrics)
	input.AbsentPolicy = request.GetString("absent_policy", input.AbsentPolicy)
	input.WoW = request.GetBool("wow", input.WoW)
	input.SortBy = request.GetString("sort_by", input.SortBy)
	input.Limit = request.GetInt("limit", input.Limit)

	if err := contract.RevalidateGrid(cfg, input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid grid parameters: %v", err)), nil
	}

	grid, err := core.RenderGrid(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("grid rendering failed: %v", err)), nil
	}
	return jsonResult(grid)
}

func (h *toolHandler) handleGetLegend(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(algo.BuildLegend())
}

// jsonResult wraps data as an indented JSON text result.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// optionalNumber reads a nullable numeric argument. Absent and null both
// mean missing data.
func optionalNumber(args map[string]any, key string) (*float64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	v, ok := raw.(float64)
	if !ok {
		return nil, fmt.Errorf("%s must be a number or null (received %T)", key, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	return &v, nil
}

// numberList reads an array argument of numbers and nulls.
func numberList(args map[string]any, key string) ([]*float64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of numbers (received %T)", key, raw)
	}
	out := make([]*float64, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		v, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a number or null (received %T)", key, i, item)
		}
		out[i] = &v
	}
	return out, nil
}
