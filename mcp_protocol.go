package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultLookbackDays = 30

// MCPServer handles the Model Context Protocol communication. Handlers
// return responses rather than writing them, so the stdio and WebSocket
// transports share the same dispatch path.
type MCPServer struct {
	trackerClient *TrackerClient
	analyzer      *PacingAnalyzer
	tools         []MCPTool
	resources     []MCPResource
	initialized   bool
	mu            sync.RWMutex
}

// NewMCPServer creates a new MCP server instance.
func NewMCPServer() (*MCPServer, error) {
	trackerClient, err := NewTrackerClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker client: %w", err)
	}

	return &MCPServer{
		trackerClient: trackerClient,
		analyzer:      NewPacingAnalyzer(),
		tools:         defineMCPTools(),
		resources:     defineMCPResources(),
		initialized:   false,
	}, nil
}

// Run starts the MCP server on stdio and blocks until stdin is closed.
func (s *MCPServer) Run() error {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := scanner.Bytes()

		var request MCPRequest
		if err := json.Unmarshal(line, &request); err != nil {
			s.writeMessage(errorResponse(nil, -32700, "Parse error", err.Error()))
			continue
		}

		s.writeMessage(s.handleRequest(&request))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading from stdin: %w", err)
	}

	return nil
}

// handleRequest processes an incoming MCP request and returns the response.
func (s *MCPServer) handleRequest(request *MCPRequest) *MCPResponse {
	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "tools/list":
		return s.handleToolsList(request)
	case "tools/call":
		return s.handleToolsCall(request)
	case "resources/list":
		return s.handleResourcesList(request)
	case "resources/read":
		return s.handleResourcesRead(request)
	default:
		return errorResponse(request.ID, -32601, "Method not found", fmt.Sprintf("Unknown method: %s", request.Method))
	}
}

// handleInitialize processes the initialize request.
func (s *MCPServer) handleInitialize(request *MCPRequest) *MCPResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.trackerClient.ValidateConnection(); err != nil {
		return errorResponse(request.ID, -32603, "Internal error", fmt.Sprintf("Failed to connect to tracker API: %v", err))
	}

	s.initialized = true

	result := map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "pacing-mcp-server",
			"version": "1.0.0",
		},
	}

	return successResponse(request.ID, result)
}

// handleToolsList returns the list of available tools.
func (s *MCPServer) handleToolsList(request *MCPRequest) *MCPResponse {
	if !s.isInitialized() {
		return errorResponse(request.ID, -32002, "Not initialized", "Server not initialized")
	}

	return successResponse(request.ID, map[string]interface{}{"tools": s.tools})
}

// handleToolsCall executes a tool call.
func (s *MCPServer) handleToolsCall(request *MCPRequest) *MCPResponse {
	if !s.isInitialized() {
		return errorResponse(request.ID, -32002, "Not initialized", "Server not initialized")
	}

	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}

	if err := json.Unmarshal(request.Params, &params); err != nil {
		return errorResponse(request.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return errorResponse(request.ID, -32603, "Internal error", err.Error())
	}

	return successResponse(request.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": result,
			},
		},
	})
}

// handleResourcesList returns the list of available resources.
func (s *MCPServer) handleResourcesList(request *MCPRequest) *MCPResponse {
	if !s.isInitialized() {
		return errorResponse(request.ID, -32002, "Not initialized", "Server not initialized")
	}

	return successResponse(request.ID, map[string]interface{}{"resources": s.resources})
}

// handleResourcesRead reads a specific resource.
func (s *MCPServer) handleResourcesRead(request *MCPRequest) *MCPResponse {
	if !s.isInitialized() {
		return errorResponse(request.ID, -32002, "Not initialized", "Server not initialized")
	}

	var params struct {
		URI string `json:"uri"`
	}

	if err := json.Unmarshal(request.Params, &params); err != nil {
		return errorResponse(request.ID, -32602, "Invalid params", err.Error())
	}

	content, err := s.readResource(params.URI)
	if err != nil {
		return errorResponse(request.ID, -32603, "Internal error", err.Error())
	}

	return successResponse(request.ID, map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"uri":      params.URI,
				"mimeType": "application/json",
				"text":     content,
			},
		},
	})
}

// successResponse builds a successful JSON-RPC response.
func successResponse(id interface{}, result interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

// errorResponse builds an error JSON-RPC response.
func errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// writeMessage writes a message to stdout.
func (s *MCPServer) writeMessage(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	if _, err = fmt.Fprintf(os.Stdout, "%s\n", data); err != nil {
		log.Printf("Error writing message: %v", err)
	}
}

// isInitialized checks if the server is initialized.
func (s *MCPServer) isInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// defineMCPTools defines the available MCP tools.
func defineMCPTools() []MCPTool {
	userIDProp := map[string]interface{}{
		"type":        "string",
		"description": "Tracker user identifier",
	}
	daysProp := map[string]interface{}{
		"type":        "integer",
		"description": "Lookback window in days (default: 30)",
		"minimum":     1,
		"maximum":     90,
	}

	return []MCPTool{
		{
			Name:        "analyze_pacing_needs",
			Description: "Generate ranked, time-bound pacing recommendations from recent energy, symptom, biometric, and activity logs",
			InputSchema: MCPInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"user_id": userIDProp,
					"days":    daysProp,
				},
				Required: []string{"user_id"},
			},
		},
		{
			Name:        "predict_energy_levels",
			Description: "Forecast tomorrow's energy level from recent trend and activity fatigue, with a data-volume confidence score",
			InputSchema: MCPInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"user_id": userIDProp,
					"days":    daysProp,
				},
				Required: []string{"user_id"},
			},
		},
		{
			Name:        "analyze_patterns",
			Description: "Classify the recent energy pattern, surface likely crash triggers, and summarize energy, symptom, and activity-tolerance trends",
			InputSchema: MCPInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"user_id": userIDProp,
					"days":    daysProp,
				},
				Required: []string{"user_id"},
			},
		},
		{
			Name:        "analyze_symptom_correlations",
			Description: "Compute pairwise correlations between logged symptom severities and report the significant pairs",
			InputSchema: MCPInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"user_id": userIDProp,
					"days":    daysProp,
				},
				Required: []string{"user_id"},
			},
		},
		{
			Name:        "adapt_routine",
			Description: "Fit a base routine to the user's current energy and recent fatigue, only ever reducing load",
			InputSchema: MCPInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"user_id": userIDProp,
					"current_energy": map[string]interface{}{
						"type":        "integer",
						"description": "Current self-reported energy level (1-10)",
						"minimum":     1,
						"maximum":     10,
					},
					"recent_fatigue": map[string]interface{}{
						"type":        "integer",
						"description": "Recent fatigue level (1-10)",
						"minimum":     1,
						"maximum":     10,
					},
					"routine": map[string]interface{}{
						"type":        "object",
						"description": "Base routine with named activities, types, durations, and intensities",
					},
				},
				Required: []string{"user_id", "current_energy", "recent_fatigue", "routine"},
			},
		},
	}
}

// defineMCPResources defines the available MCP resources.
func defineMCPResources() []MCPResource {
	return []MCPResource{
		{
			URI:         "pacing://health/recent",
			Name:        "Recent Health Data",
			Description: "Most recent energy, symptom, biometric, and activity logs",
			MimeType:    "application/json",
		},
		{
			URI:         "pacing://guidance/disclaimers",
			Name:        "Guidance Disclaimers",
			Description: "The disclaimers attached to every recommendation",
			MimeType:    "application/json",
		},
	}
}

// executeTool executes a specific tool with the given arguments.
func (s *MCPServer) executeTool(toolName string, arguments json.RawMessage) (string, error) {
	switch toolName {
	case "analyze_pacing_needs":
		return s.executePacingNeedsTool(arguments)
	case "predict_energy_levels":
		return s.executeForecastTool(arguments)
	case "analyze_patterns":
		return s.executePatternsTool(arguments)
	case "analyze_symptom_correlations":
		return s.executeCorrelationsTool(arguments)
	case "adapt_routine":
		return s.executeAdaptRoutineTool(arguments)
	default:
		return "", fmt.Errorf("unknown tool: %s", toolName)
	}
}

// fetchSnapshot pulls one user's snapshot for the requested lookback window.
func (s *MCPServer) fetchSnapshot(userID string, days int) (*UserHealthData, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if days <= 0 {
		days = defaultLookbackDays
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.trackerClient.GetUserHealthData(userID, startDate, endDate)
}

// executePacingNeedsTool implements the pacing recommendations tool.
func (s *MCPServer) executePacingNeedsTool(arguments json.RawMessage) (string, error) {
	var input PacingNeedsInput
	if err := json.Unmarshal(arguments, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	data, err := s.fetchSnapshot(input.UserID, input.Days)
	if err != nil {
		// Guidance must never be "no advice": fall back to the degraded
		// recommendation path instead of failing the tool call.
		log.Printf("snapshot fetch failed, analyzing without data: %v", err)
		data = nil
	}

	recommendations := s.analyzer.AnalyzePacingNeeds(data)
	return formatRecommendations(recommendations), nil
}

// executeForecastTool implements the energy forecast tool.
func (s *MCPServer) executeForecastTool(arguments json.RawMessage) (string, error) {
	var input ForecastInput
	if err := json.Unmarshal(arguments, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	data, err := s.fetchSnapshot(input.UserID, input.Days)
	if err != nil {
		return "", err
	}

	forecast := s.analyzer.PredictEnergyLevels(data)
	return formatForecast(forecast), nil
}

// executePatternsTool implements the pattern analysis tool.
func (s *MCPServer) executePatternsTool(arguments json.RawMessage) (string, error) {
	var input PatternsInput
	if err := json.Unmarshal(arguments, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	data, err := s.fetchSnapshot(input.UserID, input.Days)
	if err != nil {
		return "", err
	}

	analysis := s.analyzer.AnalyzePatterns(data)
	return formatPatternAnalysis(analysis), nil
}

// executeCorrelationsTool implements the symptom correlation tool.
func (s *MCPServer) executeCorrelationsTool(arguments json.RawMessage) (string, error) {
	var input CorrelationsInput
	if err := json.Unmarshal(arguments, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	data, err := s.fetchSnapshot(input.UserID, input.Days)
	if err != nil {
		return "", err
	}

	correlations := s.analyzer.AnalyzeSymptomCorrelations(data.SymptomLogs)
	return formatCorrelations(correlations), nil
}

// executeAdaptRoutineTool implements the routine adaptation tool.
func (s *MCPServer) executeAdaptRoutineTool(arguments json.RawMessage) (string, error) {
	var input AdaptRoutineInput
	if err := json.Unmarshal(arguments, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if input.CurrentEnergy < 1 || input.CurrentEnergy > 10 {
		return "", fmt.Errorf("current_energy must be between 1 and 10")
	}
	if input.RecentFatigue < 1 || input.RecentFatigue > 10 {
		return "", fmt.Errorf("recent_fatigue must be between 1 and 10")
	}

	adapted := s.analyzer.AdaptRoutine(input.Routine, UserState{
		CurrentEnergy: input.CurrentEnergy,
		RecentFatigue: input.RecentFatigue,
	})
	return formatAdaptedRoutine(adapted), nil
}

// readResource reads a specific resource.
func (s *MCPServer) readResource(uri string) (string, error) {
	switch uri {
	case "pacing://health/recent":
		userID := os.Getenv("TRACKER_USER_ID")
		if userID == "" {
			return "", fmt.Errorf("TRACKER_USER_ID environment variable is required for the recent-data resource")
		}

		endDate := time.Now()
		startDate := endDate.AddDate(0, 0, -7)

		data, err := s.trackerClient.GetUserHealthData(userID, startDate, endDate)
		if err != nil {
			return "", fmt.Errorf("failed to get recent data: %w", err)
		}

		payload, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal recent data: %w", err)
		}
		return string(payload), nil

	case "pacing://guidance/disclaimers":
		payload, err := json.MarshalIndent(map[string]interface{}{
			"disclaimers": []string{
				DisclaimerNotMedicalAdvice,
				DisclaimerBiometricConfounds,
			},
		}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal disclaimers: %w", err)
		}
		return string(payload), nil

	default:
		return "", fmt.Errorf("unknown resource URI: %s", uri)
	}
}

// Markdown formatting for tool output.

func formatRecommendations(recommendations []PacingRecommendation) string {
	var builder strings.Builder

	builder.WriteString("# Pacing Recommendations\n\n")

	for i, rec := range recommendations {
		builder.WriteString(fmt.Sprintf("## %d. %s\n", i+1, rec.Title))
		builder.WriteString(fmt.Sprintf("- **Priority:** %s\n", rec.Priority))
		builder.WriteString(fmt.Sprintf("- **Confidence:** %.0f%%\n", rec.Confidence*100))
		builder.WriteString(fmt.Sprintf("- **Valid until:** %s\n\n", rec.ValidUntil.Format(time.RFC1123)))
		builder.WriteString(rec.Message + "\n\n")
		builder.WriteString(fmt.Sprintf("*Why:* %s\n\n", rec.Reasoning))

		if len(rec.ActionItems) > 0 {
			builder.WriteString("**Suggested actions:**\n")
			for _, item := range rec.ActionItems {
				builder.WriteString(fmt.Sprintf("- %s\n", item))
			}
			builder.WriteString("\n")
		}

		for _, disclaimer := range rec.Disclaimers {
			builder.WriteString(fmt.Sprintf("*%s*\n", disclaimer))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

func formatForecast(forecast EnergyForecast) string {
	var builder strings.Builder

	builder.WriteString("# Energy Forecast\n\n")
	builder.WriteString(fmt.Sprintf("- **Forecast date:** %s\n", forecast.ForecastDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("- **Predicted energy level:** %d/10\n", forecast.PredictedEnergyLevel))
	builder.WriteString(fmt.Sprintf("- **Confidence:** %.0f%%\n\n", forecast.Confidence*100))

	builder.WriteString("## Factors\n")
	for _, factor := range forecast.Factors {
		builder.WriteString(fmt.Sprintf("- %s (%s, weight %.1f)\n", factor.Factor, factor.Impact, factor.Weight))
	}
	builder.WriteString("\n")

	builder.WriteString("## Recommendations\n")
	for _, rec := range forecast.Recommendations {
		builder.WriteString(fmt.Sprintf("- %s\n", rec))
	}

	return builder.String()
}

func formatPatternAnalysis(analysis PatternAnalysis) string {
	var builder strings.Builder

	builder.WriteString("# Pattern Analysis\n\n")
	builder.WriteString("## Trends\n")
	builder.WriteString(fmt.Sprintf("- **Energy:** %s\n", analysis.Trends.EnergyTrend))
	builder.WriteString(fmt.Sprintf("- **Symptoms:** %s\n", analysis.Trends.SymptomTrend))
	builder.WriteString(fmt.Sprintf("- **Activity tolerance:** %s\n\n", analysis.Trends.ActivityTolerance))

	if len(analysis.Patterns) == 0 {
		builder.WriteString("No notable patterns detected in the analyzed window.\n")
		return builder.String()
	}

	builder.WriteString("## Detected Patterns\n")
	for _, pattern := range analysis.Patterns {
		builder.WriteString(fmt.Sprintf("- **%s** (%s, confidence %.0f%%): %s\n",
			strings.ReplaceAll(pattern.Type, "_", " "), pattern.Timeframe, pattern.Confidence*100, pattern.Description))
		for _, rec := range pattern.Recommendations {
			builder.WriteString(fmt.Sprintf("  - %s\n", rec))
		}
	}

	return builder.String()
}

func formatCorrelations(correlations []SymptomCorrelation) string {
	if len(correlations) == 0 {
		return "# Symptom Correlations\n\nNo significant symptom correlations found. This usually means too few overlapping log days, or no pair moved together strongly enough to report."
	}

	var builder strings.Builder
	builder.WriteString("# Symptom Correlations\n\n")

	for _, c := range correlations {
		direction := "rise and fall together"
		if c.Correlation < 0 {
			direction = "move in opposite directions"
		}
		builder.WriteString(fmt.Sprintf("- **%s / %s**: r = %.2f (%s significance, %d shared days); these %s\n",
			c.Symptom1, c.Symptom2, c.Correlation, c.Significance, c.SampleSize, direction))
	}

	builder.WriteString("\n*Correlation is not causation; use these as prompts for discussion, not conclusions.*\n")
	return builder.String()
}

func formatAdaptedRoutine(adapted AdaptedRoutine) string {
	var builder strings.Builder

	builder.WriteString("# Adapted Routine\n\n")
	if adapted.Name != "" {
		builder.WriteString(fmt.Sprintf("**Base routine:** %s\n\n", adapted.Name))
	}

	builder.WriteString("## Activities\n")
	if len(adapted.Activities) == 0 {
		builder.WriteString("- Full rest: no scheduled activities\n")
	}
	for _, activity := range adapted.Activities {
		builder.WriteString(fmt.Sprintf("- %s (%s, %d min, %s)\n",
			activity.Name, activity.Type, activity.DurationMinutes, activity.Intensity))
	}
	builder.WriteString("\n## Modifications\n")
	for _, mod := range adapted.Modifications {
		builder.WriteString(fmt.Sprintf("- %s\n", mod))
	}

	return builder.String()
}
