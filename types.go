package main

import (
	"encoding/json"
	"time"
)

// MCP Protocol Types
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type MCPTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema MCPInputSchema `json:"inputSchema"`
}

type MCPInputSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required,omitempty"`
}

type MCPResource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// TimeOfDay marks when an energy level was logged.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
)

// ActivityType classifies a logged activity.
type ActivityType string

const (
	ActivityDailyAnchor     ActivityType = "daily_anchor"
	ActivityMovementSession ActivityType = "movement_session"
	ActivityRestDay         ActivityType = "rest_day"
)

// SymptomKey identifies a tracked symptom series. The key space is closed:
// known symptoms get their own constant, anything else goes through
// SymptomOther with a label.
type SymptomKey string

const (
	SymptomFatigue          SymptomKey = "fatigue"
	SymptomPain             SymptomKey = "pain"
	SymptomBrainFog         SymptomKey = "brain_fog"
	SymptomSleepDisturbance SymptomKey = "sleep_disturbance"
	SymptomHeadache         SymptomKey = "headache"
	SymptomDizziness        SymptomKey = "dizziness"
	SymptomNausea           SymptomKey = "nausea"
	SymptomSoreThroat       SymptomKey = "sore_throat"
	SymptomOther            SymptomKey = "other"
)

// SymptomEntry is a free-form symptom observation attached to a daily log.
type SymptomEntry struct {
	Key      SymptomKey `json:"key"`
	Label    string     `json:"label,omitempty"` // required when Key is "other"
	Severity int        `json:"severity"`        // 1-10
}

// SeriesKey returns the correlation-series key for this entry. "other"
// entries are keyed by their label so distinct custom symptoms stay distinct.
func (e SymptomEntry) SeriesKey() string {
	if e.Key == SymptomOther && e.Label != "" {
		return e.Label
	}
	return string(e.Key)
}

// Tracker Log Types
type EnergyEntry struct {
	Date      time.Time `json:"date"`
	Level     int       `json:"level"` // 1-10
	TimeOfDay TimeOfDay `json:"time_of_day"`
}

type BiometricReading struct {
	Date       time.Time `json:"date"`
	HeartRate  float64   `json:"heart_rate"` // bpm, 40-200
	HRV        float64   `json:"hrv"`        // ms, 0-200
	Confidence float64   `json:"confidence"` // 0-1
}

type SymptomLog struct {
	Date         time.Time      `json:"date"`
	Fatigue      int            `json:"fatigue"`                 // 1-10, mandatory
	Pain         *int           `json:"pain,omitempty"`          // 1-10
	BrainFog     *int           `json:"brain_fog,omitempty"`     // 1-10
	SleepQuality *int           `json:"sleep_quality,omitempty"` // 1-10, higher = better
	Additional   []SymptomEntry `json:"additional,omitempty"`
}

type ActivityLog struct {
	Date                time.Time    `json:"date"`
	Type                ActivityType `json:"type"`
	Completed           bool         `json:"completed"`
	PostActivityFatigue *int         `json:"post_activity_fatigue,omitempty"` // 1-10
}

// UserHealthData is one user's log snapshot. It is treated as read-only for
// the duration of an analysis call; series are not guaranteed sorted.
type UserHealthData struct {
	UserID            string             `json:"user_id"`
	EnergyLevels      []EnergyEntry      `json:"energy_levels"`
	BiometricReadings []BiometricReading `json:"biometric_readings"`
	SymptomLogs       []SymptomLog       `json:"symptom_logs"`
	ActivityLogs      []ActivityLog      `json:"activity_logs"`
}

// Pacing Analysis Types
type RecommendationPriority string

const (
	PriorityLow    RecommendationPriority = "low"
	PriorityMedium RecommendationPriority = "medium"
	PriorityHigh   RecommendationPriority = "high"
)

// Weight orders recommendations for the final sort.
func (p RecommendationPriority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type PacingRecommendation struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"` // "rest", "activity", "routine", "biometric", "general"
	Priority    RecommendationPriority `json:"priority"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Reasoning   string                 `json:"reasoning"`
	ActionItems []string               `json:"action_items"`
	ValidUntil  time.Time              `json:"valid_until"`
	Confidence  float64                `json:"confidence"` // 0-1
	Disclaimers []string               `json:"disclaimers"`
}

type ForecastFactor struct {
	Factor string  `json:"factor"`
	Impact string  `json:"impact"` // "positive", "negative", "neutral"
	Weight float64 `json:"weight"` // 0-1
}

type EnergyForecast struct {
	ForecastDate         time.Time        `json:"forecast_date"`
	PredictedEnergyLevel int              `json:"predicted_energy_level"` // 1-10
	Confidence           float64          `json:"confidence"`             // 0-1
	Factors              []ForecastFactor `json:"factors"`
	Recommendations      []string         `json:"recommendations"`
}

type DetectedPattern struct {
	Type            string   `json:"type"` // "energy_trend", "crash_trigger"
	Description     string   `json:"description"`
	Confidence      float64  `json:"confidence"`
	Timeframe       string   `json:"timeframe"`
	Recommendations []string `json:"recommendations"`
}

type TrendSummary struct {
	EnergyTrend       string `json:"energy_trend"`       // "stable", "improving", "declining", "volatile"
	SymptomTrend      string `json:"symptom_trend"`      // "stable", "improving", "worsening", "unknown"
	ActivityTolerance string `json:"activity_tolerance"` // "good", "reduced", "poor", "unknown"
}

type PatternAnalysis struct {
	Patterns []DetectedPattern `json:"patterns"`
	Trends   TrendSummary      `json:"trends"`
}

type SymptomCorrelation struct {
	Symptom1     string  `json:"symptom_1"`
	Symptom2     string  `json:"symptom_2"`
	Correlation  float64 `json:"correlation"`  // -1..1
	Significance string  `json:"significance"` // "low", "moderate", "high"
	SampleSize   int     `json:"sample_size"`
}

type BiometricRisk struct {
	HasConcerns bool     `json:"has_concerns"`
	Concerns    []string `json:"concerns"`
}

// Routine Types
type RoutineActivity struct {
	Name            string       `json:"name"`
	Type            ActivityType `json:"type"`
	DurationMinutes int          `json:"duration_minutes"`
	Intensity       string       `json:"intensity"` // "gentle", "moderate", "vigorous"
}

type Routine struct {
	Name       string            `json:"name"`
	Activities []RoutineActivity `json:"activities"`
}

type UserState struct {
	CurrentEnergy int `json:"current_energy"` // 1-10
	RecentFatigue int `json:"recent_fatigue"` // 1-10
}

type AdaptedRoutine struct {
	Name          string            `json:"name"`
	Activities    []RoutineActivity `json:"activities"`
	Modifications []string          `json:"modifications"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// Tool Input Types
type PacingNeedsInput struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"` // lookback window, defaults to 30
}

type ForecastInput struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
}

type PatternsInput struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
}

type CorrelationsInput struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
}

type AdaptRoutineInput struct {
	UserID        string  `json:"user_id"`
	CurrentEnergy int     `json:"current_energy"`
	RecentFatigue int     `json:"recent_fatigue"`
	Routine       Routine `json:"routine"`
}

// Tracker API Response Wrappers
type EnergyLevelsResponse struct {
	Data      []EnergyEntry `json:"data"`
	NextToken *string       `json:"next_token,omitempty"`
}

type BiometricsResponse struct {
	Data      []BiometricReading `json:"data"`
	NextToken *string            `json:"next_token,omitempty"`
}

type SymptomLogsResponse struct {
	Data      []SymptomLog `json:"data"`
	NextToken *string      `json:"next_token,omitempty"`
}

type ActivityLogsResponse struct {
	Data      []ActivityLog `json:"data"`
	NextToken *string       `json:"next_token,omitempty"`
}
