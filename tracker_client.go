package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	TrackerAPIDefaultURL = "https://api.pacekeeper.app"
	TrackerAPIVersion    = "v1"
)

// TrackerClient handles all interactions with the tracker backend that
// stores the user's health logs. The engine itself does no I/O; this client
// is the storage collaborator that materializes snapshots for it.
type TrackerClient struct {
	client      *http.Client
	rateLimiter *rate.Limiter
	apiKey      string
	baseURL     string
}

// NewTrackerClient creates a new tracker API client with rate limiting.
func NewTrackerClient() (*TrackerClient, error) {
	apiKey := os.Getenv("TRACKER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TRACKER_API_KEY environment variable is required")
	}

	baseURL := os.Getenv("TRACKER_API_URL")
	if baseURL == "" {
		baseURL = TrackerAPIDefaultURL
	}

	// Rate limiter: 100 requests per minute (conservative approach)
	rateLimiter := rate.NewLimiter(rate.Every(time.Minute/100), 10)

	return &TrackerClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rateLimiter,
		apiKey:      apiKey,
		baseURL:     baseURL + "/" + TrackerAPIVersion,
	}, nil
}

// makeRequest performs an authenticated HTTP request to the tracker API.
func (c *TrackerClient) makeRequest(endpoint string, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Pacing-MCP-Server/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// handleAPIError processes API error responses and returns user-friendly errors.
func (c *TrackerClient) handleAPIError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed: invalid API key")
	case http.StatusForbidden:
		return fmt.Errorf("access denied: insufficient permissions")
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit exceeded: too many requests")
	case http.StatusBadRequest:
		return fmt.Errorf("bad request: check your parameters")
	case http.StatusNotFound:
		return fmt.Errorf("resource not found")
	case http.StatusInternalServerError:
		return fmt.Errorf("tracker API internal error")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("tracker API temporarily unavailable")
	default:
		return fmt.Errorf("API error (status %d): %s", statusCode, string(body))
	}
}

// rangeParams builds the shared date-range query parameters.
func rangeParams(userID string, startDate, endDate time.Time) url.Values {
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("start", startDate.Format("2006-01-02"))
	params.Set("end", endDate.Format("2006-01-02"))
	params.Set("limit", "50") // Maximum per request
	return params
}

// GetEnergyLevels retrieves energy log entries for a date range.
func (c *TrackerClient) GetEnergyLevels(userID string, startDate, endDate time.Time) ([]EnergyEntry, error) {
	params := rangeParams(userID, startDate, endDate)

	var all []EnergyEntry
	nextToken := ""

	for {
		if nextToken != "" {
			params.Set("next_token", nextToken)
		}

		body, err := c.makeRequest("/logs/energy", params)
		if err != nil {
			return nil, fmt.Errorf("failed to get energy levels: %w", err)
		}

		var response EnergyLevelsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("failed to parse energy levels: %w", err)
		}

		all = append(all, response.Data...)

		if response.NextToken == nil || *response.NextToken == "" {
			break
		}
		nextToken = *response.NextToken
	}

	return all, nil
}

// GetBiometricReadings retrieves biometric readings for a date range.
func (c *TrackerClient) GetBiometricReadings(userID string, startDate, endDate time.Time) ([]BiometricReading, error) {
	params := rangeParams(userID, startDate, endDate)

	var all []BiometricReading
	nextToken := ""

	for {
		if nextToken != "" {
			params.Set("next_token", nextToken)
		}

		body, err := c.makeRequest("/logs/biometrics", params)
		if err != nil {
			return nil, fmt.Errorf("failed to get biometric readings: %w", err)
		}

		var response BiometricsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("failed to parse biometric readings: %w", err)
		}

		all = append(all, response.Data...)

		if response.NextToken == nil || *response.NextToken == "" {
			break
		}
		nextToken = *response.NextToken
	}

	return all, nil
}

// GetSymptomLogs retrieves symptom logs for a date range.
func (c *TrackerClient) GetSymptomLogs(userID string, startDate, endDate time.Time) ([]SymptomLog, error) {
	params := rangeParams(userID, startDate, endDate)

	var all []SymptomLog
	nextToken := ""

	for {
		if nextToken != "" {
			params.Set("next_token", nextToken)
		}

		body, err := c.makeRequest("/logs/symptoms", params)
		if err != nil {
			return nil, fmt.Errorf("failed to get symptom logs: %w", err)
		}

		var response SymptomLogsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("failed to parse symptom logs: %w", err)
		}

		all = append(all, response.Data...)

		if response.NextToken == nil || *response.NextToken == "" {
			break
		}
		nextToken = *response.NextToken
	}

	return all, nil
}

// GetActivityLogs retrieves activity logs for a date range.
func (c *TrackerClient) GetActivityLogs(userID string, startDate, endDate time.Time) ([]ActivityLog, error) {
	params := rangeParams(userID, startDate, endDate)

	var all []ActivityLog
	nextToken := ""

	for {
		if nextToken != "" {
			params.Set("next_token", nextToken)
		}

		body, err := c.makeRequest("/logs/activities", params)
		if err != nil {
			return nil, fmt.Errorf("failed to get activity logs: %w", err)
		}

		var response ActivityLogsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("failed to parse activity logs: %w", err)
		}

		all = append(all, response.Data...)

		if response.NextToken == nil || *response.NextToken == "" {
			break
		}
		nextToken = *response.NextToken
	}

	return all, nil
}

// GetUserHealthData assembles a full snapshot for one user, fetching the
// four log series concurrently. The series are independent, so a failure in
// any one fails the snapshot as a whole.
func (c *TrackerClient) GetUserHealthData(userID string, startDate, endDate time.Time) (*UserHealthData, error) {
	var energyLevels []EnergyEntry
	var biometrics []BiometricReading
	var symptoms []SymptomLog
	var activities []ActivityLog

	errCh := make(chan error, 4)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		data, err := c.GetEnergyLevels(userID, startDate, endDate)
		if err != nil {
			errCh <- err
			return
		}
		energyLevels = data
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		data, err := c.GetBiometricReadings(userID, startDate, endDate)
		if err != nil {
			errCh <- err
			return
		}
		biometrics = data
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		data, err := c.GetSymptomLogs(userID, startDate, endDate)
		if err != nil {
			errCh <- err
			return
		}
		symptoms = data
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		data, err := c.GetActivityLogs(userID, startDate, endDate)
		if err != nil {
			errCh <- err
			return
		}
		activities = data
	}()

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}

	return &UserHealthData{
		UserID:            userID,
		EnergyLevels:      energyLevels,
		BiometricReadings: biometrics,
		SymptomLogs:       symptoms,
		ActivityLogs:      activities,
	}, nil
}

// ValidateConnection tests the API connection and authentication.
func (c *TrackerClient) ValidateConnection() error {
	if _, err := c.makeRequest("/health", nil); err != nil {
		return fmt.Errorf("API connection validation failed: %w", err)
	}
	return nil
}
