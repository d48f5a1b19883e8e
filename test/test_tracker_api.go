package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Manual smoke test for the tracker API endpoints the MCP server depends on.
// Run directly: go run ./test
func main() {
	accessToken := os.Getenv("TRACKER_API_KEY")
	if accessToken == "" {
		fmt.Println("TRACKER_API_KEY not found in environment")
		return
	}

	userID := os.Getenv("TRACKER_USER_ID")
	if userID == "" {
		fmt.Println("TRACKER_USER_ID not found in environment")
		return
	}

	base := os.Getenv("TRACKER_API_URL")
	if base == "" {
		base = "https://api.pacekeeper.app"
	}
	base += "/v1"

	fmt.Printf("Testing tracker API endpoints for user %s...\n\n", userID)

	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("limit", "5")
	end := time.Now()
	start := end.AddDate(0, 0, -7) // Last 7 days
	params.Set("start", start.Format("2006-01-02"))
	params.Set("end", end.Format("2006-01-02"))

	fmt.Println("1. Testing Energy Levels...")
	testEndpoint(base+"/logs/energy", accessToken, params)

	fmt.Println("\n2. Testing Symptom Logs...")
	testEndpoint(base+"/logs/symptoms", accessToken, params)

	fmt.Println("\n3. Testing Biometric Readings...")
	testEndpoint(base+"/logs/biometrics", accessToken, params)

	fmt.Println("\n4. Testing Activity Logs...")
	testEndpoint(base+"/logs/activities", accessToken, params)
}

func testEndpoint(endpoint, token string, params url.Values) {
	requestURL := endpoint
	if params != nil {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		fmt.Printf("   failed to create request: %v\n", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("   request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("   failed to read response: %v\n", err)
		return
	}

	fmt.Printf("   status: %d\n", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("   body: %s\n", string(body))
		return
	}

	var pretty map[string]interface{}
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Printf("   response is not JSON: %s\n", string(body))
		return
	}

	formatted, _ := json.MarshalIndent(pretty, "   ", "  ")
	fmt.Printf("   %s\n", string(formatted))
}
