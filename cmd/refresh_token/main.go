package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Println("Usage: go run ./cmd/refresh_token <client_id> <client_secret> <refresh_token>")
		return
	}

	clientID := os.Args[1]
	clientSecret := os.Args[2]
	refreshToken := os.Args[3]

	base := os.Getenv("TRACKER_API_URL")
	if base == "" {
		base = "https://api.pacekeeper.app"
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("refresh_token", refreshToken)

	resp, err := http.PostForm(base+"/oauth/token", data)
	if err != nil {
		fmt.Printf("Error making refresh request: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		return
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Refresh failed (status %d): %s\n", resp.StatusCode, string(body))
		return
	}

	var token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		fmt.Printf("Error parsing token response: %v\n", err)
		return
	}

	fmt.Println("Token refreshed. Update your environment or .env file:")
	fmt.Println("")
	fmt.Printf("TRACKER_API_KEY=%s\n", token.AccessToken)
	if token.RefreshToken != "" {
		fmt.Printf("New refresh token: %s\n", token.RefreshToken)
	}
	fmt.Printf("Token expires in %d seconds\n", token.ExpiresIn)
}
