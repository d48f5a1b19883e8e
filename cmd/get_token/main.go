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
	if len(os.Args) < 3 {
		fmt.Println("Tracker OAuth Token Helper")
		fmt.Println("==========================")
		fmt.Println("")
		fmt.Println("Usage: go run ./cmd/get_token <client_id> <client_secret> [authorization_code]")
		fmt.Println("")
		fmt.Println("Step 1: Get authorization URL")
		fmt.Println("  go run ./cmd/get_token <client_id> <client_secret>")
		fmt.Println("")
		fmt.Println("Step 2: Exchange code for token")
		fmt.Println("  go run ./cmd/get_token <client_id> <client_secret> <auth_code>")
		return
	}

	clientID := os.Args[1]
	clientSecret := os.Args[2]

	if len(os.Args) == 3 {
		generateAuthURL(clientID)
	} else {
		exchangeCodeForToken(clientID, clientSecret, os.Args[3])
	}
}

func apiBaseURL() string {
	if base := os.Getenv("TRACKER_API_URL"); base != "" {
		return base
	}
	return "https://api.pacekeeper.app"
}

func generateAuthURL(clientID string) {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("redirect_uri", "http://localhost:3000/callback") // Use your registered redirect URI
	params.Set("response_type", "code")
	params.Set("scope", "read:energy read:symptoms read:biometrics read:activities offline")
	params.Set("state", "pacing-mcp-auth")

	authURL := apiBaseURL() + "/oauth/authorize?" + params.Encode()

	fmt.Println("STEP 1: Open this URL in your browser to authorize the app:")
	fmt.Println("")
	fmt.Println(authURL)
	fmt.Println("")
	fmt.Println("After authorizing, you'll be redirected to a URL like:")
	fmt.Println("http://localhost:3000/callback?code=AUTHORIZATION_CODE&state=pacing-mcp-auth")
	fmt.Println("")
	fmt.Println("STEP 2: Copy the 'code' parameter and run:")
	fmt.Printf("go run ./cmd/get_token %s [your_client_secret] <AUTHORIZATION_CODE>\n", clientID)
}

func exchangeCodeForToken(clientID, clientSecret, authCode string) {
	fmt.Println("Exchanging authorization code for access token...")

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("redirect_uri", "http://localhost:3000/callback")
	data.Set("code", authCode)

	resp, err := http.PostForm(apiBaseURL()+"/oauth/token", data)
	if err != nil {
		fmt.Printf("Error making token request: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		return
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Token request failed (status %d): %s\n", resp.StatusCode, string(body))
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

	fmt.Println("")
	fmt.Println("Success! Add this to your environment or .env file:")
	fmt.Println("")
	fmt.Printf("TRACKER_API_KEY=%s\n", token.AccessToken)
	fmt.Println("")
	fmt.Printf("Refresh token (keep safe): %s\n", token.RefreshToken)
	fmt.Printf("Token expires in %d seconds\n", token.ExpiresIn)
}
