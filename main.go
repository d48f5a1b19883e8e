package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Set up logging to stderr to avoid interfering with stdio communication
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Optional .env for local runs; real deployments set the environment
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	server, err := NewMCPServer()
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	switch os.Getenv("MCP_TRANSPORT") {
	case "ws":
		transport := NewWSTransport(server, wsAddrFromEnv())
		log.Println("Starting Pacing MCP Server on WebSocket transport...")
		if err := transport.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	default:
		log.Println("Starting Pacing MCP Server...")
		log.Println("Server ready to accept JSON-RPC 2.0 requests via stdio")

		// Run the server (blocks until stdin is closed)
		if err := server.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Pacing MCP Server shutting down")
}
