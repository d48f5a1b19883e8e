package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The server is reached by the local MCP host, not browsers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSTransport serves the same JSON-RPC 2.0 messages as the stdio transport
// over a WebSocket endpoint.
type WSTransport struct {
	server *MCPServer
	addr   string
}

// NewWSTransport creates a WebSocket transport for the given MCP server.
func NewWSTransport(server *MCPServer, addr string) *WSTransport {
	return &WSTransport{server: server, addr: addr}
}

// Run listens for WebSocket connections and blocks until the listener fails.
func (t *WSTransport) Run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.handleConnection)

	log.Printf("WebSocket transport listening on %s", t.addr)
	httpServer := &http.Server{
		Addr:         t.addr,
		Handler:      mux,
		ReadTimeout:  0, // connections are long-lived; pong deadline handles dead peers
		WriteTimeout: 0,
	}
	return httpServer.ListenAndServe()
}

// handleConnection upgrades the request and pumps JSON-RPC messages.
func (t *WSTransport) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("WebSocket client connected: %s", conn.RemoteAddr())

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	responses := make(chan *MCPResponse, 16)
	done := make(chan struct{})

	go t.writePump(conn, responses, done)
	t.readPump(conn, responses)
	close(done)
}

// readPump reads requests from the connection and dispatches them. Each
// request is handled in its own goroutine so a slow tracker fetch does not
// block other calls on the same connection.
func (t *WSTransport) readPump(conn *websocket.Conn, responses chan<- *MCPResponse) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		var request MCPRequest
		if err := json.Unmarshal(message, &request); err != nil {
			responses <- errorResponse(nil, -32700, "Parse error", err.Error())
			continue
		}

		go func(req MCPRequest) {
			responses <- t.server.handleRequest(&req)
		}(request)
	}
}

// writePump serializes responses and keepalive pings onto the connection.
// All writes happen here; gorilla connections do not allow concurrent writers.
func (t *WSTransport) writePump(conn *websocket.Conn, responses <-chan *MCPResponse, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case response := <-responses:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(response); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// wsAddrFromEnv resolves the listen address for the WebSocket transport.
func wsAddrFromEnv() string {
	if addr := os.Getenv("MCP_WS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:8790"
}
