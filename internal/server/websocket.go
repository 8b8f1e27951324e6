package server

import (
	"net/http"

	"github.com/asurahunt/karma-server-go/internal/config"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // game clients connect from arbitrary origins
	},
}

// NewWebSocketServer builds the HTTP server that upgrades websocket clients
// and feeds their intents into the hub. The caller owns its lifecycle and
// shuts it down gracefully.
func NewWebSocketServer(cfg config.WebSocketConfig, hub *Hub, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r, logger)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
}

func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn)
	hub.register <- client

	go client.writePump()
	go client.readPump(hub)
}
