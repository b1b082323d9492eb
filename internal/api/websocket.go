package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"quanturnic/internal/events"
	"quanturnic/pkg/i18n"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// websocket streams bot events to a UI until either side goes away.
func (s *Server) websocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf(i18n.Get("WebSocketUpgradeError"), err)
		return
	}
	defer conn.Close()

	if s.Bus == nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"bus not ready"}`))
		return
	}

	remote := conn.RemoteAddr().String()
	log.Printf(i18n.Get("WebSocketConnected"), remote)
	defer log.Printf(i18n.Get("WebSocketDisconnected"), remote)

	stream, unsub := s.Bus.Subscribe(100, events.All...)
	defer unsub()

	// The client never sends anything we use; reading only detects close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-stream:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(wireMessage(msg)); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-gone:
			return
		}
	}
}
