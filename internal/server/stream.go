package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// minStreamInterval keeps a client from asking for a busy loop.
const minStreamInterval = time.Millisecond

type streamError struct {
	Error string `json:"error"`
}

// handleStream upgrades to a websocket and pushes one snapshot per tick until
// the run is terminal or the client goes away. The interval query parameter
// overrides the configured step interval.
func (s *Server) handleStream(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	interval := s.config.Search.StepInterval
	if raw := c.Query("interval"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < minStreamInterval {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interval " + raw})
			return
		}
		interval = parsed
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session", sess.id, "error", err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Reads only to notice the peer closing.
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("stream closed by client", "session", sess.id)
			return
		case <-ticker.C:
		}

		sess.mu.Lock()
		snapshot, err := sess.step()
		sess.mu.Unlock()

		if err != nil {
			_ = ws.WriteJSON(streamError{Error: err.Error()})
			s.closeStream(ws)
			return
		}
		if err := ws.WriteJSON(snapshot); err != nil {
			s.logger.Warn("websocket write failed", "session", sess.id, "error", err)
			return
		}
		if snapshot.Done {
			s.closeStream(ws)
			return
		}
	}
}

func (s *Server) closeStream(ws *websocket.Conn) {
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
	_ = ws.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
}
