package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"medichat/internal/chat"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// turnTimeout bounds one full turn, tool calls included.
const turnTimeout = 5 * time.Minute

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is wide open upstream as well.
		return true
	},
}

// inboundMessage is one client utterance on the chat socket.
type inboundMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// wsEmitter serializes frames onto one connection. The first write
// failure is latched; the session ends after the current turn instead of
// emitting into a dead socket.
type wsEmitter struct {
	conn *websocket.Conn
	mu   sync.Mutex
	err  error
}

func (e *wsEmitter) Emit(f chat.Frame) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return
	}
	e.err = e.conn.WriteJSON(f)
}

func (e *wsEmitter) failed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err != nil
}

// handleChat runs one session: turns are strictly sequential, each
// inbound user message is driven to completion before the next read, and
// every turn ends in a terminal frame. A failed turn does not close the
// connection. Reads happen on a pump goroutine so a client disconnect
// mid-turn cancels the in-flight turn instead of letting it run out the
// full timeout against a dead socket.
func (s *Server) handleChat(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sessionID := "sess_" + uuid.NewString()[:8]
	emitter := &wsEmitter{conn: conn}
	svc := s.gw.NewSession(emitter)
	log.Printf("[Session %s] connected", sessionID)

	connCtx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	inbound := make(chan inboundMessage)
	go func() {
		defer cancel()
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-connCtx.Done():
				return
			}
		}
	}()

	for {
		var msg inboundMessage
		select {
		case <-connCtx.Done():
			log.Printf("[Session %s] disconnected", sessionID)
			return nil
		case msg = <-inbound:
		}

		if msg.Role != string(chat.RoleUser) || strings.TrimSpace(msg.Content) == "" {
			emitter.Emit(chat.NewFrame(chat.FrameError, "system",
				"expected a user message with non-empty content"))
			continue
		}

		turnCtx, cancelTurn := context.WithTimeout(connCtx, turnTimeout)
		err := svc.Turn(turnCtx, msg.Content)
		cancelTurn()

		if err != nil {
			log.Printf("[Session %s] turn failed: %v", sessionID, err)
			emitter.Emit(chat.NewFrame(chat.FrameError, "system", err.Error()))
		} else {
			emitter.Emit(chat.NewFrame(chat.FrameTaskCompleted, "system",
				"Request processed successfully."))
		}

		if emitter.failed() {
			log.Printf("[Session %s] write failed, closing", sessionID)
			return nil
		}
	}
}
