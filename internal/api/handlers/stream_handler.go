package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/francolucas/habit-tracker/internal/api/dto"
	"github.com/francolucas/habit-tracker/internal/domain/days"
	"github.com/francolucas/habit-tracker/internal/domain/habits"
	"github.com/francolucas/habit-tracker/internal/store"
	"github.com/francolucas/habit-tracker/pkg/logger"
	"github.com/francolucas/habit-tracker/pkg/security/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamFrame is one websocket message: a fresh snapshot or a non-fatal
// subscription error. Errors do not close the stream; the next snapshot
// supersedes them.
type streamFrame struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// StreamHandler pushes live snapshots over websockets
type StreamHandler struct {
	catalog   habits.Service
	daysSvc   days.Service
	jwtSecret string
	log       *logger.Logger
}

// NewStreamHandler creates a new StreamHandler instance
func NewStreamHandler(catalog habits.Service, daysSvc days.Service, jwtSecret string, log *logger.Logger) *StreamHandler {
	return &StreamHandler{catalog: catalog, daysSvc: daysSvc, jwtSecret: jwtSecret, log: log}
}

// authorize checks the token carried in the query string. Browser websocket
// dials cannot set an Authorization header.
func (h *StreamHandler) authorize(c *gin.Context) bool {
	token := c.Query("token")
	if token == "" || auth.GetTokenBlacklist().IsBlacklisted(token) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return false
	}
	if _, err := auth.ValidateToken(token, h.jwtSecret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return false
	}
	return true
}

// StreamCatalog pushes the sorted catalog on connect and after every
// change, until the client disconnects.
func (h *StreamHandler) StreamCatalog(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	writer := newFrameWriter(conn)

	err = h.catalog.Watch(ctx, func(defs []habits.Definition) {
		responses := make([]dto.HabitResponse, len(defs))
		for i, def := range defs {
			responses[i] = *HabitToResponse(&def)
		}
		writer.send(streamFrame{Type: "snapshot", Data: responses})
	}, func(serr *store.Error) {
		writer.send(streamFrame{Type: "error", Code: serr.Code, Message: serr.Message})
	})
	if err != nil {
		writer.send(streamFrame{Type: "error", Code: store.CodeInternal, Message: err.Error()})
		cancel()
		conn.Close()
		return
	}

	h.drain(conn, cancel)
}

// StreamDay pushes one day record on connect and after every change.
func (h *StreamHandler) StreamDay(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	date := c.Param("date")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	writer := newFrameWriter(conn)

	err = h.daysSvc.Watch(ctx, date, func(rec *days.Record) {
		writer.send(streamFrame{Type: "snapshot", Data: DayToResponse(rec)})
	}, func(serr *store.Error) {
		writer.send(streamFrame{Type: "error", Code: serr.Code, Message: serr.Message})
	})
	if err != nil {
		code := store.CodeInternal
		if err == days.ErrInvalidDate {
			code = store.CodeInvalidArgument
		}
		writer.send(streamFrame{Type: "error", Code: code, Message: err.Error()})
		cancel()
		conn.Close()
		return
	}

	h.drain(conn, cancel)
}

// drain blocks reading the connection until the client goes away, then
// tears the watch down.
func (h *StreamHandler) drain(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	defer conn.Close()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// frameWriter serializes concurrent snapshot callbacks onto one connection.
type frameWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newFrameWriter(conn *websocket.Conn) *frameWriter {
	return &frameWriter{conn: conn}
}

func (w *frameWriter) send(frame streamFrame) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.WriteJSON(frame)
}
