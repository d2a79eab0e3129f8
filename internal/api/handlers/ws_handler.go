package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/workers"
)

type WSHandler struct {
	admin    services.AdminService
	interval time.Duration
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler accepts upgrades from the studio's own origin and from
// allowedOrigins.
func NewWSHandler(admin services.AdminService, interval time.Duration, allowedOrigins []string, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		admin:    admin,
		interval: interval,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return utils.OriginAllowed(r, allowedOrigins) },
		},
	}
}

type wsServerMsg struct {
	Type     string                `json:"type"`
	Snapshot *models.AdminSnapshot `json:"snapshot,omitempty"`
	Code     utils.Code            `json:"code,omitempty"`
	Message  string                `json:"message,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func errorMsg(err error) wsServerMsg {
	return wsServerMsg{Type: "error", Code: utils.CodeOf(err), Message: utils.Message(err)}
}

// AdminStream pushes a fresh admin snapshot on connect and every poll interval.
// It closes after sending a final error when admin access is lost.
func (h *WSHandler) AdminStream(c *gin.Context) {
	const op = "WSHandler.AdminStream"

	if !h.upgrader.CheckOrigin(c.Request) {
		writeError(c, utils.E(utils.CodeForbidden, op, "origin not allowed", nil))
		return
	}
	// verify before upgrading so a plain user gets a normal 403
	if _, err := h.admin.Verify(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// reader: only pongs and close frames are expected
	go func() {
		defer cancel()
		_ = conn.SetReadDeadline(time.Now().Add(2*h.interval + 60*time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(2*h.interval + 60*time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	w := &workers.AdminWatcher{
		Source:   h.admin,
		Interval: h.interval,
		Logger:   h.log,
		OnSnapshot: func(s models.AdminSnapshot) {
			if err := wc.writeJSON(wsServerMsg{Type: "snapshot", Snapshot: &s}); err != nil {
				cancel()
			}
		},
		OnError: func(err error) {
			_ = wc.writeJSON(errorMsg(err))
		},
	}
	if err := w.Run(ctx); err != nil {
		_ = wc.writeJSON(errorMsg(err))
		wc.mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, utils.Message(err)),
			time.Now().Add(time.Second))
		wc.mu.Unlock()
	}
}
