package ws

import (
	"context"
	"net/http"
	"sync"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/observability"
	"github.com/cloudkitchen/backend/internal/service"
	"github.com/cloudkitchen/backend/internal/stream"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ThreadEvent is the frame pushed to clients: the full ordered thread, never
// a diff. Clients redraw the whole view from it.
type ThreadEvent struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversationId"`
	Messages       []model.Message `json:"messages"`
}

type inboundFrame struct {
	Body string `json:"body"`
}

// ChatSocketHandler bridges the snapshot broker to websocket clients. One
// connection holds exactly one live subscription; switching conversations
// means a new connection, so the old subscription is torn down first.
type ChatSocketHandler struct {
	broker     *stream.Broker
	convSvc    service.ConversationService
	profileSvc service.ProfileService
	logger     *zap.Logger
}

func NewChatSocketHandler(broker *stream.Broker, convSvc service.ConversationService, profileSvc service.ProfileService, logger *zap.Logger) *ChatSocketHandler {
	return &ChatSocketHandler{broker: broker, convSvc: convSvc, profileSvc: profileSvc, logger: logger}
}

func (h *ChatSocketHandler) Handle(c echo.Context) error {
	convID := c.Param("id")
	uid, _ := c.Get("uid").(string)
	admin, _ := c.Get("admin").(bool)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	role := model.SenderCustomer
	if admin {
		role = model.SenderAdmin
	}

	contact := service.ContactFields{}
	if !admin {
		if convID != uid {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		if email, ok := c.Get("email").(string); ok {
			contact.Email = email
		}
		if p, err := h.profileSvc.Get(c.Request().Context(), uid); err == nil {
			contact.Name = p.Name
			contact.Phone = p.Phone
			contact.Address = p.Address
			if p.Email != "" {
				contact.Email = p.Email
			}
		}
		// Opening the customer chat creates the thread on first contact.
		if _, err := h.convSvc.Ensure(c.Request().Context(), uid, contact); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open conversation"})
		}
	} else {
		if _, err := h.convSvc.Get(c.Request().Context(), convID, uid, true); err != nil {
			if err == service.ErrNotFound {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open conversation"})
		}
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}

	// The subscription outlives the upgrade request, so callbacks use a
	// detached context.
	ctx := context.Background()

	var writeMu sync.Mutex
	deliver := func(snap stream.Snapshot) {
		writeMu.Lock()
		err := conn.WriteJSON(ThreadEvent{
			Type:           "thread",
			ConversationID: snap.ConversationID,
			Messages:       snap.Messages,
		})
		writeMu.Unlock()
		if err != nil {
			h.logger.Warn("websocket write failed",
				zap.String("conversation_id", snap.ConversationID),
				zap.Error(err))
			_ = conn.Close()
			return
		}
		// Viewing the thread marks messages from the other party as read.
		// Best-effort: a race with a concurrent viewer is accepted.
		if n := len(snap.Messages); n > 0 && snap.Messages[n-1].Sender != role {
			if err := h.convSvc.MarkRead(ctx, snap.ConversationID, role); err != nil {
				h.logger.Warn("mark read failed",
					zap.String("conversation_id", snap.ConversationID),
					zap.Error(err))
			}
		}
	}

	unsubscribe, err := h.broker.Subscribe(ctx, convID, deliver)
	if err != nil {
		_ = conn.Close()
		return nil
	}

	observability.IncWSActive()

	go func() {
		defer func() {
			unsubscribe()
			observability.DecWSActive()
			_ = conn.Close()
		}()
		for {
			var frame inboundFrame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			if _, err := h.convSvc.SendMessage(ctx, convID, uid, admin, frame.Body, contact); err != nil {
				writeMu.Lock()
				_ = conn.WriteJSON(map[string]string{"type": "error", "message": err.Error()})
				writeMu.Unlock()
			}
		}
	}()

	return nil
}
