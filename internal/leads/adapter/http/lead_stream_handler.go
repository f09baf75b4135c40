package http

import (
	"context"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
	"github.com/putuyoga/privyr-lead/internal/shared/eventbus"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const (
	StreamMessageSubscribed = "subscribed"
	StreamMessageLead       = "lead"

	defaultStreamBuffer = 16
)

// LeadStreamHandler pushes newly captured leads to their owner over a
// WebSocket.
type LeadStreamHandler struct {
	bus    eventbus.EventBusInterface
	buffer int
	log    logger.Logger
}

// NewLeadStreamHandler creates a new LeadStreamHandler. buffer bounds the
// frames queued per connection; leads arriving while it is full are dropped.
func NewLeadStreamHandler(bus eventbus.EventBusInterface, buffer int, log logger.Logger) *LeadStreamHandler {
	if buffer <= 0 {
		buffer = defaultStreamBuffer
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LeadStreamHandler{
		bus:    bus,
		buffer: buffer,
		log:    log.WithComponent("lead_stream"),
	}
}

// RegisterRoutes registers the stream endpoint behind ownerGuard, which may be
// nil.
func (h *LeadStreamHandler) RegisterRoutes(router fiber.Router, ownerGuard fiber.Handler) {
	handlers := []fiber.Handler{requireUpgrade}
	if ownerGuard != nil {
		handlers = append(handlers, ownerGuard)
	}
	handlers = append(handlers, websocket.New(h.serve))
	router.Get("/users/:userId/leads/stream", handlers...)
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *LeadStreamHandler) serve(conn *websocket.Conn) {
	userID := utils.CopyString(conn.Params("userId"))
	log := h.log.WithFields(map[string]interface{}{
		"user_id":       userID,
		"subscriber_id": uuid.NewString(),
	})

	leads := make(chan *model.Lead, h.buffer)
	subscriptionID := h.bus.Subscribe(model.EventTypeLeadCaptured, func(ctx context.Context, event eventbus.Event) error {
		captured, ok := event.Data().(model.LeadCapturedEvent)
		if !ok || captured.UserID != userID {
			return nil
		}
		select {
		case leads <- captured.Lead:
		default:
			log.Warn("stream buffer full, dropping lead")
		}
		return nil
	})
	defer h.bus.Unsubscribe(subscriptionID)

	log.Info("lead stream opened")
	defer log.Info("lead stream closed")

	if err := conn.WriteJSON(StreamMessage{Type: StreamMessageSubscribed, Data: fiber.Map{"userId": userID}}); err != nil {
		return
	}

	// Clients never send anything meaningful; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warnf("lead stream read failed: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case lead := <-leads:
			if err := conn.WriteJSON(StreamMessage{Type: StreamMessageLead, Data: NewLeadResponse(lead)}); err != nil {
				log.Warnf("lead stream write failed: %v", err)
				return
			}
		}
	}
}
