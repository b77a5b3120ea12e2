package handler

import (
	"context"

	"dutyfree_shop/constants"
	"dutyfree_shop/model"
	"dutyfree_shop/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// WatchOrder runs before the upgrade: it checks the stream is available and
// that the caller owns the order.
func (h *Handler) WatchOrder(c *fiber.Ctx) error {
	if h.Events == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Order updates are unavailable", nil)
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	customer := currentCustomer(c)
	view, err := h.Orders.Get(c.UserContext(), customer.ID, c.Params("orderCode"))
	if err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}
	c.Locals("order", view)
	c.Locals("customerId", customer.ID)
	return c.Next()
}

// OrderStatusStream subscribes to the order's updates, sends the current
// state and then every status change published for it until the client goes
// away. The snapshot is read after the subscription is live so no change
// falls between the two.
func (h *Handler) OrderStatusStream(c *websocket.Conn) {
	defer c.Close()
	view, _ := c.Locals("order").(*model.OrderView)
	if view == nil {
		return
	}
	code := view.PublicCode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub, err := h.Events.Watch(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("order_code", code).Msg("failed to watch order")
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "order updates are unavailable"))
		return
	}
	defer pubsub.Close()

	if customerId, ok := c.Locals("customerId").(uint); ok {
		if fresh, err := h.Orders.Get(ctx, customerId, code); err == nil {
			view = fresh
		}
	}
	if err := c.WriteJSON(model.OrderStatusEvent{
		OrderCode:     code,
		Status:        view.Status,
		PaymentStatus: view.PaymentStatus,
		At:            view.UpdatedAt,
	}); err != nil {
		return
	}

	// the read loop only notices the client hanging up
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	channel := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-channel:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Debug().Err(err).Str("order_code", code).Msg("order watcher went away")
				return
			}
		}
	}
}
