package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	commandTimeout = 30 * time.Second
)

// Client is one dashboard connection.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("Realtime read failed", zap.String("connectionId", c.id), zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.hub.logger.Warn("Ignoring malformed realtime frame", zap.String("connectionId", c.id), zap.Error(err))
			continue
		}
		c.handle(env)
	}
}

func (c *Client) handle(env Envelope) {
	switch env.Event {
	case models.RealtimeJoinAdmin:
		c.hub.join(c, models.AdminRoom)
		c.hub.logger.Info("Admin joined", zap.String("connectionId", c.id))
		c.emit(models.RealtimeSystemMetrics, c.hub.collector.GetMetrics())

	case models.RealtimeAdminSendMessage:
		var req models.AdminMessageRequest
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &req); err != nil {
				c.emit(models.RealtimeAdminMessageError, models.AdminMessageError{Error: "invalid payload"})
				return
			}
		}
		c.sendAdminMessage(req)

	default:
		c.hub.logger.Debug("Unhandled realtime event", zap.String("event", env.Event))
	}
}

func (c *Client) sendAdminMessage(req models.AdminMessageRequest) {
	admin := c.hub.adminSender()
	if admin == nil {
		c.emit(models.RealtimeAdminMessageError, models.AdminMessageError{
			Error:           "admin messaging is not available",
			CustomerViberID: req.CustomerViberID,
			CustomerID:      req.CustomerID,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := admin.SendAdminMessage(ctx, req); err != nil {
		c.hub.logger.Warn("Admin message failed", zap.String("connectionId", c.id), zap.Error(err))
		c.emit(models.RealtimeAdminMessageError, models.AdminMessageError{
			Error:           err.Error(),
			CustomerViberID: req.CustomerViberID,
			CustomerID:      req.CustomerID,
		})
	}
}

func (c *Client) emit(event string, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		c.hub.logger.Error("Failed to encode realtime frame", zap.Error(err))
		return
	}
	c.hub.sendTo(c, frame)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
