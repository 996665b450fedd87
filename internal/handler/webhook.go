package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/middleware"
	"github.com/popeskul/pharmacy-messenger/internal/models"
)

const maxWebhookBody = 1 << 20

var webhookAck = api.WebhookAck{Status: "ok"}

// ReceiveWebhook implements api.ServerInterface. Viber retries anything that
// is not a 200, so every request is acknowledged, including ones that are
// dropped.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request, params api.ReceiveWebhookParams) {
	log := h.logger.With(zap.String("request_id", middleware.GetRequestID(r.Context())))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		log.Warn("Failed to read webhook body", zap.Error(err))
		render.JSON(w, r, webhookAck)
		return
	}

	if h.viber.VerifySignature {
		var signature string
		if params.XViberContentSignature != nil {
			signature = *params.XViberContentSignature
		}
		if !VerifySignature(h.viber.AuthToken, body, signature) {
			log.Warn("Dropping webhook with invalid signature")
			render.JSON(w, r, webhookAck)
			return
		}
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Warn("Dropping malformed webhook body", zap.Error(err))
		render.JSON(w, r, webhookAck)
		return
	}

	h.service.Webhook.HandleEvent(context.WithoutCancel(r.Context()), &event)

	render.JSON(w, r, webhookAck)
}
