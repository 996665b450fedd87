package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/models"
	"github.com/popeskul/pharmacy-messenger/internal/templates"
)

func (s *webhookService) upsertCustomer(ctx context.Context, actor models.Actor) (*models.Customer, error) {
	now := s.now()
	customer, err := s.repo.Customer().Upsert(ctx, models.UpsertCustomerParams{
		ViberID:      actor.ID,
		Name:         actor.Name,
		FirstSeenAt:  &now,
		LastActiveAt: now,
	})
	if err != nil {
		return nil, storeError("upsert customer", err)
	}
	return customer, nil
}

func (s *webhookService) handleConversationStarted(ctx context.Context, event *models.WebhookEvent) error {
	actor := event.Actor()
	if actor.ID == "" {
		return missingIdentity(event.Event)
	}

	customer, err := s.upsertCustomer(ctx, actor)
	if err != nil {
		return err
	}

	text := templates.WelcomeBase(templates.Both)
	s.reply(ctx, customer, Structured{
		Type:     models.MessageTypeText,
		Text:     text,
		Keyboard: templates.WelcomeKeyboard(),
	}, text)

	return nil
}

func (s *webhookService) handleMessage(ctx context.Context, event *models.WebhookEvent) error {
	actor := event.Actor()
	if actor.ID == "" {
		return missingIdentity(event.Event)
	}

	customer, err := s.upsertCustomer(ctx, actor)
	if err != nil {
		return err
	}

	body := event.Text()
	inbound := &models.Message{
		CustomerID:  customer.ID,
		SenderType:  models.SenderTypeCustomer,
		MessageText: body,
		CreatedAt:   s.now(),
	}
	if inbound.MessageText == "" {
		inbound.MessageText = models.NonTextMessageBody
	}
	if event.MessageToken != "" {
		token := string(event.MessageToken)
		inbound.ViberMessageToken = &token
	}

	saved, err := s.repo.Message().Create(ctx, inbound)
	if err != nil {
		s.logger.Error("Failed to save customer message",
			zap.Int64("customerId", customer.ID), zap.Error(err))
		s.collector.RecordDatabaseError()
		saved = inbound
	}

	s.publish(ctx, models.RealtimeNewCustomerMessage, models.CustomerMessageEvent{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		ViberID:      customer.ViberID,
		Message:      saved,
	})

	reply := templates.CommandResponse(body)
	s.reply(ctx, customer, PlainText(reply), reply)

	return nil
}

func (s *webhookService) handleSubscribed(ctx context.Context, event *models.WebhookEvent) error {
	actor := event.Actor()
	if actor.ID == "" {
		return missingIdentity(event.Event)
	}

	customer, err := s.upsertCustomer(ctx, actor)
	if err != nil {
		return err
	}

	s.publish(ctx, models.RealtimeNewSubscriber, models.SubscriberEvent{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		ViberID:      customer.ViberID,
	})

	text := templates.Welcome(templates.Both)
	s.reply(ctx, customer, PlainText(text), text)

	return nil
}

func (s *webhookService) handleUnsubscribed(ctx context.Context, event *models.WebhookEvent) error {
	actor := event.Actor()
	name := actor.Name
	if name == "" {
		name = models.UnknownActorName
	}

	if actor.ID == "" {
		s.publish(ctx, models.RealtimeUserUnsubscribed, models.UnsubscribedEvent{CustomerName: name})
		return missingIdentity(event.Event)
	}

	if err := s.repo.Customer().TouchLastActive(ctx, actor.ID); err != nil {
		s.logger.Error("Failed to update unsubscribed customer",
			zap.String("viberId", actor.ID), zap.Error(err))
		s.collector.RecordDatabaseError()
	}

	s.logger.Info("User unsubscribed", zap.String("name", name), zap.String("viberId", actor.ID))

	viberID := actor.ID
	s.publish(ctx, models.RealtimeUserUnsubscribed, models.UnsubscribedEvent{
		CustomerName: name,
		ViberID:      &viberID,
	})

	return nil
}

// reply dispatches content to the customer and records it as a system
// message once Viber accepted it.
func (s *webhookService) reply(ctx context.Context, customer *models.Customer, content Content, text string) {
	result := s.dispatcher.Send(ctx, customer.ViberID, content)
	if !result.Success {
		s.logger.Warn("Reply was not delivered",
			zap.String("viberId", customer.ViberID), zap.String("detail", result.Detail))
		s.collector.RecordViberAPIError()
		return
	}

	s.collector.RecordMessageSent()

	_, err := s.repo.Message().Create(ctx, &models.Message{
		CustomerID:  customer.ID,
		SenderType:  models.SenderTypeSystem,
		MessageText: text,
		CreatedAt:   s.now(),
	})
	if err != nil {
		s.logger.Error("Failed to save system message",
			zap.Int64("customerId", customer.ID), zap.Error(err))
		s.collector.RecordDatabaseError()
	}
}

func (s *webhookService) publish(ctx context.Context, event string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, models.AdminRoom, event, payload); err != nil {
		s.logger.Warn("Failed to publish realtime event", zap.String("event", event), zap.Error(err))
	}
}
