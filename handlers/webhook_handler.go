package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
	"github.com/onurcolak/chuck-norris-sms/pkg/response"
	"github.com/onurcolak/chuck-norris-sms/pkg/validator"
)

type eventDispatcher interface {
	Dispatch(ctx context.Context, event domain.WebhookEvent)
}

// WebhookHandler acknowledges provider notifications and hands them to the
// dispatcher in the background.
type WebhookHandler struct {
	dispatcher eventDispatcher
	timeout    time.Duration
}

func NewWebhookHandler(dispatcher eventDispatcher, timeout time.Duration) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

// ReceiveEvent godoc
// @Summary Receive a Telnyx webhook
// @Description Acknowledges an SMS or call control event and processes it in the background
// @Tags webhook
// @Accept json
// @Produce plain
// @Param event body domain.WebhookEvent true "Telnyx v2 webhook event"
// @Success 200 {string} string "empty body, or 0 when the payload is malformed"
// @Router /chuck-norris/sms [post]
func (h *WebhookHandler) ReceiveEvent(c echo.Context) error {
	var event domain.WebhookEvent
	if err := c.Bind(&event); err != nil {
		logger.Warnf("Malformed webhook body: %v", err)
		return response.AckMalformed(c)
	}

	if err := c.Validate(&event); err != nil {
		logger.Warnf("Invalid webhook event: %s", validator.Describe(err))
		return response.AckMalformed(c)
	}

	logger.Infof("Webhook event received: %s (%s)", event.Data.EventType, event.Data.ID)

	// The reply goes out before any processing; the event outlives the request.
	ctx := context.WithoutCancel(c.Request().Context())
	go h.dispatch(ctx, event)

	return response.Ack(c)
}

func (h *WebhookHandler) dispatch(ctx context.Context, event domain.WebhookEvent) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Panic while dispatching event %s: %v", event.Data.ID, r)
		}
	}()

	h.dispatcher.Dispatch(ctx, event)
}
