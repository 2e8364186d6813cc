package service

import (
	"context"
	"errors"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

// Small internal interfaces so we can test without touching the real store,
// Telnyx or chucknorris.io.
type subscriberRepository interface {
	Add(ctx context.Context, sub domain.Subscriber) error
	Remove(ctx context.Context, number string) error
	List(ctx context.Context) ([]domain.Subscriber, error)
}

type messagingGateway interface {
	SendSMS(ctx context.Context, to, from, text string) (domain.DeliveryStatus, error)
	Dial(ctx context.Context, to, from, connectionID string) error
	Speak(ctx context.Context, callControlID, text string) error
	Hangup(ctx context.Context, callControlID string) error
}

type contentProvider interface {
	Fetch(ctx context.Context) (string, error)
}

type eventDeduper interface {
	MarkProcessed(ctx context.Context, key string) (bool, error)
}

// Dispatcher turns webhook events into store mutations and gateway calls.
type Dispatcher struct {
	repo    subscriberRepository
	gateway messagingGateway
	content contentProvider
	deduper eventDeduper
	config  environments.MessageConfig
}

func NewDispatcher(
	repo subscriberRepository,
	gateway messagingGateway,
	content contentProvider,
	config environments.MessageConfig,
) *Dispatcher {
	return &Dispatcher{
		repo:    repo,
		gateway: gateway,
		content: content,
		config:  config,
	}
}

// WithDeduper skips events whose id was already handled, so provider retries
// do not trigger a second reply.
func (d *Dispatcher) WithDeduper(deduper eventDeduper) *Dispatcher {
	d.deduper = deduper
	return d
}

// Dispatch handles one event to completion. Failures are logged and, where a
// reply channel exists, turned into a text for the subscriber.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.WebhookEvent) {
	if event.Data.EventType == "" {
		logger.Warnf("Dropping webhook event: %v", domain.ErrMalformedEvent)
		return
	}

	if !d.firstDelivery(ctx, "id:"+event.Data.ID, event.Data.ID != "") {
		logger.Infof("Skipping duplicate webhook event %s (%s)", event.Data.ID, event.Data.EventType)
		return
	}

	switch event.Data.EventType {
	case domain.EventMessageReceived:
		d.handleMessage(ctx, event)
	case domain.EventCallAnswered:
		d.handleCallAnswered(ctx, event)
	case domain.EventCallSpeakEnded:
		d.handleSpeakEnded(ctx, event)
	case domain.EventCallHangup:
		d.handleHangup(ctx, event)
	default:
		logger.Debugf("Ignoring webhook event %s", event.Data.EventType)
	}
}

// firstDelivery fails open: without a deduper, without a key or on cache
// errors the event is processed.
func (d *Dispatcher) firstDelivery(ctx context.Context, key string, hasKey bool) bool {
	if d.deduper == nil || !hasKey {
		return true
	}

	first, err := d.deduper.MarkProcessed(ctx, key)
	if err != nil {
		logger.Warnf("Dedup check failed for %s, processing anyway: %v", key, err)
		return true
	}
	return first
}

func (d *Dispatcher) handleMessage(ctx context.Context, event domain.WebhookEvent) {
	payload, err := event.MessagePayload()
	if err != nil {
		logger.Warnf("Invalid message.received event %s: %v", event.Data.ID, err)
		return
	}

	sender := payload.From.PhoneNumber
	recipient := payload.To.First()
	if recipient == "" {
		recipient = d.config.SMSFromNumber
	}

	logger.Infof("New SMS received / from [%s] / to [%s] / text [%s]", sender, recipient, payload.Text)

	switch normalizeCommand(payload.Text) {
	case CommandSubscribe:
		d.subscribe(ctx, sender, payload.From.Carrier, recipient)
	case CommandUnsubscribe:
		d.unsubscribe(ctx, sender, recipient)
	case CommandJokeNow:
		d.sendJoke(ctx, sender, recipient)
	case CommandJokeCall:
		d.callWithJoke(ctx, sender, recipient)
	default:
		logger.Infof("Unrecognized command from [%s]: [%s]", sender, payload.Text)
		d.reply(ctx, sender, recipient, textHelp)
	}
}

func (d *Dispatcher) subscribe(ctx context.Context, sender, carrier, recipient string) {
	logger.Infof("Chuck-In received from: %s", sender)

	if carrier == "" {
		carrier = domain.UnknownCarrier
	}

	err := d.repo.Add(ctx, domain.Subscriber{
		Number:    sender,
		Carrier:   carrier,
		ReplyFrom: recipient,
	})

	switch {
	case err == nil:
		logger.Infof("New subscriber added: %s", sender)
		d.reply(ctx, sender, recipient, textSubscribed)
	case errors.Is(err, domain.ErrAlreadySubscribed):
		logger.Infof("Double subscription attempt: %s", sender)
		d.reply(ctx, sender, recipient, textAlreadySubscribed)
	default:
		logger.Errorf("Failed to add subscriber %s: %v", sender, err)
		d.reply(ctx, sender, recipient, textRequestFailed)
	}
}

func (d *Dispatcher) unsubscribe(ctx context.Context, sender, recipient string) {
	logger.Infof("Chuck-Out received from: %s", sender)

	if err := d.repo.Remove(ctx, sender); err != nil {
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			logger.Infof("Subscriber does not exist: %s", sender)
		} else {
			logger.Errorf("Failed to remove subscriber %s: %v", sender, err)
		}
		d.reply(ctx, sender, recipient, textRequestFailed)
		return
	}

	logger.Infof("Subscriber removed: %s", sender)
	d.reply(ctx, sender, recipient, textUnsubscribed)
}

func (d *Dispatcher) sendJoke(ctx context.Context, sender, recipient string) {
	logger.Infof("Chuck-Now received from: %s", sender)

	joke, err := d.content.Fetch(ctx)
	if err != nil {
		logger.Warnf("Unable to fetch joke for %s: %v", sender, err)
		d.reply(ctx, sender, recipient, textNoJokes)
		return
	}

	d.reply(ctx, sender, recipient, composeJoke(joke, d.config.MaxLength))
}

func (d *Dispatcher) callWithJoke(ctx context.Context, sender, recipient string) {
	logger.Infof("Chuck-Call received from: %s", sender)

	from := d.config.VoiceFrom
	if from == "" {
		from = recipient
	}

	if err := d.gateway.Dial(ctx, sender, from, d.config.ConnectionID); err != nil {
		logger.Errorf("Failed to dial %s: %v", sender, err)
	}
}

func (d *Dispatcher) handleCallAnswered(ctx context.Context, event domain.WebhookEvent) {
	call, err := event.CallPayload()
	if err != nil {
		logger.Warnf("Invalid call.answered event %s: %v", event.Data.ID, err)
		return
	}

	user, bot := call.Parties()

	joke, err := d.content.Fetch(ctx)
	if err != nil {
		logger.Warnf("Unable to fetch joke for call %s: %v", call.CallControlID, err)
		d.reply(ctx, user, bot, textNoJokes)
		return
	}

	if err := d.gateway.Speak(ctx, call.CallControlID, joke); err != nil {
		logger.Errorf("Failed to speak on call %s: %v", call.CallControlID, err)
	}
}

func (d *Dispatcher) handleSpeakEnded(ctx context.Context, event domain.WebhookEvent) {
	call, err := event.CallPayload()
	if err != nil {
		logger.Warnf("Invalid call.speak.ended event %s: %v", event.Data.ID, err)
		return
	}

	if err := d.gateway.Hangup(ctx, call.CallControlID); err != nil {
		logger.Errorf("Failed to hang up call %s: %v", call.CallControlID, err)
	}
}

func (d *Dispatcher) handleHangup(ctx context.Context, event domain.WebhookEvent) {
	call, err := event.CallPayload()
	if err != nil {
		logger.Warnf("Invalid call.hangup event %s: %v", event.Data.ID, err)
		return
	}

	if !d.firstDelivery(ctx, "hangup:"+call.CallControlID, true) {
		logger.Infof("Follow-up for call %s already sent", call.CallControlID)
		return
	}

	user, bot := call.Parties()
	d.reply(ctx, user, bot, textCallFollowUp)
}

// reply sends one SMS; the outcome is only logged.
func (d *Dispatcher) reply(ctx context.Context, to, from, text string) {
	status, err := d.gateway.SendSMS(ctx, to, from, text)
	if err != nil {
		logger.Errorf("Failed to send SMS to %s: %v", to, err)
		return
	}

	if status != domain.DeliveryQueued {
		logger.Warnf("Message delivery to %s failed (status: %s)", to, status)
		return
	}

	logger.Infof("Message sent to: %s", to)
}
