package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type EventType string

const (
	EventMessageReceived EventType = "message.received"
	EventCallAnswered    EventType = "call.answered"
	EventCallSpeakEnded  EventType = "call.speak.ended"
	EventCallHangup      EventType = "call.hangup"
)

const CallDirectionIncoming = "incoming"

// WebhookEvent is the envelope the provider posts for every notification.
type WebhookEvent struct {
	Data EventData `json:"data"`
}

type EventData struct {
	ID         string          `json:"id"`
	EventType  EventType       `json:"event_type" validate:"required"`
	OccurredAt string          `json:"occurred_at,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type MessagePayload struct {
	From MessageParty `json:"from"`
	To   PhoneList    `json:"to"`
	Text string       `json:"text"`
}

type MessageParty struct {
	PhoneNumber string `json:"phone_number"`
	Carrier     string `json:"carrier"`
}

type CallPayload struct {
	CallControlID string `json:"call_control_id"`
	ConnectionID  string `json:"connection_id,omitempty"`
	From          string `json:"from"`
	To            string `json:"to"`
	Direction     string `json:"direction,omitempty"`
}

// Parties returns the subscriber's number and the number owned by the bot.
// Outbound calls (the chuck-call flow) reach the user on "to"; inbound calls
// come from the user.
func (p CallPayload) Parties() (user, bot string) {
	if p.Direction == CallDirectionIncoming {
		return p.From, p.To
	}
	return p.To, p.From
}

func (e WebhookEvent) MessagePayload() (MessagePayload, error) {
	var p MessagePayload
	if err := decodePayload(e.Data.Payload, &p); err != nil {
		return MessagePayload{}, err
	}
	if p.From.PhoneNumber == "" {
		return MessagePayload{}, fmt.Errorf("%w: message without sender", ErrMalformedEvent)
	}
	return p, nil
}

func (e WebhookEvent) CallPayload() (CallPayload, error) {
	var p CallPayload
	if err := decodePayload(e.Data.Payload, &p); err != nil {
		return CallPayload{}, err
	}
	if p.CallControlID == "" {
		return CallPayload{}, fmt.Errorf("%w: call event without call_control_id", ErrMalformedEvent)
	}
	return p, nil
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("%w: missing payload", ErrMalformedEvent)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}

// PhoneList accepts either a bare number or a list of numbers/objects with a
// phone_number field.
type PhoneList []string

func (l *PhoneList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = PhoneList{s}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}

	out := make(PhoneList, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}

		var party struct {
			PhoneNumber string `json:"phone_number"`
		}
		if err := json.Unmarshal(item, &party); err != nil {
			return err
		}
		out = append(out, party.PhoneNumber)
	}

	*l = out
	return nil
}

func (l PhoneList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
