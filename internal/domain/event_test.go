package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMessagePayload_ToAsString(t *testing.T) {
	raw := `{"data":{"id":"evt-1","event_type":"message.received","payload":{
		"from":{"phone_number":"+15551234567","carrier":"T-Mobile"},
		"to":"+15557654321","text":"chuck-in"}}}`

	var evt WebhookEvent
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	p, err := evt.MessagePayload()
	if err != nil {
		t.Fatalf("MessagePayload returned error: %v", err)
	}

	if p.From.PhoneNumber != "+15551234567" || p.From.Carrier != "T-Mobile" {
		t.Errorf("unexpected sender %+v", p.From)
	}
	if p.To.First() != "+15557654321" {
		t.Errorf("expected recipient +15557654321, got %q", p.To.First())
	}
}

func TestMessagePayload_ToAsObjectList(t *testing.T) {
	raw := `{"data":{"event_type":"message.received","payload":{
		"from":{"phone_number":"+15551234567"},
		"to":[{"phone_number":"+15557654321","status":"webhook_delivered"}],"text":"hi"}}}`

	var evt WebhookEvent
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	p, err := evt.MessagePayload()
	if err != nil {
		t.Fatalf("MessagePayload returned error: %v", err)
	}
	if p.To.First() != "+15557654321" {
		t.Errorf("expected recipient +15557654321, got %q", p.To.First())
	}
}

func TestMessagePayload_MissingSenderIsMalformed(t *testing.T) {
	evt := WebhookEvent{Data: EventData{
		EventType: EventMessageReceived,
		Payload:   json.RawMessage(`{"to":"+15557654321","text":"chuck-now"}`),
	}}

	if _, err := evt.MessagePayload(); !errors.Is(err, ErrMalformedEvent) {
		t.Fatalf("expected ErrMalformedEvent, got %v", err)
	}
}

func TestCallPayload_MissingPayloadIsMalformed(t *testing.T) {
	evt := WebhookEvent{Data: EventData{EventType: EventCallAnswered}}

	if _, err := evt.CallPayload(); !errors.Is(err, ErrMalformedEvent) {
		t.Fatalf("expected ErrMalformedEvent, got %v", err)
	}
}

func TestCallPayload_Parties(t *testing.T) {
	outgoing := CallPayload{From: "+15550000001", To: "+15551234567", Direction: "outgoing"}
	user, bot := outgoing.Parties()
	if user != "+15551234567" || bot != "+15550000001" {
		t.Errorf("outgoing: got user=%q bot=%q", user, bot)
	}

	incoming := CallPayload{From: "+15551234567", To: "+15550000001", Direction: CallDirectionIncoming}
	user, bot = incoming.Parties()
	if user != "+15551234567" || bot != "+15550000001" {
		t.Errorf("incoming: got user=%q bot=%q", user, bot)
	}
}
