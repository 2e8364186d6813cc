package telnyx

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

// Client talks to the Telnyx v2 messaging and call control APIs. Every call is
// one-shot: there are no retries.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	voice      environments.VoiceConfig
}

func NewClient(cfg environments.TelnyxConfig) *Client {
	baseURL := strings.TrimRight(cfg.APIURL, "/")

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		baseURL:    baseURL,
		voice:      cfg.Voice,
	}
}

// SendSMS reports DeliveryQueued only when the provider marks every recipient
// as queued. Queued means accepted for delivery, not delivered.
func (c *Client) SendSMS(ctx context.Context, to, from, text string) (domain.DeliveryStatus, error) {
	logger.Debugf("Sending SMS to %s from %s: %q", to, from, text)

	var body messageResponse

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(messageRequest{From: from, To: to, Text: text}).
		SetResult(&body).
		Post("/messages")

	duration := time.Since(startTime)

	if err != nil {
		return domain.DeliveryFailed, fmt.Errorf("%w: failed to send message: %v", domain.ErrTransport, err)
	}

	logger.Infof("Telnyx send_sms to %s completed in %v (status: %d)", to, duration, resp.StatusCode())

	if resp.IsError() {
		return domain.DeliveryFailed, fmt.Errorf("%w: unexpected status code: %d, body: %s",
			domain.ErrTransport, resp.StatusCode(), resp.String())
	}

	if !allQueued(body.Data) {
		logger.Warnf("Message delivery to %s was not queued, body: %s", to, resp.String())
		return domain.DeliveryFailed, nil
	}

	return domain.DeliveryQueued, nil
}

func allQueued(data *messageData) bool {
	if data == nil || len(data.To) == 0 {
		return false
	}
	for _, r := range data.To {
		if r.Status != string(domain.DeliveryQueued) {
			return false
		}
	}
	return true
}

// Dial places an outbound call from one of our numbers.
func (c *Client) Dial(ctx context.Context, to, from, connectionID string) error {
	return c.command(ctx, "dial", "/calls", dialRequest{
		To:           to,
		From:         from,
		ConnectionID: connectionID,
	})
}

// Speak reads text on an active call with the configured TTS voice.
func (c *Client) Speak(ctx context.Context, callControlID, text string) error {
	return c.command(ctx, "speak", actionPath(callControlID, "speak"), speakRequest{
		Payload:  text,
		Voice:    c.voice.TTSVoice,
		Language: c.voice.TTSLanguage,
	})
}

func (c *Client) Hangup(ctx context.Context, callControlID string) error {
	return c.command(ctx, "hangup", actionPath(callControlID, "hangup"), struct{}{})
}

// Answer picks up an inbound call leg. Unused by the dispatcher, which only
// handles calls it dialed itself.
func (c *Client) Answer(ctx context.Context, callControlID, clientState string) error {
	req := answerRequest{}
	if clientState != "" {
		req.ClientState = base64.StdEncoding.EncodeToString([]byte(clientState))
	}
	return c.command(ctx, "answer", actionPath(callControlID, "answer"), req)
}

func (c *Client) GetURL() string {
	return c.baseURL
}

func actionPath(callControlID, action string) string {
	return "/calls/" + url.PathEscape(callControlID) + "/actions/" + action
}

// command issues a call control action. The response is only logged.
func (c *Client) command(ctx context.Context, action, path string, payload any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(path)
	if err != nil {
		return fmt.Errorf("%w: %s failed: %v", domain.ErrTransport, action, err)
	}

	logger.Debugf("Command executed [%s] (status: %d): %s", action, resp.StatusCode(), resp.String())

	if resp.IsError() {
		return fmt.Errorf("%w: %s returned status %d: %s", domain.ErrTransport, action, resp.StatusCode(), resp.String())
	}

	return nil
}
