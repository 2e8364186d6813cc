package jokes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

// joke is the subset of the chucknorris.io response we read.
type joke struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Value string `json:"value"`
}

type Client struct {
	httpClient *resty.Client
	url        string
}

func NewClient(cfg environments.JokesConfig) *Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		url:        cfg.URL,
	}
}

// Fetch returns a random joke. Every failure mode is reported as
// domain.ErrContentUnavailable.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	var result joke

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		ForceContentType("application/json").
		Get(c.url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
	}

	logger.Infof("Calling chucknorris.io completed in %v (status: %d)", time.Since(startTime), resp.StatusCode())

	if resp.IsError() {
		return "", fmt.Errorf("%w: unexpected status code: %d", domain.ErrContentUnavailable, resp.StatusCode())
	}

	value := strings.TrimSpace(result.Value)
	if value == "" {
		return "", fmt.Errorf("%w: empty joke in response", domain.ErrContentUnavailable)
	}

	logger.Debugf("chucknorris.io result: %s (%s)", result.ID, value)

	return value, nil
}
