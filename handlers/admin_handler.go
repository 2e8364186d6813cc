package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
	"github.com/onurcolak/chuck-norris-sms/pkg/response"
	"github.com/onurcolak/chuck-norris-sms/pkg/validator"
)

type subscriberStore interface {
	Add(ctx context.Context, sub domain.Subscriber) error
	Remove(ctx context.Context, number string) error
}

// AdminHandler serves the remote control endpoints for the subscriber list
// and the process itself.
type AdminHandler struct {
	store     subscriberStore
	replyFrom string
	terminate func()
}

type SubscriberQuery struct {
	Number string `query:"number" json:"number" validate:"required,e164"`
}

func NewAdminHandler(store subscriberStore, replyFrom string, terminate func()) *AdminHandler {
	return &AdminHandler{
		store:     store,
		replyFrom: replyFrom,
		terminate: terminate,
	}
}

// AddSubscriber godoc
// @Summary Add a subscriber
// @Description Adds a number to the daily joke list with carrier "unknown"
// @Tags subscribers
// @Produce plain
// @Param x-admin-key header string false "Admin key, required when ADMIN_API_KEY is set"
// @Param number query string true "E.164 phone number, e.g. %2B15551234567"
// @Success 200 {string} string
// @Router /chuck-norris/add [get]
func (h *AdminHandler) AddSubscriber(c echo.Context) error {
	const failure = "ups... looks like we were unable to add the new subscriber..."

	number, err := h.bindNumber(c)
	if err != nil {
		logger.Warnf("Rejected subscriber add: %s", validator.Describe(err))
		return response.Text(c, failure)
	}

	err = h.store.Add(c.Request().Context(), domain.Subscriber{
		Number:    number,
		Carrier:   domain.UnknownCarrier,
		ReplyFrom: h.replyFrom,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySubscribed) {
			logger.Infof("Double subscription attempt: %s", number)
		} else {
			logger.Errorf("Failed to add subscriber %s: %v", number, err)
		}
		return response.Text(c, failure)
	}

	logger.Infof("New subscriber added: %s", number)
	return response.Text(c, "new subscriber added: "+number)
}

// DeleteSubscriber godoc
// @Summary Delete a subscriber
// @Tags subscribers
// @Produce plain
// @Param x-admin-key header string false "Admin key, required when ADMIN_API_KEY is set"
// @Param number query string true "E.164 phone number, e.g. %2B15551234567"
// @Success 200 {string} string
// @Router /chuck-norris/delete [get]
func (h *AdminHandler) DeleteSubscriber(c echo.Context) error {
	const failure = "ups... looks like we were unable to remove that subscriber right now..."

	number, err := h.bindNumber(c)
	if err != nil {
		logger.Warnf("Rejected subscriber delete: %s", validator.Describe(err))
		return response.Text(c, failure)
	}

	if err := h.store.Remove(c.Request().Context(), number); err != nil {
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			logger.Infof("Subscriber does not exist: %s", number)
		} else {
			logger.Errorf("Failed to remove subscriber %s: %v", number, err)
		}
		return response.Text(c, failure)
	}

	logger.Infof("Subscriber removed: %s", number)
	return response.Text(c, "subscriber deleted: "+number)
}

// Stop godoc
// @Summary Terminate the process
// @Description Replies, then exits immediately. In-flight work is abandoned.
// @Tags admin
// @Produce plain
// @Param x-admin-key header string false "Admin key, required when ADMIN_API_KEY is set"
// @Success 200 {string} string
// @Router /chuck-norris/stop [get]
func (h *AdminHandler) Stop(c echo.Context) error {
	logger.Warnf("Terminating Chuck Norris bot...")

	err := response.Text(c, "terminating...")
	c.Response().Flush()

	h.terminate()
	return err
}

func (h *AdminHandler) bindNumber(c echo.Context) (string, error) {
	var query SubscriberQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return "", err
	}
	query.Number = restorePlus(query.Number)

	if err := c.Validate(&query); err != nil {
		return "", err
	}

	return query.Number, nil
}

// restorePlus undoes query decoding of an unescaped leading "+" into a space,
// so add?number=+15551234567 works as typed.
func restorePlus(number string) string {
	if !strings.HasPrefix(number, " ") {
		return number
	}

	digits := strings.TrimLeft(number, " ")
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return number
	}
	return "+" + digits
}
