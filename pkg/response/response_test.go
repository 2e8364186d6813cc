package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	return e.NewContext(req, rec), rec
}

func TestText_WritesPlainText200(t *testing.T) {
	c, rec := newContext()

	if err := Text(c, "subscriber deleted: +15551234567"); err != nil {
		t.Fatalf("Text returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMETextPlain) {
		t.Errorf("expected text/plain content type, got %q", ct)
	}
	if rec.Body.String() != "subscriber deleted: +15551234567" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAck_EmptyAndMalformed(t *testing.T) {
	c, rec := newContext()
	if err := Ack(c); err != nil {
		t.Fatalf("Ack returned error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200, got %d %q", rec.Code, rec.Body.String())
	}

	c, rec = newContext()
	if err := AckMalformed(c); err != nil {
		t.Fatalf("AckMalformed returned error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != MalformedAck {
		t.Fatalf("expected 200 %q, got %d %q", MalformedAck, rec.Code, rec.Body.String())
	}
}

func TestUnauthorized_ReturnsJSONError(t *testing.T) {
	c, rec := newContext()

	if err := Unauthorized(c); err != nil {
		t.Fatalf("Unauthorized returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Success || body.Error == "" {
		t.Errorf("unexpected body %+v", body)
	}
}
