package echo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/memberful/memberful-go/pkg/webhooks"
)

const testSecret = "whsec_test"

var signupBody = []byte(`{"event": "member_signup", "member": {"id": 42, "email": "a@b.c", "created_at": 1}}`)

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newApp(t *testing.T, onEvent EventHandler) *echo.Echo {
	t.Helper()
	handler, err := Handler(Config{Secret: testSecret, OnEvent: onEvent})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	e := echo.New()
	e.POST("/webhooks/memberful", handler)
	return e
}

func TestHandler_ValidDelivery(t *testing.T) {
	var got webhooks.Event
	e := newApp(t, func(_ context.Context, event webhooks.Event) error {
		got = event
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/memberful", bytes.NewReader(signupBody))
	req.Header.Set(webhooks.SignatureHeader, sign(signupBody))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, ok := got.(*webhooks.MemberSignupEvent); !ok {
		t.Fatalf("callback received %T", got)
	}
}

func TestHandler_InvalidSignature(t *testing.T) {
	e := newApp(t, func(context.Context, webhooks.Event) error { return nil })

	req := httptest.NewRequest(http.MethodPost, "/webhooks/memberful", bytes.NewReader(signupBody))
	req.Header.Set(webhooks.SignatureHeader, "sha256=deadbeef")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHandler_RequiresSecret(t *testing.T) {
	_, err := Handler(Config{OnEvent: func(context.Context, webhooks.Event) error { return nil }})
	if err == nil {
		t.Fatal("Handler without secret should fail")
	}
}
