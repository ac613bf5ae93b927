package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"validation", domain.Invalid("amount must be positive"), http.StatusBadRequest, "validation_error", false},
		{"funded campaign", domain.ErrCampaignFunded, http.StatusBadRequest, "validation_error", false},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", false},
		{"forbidden", domain.Forbidden("not yours"), http.StatusForbidden, "forbidden", false},
		{"not found", domain.NotFound("campaign"), http.StatusNotFound, "not_found", false},
		{"conflict", domain.Conflict("email taken"), http.StatusConflict, "conflict", false},
		{"signature mismatch", payment.ErrSignatureMismatch, http.StatusBadRequest, "payment_verification_failed", false},
		{"gateway not configured", payment.ErrGatewayNotConfigured, http.StatusInternalServerError, "gateway_not_configured", false},
		{"gateway", fmt.Errorf("%w: create order: timeout", payment.ErrGateway), http.StatusBadGateway, "gateway_error", false},
		{"persistence", domain.Persistence("complete donation", errors.New("conn reset")), http.StatusServiceUnavailable, "unavailable", true},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, "unavailable", true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := classify(tc.err)
			if status != tc.status || body.Code != tc.code || body.Retryable != tc.retryable {
				t.Fatalf("classify(%v) = %d %+v, want %d %s retryable=%v", tc.err, status, body, tc.status, tc.code, tc.retryable)
			}
		})
	}
}

func TestClassifyHidesInternalDetails(t *testing.T) {
	_, body := classify(domain.Persistence("insert donation", errors.New("password=hunter2")))
	if body.Message != "storage temporarily unavailable, retry the request" {
		t.Fatalf("message leaked: %q", body.Message)
	}
}

func TestOpenAPIJSONConditional(t *testing.T) {
	app := &App{}
	rec := httptest.NewRecorder()
	app.OpenAPIJSON(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	etag := rec.Header().Get("ETag")
	if rec.Code != http.StatusOK || etag == "" || rec.Body.Len() != len(openAPISpec) {
		t.Fatalf("first fetch = %d etag=%q len=%d", rec.Code, etag, rec.Body.Len())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	app.OpenAPIJSON(rec, req)
	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Fatalf("conditional fetch = %d len=%d", rec.Code, rec.Body.Len())
	}
}
