package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/adapter/memory"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/http/handlers"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

const testSecret = "router-test-secret"

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := memory.NewSeeded()
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	app := handlers.NewApp(store, payment.NewMockGateway(), zerolog.Nop(), testSecret, time.Second)
	return &testAPI{t: t, handler: NewRouter(app, Options{RateLimitPerMinute: 100})}
}

func (api *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	api.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			api.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	payload := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			api.t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, payload
}

func (api *testAPI) signIn(email string) string {
	api.t.Helper()
	code, body := api.do(http.MethodPost, "/auth/signin", "", map[string]string{"email": email, "password": memory.DemoPassword})
	if code != http.StatusOK {
		api.t.Fatalf("sign in %s: status %d body %v", email, code, body)
	}
	return body["token"].(string)
}

func (api *testAPI) campaign(id string) map[string]any {
	api.t.Helper()
	code, body := api.do(http.MethodGet, "/campaigns/"+id, "", nil)
	if code != http.StatusOK {
		api.t.Fatalf("get campaign: status %d body %v", code, body)
	}
	return body["campaign"].(map[string]any)
}

func errorCode(body map[string]any) string {
	envelope, _ := body["error"].(map[string]any)
	code, _ := envelope["code"].(string)
	return code
}

func str(v any) string { return fmt.Sprint(v) }

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	code, body := api.do(http.MethodGet, "/v1/healthz", "", nil)
	if code != http.StatusOK || body["status"] != "ok" || body["gateway"] != "mock" {
		t.Fatalf("health = %d %v", code, body)
	}
}

func TestListCampaigns(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(http.MethodGet, "/campaigns", "", nil)
	if code != http.StatusOK || str(body["count"]) != "5" {
		t.Fatalf("list = %d %v", code, body)
	}

	code, body = api.do(http.MethodGet, "/campaigns?featured=true&limit=2&sort=goal", "", nil)
	if code != http.StatusOK {
		t.Fatalf("featured list status = %d", code)
	}
	items := body["campaigns"].([]any)
	if len(items) != 2 {
		t.Fatalf("featured list size = %d, want 2", len(items))
	}
	if first := items[0].(map[string]any); first["title"] != "New Temple Construction" || str(first["progress"]) != "30" {
		t.Fatalf("first featured campaign = %v", first)
	}

	for _, path := range []string{"/campaigns?sort=random", "/campaigns?limit=0", "/campaigns?featured=maybe", "/campaigns?category=music"} {
		code, body := api.do(http.MethodGet, path, "", nil)
		if code != http.StatusBadRequest || errorCode(body) != "validation_error" {
			t.Fatalf("%s = %d %v, want 400 validation_error", path, code, body)
		}
	}
}

func TestGetCampaign(t *testing.T) {
	api := newTestAPI(t)
	c := api.campaign(memory.SeedID("campaign", 1))
	if str(c["progress"]) != "50" || str(c["remainingAmount"]) != "250000" || c["daysLeft"] == nil {
		t.Fatalf("campaign = %v", c)
	}
	if updates := c["updates"].([]any); len(updates) != 2 {
		t.Fatalf("updates = %v", updates)
	}
	if milestones := c["milestones"].([]any); len(milestones) != 2 {
		t.Fatalf("milestones = %v", milestones)
	}

	code, body := api.do(http.MethodGet, "/campaigns/"+memory.SeedID("campaign", 99), "", nil)
	if code != http.StatusNotFound || errorCode(body) != "not_found" {
		t.Fatalf("missing campaign = %d %v", code, body)
	}
}

func TestDonationFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.signIn(memory.DemoDonorEmail)
	campaignID := memory.SeedID("campaign", 3)

	code, order := api.do(http.MethodPost, "/payment/order", token, map[string]any{"amount": 5000, "campaignId": campaignID})
	if code != http.StatusOK {
		t.Fatalf("order = %d %v", code, order)
	}
	if order["currency"] != "INR" || str(order["amount"]) != "500000" || order["status"] != "created" {
		t.Fatalf("order = %v", order)
	}
	orderID := order["id"].(string)

	code, capture := api.do(http.MethodPost, "/payment/mock/capture", "", map[string]string{"orderId": orderID})
	if code != http.StatusOK {
		t.Fatalf("capture = %d %v", code, capture)
	}
	verify := map[string]any{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": capture["razorpay_payment_id"],
		"razorpay_signature":  capture["razorpay_signature"],
		"campaignId":          campaignID,
		"amount":              5000,
	}

	code, body := api.do(http.MethodPost, "/payment/verify", token, verify)
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("verify = %d %v", code, body)
	}
	donation := body["donation"].(map[string]any)
	if donation["status"] != "completed" || donation["campaignTitle"] != "Daily Operations Support" || str(donation["amount"]) != "5000" {
		t.Fatalf("donation = %v", donation)
	}

	c := api.campaign(campaignID)
	if str(c["raisedAmount"]) != "80000" || str(c["donorCount"]) != "33" || str(c["progress"]) != "80" {
		t.Fatalf("campaign after donation = %v", c)
	}
	recent := c["recentDonations"].([]any)
	if name := recent[0].(map[string]any)["donorName"]; name != "John Doe" {
		t.Fatalf("recent donor = %v", name)
	}

	code, body = api.do(http.MethodPost, "/payment/verify", token, verify)
	if code != http.StatusOK || body["replayed"] != true {
		t.Fatalf("replayed verify = %d %v", code, body)
	}
	if c := api.campaign(campaignID); str(c["raisedAmount"]) != "80000" || str(c["donorCount"]) != "33" {
		t.Fatalf("replay changed aggregates: %v", c)
	}

	code, stats := api.do(http.MethodGet, "/user/stats", token, nil)
	if code != http.StatusOK || str(stats["totalDonated"]) != "10000" || str(stats["donationCount"]) != "5" {
		t.Fatalf("stats = %d %v", code, stats)
	}
	code, history := api.do(http.MethodGet, "/user/donations?limit=2", token, nil)
	if code != http.StatusOK {
		t.Fatalf("history status = %d", code)
	}
	pagination := history["pagination"].(map[string]any)
	if str(pagination["total"]) != "5" || str(pagination["pages"]) != "3" || len(history["donations"].([]any)) != 2 {
		t.Fatalf("history = %v", history)
	}
}

func TestAnonymousDonationWithoutAccount(t *testing.T) {
	api := newTestAPI(t)
	campaignID := memory.SeedID("campaign", 2)
	_, order := api.do(http.MethodPost, "/payment/order", "", map[string]any{"amount": 250, "campaignId": campaignID})
	orderID := order["id"].(string)
	_, capture := api.do(http.MethodPost, "/payment/mock/capture", "", map[string]string{"orderId": orderID})

	code, body := api.do(http.MethodPost, "/payment/verify", "", map[string]any{
		"orderId":    orderID,
		"paymentId":  capture["razorpay_payment_id"],
		"signature":  capture["razorpay_signature"],
		"campaignId": campaignID,
		"amount":     250,
		"donorInfo":  map[string]string{"name": "Anonymous", "email": "guest@example.com", "message": "Jai Shri Ram"},
	})
	if code != http.StatusOK {
		t.Fatalf("verify = %d %v", code, body)
	}
	c := api.campaign(campaignID)
	if str(c["raisedAmount"]) != "150250" {
		t.Fatalf("raised = %v", c["raisedAmount"])
	}
	if name := c["recentDonations"].([]any)[0].(map[string]any)["donorName"]; name != "Anonymous" {
		t.Fatalf("recent donor = %v", name)
	}
}

func TestMismatchedVerifyLeavesEmailFreeForSignUp(t *testing.T) {
	api := newTestAPI(t)
	campaignID := memory.SeedID("campaign", 2)
	_, order := api.do(http.MethodPost, "/payment/order", "", map[string]any{"amount": 100, "campaignId": campaignID})
	orderID := order["id"].(string)
	_, capture := api.do(http.MethodPost, "/payment/mock/capture", "", map[string]string{"orderId": orderID})

	code, body := api.do(http.MethodPost, "/payment/verify", "", map[string]any{
		"orderId":    orderID,
		"paymentId":  capture["razorpay_payment_id"],
		"signature":  capture["razorpay_signature"],
		"campaignId": campaignID,
		"amount":     999,
		"donorInfo":  map[string]string{"name": "Meera", "email": "meera@example.com"},
	})
	if code != http.StatusBadRequest || errorCode(body) != "validation_error" {
		t.Fatalf("mismatched verify = %d %v", code, body)
	}
	if c := api.campaign(campaignID); str(c["raisedAmount"]) != "150000" || str(c["donorCount"]) != "28" {
		t.Fatalf("aggregates changed: %v", c)
	}

	code, body = api.do(http.MethodPost, "/auth/signup", "", map[string]string{"name": "Meera", "email": "meera@example.com", "password": "lotus123"})
	if code != http.StatusCreated {
		t.Fatalf("signup after rejected verify = %d %v", code, body)
	}
}

func TestVerifyRejectsForgedSignature(t *testing.T) {
	api := newTestAPI(t)
	campaignID := memory.SeedID("campaign", 1)
	_, order := api.do(http.MethodPost, "/payment/order", "", map[string]any{"amount": 1000, "campaignId": campaignID})

	code, body := api.do(http.MethodPost, "/payment/verify", "", map[string]any{
		"orderId":    order["id"],
		"paymentId":  "pay_forged",
		"signature":  payment.Sign(order["id"].(string), "pay_forged", "not-the-secret"),
		"campaignId": campaignID,
		"amount":     1000,
		"donorInfo":  map[string]string{"name": "Mallory", "email": "mallory@example.com"},
	})
	if code != http.StatusBadRequest || errorCode(body) != "payment_verification_failed" {
		t.Fatalf("forged verify = %d %v", code, body)
	}
	if c := api.campaign(campaignID); str(c["raisedAmount"]) != "250000" || str(c["donorCount"]) != "45" {
		t.Fatalf("aggregates changed after forged payment: %v", c)
	}

	code, body = api.do(http.MethodPost, "/payment/verify", "", map[string]any{"campaignId": campaignID, "amount": 1000})
	if code != http.StatusBadRequest || errorCode(body) != "validation_error" {
		t.Fatalf("missing ids = %d %v", code, body)
	}
}

func TestOrderValidation(t *testing.T) {
	api := newTestAPI(t)
	code, body := api.do(http.MethodPost, "/payment/order", "", map[string]any{"amount": 0})
	if code != http.StatusBadRequest {
		t.Fatalf("zero amount = %d %v", code, body)
	}
	code, body = api.do(http.MethodPost, "/payment/order", "", map[string]any{"amount": 100, "currency": "DOLLARS"})
	if code != http.StatusBadRequest {
		t.Fatalf("bad currency = %d %v", code, body)
	}
	code, body = api.do(http.MethodPost, "/payment/order", "", map[string]any{"amount": 100})
	if code != http.StatusOK || body["id"] == "" {
		t.Fatalf("plain order = %d %v", code, body)
	}
}

func TestCampaignManagement(t *testing.T) {
	api := newTestAPI(t)
	creator := api.signIn(memory.DemoCreatorEmail)
	donor := api.signIn(memory.DemoDonorEmail)
	admin := api.signIn(memory.DemoAdminEmail)

	create := map[string]any{
		"title":          "Gopuram Restoration",
		"description":    "Restore the eastern gopuram",
		"category":       "renovation",
		"goalAmount":     300000,
		"templeName":     "Meenakshi Temple",
		"templeLocation": "Madurai Main",
		"templeCity":     "Madurai",
		"templeDeity":    "Meenakshi",
	}
	if code, _ := api.do(http.MethodPost, "/campaigns", "", create); code != http.StatusUnauthorized {
		t.Fatalf("anonymous create = %d, want 401", code)
	}
	code, body := api.do(http.MethodPost, "/campaigns", creator, create)
	if code != http.StatusCreated {
		t.Fatalf("create = %d %v", code, body)
	}
	created := body["campaign"].(map[string]any)
	id := created["id"].(string)
	if created["status"] != "pending" {
		t.Fatalf("new campaign status = %v", created["status"])
	}

	if code, _ := api.do(http.MethodPut, "/campaigns/"+id, donor, map[string]any{"title": "Hijacked"}); code != http.StatusForbidden {
		t.Fatalf("foreign update = %d, want 403", code)
	}
	if code, _ := api.do(http.MethodPut, "/campaigns/"+id, creator, map[string]any{"status": "active"}); code != http.StatusBadRequest {
		t.Fatalf("status patch = %d, want 400", code)
	}
	code, body = api.do(http.MethodPut, "/campaigns/"+id, creator, map[string]any{"goalAmount": 350000})
	if code != http.StatusOK || str(body["campaign"].(map[string]any)["goalAmount"]) != "350000" {
		t.Fatalf("update = %d %v", code, body)
	}

	if code, _ := api.do(http.MethodPost, "/admin/campaigns/"+id+"/status", creator, map[string]string{"status": "active"}); code != http.StatusForbidden {
		t.Fatalf("creator approval = %d, want 403", code)
	}
	if code, body := api.do(http.MethodPost, "/admin/campaigns/"+id+"/status", admin, map[string]string{"status": "active"}); code != http.StatusOK {
		t.Fatalf("admin approval = %d %v", code, body)
	}
	if code, body := api.do(http.MethodPost, "/admin/campaigns/"+id+"/status", admin, map[string]string{"status": "draft"}); code != http.StatusBadRequest {
		t.Fatalf("active to draft = %d %v", code, body)
	}
	if code, body := api.do(http.MethodPost, "/admin/campaigns/"+id+"/featured", admin, map[string]bool{"featured": true}); code != http.StatusOK {
		t.Fatalf("feature = %d %v", code, body)
	}

	code, body = api.do(http.MethodPost, "/campaigns/"+id+"/updates", creator, map[string]string{"title": "Scaffolding up", "description": "Work has begun"})
	if code != http.StatusCreated {
		t.Fatalf("post update = %d %v", code, body)
	}

	code, body = api.do(http.MethodGet, "/campaigns/my", creator, nil)
	if code != http.StatusOK || str(body["count"]) != "6" {
		t.Fatalf("my campaigns = %d %v", code, body)
	}

	if code, _ := api.do(http.MethodDelete, "/campaigns/"+id, donor, nil); code != http.StatusForbidden {
		t.Fatalf("foreign delete = %d, want 403", code)
	}
	if code, body := api.do(http.MethodDelete, "/campaigns/"+id, creator, nil); code != http.StatusOK {
		t.Fatalf("delete unfunded = %d %v", code, body)
	}
	if code, _ := api.do(http.MethodGet, "/campaigns/"+id, "", nil); code != http.StatusNotFound {
		t.Fatalf("deleted campaign = %d, want 404", code)
	}
}

func TestDeleteFundedCampaignRejected(t *testing.T) {
	api := newTestAPI(t)
	creator := api.signIn(memory.DemoCreatorEmail)
	id := memory.SeedID("campaign", 1)

	code, body := api.do(http.MethodDelete, "/campaigns/"+id, creator, nil)
	if code != http.StatusBadRequest || errorCode(body) != "validation_error" {
		t.Fatalf("delete funded = %d %v", code, body)
	}
	if c := api.campaign(id); str(c["raisedAmount"]) != "250000" || c["status"] != "active" {
		t.Fatalf("funded campaign changed: %v", c)
	}
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	code, body := api.do(http.MethodPost, "/auth/signup", "", map[string]string{"name": "Priya", "email": "priya@example.com", "password": "lotus123"})
	if code != http.StatusCreated {
		t.Fatalf("signup = %d %v", code, body)
	}
	if code, body := api.do(http.MethodPost, "/auth/signup", "", map[string]string{"name": "Priya", "email": "priya@example.com", "password": "lotus123"}); code != http.StatusConflict || errorCode(body) != "conflict" {
		t.Fatalf("duplicate signup = %d %v", code, body)
	}
	if code, _ := api.do(http.MethodPost, "/auth/signin", "", map[string]string{"email": "priya@example.com", "password": "wrong"}); code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d, want 401", code)
	}
	token := api.signIn("priya@example.com")
	code, me := api.do(http.MethodGet, "/auth/me", token, nil)
	if code != http.StatusOK || me["email"] != "priya@example.com" || me["role"] != "donor" {
		t.Fatalf("me = %d %v", code, me)
	}
	if code, _ := api.do(http.MethodGet, "/user/stats", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous stats = %d, want 401", code)
	}
	if code, _ := api.do(http.MethodGet, "/user/stats", "garbage", nil); code != http.StatusUnauthorized {
		t.Fatalf("garbage token stats = %d, want 401", code)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	api := newTestAPI(t)
	code, body := api.do(http.MethodGet, "/v1/openapi.json", "", nil)
	if code != http.StatusOK || body["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %d", code)
	}
	paths := body["paths"].(map[string]any)
	for _, p := range []string{"/payment/order", "/payment/verify", "/campaigns/{id}"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("openapi missing %s", p)
		}
	}
}
