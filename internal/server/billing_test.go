package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	billingdomain "github.com/smallbiznis/seatwise/internal/billing/domain"
	"github.com/smallbiznis/seatwise/internal/config"
	"go.uber.org/zap"
)

type fakeBillingService struct {
	quote    billingdomain.UpgradeQuote
	quoteErr error

	upgradeErr  error
	upgradeReqs []billingdomain.UpgradeRequest

	replaceErr     error
	replacedTokens []string

	downgradeErr   error
	downgradeCalls int

	view    billingdomain.BillingView
	viewErr error
}

func (f *fakeBillingService) Quote(ctx context.Context) (billingdomain.UpgradeQuote, error) {
	_ = ctx
	return f.quote, f.quoteErr
}

func (f *fakeBillingService) Upgrade(ctx context.Context, req billingdomain.UpgradeRequest) error {
	_ = ctx
	f.upgradeReqs = append(f.upgradeReqs, req)
	return f.upgradeErr
}

func (f *fakeBillingService) ReplacePaymentSource(ctx context.Context, paymentToken string) error {
	_ = ctx
	f.replacedTokens = append(f.replacedTokens, paymentToken)
	return f.replaceErr
}

func (f *fakeBillingService) Downgrade(ctx context.Context) error {
	_ = ctx
	f.downgradeCalls++
	return f.downgradeErr
}

func (f *fakeBillingService) CurrentState(ctx context.Context) (billingdomain.BillingView, error) {
	_ = ctx
	return f.view, f.viewErr
}

func newTestServer(svc billingdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(zap.NewNop(), prometheus.NewRegistry())
	NewServer(ServerParams{
		Gin:        engine,
		Cfg:        config.Config{},
		Log:        zap.NewNop(),
		BillingSvc: svc,
	})
	return engine
}

func doRequest(engine *gin.Engine, method, path, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderUserID, "1000")
	req.Header.Set(HeaderRealmID, "2000")
	req.Header.Set(HeaderUserEmail, "admin@acme.test")
	if admin {
		req.Header.Set(HeaderBillingAdmin, "true")
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestBillingStateRequiresIdentityHeaders(t *testing.T) {
	engine := newTestServer(&fakeBillingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestBillingStateRedirectsToUpgrade(t *testing.T) {
	engine := newTestServer(&fakeBillingService{viewErr: billingdomain.ErrUpgradeRequired})

	resp := doRequest(engine, http.MethodGet, "/api/v1/billing", "", false)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.Code)
	}
	var payload redirectResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload.Redirect != upgradePath {
		t.Fatalf("expected redirect to %q, got %q", upgradePath, payload.Redirect)
	}
}

func TestBillingStateReturnsView(t *testing.T) {
	engine := newTestServer(&fakeBillingService{
		view: billingdomain.BillingView{PlanName: "Seatwise Standard", Licenses: 12},
	})

	resp := doRequest(engine, http.MethodGet, "/api/v1/billing", "", false)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payload struct {
		Data billingdomain.BillingView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload.Data.PlanName != "Seatwise Standard" || payload.Data.Licenses != 12 {
		t.Fatalf("unexpected view: %+v", payload.Data)
	}
}

func TestUpgradeQuoteRedirectsWhenSubscribed(t *testing.T) {
	engine := newTestServer(&fakeBillingService{quoteErr: billingdomain.ErrAlreadySubscribed})

	resp := doRequest(engine, http.MethodGet, "/api/v1/billing/upgrade", "", false)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.Code)
	}
}

func TestUpgradeRequiresBillingAdmin(t *testing.T) {
	svc := &fakeBillingService{}
	engine := newTestServer(svc)

	resp := doRequest(engine, http.MethodPost, "/api/v1/billing/upgrade", `{"billing_modality":"charge_automatically"}`, false)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	if len(svc.upgradeReqs) != 0 {
		t.Fatal("expected upgrade service not to be called")
	}
}

func TestUpgradeSucceedsWithRedirect(t *testing.T) {
	svc := &fakeBillingService{}
	engine := newTestServer(svc)

	body := `{"billing_modality":"charge_automatically","schedule":"monthly","license_management":"automatic","payment_token":"tok_visa","signed_seat_count":"abc.def","salt":"s"}`
	resp := doRequest(engine, http.MethodPost, "/api/v1/billing/upgrade", body, true)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if len(svc.upgradeReqs) != 1 {
		t.Fatalf("expected one upgrade call, got %d", len(svc.upgradeReqs))
	}
	if svc.upgradeReqs[0].PaymentToken != "tok_visa" {
		t.Fatalf("unexpected request: %+v", svc.upgradeReqs[0])
	}
}

func TestUpgradeBillingErrorStatuses(t *testing.T) {
	cases := []struct {
		code   string
		status int
	}{
		{billingdomain.CodeInsufficientLicenses, http.StatusBadRequest},
		{billingdomain.CodeTamperedSeatCount, http.StatusBadRequest},
		{billingdomain.CodeCardDeclined, http.StatusPaymentRequired},
		{billingdomain.CodeContactSupport, http.StatusBadGateway},
	}

	for _, tc := range cases {
		svc := &fakeBillingService{
			upgradeErr: billingdomain.NewError(tc.code, "message", "detail"),
		}
		engine := newTestServer(svc)

		body := `{"billing_modality":"charge_automatically","schedule":"monthly","license_management":"automatic","payment_token":"tok_visa","signed_seat_count":"abc.def","salt":"s"}`
		resp := doRequest(engine, http.MethodPost, "/api/v1/billing/upgrade", body, true)

		if resp.Code != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, resp.Code)
		}
		var payload errorResponse
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if payload.Error.Type != tc.code {
			t.Fatalf("expected error type %q, got %q", tc.code, payload.Error.Type)
		}
	}
}

func TestDowngradeRequiresBillingAdmin(t *testing.T) {
	svc := &fakeBillingService{}
	engine := newTestServer(svc)

	resp := doRequest(engine, http.MethodPost, "/api/v1/billing/downgrade", "{}", false)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	if svc.downgradeCalls != 0 {
		t.Fatal("expected downgrade service not to be called")
	}
}

func TestDowngrade(t *testing.T) {
	svc := &fakeBillingService{}
	engine := newTestServer(svc)

	resp := doRequest(engine, http.MethodPost, "/api/v1/billing/downgrade", "{}", true)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if svc.downgradeCalls != 1 {
		t.Fatalf("expected one downgrade call, got %d", svc.downgradeCalls)
	}
}

func TestReplacePaymentSourceRejectsEmptyToken(t *testing.T) {
	svc := &fakeBillingService{}
	engine := newTestServer(svc)

	resp := doRequest(engine, http.MethodPost, "/api/v1/billing/sources", `{"payment_token":""}`, true)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if len(svc.replacedTokens) != 0 {
		t.Fatal("expected replace service not to be called")
	}
}

func TestReplacePaymentSource(t *testing.T) {
	svc := &fakeBillingService{}
	engine := newTestServer(svc)

	resp := doRequest(engine, http.MethodPost, "/api/v1/billing/sources", `{"payment_token":"tok_new"}`, true)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if len(svc.replacedTokens) != 1 || svc.replacedTokens[0] != "tok_new" {
		t.Fatalf("unexpected tokens: %v", svc.replacedTokens)
	}
}
