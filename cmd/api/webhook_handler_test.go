package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	creatordomain "dealpilot-backend/internal/creator/domain"
	dealdomain "dealpilot-backend/internal/deal/domain"
	"dealpilot-backend/internal/reply"
	"dealpilot-backend/pkg/config"
)

type stubCreatorRepo struct{}

func (stubCreatorRepo) Create(*creatordomain.Creator) error                  { return nil }
func (stubCreatorRepo) FindByID(string) (*creatordomain.Creator, error)      { return nil, nil }
func (stubCreatorRepo) FindByEmail(string) (*creatordomain.Creator, error)   { return nil, nil }
func (stubCreatorRepo) FindByPhoneNumbers([]string) (*creatordomain.Creator, error) {
	return nil, nil
}
func (stubCreatorRepo) Update(*creatordomain.Creator) error { return nil }

type stubDealRepo struct{}

func (stubDealRepo) Create(*dealdomain.Deal) error              { return nil }
func (stubDealRepo) Update(*dealdomain.Deal) error              { return nil }
func (stubDealRepo) FindByID(string) (*dealdomain.Deal, error)  { return nil, nil }
func (stubDealRepo) FindLatestPendingEmailDeal(string) (*dealdomain.Deal, error) {
	return nil, nil
}

type stubEmailRepo struct{}

func (stubEmailRepo) ExistsByGmailMessageID(string) (bool, error)           { return false, nil }
func (stubEmailRepo) Create(*dealdomain.InboundEmail) error                 { return nil }
func (stubEmailRepo) FindByID(string) (*dealdomain.InboundEmail, error)     { return nil, nil }
func (stubEmailRepo) UpdateClassification(string, string) error             { return nil }

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.DiscardHandler)
	usecase := reply.NewUsecase(stubCreatorRepo{}, stubDealRepo{}, stubEmailRepo{}, logger)
	h := NewHandler(usecase, &config.Config{}, logger)

	r := gin.New()
	SetupRoutes(r, h)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTwilioWebhookMissingFrom(t *testing.T) {
	r := testRouter()

	w := postForm(r, "/webhooks/twilio", url.Values{"Body": {"YES"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTwilioWebhookInvalidFrom(t *testing.T) {
	r := testRouter()

	w := postForm(r, "/webhooks/twilio", url.Values{"From": {"not a number"}, "Body": {"YES"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTwilioWebhookUnknownSenderStillReplies(t *testing.T) {
	r := testRouter()

	w := postForm(r, "/webhooks/twilio", url.Values{"From": {"+19998887777"}, "Body": {"YES"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/xml") {
		t.Errorf("content type = %q, want text/xml", ct)
	}
	if !strings.Contains(w.Body.String(), "<Message>") {
		t.Errorf("body is not a TwiML message document: %q", w.Body.String())
	}
}

func TestGmailWebhookAcknowledges(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/gmail", strings.NewReader(`{"message":{}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
