package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/repository"
	"github.com/dssolutions-mx/mtto-server/internal/procurement/service"
	"github.com/dssolutions-mx/mtto-server/internal/storage"
	"github.com/dssolutions-mx/mtto-server/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupDraftRoutes(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	services := service.NewServices(
		repository.NewRepositories(db),
		service.NewMemoryDraftStore(),
		service.LocalQuoteValidator{},
		storage.NewMemoryStore(),
		service.SubmitConfig{SettleAttempts: 2, SettleInterval: time.Millisecond},
	)
	h := NewProcurementHandler(services.Procurement)

	r := testutil.SetupRouter()
	drafts := testutil.AuthGroup(r, "/api/v1/po/drafts")
	drafts.POST("", h.CreateDraft)
	drafts.GET("/:id", h.GetDraft)
	drafts.PUT("/:id", h.UpdateDraft)
	drafts.POST("/:id/items", h.AddItem)
	drafts.GET("/:id/evaluation", h.Evaluate)
	drafts.POST("/:id/submit", h.Submit)
	return r
}

func TestDraftWorkflowOverHTTP(t *testing.T) {
	r := setupDraftRoutes(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/po/drafts", gin.H{
		"order_type": "DIRECT_PURCHASE",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("create draft: status %d body %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 0 {
		t.Fatalf("create draft: %v", resp)
	}
	draftID := resp["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(r, http.MethodPut, "/api/v1/po/drafts/"+draftID, gin.H{
		"supplier_name":  "Rodamientos del Norte",
		"payment_method": "CASH",
		"plant_id":       "11111111-1111-1111-1111-111111111111",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update draft: status %d body %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, http.MethodPost, "/api/v1/po/drafts/"+draftID+"/items", gin.H{
		"description": "v-belt",
		"quantity":    4,
		"unit_price":  "75.25",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("add item: status %d body %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if got := items[0].(map[string]interface{})["amount"]; got != "301" {
		t.Errorf("item amount = %v, want 301", got)
	}

	w = testutil.DoRequest(r, http.MethodGet, "/api/v1/po/drafts/"+draftID+"/evaluation", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("evaluation: status %d body %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	if req := resp["data"].(map[string]interface{})["requires_quote"]; req != false {
		t.Errorf("direct purchase must not require a quotation, got %v", req)
	}

	w = testutil.DoRequest(r, http.MethodPost, "/api/v1/po/drafts/"+draftID+"/submit", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status %d body %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	order := resp["data"].(map[string]interface{})["order"].(map[string]interface{})
	if order["status"] != "CREATED" {
		t.Errorf("order status = %v, want CREATED", order["status"])
	}

	// The draft was consumed by the submit.
	w = testutil.DoRequest(r, http.MethodGet, "/api/v1/po/drafts/"+draftID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("spent draft lookup: status %d, want 404", w.Code)
	}
}

func TestDraftSubmitReportsAllViolations(t *testing.T) {
	r := setupDraftRoutes(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/po/drafts", gin.H{
		"order_type": "DIRECT_SERVICE",
	}, token)
	resp := testutil.ParseResponse(w)
	draftID := resp["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(r, http.MethodPost, "/api/v1/po/drafts/"+draftID+"/submit", nil, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("submit: status %d, want 422", w.Code)
	}
	resp = testutil.ParseResponse(w)
	if resp["code"].(float64) != 10004 {
		t.Errorf("code = %v, want 10004", resp["code"])
	}
	errs := resp["data"].(map[string]interface{})["errors"].([]interface{})
	if len(errs) < 2 {
		t.Errorf("validation must accumulate violations, got %v", errs)
	}
}

func TestDraftRoutesRejectMissingToken(t *testing.T) {
	r := setupDraftRoutes(t)
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/po/drafts", gin.H{"order_type": "DIRECT_PURCHASE"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
