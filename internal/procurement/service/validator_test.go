package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/shopspring/decimal"
)

func TestRemoteValidatorUsesEndpoint(t *testing.T) {
	var received quoteCheckRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(QuoteRequirement{
			RequiresQuote: true,
			Reason:        "policy override",
			RuleVersion:   "remote-1",
		})
	}))
	defer srv.Close()

	v := NewRemoteQuoteValidator(srv.URL, 0)
	got := v.Check(context.Background(), entity.OrderTypeDirectPurchase, decimal.NewFromInt(10), entity.PurposeCash)

	if received.OrderType != entity.OrderTypeDirectPurchase {
		t.Errorf("endpoint received order type %q", received.OrderType)
	}
	if !got.RequiresQuote || got.Reason != "policy override" {
		t.Errorf("remote answer not honored: %+v", got)
	}
}

func TestRemoteValidatorFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewRemoteQuoteValidator(srv.URL, 0)
	got := v.Check(context.Background(), entity.OrderTypeSpecialOrder, decimal.NewFromInt(10), "")

	want := EvaluateQuoteRequirement(entity.OrderTypeSpecialOrder, decimal.NewFromInt(10), "")
	if got.RequiresQuote != want.RequiresQuote || got.Reason != want.Reason {
		t.Errorf("fallback answer %+v differs from local table %+v", got, want)
	}
}

func TestRemoteValidatorFallsBackOnUnreachableEndpoint(t *testing.T) {
	v := NewRemoteQuoteValidator("http://127.0.0.1:1/quote-check", 0)
	got := v.Check(context.Background(), entity.OrderTypeDirectService, decimal.NewFromInt(9000), "")
	if !got.RequiresQuote {
		t.Error("fallback must apply the local threshold rule")
	}
	if got.RuleVersion != QuoteRuleVersion {
		t.Errorf("fallback rule version = %q, want %q", got.RuleVersion, QuoteRuleVersion)
	}
}

func TestRemoteValidatorWithoutURLIsLocal(t *testing.T) {
	v := NewRemoteQuoteValidator("", 0)
	got := v.Check(context.Background(), entity.OrderTypeDirectPurchase, decimal.NewFromInt(100), "")
	if got.RequiresQuote {
		t.Error("direct purchase must not require a quotation")
	}
}
