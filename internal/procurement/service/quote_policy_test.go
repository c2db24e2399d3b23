package service

import (
	"testing"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/shopspring/decimal"
)

func TestEvaluateQuoteRequirement(t *testing.T) {
	tests := []struct {
		name      string
		orderType string
		amount    string
		want      bool
	}{
		{"direct purchase small", entity.OrderTypeDirectPurchase, "100.00", false},
		{"direct purchase huge", entity.OrderTypeDirectPurchase, "999999.00", false},
		{"direct service below threshold", entity.OrderTypeDirectService, "4999.99", false},
		{"direct service at threshold", entity.OrderTypeDirectService, "5000.00", true},
		{"direct service above threshold", entity.OrderTypeDirectService, "5000.01", true},
		{"direct service zero", entity.OrderTypeDirectService, "0", false},
		{"special order small", entity.OrderTypeSpecialOrder, "1.00", true},
		{"special order zero", entity.OrderTypeSpecialOrder, "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatalf("bad amount %q: %v", tt.amount, err)
			}
			got := EvaluateQuoteRequirement(tt.orderType, amount, entity.PurposeCash)
			if got.RequiresQuote != tt.want {
				t.Errorf("RequiresQuote = %v, want %v (reason: %s)", got.RequiresQuote, tt.want, got.Reason)
			}
			if got.RuleVersion != QuoteRuleVersion {
				t.Errorf("RuleVersion = %q, want %q", got.RuleVersion, QuoteRuleVersion)
			}
			if got.Reason == "" {
				t.Error("Reason must not be empty")
			}
		})
	}
}

func TestEvaluateQuoteRequirementUnknownType(t *testing.T) {
	got := EvaluateQuoteRequirement("SOMETHING_NEW", decimal.NewFromInt(10), "")
	if !got.RequiresQuote {
		t.Error("unknown order types must require a quotation")
	}
}

func TestEvaluateQuoteRequirementPurposeDoesNotChangeOutcome(t *testing.T) {
	amount := decimal.NewFromInt(7000)
	purposes := []string{"", entity.PurposeCash, entity.PurposeInventoryFulfillment, entity.PurposeMixed}
	for _, purpose := range purposes {
		got := EvaluateQuoteRequirement(entity.OrderTypeDirectService, amount, purpose)
		if !got.RequiresQuote {
			t.Errorf("purpose %q changed the outcome", purpose)
		}
	}
}

func TestLocalValidatorMatchesEvaluator(t *testing.T) {
	amount := decimal.NewFromInt(5000)
	direct := EvaluateQuoteRequirement(entity.OrderTypeDirectService, amount, "")
	viaValidator := LocalQuoteValidator{}.Check(nil, entity.OrderTypeDirectService, amount, "")
	if direct.RequiresQuote != viaValidator.RequiresQuote || direct.Reason != viaValidator.Reason {
		t.Error("local validator must be a pass-through to the evaluator")
	}
}
