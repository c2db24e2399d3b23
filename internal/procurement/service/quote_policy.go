package service

import (
	"fmt"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/shopspring/decimal"
)

// QuoteRuleVersion identifies the active policy table. The same table backs
// both the local evaluator and the fallback path of the remote validator, so
// the two can never drift.
const QuoteRuleVersion = "2025-06"

// QuoteRule quotation policy for one order type
type QuoteRule struct {
	OrderType      string           `json:"order_type"`
	AlwaysRequired bool             `json:"always_required"`
	NeverRequired  bool             `json:"never_required"`
	Threshold      *decimal.Decimal `json:"threshold,omitempty"`
}

var directServiceThreshold = decimal.NewFromInt(5000)

// QuoteRuleTable the business policy, keyed by order type:
//   - direct purchase never requires a quotation
//   - direct service requires one at or above the threshold
//   - special order always requires one
//
// Unrecognized order types fall through to requiring a quotation.
var QuoteRuleTable = map[string]QuoteRule{
	entity.OrderTypeDirectPurchase: {OrderType: entity.OrderTypeDirectPurchase, NeverRequired: true},
	entity.OrderTypeDirectService:  {OrderType: entity.OrderTypeDirectService, Threshold: &directServiceThreshold},
	entity.OrderTypeSpecialOrder:   {OrderType: entity.OrderTypeSpecialOrder, AlwaysRequired: true},
}

// QuoteRequirement evaluation result
type QuoteRequirement struct {
	RequiresQuote   bool             `json:"requires_quote"`
	Reason          string           `json:"reason"`
	ThresholdAmount *decimal.Decimal `json:"threshold_amount,omitempty"`
	Recommendation  string           `json:"recommendation"`
	RuleVersion     string           `json:"rule_version"`
}

// EvaluateQuoteRequirement applies the policy table to an order draft.
// Pure function, no side effects; purpose is accepted for parity with the
// remote validator contract but does not change the outcome of the table.
func EvaluateQuoteRequirement(orderType string, totalAmount decimal.Decimal, purpose string) QuoteRequirement {
	rule, ok := QuoteRuleTable[orderType]
	if !ok {
		// Fail safe toward more scrutiny for unknown order types.
		return QuoteRequirement{
			RequiresQuote:  true,
			Reason:         fmt.Sprintf("unrecognized order type %q", orderType),
			Recommendation: "attach at least one supplier quotation before submitting",
			RuleVersion:    QuoteRuleVersion,
		}
	}

	switch {
	case rule.NeverRequired:
		return QuoteRequirement{
			RequiresQuote:  false,
			Reason:         "direct purchases do not require a quotation",
			Recommendation: "you may submit without quotations",
			RuleVersion:    QuoteRuleVersion,
		}
	case rule.AlwaysRequired:
		return QuoteRequirement{
			RequiresQuote:  true,
			Reason:         "special orders always require a quotation",
			Recommendation: "attach at least one supplier quotation before submitting",
			RuleVersion:    QuoteRuleVersion,
		}
	default:
		if totalAmount.GreaterThanOrEqual(*rule.Threshold) {
			return QuoteRequirement{
				RequiresQuote:   true,
				Reason:          fmt.Sprintf("service amount %s meets the %s quotation threshold", totalAmount.StringFixed(2), rule.Threshold.StringFixed(2)),
				ThresholdAmount: rule.Threshold,
				Recommendation:  "attach at least one supplier quotation before submitting",
				RuleVersion:     QuoteRuleVersion,
			}
		}
		return QuoteRequirement{
			RequiresQuote:   false,
			Reason:          fmt.Sprintf("service amount %s is below the %s quotation threshold", totalAmount.StringFixed(2), rule.Threshold.StringFixed(2)),
			ThresholdAmount: rule.Threshold,
			Recommendation:  "you may submit without quotations",
			RuleVersion:     QuoteRuleVersion,
		}
	}
}
