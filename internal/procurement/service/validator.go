package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteValidator answers whether an order needs a quotation
type QuoteValidator interface {
	Check(ctx context.Context, orderType string, totalAmount decimal.Decimal, purpose string) QuoteRequirement
}

// LocalQuoteValidator evaluates against the in-process rule table
type LocalQuoteValidator struct{}

func (LocalQuoteValidator) Check(_ context.Context, orderType string, totalAmount decimal.Decimal, purpose string) QuoteRequirement {
	return EvaluateQuoteRequirement(orderType, totalAmount, purpose)
}

// RemoteQuoteValidator asks the policy endpoint and falls back to the local
// rule table on any failure. The fallback shares QuoteRuleTable with the
// local evaluator, so offline answers cannot drift from online ones of the
// same rule version.
type RemoteQuoteValidator struct {
	url    string
	client *http.Client
}

func NewRemoteQuoteValidator(url string, timeout time.Duration) *RemoteQuoteValidator {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RemoteQuoteValidator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type quoteCheckRequest struct {
	OrderType   string          `json:"order_type"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Purpose     string          `json:"purpose,omitempty"`
}

func (v *RemoteQuoteValidator) Check(ctx context.Context, orderType string, totalAmount decimal.Decimal, purpose string) QuoteRequirement {
	if v.url == "" {
		return EvaluateQuoteRequirement(orderType, totalAmount, purpose)
	}

	body, err := json.Marshal(quoteCheckRequest{OrderType: orderType, TotalAmount: totalAmount, Purpose: purpose})
	if err != nil {
		return EvaluateQuoteRequirement(orderType, totalAmount, purpose)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return EvaluateQuoteRequirement(orderType, totalAmount, purpose)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		log.Printf("[procurement] quote validator unreachable, using local table: %v", err)
		return EvaluateQuoteRequirement(orderType, totalAmount, purpose)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[procurement] quote validator returned %d, using local table", resp.StatusCode)
		return EvaluateQuoteRequirement(orderType, totalAmount, purpose)
	}

	var result QuoteRequirement
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[procurement] quote validator bad response, using local table: %v", err)
		return EvaluateQuoteRequirement(orderType, totalAmount, purpose)
	}
	return result
}

var _ QuoteValidator = (*RemoteQuoteValidator)(nil)
var _ QuoteValidator = LocalQuoteValidator{}
