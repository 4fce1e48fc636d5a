// Package payments implements the payment gateway port against the external
// processor's REST API. Webhooks only carry the payment id; the full payment
// state is always re-fetched from here before any decision is made.
package payments

import (
	"context"
	"fmt"
	"math"
	"time"

	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// paymentResponse mirrors the processor's payment resource.
type paymentResponse struct {
	ID                string    `json:"id"`
	Status            string    `json:"status"`
	ExternalReference string    `json:"external_reference"`
	TransactionAmount float64   `json:"transaction_amount"`
	DateCreated       time.Time `json:"date_created"`
}

// RestPaymentGateway implements ports.PaymentGateway over the processor's
// REST API.
type RestPaymentGateway struct {
	client *resty.Client
}

// NewRestPaymentGateway creates a gateway client for the given API base URL,
// authenticating every request with the access token.
func NewRestPaymentGateway(baseURL, accessToken string) *RestPaymentGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetAuthToken(accessToken)

	return &RestPaymentGateway{client: client}
}

// GetPaymentDetails fetches the current state of a payment by the processor's
// payment id. The reported amount is converted to cents.
func (g *RestPaymentGateway) GetPaymentDetails(ctx context.Context, paymentID string) (ports.PaymentDetails, error) {
	if paymentID == "" {
		return ports.PaymentDetails{}, errs.NewValueIsRequiredError("paymentId")
	}

	var response paymentResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&response).
		SetPathParam("paymentId", paymentID).
		Get("/v1/payments/{paymentId}")
	if err != nil {
		return ports.PaymentDetails{}, fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}

	if resp.StatusCode() == 404 {
		return ports.PaymentDetails{}, errs.NewObjectNotFoundError("payment", paymentID)
	}
	if resp.IsError() {
		return ports.PaymentDetails{}, fmt.Errorf("fetch payment %s: processor returned %s", paymentID, resp.Status())
	}

	return ports.PaymentDetails{
		ID:                     response.ID,
		Status:                 response.Status,
		ExternalReference:      response.ExternalReference,
		TransactionAmountCents: int64(math.Round(response.TransactionAmount * 100)),
		DateCreated:            response.DateCreated,
	}, nil
}
