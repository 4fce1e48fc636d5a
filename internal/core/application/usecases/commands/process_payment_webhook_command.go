package commands

import (
	"errors"

	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrProcessPaymentWebhookCommandIsNotConstructed = errors.New(
	"ProcessPaymentWebhookCommand must be created via NewProcessPaymentWebhookCommand constructor",
)

// ProcessPaymentWebhookCommand represents one webhook notification from the
// payment processor. The payload only announces that something happened to a
// payment; the authoritative state is fetched from the processor during
// handling.
type ProcessPaymentWebhookCommand struct { //nolint:recvcheck //using for validation
	eventID   string
	action    string
	paymentID string

	guard guard.ConstructorGuard
}

// NewProcessPaymentWebhookCommand creates a command from the webhook payload
// fields: the event id, the action string, and the processor's payment id.
func NewProcessPaymentWebhookCommand(eventID, action, paymentID string) (ProcessPaymentWebhookCommand, error) {
	cmd := ProcessPaymentWebhookCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setEventID(eventID),
		cmd.setAction(action),
		cmd.setPaymentID(paymentID),
	); err != nil {
		return ProcessPaymentWebhookCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessPaymentWebhookCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentWebhookCommandIsNotConstructed)
}

// EventID returns the webhook event id used for deduplication.
func (c ProcessPaymentWebhookCommand) EventID() string {
	return c.eventID
}

// Action returns the webhook action string, e.g. "payment.updated".
func (c ProcessPaymentWebhookCommand) Action() string {
	return c.action
}

// PaymentID returns the processor's payment id.
func (c ProcessPaymentWebhookCommand) PaymentID() string {
	return c.paymentID
}

func (c *ProcessPaymentWebhookCommand) setEventID(eventID string) error {
	if eventID == "" {
		return errs.NewValueIsRequiredError("eventId")
	}

	c.eventID = eventID
	return nil
}

func (c *ProcessPaymentWebhookCommand) setAction(action string) error {
	if action == "" {
		return errs.NewValueIsRequiredError("action")
	}

	c.action = action
	return nil
}

func (c *ProcessPaymentWebhookCommand) setPaymentID(paymentID string) error {
	if paymentID == "" {
		return errs.NewValueIsRequiredError("paymentId")
	}

	c.paymentID = paymentID
	return nil
}
