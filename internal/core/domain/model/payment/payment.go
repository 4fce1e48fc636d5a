// Package payment contains the PaymentRecord aggregate: the local, idempotent
// mirror of the external payment processor's state, keyed by the processor's
// payment id. Re-delivery of the same external event updates the record in
// place and never re-triggers downstream effects for an unchanged terminal
// status.
package payment

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// ErrRecordIsNotConstructed is returned when a Record was not created through
// NewRecord or RestoreRecord.
var ErrRecordIsNotConstructed = errors.New("payment Record must be created via NewRecord or RestoreRecord constructor")

// Status is the payment state reported by the external processor, normalized
// to the handful of values the decision table cares about.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
)

// ParseStatus normalizes a processor status string. Unknown values are
// rejected so the decision table never sees them.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusApproved, StatusRejected, StatusCancelled, StatusPending, StatusInProcess:
		return Status(raw), nil
	default:
		return "", errs.NewValueIsInvalidError("payment status " + raw)
	}
}

// IsTerminal reports whether the processor will not change this status again.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Record mirrors one external payment. externalID is the processor's payment
// id and is unique: processing the same id twice must upsert, not duplicate.
type Record struct {
	externalID  string
	orderID     kernel.UUID
	status      Status
	amount      kernel.Money
	lastEventAt time.Time

	isConstructed bool
}

// NewRecord creates the local mirror for a payment seen for the first time.
func NewRecord(externalID string, orderID kernel.UUID, status Status, amount kernel.Money, eventAt time.Time) (*Record, error) {
	if externalID == "" {
		return nil, errs.NewValueIsRequiredError("externalId")
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return &Record{
		externalID:    externalID,
		orderID:       orderID,
		status:        status,
		amount:        amount,
		lastEventAt:   eventAt,
		isConstructed: true,
	}, nil
}

// RestoreRecord reconstructs a payment record from persistence.
func RestoreRecord(externalID string, orderID kernel.UUID, status Status, amount kernel.Money, lastEventAt time.Time) (*Record, error) {
	if externalID == "" {
		return nil, errs.NewValueIsRequiredError("externalId")
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return &Record{
		externalID:    externalID,
		orderID:       orderID,
		status:        status,
		amount:        amount,
		lastEventAt:   lastEventAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Record was created through a constructor.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// ExternalID returns the processor's payment id.
func (r *Record) ExternalID() string { return r.externalID }

// OrderID returns the order the payment belongs to.
func (r *Record) OrderID() kernel.UUID { return r.orderID }

// Status returns the last processed payment status.
func (r *Record) Status() Status { return r.status }

// Amount returns the payment amount reported by the processor.
func (r *Record) Amount() kernel.Money { return r.amount }

// LastEventAt returns when the last processed event occurred.
func (r *Record) LastEventAt() time.Time { return r.lastEventAt }

// ApplyUpdate upserts a re-delivered or follow-up event into the record and
// reports whether the status actually changed. A re-delivery carrying the
// same status updates metadata only and returns false, which is the signal
// that no downstream transition may be triggered again.
func (r *Record) ApplyUpdate(status Status, amount kernel.Money, eventAt time.Time) bool {
	changed := r.status != status
	r.status = status
	r.amount = amount
	if eventAt.After(r.lastEventAt) {
		r.lastEventAt = eventAt
	}
	return changed
}
