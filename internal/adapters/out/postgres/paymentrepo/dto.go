// Package paymentrepo provides data transfer objects and mapping functions
// for payment records. The table is keyed by the processor's payment id, which
// is what makes webhook processing an upsert instead of a blind insert.
package paymentrepo

import (
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// PaymentDTO represents the database structure for persisting payment records.
type PaymentDTO struct {
	ExternalID  string    `gorm:"primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	Status      string
	AmountCents int64
	LastEventAt time.Time
}

// TableName specifies the database table name for payment records.
func (PaymentDTO) TableName() string {
	return "payments"
}

// fromDomain converts a payment record to its database representation.
func fromDomain(record *payment.Record) PaymentDTO {
	return PaymentDTO{
		ExternalID:  record.ExternalID(),
		OrderID:     record.OrderID().Bytes(),
		Status:      string(record.Status()),
		AmountCents: record.Amount().Cents(),
		LastEventAt: record.LastEventAt(),
	}
}

// toDomain converts a database DTO to a payment record using RestoreRecord.
func toDomain(dto PaymentDTO) (*payment.Record, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	amount, err := kernel.NewMoney(dto.AmountCents)
	if err != nil {
		return nil, err
	}

	return payment.RestoreRecord(dto.ExternalID, orderID, payment.Status(dto.Status), amount, dto.LastEventAt)
}
