// Package stockrepo provides data transfer objects and mapping functions for
// the stock ledger. Counters live in stock_records; every counter movement is
// mirrored by an append-only row in stock_changes, written in the same
// transaction.
package stockrepo

import (
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/stock"

	"github.com/google/uuid"
)

// RecordDTO represents the database structure for one product's ledger
// counters.
type RecordDTO struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Available int
	Reserved  int
	Ordered   int
}

// TableName specifies the database table name for ledger counters.
func (RecordDTO) TableName() string {
	return "stock_records"
}

// ChangeDTO represents one append-only audit entry. Rows are never updated or
// deleted.
type ChangeDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid;index"`
	ChangeType    int
	Field         string
	PreviousValue int
	CurrentValue  int
	Reason        string
	OccurredAt    time.Time
}

// TableName specifies the database table name for audit entries.
func (ChangeDTO) TableName() string {
	return "stock_changes"
}

// fromDomain converts a ledger record to its database representation.
func fromDomain(record *stock.Record) RecordDTO {
	return RecordDTO{
		ProductID: record.ProductID().Bytes(),
		Available: record.Available(),
		Reserved:  record.Reserved(),
		Ordered:   record.Ordered(),
	}
}

// changesFromDomain converts the record's uncommitted audit entries to rows.
func changesFromDomain(changes []stock.Change) []ChangeDTO {
	dtos := make([]ChangeDTO, 0, len(changes))
	for _, change := range changes {
		dtos = append(dtos, ChangeDTO{
			ID:            change.ID().Bytes(),
			ProductID:     change.ProductID().Bytes(),
			ChangeType:    int(change.Type()),
			Field:         string(change.Field()),
			PreviousValue: change.Previous(),
			CurrentValue:  change.Current(),
			Reason:        change.Reason(),
			OccurredAt:    change.OccurredAt(),
		})
	}
	return dtos
}

// toDomain converts a database DTO to a ledger record using RestoreRecord.
func toDomain(dto RecordDTO) (*stock.Record, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	return stock.RestoreRecord(productID, dto.Available, dto.Reserved, dto.Ordered)
}
