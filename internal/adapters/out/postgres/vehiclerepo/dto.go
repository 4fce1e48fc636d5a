// Package vehiclerepo provides data transfer objects and mapping functions
// for vehicle persistence and the append-only odometer usage log.
package vehiclerepo

import (
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
)

// VehicleDTO represents the database structure for persisting vehicle
// aggregates.
type VehicleDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	LastOdometerKm float64
	LastUsedAt     *time.Time
	TotalDrivenKm  float64
}

// TableName specifies the database table name for vehicle entities.
func (VehicleDTO) TableName() string {
	return "vehicles"
}

// UsageRecordDTO represents one odometer snapshot. Rows are never updated or
// deleted.
type UsageRecordDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID  uuid.UUID `gorm:"type:uuid;index"`
	OdometerKm float64
	UsedAt     time.Time
}

// TableName specifies the database table name for usage records.
func (UsageRecordDTO) TableName() string {
	return "vehicle_usage_records"
}

// fromDomain converts a vehicle domain aggregate to its database
// representation.
func fromDomain(aggregate *vehicle.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		LastOdometerKm: aggregate.LastOdometerKm(),
		LastUsedAt:     aggregate.LastUsedAt(),
		TotalDrivenKm:  aggregate.TotalDrivenKm(),
	}
}

// usageFromDomain converts a usage record to its database representation.
func usageFromDomain(record vehicle.UsageRecord) UsageRecordDTO {
	return UsageRecordDTO{
		ID:         record.ID().Bytes(),
		VehicleID:  record.VehicleID().Bytes(),
		OdometerKm: record.OdometerKm(),
		UsedAt:     record.UsedAt(),
	}
}

// toDomain converts a database DTO to a vehicle domain aggregate using
// RestoreVehicle.
func toDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return vehicle.RestoreVehicle(id, dto.Name, dto.LastOdometerKm, dto.LastUsedAt, dto.TotalDrivenKm)
}
