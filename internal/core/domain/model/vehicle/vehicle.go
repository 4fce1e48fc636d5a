// Package vehicle contains the Vehicle aggregate and its odometer usage
// records. Usage records enforce monotonicity: a vehicle's odometer and
// usage dates never move backwards.
package vehicle

import (
	"errors"
	"fmt"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

var (
	// ErrVehicleIsNotConstructed is returned when a Vehicle was not created
	// through NewVehicle or RestoreVehicle.
	ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle or RestoreVehicle constructor")

	// ErrOdometerMovedBackwards: a finish reported an odometer value lower
	// than the vehicle's last recorded usage.
	ErrOdometerMovedBackwards = errors.New("odometer value is lower than the last recorded usage")

	// ErrUsageDateMovedBackwards: a finish reported a usage date earlier than
	// the vehicle's last recorded usage.
	ErrUsageDateMovedBackwards = errors.New("usage date is earlier than the last recorded usage")
)

// UsageRecord is an immutable odometer snapshot produced once per finished
// shipment.
type UsageRecord struct {
	id         kernel.UUID
	vehicleID  kernel.UUID
	odometerKm float64
	usedAt     time.Time
}

// RestoreUsageRecord reconstructs a usage record from persistence.
func RestoreUsageRecord(id, vehicleID kernel.UUID, odometerKm float64, usedAt time.Time) UsageRecord {
	return UsageRecord{id: id, vehicleID: vehicleID, odometerKm: odometerKm, usedAt: usedAt}
}

// ID returns the record's unique identifier.
func (u UsageRecord) ID() kernel.UUID { return u.id }

// VehicleID returns the vehicle the snapshot belongs to.
func (u UsageRecord) VehicleID() kernel.UUID { return u.vehicleID }

// OdometerKm returns the odometer reading at the snapshot.
func (u UsageRecord) OdometerKm() float64 { return u.odometerKm }

// UsedAt returns the snapshot date.
func (u UsageRecord) UsedAt() time.Time { return u.usedAt }

// Vehicle is the aggregate root for a delivery vehicle: its identity, the
// last recorded odometer state, and the cumulative distance driven on
// finished shipments.
type Vehicle struct {
	id             kernel.UUID
	name           string
	lastOdometerKm float64
	lastUsedAt     *time.Time
	totalDrivenKm  float64

	isConstructed bool
}

// NewVehicle registers a vehicle with its current odometer reading.
func NewVehicle(id kernel.UUID, name string, odometerKm float64) (*Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if odometerKm < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("odometerKm",
			fmt.Errorf("%f is negative", odometerKm))
	}

	return &Vehicle{
		id:             id,
		name:           name,
		lastOdometerKm: odometerKm,
		isConstructed:  true,
	}, nil
}

// RestoreVehicle reconstructs a vehicle from persistence.
func RestoreVehicle(
	id kernel.UUID,
	name string,
	lastOdometerKm float64,
	lastUsedAt *time.Time,
	totalDrivenKm float64,
) (*Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Vehicle{
		id:             id,
		name:           name,
		lastOdometerKm: lastOdometerKm,
		lastUsedAt:     lastUsedAt,
		totalDrivenKm:  totalDrivenKm,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Vehicle was created through a constructor.
func (v *Vehicle) Validate() error {
	if v == nil || !v.isConstructed {
		return ErrVehicleIsNotConstructed
	}
	return nil
}

// ID returns the vehicle's unique identifier.
func (v *Vehicle) ID() kernel.UUID { return v.id }

// Name returns the vehicle's display name.
func (v *Vehicle) Name() string { return v.name }

// LastOdometerKm returns the odometer reading of the last recorded usage.
func (v *Vehicle) LastOdometerKm() float64 { return v.lastOdometerKm }

// LastUsedAt returns the date of the last recorded usage, or nil if the
// vehicle has never finished a shipment.
func (v *Vehicle) LastUsedAt() *time.Time { return v.lastUsedAt }

// TotalDrivenKm returns the cumulative distance driven on finished shipments.
func (v *Vehicle) TotalDrivenKm() float64 { return v.totalDrivenKm }

// ValidateUsage checks the monotonicity rules for a prospective usage without
// recording anything: the odometer must not go below the last recorded value
// and the date must not precede the last recorded usage. Violations are fatal
// to the caller, never auto-corrected.
func (v *Vehicle) ValidateUsage(odometerKm float64, usedAt time.Time) error {
	if odometerKm < v.lastOdometerKm {
		return fmt.Errorf("%w: %f < %f", ErrOdometerMovedBackwards, odometerKm, v.lastOdometerKm)
	}
	if v.lastUsedAt != nil && usedAt.Before(*v.lastUsedAt) {
		return fmt.Errorf("%w: %s < %s", ErrUsageDateMovedBackwards,
			usedAt.Format(time.RFC3339), v.lastUsedAt.Format(time.RFC3339))
	}
	return nil
}

// RecordUsage validates monotonicity, advances the vehicle's odometer state,
// adds the driven distance to the cumulative total, and returns the usage
// record to persist. The driven distance is the odometer delta.
func (v *Vehicle) RecordUsage(odometerKm float64, usedAt time.Time) (UsageRecord, error) {
	if err := v.Validate(); err != nil {
		return UsageRecord{}, err
	}
	if err := v.ValidateUsage(odometerKm, usedAt); err != nil {
		return UsageRecord{}, err
	}

	driven := odometerKm - v.lastOdometerKm
	v.lastOdometerKm = odometerKm
	v.lastUsedAt = &usedAt
	v.totalDrivenKm += driven

	return UsageRecord{
		id:         kernel.NewUUID(),
		vehicleID:  v.id,
		odometerKm: odometerKm,
		usedAt:     usedAt,
	}, nil
}
