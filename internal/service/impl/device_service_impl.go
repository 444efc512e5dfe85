package impl

import (
	"context"
	"errors"
	"strings"
	"time"

	"userbase/internal/domain"
	"userbase/internal/service"
	"userbase/internal/store"
)

var _ service.DeviceService = (*DeviceServiceImpl)(nil)

type DeviceServiceImpl struct {
	Store dataStore
	now   func() time.Time
}

func NewDeviceServiceImpl(st *store.Store) *DeviceServiceImpl {
	return &DeviceServiceImpl{
		Store: newStoreAdapter(st),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrUpdate is keyed by device_id. Device type and active are always
// refreshed; owner and push token only change when the caller supplies
// them, which is how login rebinds a device away from its previous owner.
func (d *DeviceServiceImpl) CreateOrUpdate(ctx context.Context, in service.DeviceUpsert) (*domain.Device, error) {
	if d.Store == nil {
		return nil, ErrNilStore
	}
	in.DeviceID = strings.TrimSpace(in.DeviceID)
	if in.DeviceID == "" {
		return nil, domain.InvalidPayload("Device id is required.")
	}

	var out *domain.Device
	err := d.Store.WithTx(ctx, func(tx storeTx) error {
		device, err := upsertDeviceTx(ctx, tx, in, d.nowTime())
		if err != nil {
			return err
		}
		out = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DeviceServiceImpl) Deactivate(ctx context.Context, deviceID string) error {
	if d.Store == nil {
		return ErrNilStore
	}
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil
	}
	return d.Store.Devices().Deactivate(ctx, deviceID)
}

func (d *DeviceServiceImpl) nowTime() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now().UTC()
}

// upsertDeviceTx implements create_or_update inside an open transaction so
// auth flows can bind a device atomically with the user mutation.
func upsertDeviceTx(ctx context.Context, tx storeTx, in service.DeviceUpsert, now time.Time) (*domain.Device, error) {
	device, err := tx.Devices().GetByDeviceID(ctx, in.DeviceID)
	if errors.Is(err, store.ErrRecordNotFound) {
		device = &domain.Device{
			DeviceID:   in.DeviceID,
			DeviceType: in.DeviceType,
			Active:     in.Active,
			UserID:     in.UserID,
			PNToken:    in.PNToken,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err = tx.Devices().Create(ctx, device)
		if err == nil {
			return device, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, err
		}
		// A concurrent create won the device_id race; update the winner.
		device, err = tx.Devices().GetByDeviceID(ctx, in.DeviceID)
	}
	if err != nil {
		return nil, err
	}

	device.DeviceType = in.DeviceType
	device.Active = in.Active
	if in.UserID != nil {
		device.UserID = in.UserID
	}
	if in.PNToken != nil {
		device.PNToken = in.PNToken
	}
	device.UpdatedAt = now
	if err := tx.Devices().Save(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}
