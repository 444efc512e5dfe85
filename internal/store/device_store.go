package store

import (
	"context"

	"userbase/internal/domain"

	"gorm.io/gorm"
)

type DeviceStore struct{ db *gorm.DB }

func (s *Store) Devices() *DeviceStore { return &DeviceStore{db: s.DB} }

func (d *DeviceStore) Create(ctx context.Context, device *domain.Device) error {
	return translate(d.db.WithContext(ctx).Create(device).Error)
}

func (d *DeviceStore) Save(ctx context.Context, device *domain.Device) error {
	return translate(d.db.WithContext(ctx).Save(device).Error)
}

func (d *DeviceStore) GetByDeviceID(ctx context.Context, deviceID string) (*domain.Device, error) {
	var device domain.Device
	if err := d.db.WithContext(ctx).First(&device, "device_id = ?", deviceID).Error; err != nil {
		return nil, translate(err)
	}
	return &device, nil
}

// Deactivate marks the device inactive and releases its push token so the
// token can be re-bound elsewhere. Missing rows are not an error.
func (d *DeviceStore) Deactivate(ctx context.Context, deviceID string) error {
	return translate(d.db.WithContext(ctx).
		Model(&domain.Device{}).
		Where("device_id = ?", deviceID).
		Updates(map[string]interface{}{"active": false, "pn_token": nil}).Error)
}

// ActiveForUser returns the user's push-reachable devices.
func (d *DeviceStore) ActiveForUser(ctx context.Context, userID int) ([]*domain.Device, error) {
	var devices []*domain.Device
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND active = ? AND pn_token IS NOT NULL", userID, true).
		Find(&devices).Error
	if err != nil {
		return nil, translate(err)
	}
	return devices, nil
}

// ActiveForGroup returns push-reachable devices of the group's members,
// minus the excluded user ids (typically the event creator).
func (d *DeviceStore) ActiveForGroup(ctx context.Context, groupID int, excludeUserIDs []int) ([]*domain.Device, error) {
	q := d.db.WithContext(ctx).
		Joins("JOIN user_group_associations uga ON uga.user_id = devices.user_id").
		Where("uga.group_id = ? AND devices.active = ? AND devices.pn_token IS NOT NULL", groupID, true)
	if len(excludeUserIDs) > 0 {
		q = q.Where("devices.user_id NOT IN ?", excludeUserIDs)
	}
	var devices []*domain.Device
	if err := q.Find(&devices).Error; err != nil {
		return nil, translate(err)
	}
	return devices, nil
}
