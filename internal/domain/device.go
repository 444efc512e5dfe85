package domain

import "time"

// Device is a client's push-reachability record. One row per physical
// device: re-registering a known device_id under a different user rebinds
// the row to the new owner instead of creating a duplicate.
type Device struct {
	ID         int     `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	DeviceID   string  `gorm:"type:varchar(128);uniqueIndex:ux_devices_device_id;not null" db:"device_id" json:"deviceId"`
	DeviceType string  `gorm:"type:varchar(128);not null" db:"device_type" json:"deviceType"`
	Active     bool    `gorm:"not null;default:true" db:"active" json:"active"`
	PNToken    *string `gorm:"type:varchar(256);uniqueIndex:ux_devices_pn_token" db:"pn_token" json:"-"`

	// A device may exist unbound (registration attempt for an existing
	// account deactivates the device without assigning an owner).
	UserID *int  `gorm:"index" db:"user_id" json:"userId,omitempty"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Device) TableName() string { return "devices" }

// PushReachable reports whether the device should receive notifications.
func (d *Device) PushReachable() bool { return d.Active && d.PNToken != nil }
