package service

import (
	"context"

	"userbase/internal/domain"
)

// DeviceUpsert is the create_or_update input. Nil User/PNToken preserve the
// stored values on update; register/login flows pass User to rebind the
// device to the authenticated owner (device handoff).
type DeviceUpsert struct {
	DeviceID   string
	DeviceType string
	Active     bool
	UserID     *int
	PNToken    *string
}

type DeviceService interface {
	CreateOrUpdate(ctx context.Context, in DeviceUpsert) (*domain.Device, error)
	Deactivate(ctx context.Context, deviceID string) error
}
