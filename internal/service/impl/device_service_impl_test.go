package impl

import (
	"context"
	"errors"
	"testing"

	"userbase/internal/domain"
	"userbase/internal/service"
)

func intptr(i int) *int { return &i }

func TestDeviceCreateOrUpdateCreates(t *testing.T) {
	store := newMemoryStore()
	svc := &DeviceServiceImpl{Store: store}

	device, err := svc.CreateOrUpdate(context.Background(), service.DeviceUpsert{
		DeviceID:   "dev-1",
		DeviceType: "android",
		Active:     true,
		UserID:     intptr(5),
		PNToken:    strptr("pn-1"),
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if device.ID == 0 || *device.UserID != 5 || *device.PNToken != "pn-1" {
		t.Fatalf("unexpected device: %+v", device)
	}
}

func TestDeviceCreateOrUpdatePartialUpdate(t *testing.T) {
	store := newMemoryStore()
	svc := &DeviceServiceImpl{Store: store}
	ctx := context.Background()

	if _, err := svc.CreateOrUpdate(ctx, service.DeviceUpsert{
		DeviceID: "dev-1", DeviceType: "android", Active: true, UserID: intptr(5), PNToken: strptr("pn-1"),
	}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	// Omitting user and token must preserve them; type and active refresh.
	device, err := svc.CreateOrUpdate(ctx, service.DeviceUpsert{DeviceID: "dev-1", DeviceType: "ios", Active: true})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if device.DeviceType != "ios" {
		t.Fatalf("device type should refresh: %+v", device)
	}
	if device.UserID == nil || *device.UserID != 5 || device.PNToken == nil || *device.PNToken != "pn-1" {
		t.Fatalf("omitted fields must be preserved: %+v", device)
	}

	// Supplying a new owner rebinds the device (handoff).
	device, err = svc.CreateOrUpdate(ctx, service.DeviceUpsert{DeviceID: "dev-1", DeviceType: "ios", Active: true, UserID: intptr(9)})
	if err != nil {
		t.Fatalf("handoff returned error: %v", err)
	}
	if *device.UserID != 9 {
		t.Fatalf("device should rebind to the new owner: %+v", device)
	}
}

func TestDeviceCreateOrUpdateValidatesID(t *testing.T) {
	svc := &DeviceServiceImpl{Store: newMemoryStore()}
	if _, err := svc.CreateOrUpdate(context.Background(), service.DeviceUpsert{DeviceID: "  "}); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
}

func TestDeviceDeactivate(t *testing.T) {
	store := newMemoryStore()
	store.devices["dev-1"] = &domain.Device{ID: 1, DeviceID: "dev-1", Active: true, PNToken: strptr("pn-1")}
	svc := &DeviceServiceImpl{Store: store}
	ctx := context.Background()

	if err := svc.Deactivate(ctx, "dev-1"); err != nil {
		t.Fatalf("deactivate returned error: %v", err)
	}
	device, _ := store.deviceByID("dev-1")
	if device.Active || device.PNToken != nil {
		t.Fatalf("expected inactive device without token: %+v", device)
	}

	// Unknown and empty ids are a quiet no-op.
	if err := svc.Deactivate(ctx, "missing"); err != nil {
		t.Fatalf("unknown device should not error: %v", err)
	}
	if err := svc.Deactivate(ctx, ""); err != nil {
		t.Fatalf("empty device id should not error: %v", err)
	}
}
