package impl

import (
	"context"

	"userbase/internal/domain"
	"userbase/internal/store"
)

// Narrow store interfaces so services can be exercised against an
// in-memory fake; the gorm-backed store satisfies them via the adapter.

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
	storeTx
}

type storeTx interface {
	Users() userStore
	Devices() deviceStore
	Events() eventStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	Save(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	GetByFacebookID(ctx context.Context, fbID string) (*domain.User, error)
}

type deviceStore interface {
	Create(ctx context.Context, device *domain.Device) error
	Save(ctx context.Context, device *domain.Device) error
	GetByDeviceID(ctx context.Context, deviceID string) (*domain.Device, error)
	Deactivate(ctx context.Context, deviceID string) error
	ActiveForUser(ctx context.Context, userID int) ([]*domain.Device, error)
	ActiveForGroup(ctx context.Context, groupID int, excludeUserIDs []int) ([]*domain.Device, error)
}

type eventStore interface {
	GetDescriptor(ctx context.Context, id int) (*domain.EventDescriptor, error)
	MarkProcessed(ctx context.Context, id int) error
}

type gormStoreAdapter struct {
	store *store.Store
}

func newStoreAdapter(st *store.Store) gormStoreAdapter { return gormStoreAdapter{store: st} }

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return ErrNilStore
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormStoreAdapter{store: tx})
	})
}

func (g gormStoreAdapter) Users() userStore     { return g.store.Users() }
func (g gormStoreAdapter) Devices() deviceStore { return g.store.Devices() }
func (g gormStoreAdapter) Events() eventStore   { return g.store.Events() }
