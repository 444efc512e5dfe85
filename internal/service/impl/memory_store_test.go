package impl

import (
	"context"
	"sync"

	"userbase/internal/domain"
	"userbase/internal/store"
)

// memoryStore is an in-memory dataStore used to exercise the services
// without a database. Unique constraints and not-found translation mirror
// the gorm-backed store's behavior.
type memoryStore struct {
	mu         sync.Mutex
	nextUserID int
	nextDevID  int
	users      map[int]*domain.User
	devices    map[string]*domain.Device
	descs      map[int]*domain.EventDescriptor
	events     map[int]*domain.Event
	members    map[int][]int // group id -> user ids
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextUserID: 1,
		nextDevID:  1,
		users:      make(map[int]*domain.User),
		devices:    make(map[string]*domain.Device),
		descs:      make(map[int]*domain.EventDescriptor),
		events:     make(map[int]*domain.Event),
		members:    make(map[int][]int),
	}
}

type memorySnapshot struct {
	nextUserID int
	nextDevID  int
	users      map[int]*domain.User
	devices    map[string]*domain.Device
	events     map[int]*domain.Event
}

func (m *memoryStore) snapshot() memorySnapshot {
	users := make(map[int]*domain.User, len(m.users))
	for id, u := range m.users {
		copy := *u
		users[id] = &copy
	}
	devices := make(map[string]*domain.Device, len(m.devices))
	for id, d := range m.devices {
		copy := *d
		devices[id] = &copy
	}
	events := make(map[int]*domain.Event, len(m.events))
	for id, e := range m.events {
		copy := *e
		events[id] = &copy
	}
	return memorySnapshot{
		nextUserID: m.nextUserID,
		nextDevID:  m.nextDevID,
		users:      users,
		devices:    devices,
		events:     events,
	}
}

func (m *memoryStore) restore(s memorySnapshot) {
	m.nextUserID = s.nextUserID
	m.nextDevID = s.nextDevID
	m.users = s.users
	m.devices = s.devices
	m.events = s.events
}

func (m *memoryStore) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(memoryTx{store: m}); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *memoryStore) Users() userStore     { return memoryUserStore{store: m} }
func (m *memoryStore) Devices() deviceStore { return memoryDeviceStore{store: m} }
func (m *memoryStore) Events() eventStore   { return memoryEventStore{store: m} }

// seedUser inserts a user directly, bypassing constraint checks.
func (m *memoryStore) seedUser(u *domain.User) *domain.User {
	if u.ID == 0 {
		u.ID = m.nextUserID
	}
	if u.ID >= m.nextUserID {
		m.nextUserID = u.ID + 1
	}
	copy := *u
	m.users[u.ID] = &copy
	return u
}

func (m *memoryStore) userByID(id int) (*domain.User, bool) {
	u, ok := m.users[id]
	if !ok {
		return nil, false
	}
	copy := *u
	return &copy, true
}

func (m *memoryStore) deviceByID(deviceID string) (*domain.Device, bool) {
	d, ok := m.devices[deviceID]
	if !ok {
		return nil, false
	}
	copy := *d
	return &copy, true
}

type memoryTx struct {
	store *memoryStore
}

func (t memoryTx) Users() userStore     { return memoryUserStore{store: t.store} }
func (t memoryTx) Devices() deviceStore { return memoryDeviceStore{store: t.store} }
func (t memoryTx) Events() eventStore   { return memoryEventStore{store: t.store} }

type memoryUserStore struct {
	store *memoryStore
}

func strEq(a *string, b string) bool { return a != nil && *a == b }

func (s memoryUserStore) Create(ctx context.Context, usr *domain.User) error {
	for _, u := range s.store.users {
		if u.Email == usr.Email ||
			(usr.Username != nil && strEq(u.Username, *usr.Username)) ||
			(usr.GoogleID != nil && strEq(u.GoogleID, *usr.GoogleID)) ||
			(usr.FacebookID != nil && strEq(u.FacebookID, *usr.FacebookID)) {
			return store.ErrDuplicate
		}
	}
	usr.ID = s.store.nextUserID
	s.store.nextUserID++
	copy := *usr
	s.store.users[usr.ID] = &copy
	return nil
}

func (s memoryUserStore) Save(ctx context.Context, usr *domain.User) error {
	if _, ok := s.store.users[usr.ID]; !ok {
		return store.ErrRecordNotFound
	}
	copy := *usr
	s.store.users[usr.ID] = &copy
	return nil
}

func (s memoryUserStore) GetByID(ctx context.Context, id int) (*domain.User, error) {
	u, ok := s.store.users[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *u
	return &copy, nil
}

func (s memoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.store.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (s memoryUserStore) GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	for _, u := range s.store.users {
		if u.Email == email || (username != "" && strEq(u.Username, username)) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (s memoryUserStore) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	for _, u := range s.store.users {
		if strEq(u.GoogleID, googleID) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (s memoryUserStore) GetByFacebookID(ctx context.Context, fbID string) (*domain.User, error) {
	for _, u := range s.store.users {
		if strEq(u.FacebookID, fbID) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

type memoryDeviceStore struct {
	store *memoryStore
}

func (s memoryDeviceStore) Create(ctx context.Context, device *domain.Device) error {
	if _, ok := s.store.devices[device.DeviceID]; ok {
		return store.ErrDuplicate
	}
	device.ID = s.store.nextDevID
	s.store.nextDevID++
	copy := *device
	s.store.devices[device.DeviceID] = &copy
	return nil
}

func (s memoryDeviceStore) Save(ctx context.Context, device *domain.Device) error {
	copy := *device
	s.store.devices[device.DeviceID] = &copy
	return nil
}

func (s memoryDeviceStore) GetByDeviceID(ctx context.Context, deviceID string) (*domain.Device, error) {
	d, ok := s.store.devices[deviceID]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *d
	return &copy, nil
}

func (s memoryDeviceStore) Deactivate(ctx context.Context, deviceID string) error {
	// Missing rows are not an error, same as the SQL UPDATE.
	if d, ok := s.store.devices[deviceID]; ok {
		d.Active = false
		d.PNToken = nil
	}
	return nil
}

func (s memoryDeviceStore) ActiveForUser(ctx context.Context, userID int) ([]*domain.Device, error) {
	var out []*domain.Device
	for _, d := range s.store.devices {
		if d.UserID != nil && *d.UserID == userID && d.Active && d.PNToken != nil {
			copy := *d
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s memoryDeviceStore) ActiveForGroup(ctx context.Context, groupID int, excludeUserIDs []int) ([]*domain.Device, error) {
	excluded := make(map[int]bool, len(excludeUserIDs))
	for _, id := range excludeUserIDs {
		excluded[id] = true
	}
	member := make(map[int]bool)
	for _, id := range s.store.members[groupID] {
		member[id] = true
	}
	var out []*domain.Device
	for _, d := range s.store.devices {
		if d.UserID == nil || !d.Active || d.PNToken == nil {
			continue
		}
		if !member[*d.UserID] || excluded[*d.UserID] {
			continue
		}
		copy := *d
		out = append(out, &copy)
	}
	return out, nil
}

type memoryEventStore struct {
	store *memoryStore
}

func (s memoryEventStore) GetDescriptor(ctx context.Context, id int) (*domain.EventDescriptor, error) {
	d, ok := s.store.descs[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *d
	return &copy, nil
}

func (s memoryEventStore) MarkProcessed(ctx context.Context, id int) error {
	e, ok := s.store.events[id]
	if !ok {
		return store.ErrRecordNotFound
	}
	e.IsProcessed = true
	return nil
}
