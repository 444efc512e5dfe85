package store

import (
	"context"

	"userbase/internal/domain"

	"gorm.io/gorm"
)

type EventStore struct{ db *gorm.DB }

func (s *Store) Events() *EventStore { return &EventStore{db: s.DB} }

func (e *EventStore) Create(ctx context.Context, ev *domain.Event) error {
	return translate(e.db.WithContext(ctx).Create(ev).Error)
}

func (e *EventStore) GetByID(ctx context.Context, id int) (*domain.Event, error) {
	var ev domain.Event
	if err := e.db.WithContext(ctx).First(&ev, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ev, nil
}

func (e *EventStore) GetDescriptor(ctx context.Context, id int) (*domain.EventDescriptor, error) {
	var desc domain.EventDescriptor
	if err := e.db.WithContext(ctx).First(&desc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &desc, nil
}

func (e *EventStore) MarkProcessed(ctx context.Context, id int) error {
	return translate(e.db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("id = ?", id).
		Update("is_processed", true).Error)
}

type GroupStore struct{ db *gorm.DB }

func (s *Store) Groups() *GroupStore { return &GroupStore{db: s.DB} }

func (g *GroupStore) GetByID(ctx context.Context, id int) (*domain.Group, error) {
	var group domain.Group
	if err := g.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (g *GroupStore) AddMember(ctx context.Context, groupID, userID int) error {
	return translate(g.db.WithContext(ctx).
		Create(&domain.UserGroupAssociation{UserID: userID, GroupID: groupID}).Error)
}
