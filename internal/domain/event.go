package domain

import (
	"strings"
	"time"
)

type Group struct {
	ID        int       `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Name      string    `gorm:"type:varchar(128)" db:"name" json:"name"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Group) TableName() string { return "groups" }

type UserGroupAssociation struct {
	UserID    int       `gorm:"primaryKey" db:"user_id" json:"userId"`
	GroupID   int       `gorm:"primaryKey" db:"group_id" json:"groupId"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (UserGroupAssociation) TableName() string { return "user_group_associations" }

// EventDescriptor is a notification template. Description may contain the
// placeholders {1}, {2} and {3}, filled from the event's entity descriptions.
type EventDescriptor struct {
	ID          int       `gorm:"primaryKey" db:"id" json:"id"`
	Name        string    `gorm:"type:varchar(128);not null" db:"name" json:"name"`
	Description string    `gorm:"type:varchar(128);not null" db:"description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (EventDescriptor) TableName() string { return "event_descriptors" }

// Event records something that happened in a group and drives push fan-out
// to the group's members, excluding the creator.
type Event struct {
	ID                int              `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	EventDescriptorID int              `gorm:"not null" db:"event_descriptor_id" json:"eventDescriptorId"`
	EventDescriptor   *EventDescriptor `gorm:"foreignKey:EventDescriptorID" json:"-"`

	EntityType         *string `gorm:"type:varchar(128)" db:"entity_type" json:"entityType,omitempty"`
	EntityID           *int    `db:"entity_id" json:"entityId,omitempty"`
	EntityDescription  *string `gorm:"type:varchar(128)" db:"entity_description" json:"entityDescription,omitempty"`
	Entity2Type        *string `gorm:"type:varchar(128)" db:"entity_2_type" json:"entity2Type,omitempty"`
	Entity2ID          *int    `db:"entity_2_id" json:"entity2Id,omitempty"`
	Entity2Description *string `gorm:"type:varchar(128)" db:"entity_2_description" json:"entity2Description,omitempty"`
	Entity3Type        *string `gorm:"type:varchar(128)" db:"entity_3_type" json:"entity3Type,omitempty"`
	Entity3ID          *int    `db:"entity_3_id" json:"entity3Id,omitempty"`
	Entity3Description *string `gorm:"type:varchar(128)" db:"entity_3_description" json:"entity3Description,omitempty"`

	ExpirationDate *time.Time `db:"expiration_date" json:"expirationDate,omitempty"`
	GroupID        *int       `db:"group_id" json:"groupId,omitempty"`
	IsProcessed    bool       `gorm:"not null;default:false" db:"is_processed" json:"isProcessed"`
	CreatorID      *int       `db:"creator_id" json:"creatorId,omitempty"`

	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Event) TableName() string { return "events" }

// Message renders the descriptor template with the event's entity
// descriptions substituted for the {n} placeholders.
func (e *Event) Message(descriptor *EventDescriptor) string {
	msg := descriptor.Description
	if e.EntityDescription != nil {
		msg = strings.ReplaceAll(msg, "{1}", *e.EntityDescription)
	}
	if e.Entity2Description != nil {
		msg = strings.ReplaceAll(msg, "{2}", *e.Entity2Description)
	}
	if e.Entity3Description != nil {
		msg = strings.ReplaceAll(msg, "{3}", *e.Entity3Description)
	}
	return msg
}
