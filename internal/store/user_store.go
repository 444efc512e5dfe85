package store

import (
	"context"

	"userbase/internal/domain"

	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	return translate(u.db.WithContext(ctx).Create(usr).Error)
}

// Save persists every field of an already-loaded user row.
func (u *UserStore) Save(ctx context.Context, usr *domain.User) error {
	return translate(u.db.WithContext(ctx).Save(usr).Error)
}

func (u *UserStore) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByEmailOrUsername backs the duplicate check on registration. An empty
// username restricts the match to email only.
func (u *UserStore) GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	var user domain.User
	q := u.db.WithContext(ctx)
	if username != "" {
		q = q.Where("email = ? OR username = ?", email, username)
	} else {
		q = q.Where("email = ?", email)
	}
	if err := q.First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "google_id = ?", googleID).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByFacebookID(ctx context.Context, fbID string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "fb_id = ?", fbID).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
