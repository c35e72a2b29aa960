// Package user reads accounts for the API and the admin login.
package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/db/models"
	"github.com/visonai/visonai-gateway/internal/visonai"
)

// Store implements visonai.UserStore on gorm.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store using db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ visonai.UserStore = (*Store)(nil)

// Exists reports whether a user with id exists.
func (s *Store) Exists(ctx context.Context, id uint64) (bool, error) {
	if id == 0 {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// List returns one page of users ordered by username and the total user count.
func (s *Store) List(ctx context.Context, perPage, page int) ([]visonai.UserRecord, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Preload("Roles", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	}).Order("username")

	if perPage > 0 {
		if page < 1 {
			page = 1
		}

		q = q.Limit(perPage).Offset((page - 1) * perPage)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	records := make([]visonai.UserRecord, 0, len(users))
	for i := range users {
		records = append(records, toRecord(&users[i]))
	}

	return records, total, nil
}

// FindByUsername returns the user with its roles, or visonai.ErrNotFound.
func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User

	err := s.db.WithContext(ctx).
		Preload("Roles", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Where("username = ?", username).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, visonai.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &u, nil
}

// Author returns the display name of a user, falling back to the username.
func (s *Store) Author(ctx context.Context, id uint64) (string, error) {
	var u models.User

	err := s.db.WithContext(ctx).Select("username", "display_name").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", visonai.ErrNotFound
	}

	if err != nil {
		return "", err
	}

	if u.DisplayName != "" {
		return u.DisplayName, nil
	}

	return u.Username, nil
}

func toRecord(u *models.User) visonai.UserRecord {
	return visonai.UserRecord{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Roles:       u.RoleNames(),
	}
}
