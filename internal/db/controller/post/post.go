// Package post stores posts, pages and categories.
package post

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/db/models"
	"github.com/visonai/visonai-gateway/internal/visonai"
)

// Store implements visonai.ContentStore on gorm.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store using db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ visonai.ContentStore = (*Store)(nil)

// Create inserts a published post and returns its id.
func (s *Store) Create(ctx context.Context, item visonai.ContentItem) (uint64, error) {
	p := models.Post{
		Title:    item.Title,
		Content:  item.Content,
		AuthorID: item.AuthorID,
		Status:   models.PostStatusPublish,
		Type:     models.PostTypePost,
	}

	if cat, err := s.CategoryBySlug(ctx, models.DefaultCategorySlug); err == nil {
		p.CategoryID = &cat.ID
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, err
	}

	return p.ID, nil
}

// Get returns a post of any type.
func (s *Store) Get(ctx context.Context, id uint64) (*visonai.ContentItem, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	return &visonai.ContentItem{ID: p.ID, Title: p.Title, Content: p.Content, AuthorID: p.AuthorID}, nil
}

// Update writes the non-nil fields of update.
func (s *Store) Update(ctx context.Context, id uint64, update visonai.ContentUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Post
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return visonai.ErrNotFound
			}

			return err
		}

		fields := map[string]any{}
		if update.Title != nil {
			fields["title"] = *update.Title
		}

		if update.Content != nil {
			fields["content"] = *update.Content
		}

		if len(fields) == 0 {
			return nil
		}

		return tx.Model(&p).Updates(fields).Error
	})
}

// Delete removes a post permanently.
func (s *Store) Delete(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return visonai.ErrNotFound
	}

	return nil
}

// Published returns a published post or page with its category.
func (s *Store) Published(ctx context.Context, id uint64) (*models.Post, error) {
	var p models.Post

	err := s.db.WithContext(ctx).Preload("Category").
		Where("status = ?", models.PostStatusPublish).
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, visonai.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Recent returns the newest published posts, excluding pages.
// With categoryID set only posts of that category are returned.
func (s *Store) Recent(ctx context.Context, categoryID *uint64, limit int) ([]models.Post, error) {
	q := s.db.WithContext(ctx).
		Where("status = ? AND type = ?", models.PostStatusPublish, models.PostTypePost).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	posts := []models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

// Pages returns all published pages ordered by title.
func (s *Store) Pages(ctx context.Context) ([]models.Post, error) {
	pages := []models.Post{}

	err := s.db.WithContext(ctx).
		Where("status = ? AND type = ?", models.PostStatusPublish, models.PostTypePage).
		Order("title").
		Find(&pages).Error

	return pages, err
}

// CategoryBySlug looks up a category.
func (s *Store) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category

	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, visonai.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) find(ctx context.Context, id uint64) (*models.Post, error) {
	var p models.Post

	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, visonai.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}
