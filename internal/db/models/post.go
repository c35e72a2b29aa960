package models

import "time"

// Post status and type values.
const (
	PostStatusPublish = "publish"
	PostStatusDraft   = "draft"

	PostTypePost = "post"
	PostTypePage = "page"
)

// Post is a content item. Pages share the table and differ by Type.
type Post struct {
	ID         uint64 `gorm:"primaryKey"`
	Title      string `gorm:"size:255"`
	Content    string `gorm:"type:text"`
	AuthorID   uint64 `gorm:"index"`
	Status     string `gorm:"size:20;not null;default:'publish'"`
	Type       string `gorm:"size:20;not null;default:'post';index"`
	CategoryID *uint64
	Category   *Category `gorm:"constraint:OnDelete:SET NULL"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Category groups posts on the public site.
type Category struct {
	ID   uint64 `gorm:"primaryKey"`
	Slug string `gorm:"unique;size:200;not null"`
	Name string `gorm:"size:200;not null"`
}

// DefaultCategorySlug is seeded on first start.
const DefaultCategorySlug = "uncategorized"

// All returns every model for AutoMigrate.
func All() []any {
	return []any{&Setting{}, &User{}, &UserRole{}, &Category{}, &Post{}}
}
