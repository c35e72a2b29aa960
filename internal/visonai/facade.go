package visonai

import "context"

//go:generate mockgen -destination=mocks/facade.go -package=mocks github.com/visonai/visonai-gateway/internal/visonai ContentStore,UserStore

// ContentItem is a post as seen through the API.
type ContentItem struct {
	ID       uint64
	Title    string
	Content  string
	AuthorID uint64
}

// ContentUpdate carries the fields of an update; nil fields are left unchanged.
type ContentUpdate struct {
	Title   *string
	Content *string
}

// UserRecord is a read-only view of an account.
type UserRecord struct {
	ID          uint64
	Username    string
	Email       string
	DisplayName string
	Roles       []string
}

// ContentStore performs post operations. Missing records are reported as ErrNotFound.
type ContentStore interface {
	Create(ctx context.Context, item ContentItem) (uint64, error)
	Get(ctx context.Context, id uint64) (*ContentItem, error)
	Update(ctx context.Context, id uint64, update ContentUpdate) error
	Delete(ctx context.Context, id uint64) error
}

// UserStore lists accounts.
//
// List returns one page of users ordered by username together with the total
// number of users. A perPage of zero or less returns every user.
type UserStore interface {
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context, perPage, page int) ([]UserRecord, int64, error)
}
