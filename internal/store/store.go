package store

import (
	"context"
	"errors"

	"github.com/siteops/siteaudit/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the audited site's state:
// the option table, the media library, registered content types, and users.
type Store interface {
	// Options. GetOption returns "" with no error when the key is unset.
	GetOption(ctx context.Context, key string) (string, error)
	SetOption(ctx context.Context, key, value string) error
	DeleteOption(ctx context.Context, key string) error

	// Attachments
	CreateAttachment(ctx context.Context, a *models.Attachment) error
	GetAttachment(ctx context.Context, id string) (*models.Attachment, error)
	ListImages(ctx context.Context) ([]*models.Attachment, error)
	SetAltText(ctx context.Context, id, alt string) error

	// Content types
	UpsertContentType(ctx context.Context, ct *models.ContentType) error
	ListContentTypes(ctx context.Context) ([]*models.ContentType, error)

	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsersByRole(ctx context.Context, roles ...models.UserRole) ([]*models.User, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
