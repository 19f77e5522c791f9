package repository

import (
	"context"

	"github.com/ahmadchreiff/eigen-journal/internal/model"
)

// DraftRepository defines data access for draft records using SQL queries only.
// No business logic here — strictly persistence operations. Existence checks
// and status rules belong to the service layer.
type DraftRepository interface {
	// Create inserts a new draft row. The caller provides ID, CreatedAt and
	// Status; the repository returns the stored record.
	Create(ctx context.Context, d *model.Draft) (*model.Draft, error)

	// FindByID returns a draft by its ID, or sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.Draft, error)

	// ListAll returns every draft, newest first.
	ListAll(ctx context.Context) ([]model.Draft, error)

	// Update persists the mutable fields of an existing draft and returns the
	// committed record, or sql.ErrNoRows when no such row exists.
	Update(ctx context.Context, d *model.Draft) (*model.Draft, error)

	// Delete removes a draft by ID. It returns nil if the row was deleted or
	// did not exist.
	Delete(ctx context.Context, id string) error
}
