package ports

import (
	"context"

	"github.com/hmicodes/catalog/internal/domain/entities"
)

// ErrorRecordRepository defines the persistence contract for the error catalog.
//
// The file-backed implementation loads and rewrites the whole data set on every
// write. A future embedded database only needs to satisfy this interface.
type ErrorRecordRepository interface {
	// ListAll returns every record in stored order. A missing store is an empty list.
	ListAll(ctx context.Context) ([]entities.ErrorRecord, error)
	// Add appends a record. Uniqueness of Code is the caller's concern.
	Add(ctx context.Context, record entities.ErrorRecord) error
	// Update replaces the first record whose Code equals code, keeping its position.
	Update(ctx context.Context, code string, record entities.ErrorRecord) (bool, error)
	// Delete removes every record whose Code equals code.
	Delete(ctx context.Context, code string) (bool, error)
}
