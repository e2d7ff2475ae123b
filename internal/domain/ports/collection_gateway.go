// Package ports defines the interfaces (ports) that external adapters must implement.
// Services depend on these so tests can substitute mocks for the remote backend.
package ports

import (
	"context"

	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

// CollectionGateway reads and writes one remote REST collection.
// Failures are *errors.NetworkError, *errors.ServerError or
// *errors.NotFoundError; none of them retries.
type CollectionGateway[T any] interface {
	// List fetches the entire collection.
	List(ctx context.Context) ([]T, error)
	// Create posts a draft and returns the stored record.
	Create(ctx context.Context, draft *models.Draft) (T, error)
	// Update replaces the record addressed by id.
	Update(ctx context.Context, id string, draft *models.Draft) (T, error)
	// Remove deletes the record addressed by id.
	Remove(ctx context.Context, id string) error
}
