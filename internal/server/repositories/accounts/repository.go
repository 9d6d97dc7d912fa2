// Package accounts defines the credential store contract required by the
// identity service, plus its PostgreSQL and in-memory implementations.
// Misses and conflicts are reported as common sentinels (common.ErrorNotFound,
// common.ErrorDuplicateEmail).
package accounts

import (
	"context"

	"github.com/thecollekta/airbnb-clone-project/internal/server/models"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Insert(ctx context.Context, account *models.Account) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}
