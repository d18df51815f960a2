// Package store persists validated transactions. The sink enforces
// at-most-one stored record per originating email: re-submitting an already
// ingested email yields ErrDuplicate, which callers treat as benign.
package store

import (
	"context"
	"errors"

	"github.com/movimail/movimail/pkg/models"
)

// ErrDuplicate reports that a transaction for the same email id is already
// stored. It is a normal outcome when a mail window is re-ingested, not a
// failure.
var ErrDuplicate = errors.New("transaction already stored for this email")

// Store is the persistence sink for parsed transactions.
type Store interface {
	Save(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	Recent(ctx context.Context, limit int) ([]*models.Transaction, error)
}
