// Package mail fetches raw bank notification emails. The parsing core only
// depends on the Source interface; the Gmail implementation lives here so
// the orchestrator can wire it in without the parsers ever seeing I/O.
package mail

import (
	"context"

	"github.com/movimail/movimail/pkg/models"
)

// Source supplies raw emails from known bank senders. Implementations own
// all network concerns (auth, retries, timeouts); fetch errors are returned
// to the caller and never swallowed.
type Source interface {
	FetchBankEmails(ctx context.Context, domains []string, daysBack int) ([]models.Email, error)
}
