// Package parser turns raw bank notification emails into transaction
// records. Each supported bank gets its own parser tuned to that bank's
// phrasing; the Registry routes an email to the right one by sender domain.
package parser

import (
	"strings"
	"time"

	"github.com/movimail/movimail/pkg/extract"
	"github.com/movimail/movimail/pkg/models"
)

// BankParser is the contract every bank-specific parser satisfies. Parse
// returns nil for anything that is not a valid transaction notification —
// promotions, newsletters, unparsable bodies. No error ever escapes: a
// failed extraction is just "no transaction for this email".
type BankParser interface {
	Source() models.Source
	Parse(email models.Email) *models.Transaction
}

// base carries the pieces shared by all bank parsers: the notification
// pre-filter vocabulary and the clock used for the last-resort date
// fallback. The clock is a field so tests can pin it.
type base struct {
	source  models.Source
	allow   []string
	exclude []string
	now     func() time.Time
}

func newBase(source models.Source, allow, exclude []string) base {
	return base{
		source:  source,
		allow:   allow,
		exclude: exclude,
		now:     time.Now,
	}
}

// Source returns the fixed source name this parser emits.
func (b *base) Source() models.Source {
	return b.source
}

// isTransactionNotification pre-filters mail: the combined subject+body
// must contain at least one transaction keyword and no exclusion keyword.
// Either condition failing short-circuits the parse before any regex work.
func (b *base) isTransactionNotification(e models.Email) bool {
	text := strings.ToLower(e.Subject + " " + e.Body)
	return extract.ContainsAny(text, b.allow) && !extract.ContainsAny(text, b.exclude)
}

// bodyOrSubject picks the extraction text: the body, or the subject when
// the body is empty.
func bodyOrSubject(e models.Email) string {
	if e.Body != "" {
		return e.Body
	}
	return e.Subject
}
