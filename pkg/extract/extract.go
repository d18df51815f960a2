// Package extract holds the text heuristics shared by every bank parser:
// amount, date and description extraction plus keyword classification. All
// functions are pure and tolerant of malformed input — they report "no
// match" instead of failing.
package extract

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/movimail/movimail/pkg/models"
)

// Amount patterns, tried in order: currency-prefixed, currency-suffixed,
// bare number. A capture that does not parse falls through to the next.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)([\d,]+\.?\d*)\s*(?:MXN|pesos|peso)`),
	regexp.MustCompile(`([\d,]+\.?\d*)`),
}

// Amount extracts the first monetary value found in text. Thousands
// separators are removed before parsing.
func Amount(text string) (decimal.Decimal, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		d, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		return d, true
	}
	return decimal.Decimal{}, false
}

// Date patterns: day-first (DD/MM/YYYY, DD-MM-YYYY) and year-first
// (YYYY/MM/DD), told apart by the length of the first captured group.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`),
	regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`),
}

// Date resolves a transaction date as ISO-8601 UTC. Three tiers, in order:
// a date found in text (taken at midnight UTC), the raw email header date,
// and finally the supplied clock reading. Bank notification bodies often
// omit or obscure dates, so the tier order decides correctness.
func Date(text, fallback string, now time.Time) string {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var yearS, monthS, dayS string
		if len(m[1]) == 4 {
			yearS, monthS, dayS = m[1], m[2], m[3]
		} else {
			dayS, monthS, yearS = m[1], m[2], m[3]
		}

		year, _ := strconv.Atoi(yearS)
		month, _ := strconv.Atoi(monthS)
		day, _ := strconv.Atoi(dayS)
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		return fmt.Sprintf("%04d-%02d-%02dT00:00:00Z", year, month, day)
	}

	if fallback != "" {
		if t, err := mail.ParseDate(fallback); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}

	return now.UTC().Format(time.RFC3339)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeDescription collapses whitespace runs, strips edge punctuation
// and truncates to 200 characters, marking the cut with an ellipsis.
func NormalizeDescription(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.Trim(text, ".,;:!?")
	if r := []rune(text); len(r) > 200 {
		text = string(r[:197]) + "..."
	}
	return strings.TrimSpace(text)
}

// Keyword groups for ClassifyType. Group order is the tie-break: a text
// matching several groups gets the first one.
var (
	purchaseKeywords   = []string{"compra", "cargo", "pago", "gasto"}
	incomeKeywords     = []string{"ingreso", "abono", "deposito", "recibiste"}
	withdrawalKeywords = []string{"retiro", "retiraste", "sacar"}
	transferKeywords   = []string{"transferencia", "transferiste"}
)

// ClassifyType maps free text onto a transaction type by keyword lookup.
func ClassifyType(text string) models.Type {
	lower := strings.ToLower(text)
	switch {
	case ContainsAny(lower, purchaseKeywords):
		return models.TypeCompra
	case ContainsAny(lower, incomeKeywords):
		return models.TypeIngreso
	case ContainsAny(lower, withdrawalKeywords):
		return models.TypeRetiro
	case ContainsAny(lower, transferKeywords):
		return models.TypeTransferencia
	default:
		return models.TypeOtro
	}
}

var transactionKeywords = []string{
	"compra", "pago", "cargo", "abono", "transferencia",
	"retiro", "deposito", "transaccion", "movimiento",
}

// IsTransactionText reports whether a subject/body pair looks like a
// transaction notification at all. Case-insensitive.
func IsTransactionText(subject, body string) bool {
	text := strings.ToLower(subject + " " + body)
	return ContainsAny(text, transactionKeywords)
}

// ContainsAny reports whether text contains at least one of the keywords.
// Callers are expected to lowercase text beforehand.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
