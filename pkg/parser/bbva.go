package parser

import (
	"regexp"
	"strings"

	"github.com/movimail/movimail/pkg/extract"
	"github.com/movimail/movimail/pkg/models"
)

var (
	bbvaAllowKeywords   = []string{"cargo", "abono", "compra", "pago", "retiro", "transferencia"}
	bbvaExcludeKeywords = []string{"promocion", "promoción", "oferta", "publicidad", "newsletter"}

	// BBVA uses "cargo" for charges; cash withdrawals come through as
	// "retiro"/"retiraste" and need manual categorization later.
	bbvaExpenseKeywords    = []string{"cargo", "compra", "pago"}
	bbvaWithdrawalKeywords = []string{"retiro", "retiraste", "cajero"}

	bbvaDescription = descriptionRules{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:Compra|Pago|Retiro|Transferencia)\s+(?:en|a|de)\s+([^\n.]+)`),
			regexp.MustCompile(`(?i)Concepto[:\s]+([^\n.]+)`),
			regexp.MustCompile(`(?i)Descripción[:\s]+([^\n.]+)`),
		},
		subjectPrefix: regexp.MustCompile(`(?i)^(BBVA|Notificación|Aviso)[:\s]*`),
		placeholder:   "Transacción BBVA",
	}
)

// BBVA parses notification emails from BBVA México.
type BBVA struct {
	base
}

func NewBBVA() *BBVA {
	return &BBVA{base: newBase(models.SourceBBVA, bbvaAllowKeywords, bbvaExcludeKeywords)}
}

func (p *BBVA) Parse(e models.Email) *models.Transaction {
	if !p.isTransactionNotification(e) {
		return nil
	}

	amount, ok := extract.Amount(bodyOrSubject(e))
	if !ok {
		return nil
	}

	body := strings.ToLower(e.Body)
	isExpense := extract.ContainsAny(body, bbvaExpenseKeywords)
	isWithdrawal := extract.ContainsAny(body, bbvaWithdrawalKeywords)

	txType := models.TypeIngreso
	if isExpense {
		txType = models.TypeCompra
	}
	if isWithdrawal {
		txType = models.TypeRetiro
	}

	signed := amount.Abs()
	if isExpense || isWithdrawal {
		signed = signed.Neg()
	}

	tx := &models.Transaction{
		Amount:              signed,
		Description:         bbvaDescription.extract(e.Body, e.Subject),
		Date:                extract.Date(e.Body, e.Date, p.now()),
		Source:              p.source,
		Type:                txType,
		EmailID:             e.ID,
		EmailSubject:        e.Subject,
		NeedsCategorization: isWithdrawal,
	}
	if err := tx.Validate(); err != nil {
		return nil
	}
	return tx
}
