package parser

import (
	"regexp"
	"strings"

	"github.com/movimail/movimail/pkg/extract"
	"github.com/movimail/movimail/pkg/models"
)

var (
	nuAllowKeywords   = []string{"compra", "pago", "cargo", "recibiste", "transacción"}
	nuExcludeKeywords = []string{"promoción", "oferta", "publicidad", "newsletter", "invitación"}

	nuIncomeKeywords  = []string{"recibiste", "ingreso", "abono"}
	nuExpenseKeywords = []string{"compra", "cargo", "pago", "pagaste"}

	nuDescription = descriptionRules{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:Compra|Pago)\s+(?:en|a|de)\s+([^\n.]+)`),
			regexp.MustCompile(`(?i)Concepto[:\s]+([^\n.]+)`),
			regexp.MustCompile(`([A-Z][^.\n]{10,50})`),
		},
		clean:         regexp.MustCompile(`(?i)(NU|Notificación)[:\s]*`),
		subjectPrefix: regexp.MustCompile(`(?i)^(NU|Notificación)[:\s]*`),
		placeholder:   "Transacción NU",
	}
)

// NU parses notification emails from Nu México.
type NU struct {
	base
}

func NewNU() *NU {
	return &NU{base: newBase(models.SourceNU, nuAllowKeywords, nuExcludeKeywords)}
}

func (p *NU) Parse(e models.Email) *models.Transaction {
	if !p.isTransactionNotification(e) {
		return nil
	}

	amount, ok := extract.Amount(bodyOrSubject(e))
	if !ok {
		return nil
	}

	text := strings.ToLower(e.Body + " " + e.Subject)

	txType := models.TypeCompra
	isExpense := true
	switch {
	case extract.ContainsAny(text, nuIncomeKeywords):
		txType = models.TypeIngreso
		isExpense = false
	case extract.ContainsAny(text, nuExpenseKeywords):
		txType = models.TypeCompra
	}

	signed := amount.Abs()
	if isExpense {
		signed = signed.Neg()
	}

	tx := &models.Transaction{
		Amount:       signed,
		Description:  nuDescription.extract(e.Body, e.Subject),
		Date:         extract.Date(e.Body, e.Date, p.now()),
		Source:       p.source,
		Type:         txType,
		EmailID:      e.ID,
		EmailSubject: e.Subject,
	}
	if err := tx.Validate(); err != nil {
		return nil
	}
	return tx
}
