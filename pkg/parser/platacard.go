package parser

import (
	"regexp"
	"strings"

	"github.com/movimail/movimail/pkg/extract"
	"github.com/movimail/movimail/pkg/models"
)

var (
	plataCardAllowKeywords   = []string{"compra", "pago", "cargo", "transacción", "movimiento"}
	plataCardExcludeKeywords = []string{"promoción", "oferta", "publicidad", "newsletter"}

	plataCardIncomeKeywords  = []string{"recibiste", "abono", "deposito"}
	plataCardExpenseKeywords = []string{"compra", "cargo", "pago", "pagaste"}

	plataCardDescription = descriptionRules{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:Compra|Pago|Cargo)\s+(?:en|a|de)\s+([^\n.]+)`),
			regexp.MustCompile(`(?i)Concepto[:\s]+([^\n.]+)`),
			regexp.MustCompile(`([A-Z][^.\n]{10,50})`),
		},
		clean:         regexp.MustCompile(`(?i)(Plata Card|Plata)[:\s]*`),
		subjectPrefix: regexp.MustCompile(`(?i)^(Plata Card|Plata|Notificación)[:\s]*`),
		placeholder:   "Transacción Plata Card",
	}
)

// PlataCard parses notification emails from Plata Card.
type PlataCard struct {
	base
}

func NewPlataCard() *PlataCard {
	return &PlataCard{base: newBase(models.SourcePlataCard, plataCardAllowKeywords, plataCardExcludeKeywords)}
}

func (p *PlataCard) Parse(e models.Email) *models.Transaction {
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
	case extract.ContainsAny(text, plataCardIncomeKeywords):
		txType = models.TypeIngreso
		isExpense = false
	case extract.ContainsAny(text, plataCardExpenseKeywords):
		txType = models.TypeCompra
	}

	signed := amount.Abs()
	if isExpense {
		signed = signed.Neg()
	}

	tx := &models.Transaction{
		Amount:       signed,
		Description:  plataCardDescription.extract(e.Body, e.Subject),
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
