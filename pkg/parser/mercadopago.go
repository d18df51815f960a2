package parser

import (
	"regexp"
	"strings"

	"github.com/movimail/movimail/pkg/extract"
	"github.com/movimail/movimail/pkg/models"
)

var (
	mercadoPagoAllowKeywords   = []string{"compra", "pago", "recibiste", "pagaste", "transacción"}
	mercadoPagoExcludeKeywords = []string{"promoción", "oferta", "publicidad", "newsletter", "sorteo"}

	mercadoPagoIncomeKeywords  = []string{"recibiste", "ingreso", "te pagaron"}
	mercadoPagoExpenseKeywords = []string{"compra", "pago", "pagaste"}

	mercadoPagoDescription = descriptionRules{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:Compra|Pago)\s+(?:en|a|de)\s+([^\n.]+)`),
			regexp.MustCompile(`(?i)Concepto[:\s]+([^\n.]+)`),
			regexp.MustCompile(`(?i)Descripción[:\s]+([^\n.]+)`),
			regexp.MustCompile(`([A-Z][^.\n]{10,50})`),
		},
		clean:         regexp.MustCompile(`(?i)(Mercado Pago|MP)[:\s]*`),
		subjectPrefix: regexp.MustCompile(`(?i)^(Mercado Pago|MP|Notificación)[:\s]*`),
		placeholder:   "Transacción Mercado Pago",
	}
)

// MercadoPago parses notification emails from Mercado Pago.
type MercadoPago struct {
	base
}

func NewMercadoPago() *MercadoPago {
	return &MercadoPago{base: newBase(models.SourceMercadoPago, mercadoPagoAllowKeywords, mercadoPagoExcludeKeywords)}
}

func (p *MercadoPago) Parse(e models.Email) *models.Transaction {
	if !p.isTransactionNotification(e) {
		return nil
	}

	amount, ok := extract.Amount(bodyOrSubject(e))
	if !ok {
		return nil
	}

	text := strings.ToLower(e.Body + " " + e.Subject)

	// Most Mercado Pago notifications are purchases, so that is the
	// default when no keyword decides the direction.
	txType := models.TypeCompra
	isExpense := true
	switch {
	case extract.ContainsAny(text, mercadoPagoIncomeKeywords):
		txType = models.TypeIngreso
		isExpense = false
	case extract.ContainsAny(text, mercadoPagoExpenseKeywords):
		txType = models.TypeCompra
	}

	signed := amount.Abs()
	if isExpense {
		signed = signed.Neg()
	}

	tx := &models.Transaction{
		Amount:       signed,
		Description:  mercadoPagoDescription.extract(e.Body, e.Subject),
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
