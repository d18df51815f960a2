package parser

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/movimail/movimail/pkg/models"
)

// route binds a sender domain to the parser handling that bank's mail.
// Routes live in a slice, not a map, so lookup order is fixed; domains are
// chosen non-overlapping across banks.
type route struct {
	domain string
	parser BankParser
}

// Registry dispatches emails to bank parsers by sender domain. It is
// read-only after construction and safe for concurrent use.
type Registry struct {
	routes []route
	logger *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	bbva := NewBBVA()
	mercadoPago := NewMercadoPago()
	nu := NewNU()
	plataCard := NewPlataCard()

	return &Registry{
		logger: logger,
		routes: []route{
			{"bbva.com", bbva},
			{"bbva.com.mx", bbva},
			{"mercadopago.com", mercadoPago},
			{"mercadopago.com.mx", mercadoPago},
			{"nu.com.mx", nu},
			{"nu.com", nu},
			{"plata.com.mx", plataCard},
			{"plata.com", plataCard},
		},
	}
}

// ForSender returns the parser for a sender address, matching known bank
// domains by case-insensitive containment. Nil means the sender is not a
// known bank and the email should be skipped.
func (r *Registry) ForSender(from string) BankParser {
	lower := strings.ToLower(from)
	for _, rt := range r.routes {
		if strings.Contains(lower, rt.domain) {
			return rt.parser
		}
	}
	return nil
}

// Domains returns every routed sender domain, in route order. The mail
// source uses this to scope its search query.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		domains = append(domains, rt.domain)
	}
	return domains
}

// Process routes an email and parses it. The second return is false when
// the sender matched no known bank.
func (r *Registry) Process(e models.Email) (*models.Transaction, bool) {
	p := r.ForSender(e.From)
	if p == nil {
		r.logger.Debug("no parser for sender", "from", e.From)
		return nil, false
	}
	tx := p.Parse(e)
	if tx == nil {
		r.logger.Debug("email produced no transaction", "id", e.ID, "source", p.Source())
	}
	return tx, true
}
