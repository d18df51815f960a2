// Package service orchestrates an ingestion run: fetch bank emails, route
// each to its parser, and hand valid transactions to the sink.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"

	"github.com/movimail/movimail/pkg/mail"
	"github.com/movimail/movimail/pkg/parser"
	"github.com/movimail/movimail/pkg/store"
)

// Summary tallies the outcome of one ingestion run. Skipped covers unknown
// senders, non-transaction mail and records that failed validation — all
// normal outcomes for inbox traffic.
type Summary struct {
	Fetched    int
	Processed  int
	Skipped    int
	Duplicates int
	Errors     int
}

// Processor runs the email-to-transaction pipeline. Emails are processed
// one by one and independently; no ordering between records is guaranteed
// or needed.
type Processor struct {
	source   mail.Source
	store    store.Store
	registry *parser.Registry
	logger   *log.Logger
	dryRun   bool
}

func NewProcessor(source mail.Source, st store.Store, registry *parser.Registry, logger *log.Logger) *Processor {
	return &Processor{
		source:   source,
		store:    st,
		registry: registry,
		logger:   logger,
	}
}

// DryRun makes the processor parse without persisting anything.
func (p *Processor) DryRun() *Processor {
	p.dryRun = true
	return p
}

// Run fetches mail from the last daysBack days and processes every message.
// Only the fetch itself can fail the run; per-email problems are counted
// and logged, never fatal.
func (p *Processor) Run(ctx context.Context, daysBack int) (*Summary, error) {
	emails, err := p.source.FetchBankEmails(ctx, p.registry.Domains(), daysBack)
	if err != nil {
		return nil, fmt.Errorf("fetching bank emails: %w", err)
	}

	summary := &Summary{Fetched: len(emails)}
	for _, e := range emails {
		bankParser := p.registry.ForSender(e.From)
		if bankParser == nil {
			p.logger.Warn("email from unknown sender, skipping", "from", e.From, "id", e.ID)
			summary.Skipped++
			continue
		}

		tx := bankParser.Parse(e)
		if tx == nil {
			summary.Skipped++
			continue
		}
		p.logger.Debug("parsed transaction", "dump", pp.Sprint(tx))

		if p.dryRun {
			summary.Processed++
			continue
		}

		if _, err := p.store.Save(ctx, tx); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				p.logger.Debug("transaction already recorded", "email_id", tx.EmailID)
				summary.Duplicates++
				continue
			}
			p.logger.Error("failed to store transaction", "email_id", tx.EmailID, "error", err)
			summary.Errors++
			continue
		}

		summary.Processed++
		p.logger.Info("recorded transaction",
			"source", tx.Source,
			"type", tx.Type,
			"amount", tx.Amount.StringFixed(2),
			"description", shorten(tx.Description, 50),
		)
	}

	p.logger.Info("ingestion run complete",
		"fetched", summary.Fetched,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"duplicates", summary.Duplicates,
		"errors", summary.Errors,
	)
	return summary, nil
}

func shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
