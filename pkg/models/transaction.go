package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Source identifies the bank or payment provider a transaction came from.
type Source string

const (
	SourceBBVA        Source = "BBVA"
	SourceMercadoPago Source = "Mercado Pago"
	SourceNU          Source = "NU"
	SourcePlataCard   Source = "Plata Card"
)

// IsValid reports whether the source is part of the fixed vocabulary.
func (s Source) IsValid() bool {
	switch s {
	case SourceBBVA, SourceMercadoPago, SourceNU, SourcePlataCard:
		return true
	}
	return false
}

// Type classifies the nature of a transaction.
type Type string

const (
	TypeCompra        Type = "compra"
	TypeIngreso       Type = "ingreso"
	TypeTransferencia Type = "transferencia"
	TypeRetiro        Type = "retiro"
	TypeOtro          Type = "otro"
)

// IsValid reports whether the type is part of the fixed vocabulary.
func (t Type) IsValid() bool {
	switch t {
	case TypeCompra, TypeIngreso, TypeTransferencia, TypeRetiro, TypeOtro:
		return true
	}
	return false
}

// Transaction is a structured record extracted from a bank notification
// email. The amount sign encodes direction: negative is an outflow
// (purchase, withdrawal, transfer out), positive an inflow.
type Transaction struct {
	Amount      decimal.Decimal
	Description string
	// Date is ISO-8601 UTC (YYYY-MM-DDTHH:MM:SSZ).
	Date         string
	Source       Source
	Type         Type
	EmailID      string
	EmailSubject string
	// NeedsCategorization marks transactions (cash withdrawals, mostly)
	// that cannot be auto-assigned a spending category.
	NeedsCategorization bool
}

// Validate checks the record invariants. Parsers call this before handing
// a transaction to any sink; a candidate that fails is dropped.
func (t *Transaction) Validate() error {
	if t.Amount.IsZero() {
		return fmt.Errorf("amount is missing or zero")
	}
	if t.Description == "" {
		return fmt.Errorf("description is empty")
	}
	if t.Date == "" {
		return fmt.Errorf("date is empty")
	}
	if !t.Source.IsValid() {
		return fmt.Errorf("unknown source %q", t.Source)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	if t.EmailID == "" {
		return fmt.Errorf("email id is empty")
	}
	return nil
}
