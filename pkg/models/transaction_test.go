package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() *Transaction {
	return &Transaction{
		Amount:      decimal.RequireFromString("-125.50"),
		Description: "Compra en OXXO CENTRO",
		Date:        "2025-03-17T00:00:00Z",
		Source:      SourceBBVA,
		Type:        TypeCompra,
		EmailID:     "msg-001",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validTransaction().Validate())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{"empty description", func(tx *Transaction) { tx.Description = "" }},
		{"empty date", func(tx *Transaction) { tx.Date = "" }},
		{"empty email id", func(tx *Transaction) { tx.EmailID = "" }},
		{"unknown source", func(tx *Transaction) { tx.Source = "Banorte" }},
		{"unknown type", func(tx *Transaction) { tx.Type = "prestamo" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(tx)
			assert.Error(t, tx.Validate())
		})
	}
}

func TestSourceIsValid(t *testing.T) {
	for _, s := range []Source{SourceBBVA, SourceMercadoPago, SourceNU, SourcePlataCard} {
		assert.True(t, s.IsValid(), "source %q", s)
	}
	assert.False(t, Source("").IsValid())
	assert.False(t, Source("Santander").IsValid())
}

func TestTypeIsValid(t *testing.T) {
	for _, typ := range []Type{TypeCompra, TypeIngreso, TypeTransferencia, TypeRetiro, TypeOtro} {
		assert.True(t, typ.IsValid(), "type %q", typ)
	}
	assert.False(t, Type("credito").IsValid())
}
