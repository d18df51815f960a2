package parser

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movimail/movimail/pkg/models"
)

func testRegistry() *Registry {
	return NewRegistry(log.New(io.Discard))
}

func TestForSender(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		from string
		want models.Source
	}{
		{"notificaciones@bbva.com.mx", models.SourceBBVA},
		{"avisos@bbva.com", models.SourceBBVA},
		{"info@mercadopago.com.mx", models.SourceMercadoPago},
		{"Mercado Pago <info@mercadopago.com>", models.SourceMercadoPago},
		{"AVISOS@NU.COM.MX", models.SourceNU},
		{"hola@nu.com", models.SourceNU},
		{"tarjeta@plata.com.mx", models.SourcePlataCard},
	}

	for _, tt := range tests {
		p := r.ForSender(tt.from)
		require.NotNil(t, p, "sender %q", tt.from)
		assert.Equal(t, tt.want, p.Source(), "sender %q", tt.from)
	}
}

func TestForSenderUnknown(t *testing.T) {
	r := testRegistry()
	assert.Nil(t, r.ForSender("ofertas@randomstore.com"))
	assert.Nil(t, r.ForSender(""))
}

func TestForSenderIsDeterministic(t *testing.T) {
	r := testRegistry()
	first := r.ForSender("notificaciones@bbva.com.mx")
	for i := 0; i < 10; i++ {
		assert.Same(t, first, r.ForSender("notificaciones@bbva.com.mx"))
	}
}

func TestDomains(t *testing.T) {
	r := testRegistry()
	assert.Equal(t, []string{
		"bbva.com", "bbva.com.mx",
		"mercadopago.com", "mercadopago.com.mx",
		"nu.com.mx", "nu.com",
		"plata.com.mx", "plata.com",
	}, r.Domains())
}

func TestProcessUnknownSender(t *testing.T) {
	r := testRegistry()
	tx, routed := r.Process(models.Email{ID: "x", From: "ofertas@randomstore.com", Subject: "compra", Body: "$10.00"})
	assert.Nil(t, tx)
	assert.False(t, routed)
}

func TestProcessRoutesAndParses(t *testing.T) {
	r := testRegistry()
	tx, routed := r.Process(models.Email{
		ID:      "m-1",
		From:    "notificaciones@bbva.com.mx",
		Subject: "Notificación BBVA",
		Body:    "Cargo por compra en OXXO CENTRO por $125.50",
		Date:    "Mon, 17 Mar 2025 08:00:00 -0600",
	})
	require.True(t, routed)
	require.NotNil(t, tx)
	assert.Equal(t, models.SourceBBVA, tx.Source)
}

// Every parser follows the same sign policy: ingreso is the only positive
// type, compra and retiro are always negative.
func TestSignInvariantAcrossParsers(t *testing.T) {
	emails := []models.Email{
		{ID: "1", From: "a@bbva.com", Body: "Cargo por compra en OXXO por $10.00", Date: "Mon, 17 Mar 2025 08:00:00 -0600"},
		{ID: "2", From: "a@bbva.com", Body: "Retiro en cajero por $20.00", Date: "Mon, 17 Mar 2025 08:00:00 -0600"},
		{ID: "3", From: "a@bbva.com", Body: "Abono recibido por $30.00", Date: "Mon, 17 Mar 2025 08:00:00 -0600"},
		{ID: "4", From: "a@mercadopago.com", Body: "Recibiste un pago de $40.00 de alguien", Date: "Mon, 17 Mar 2025 08:00:00 -0600"},
		{ID: "5", From: "a@mercadopago.com", Body: "Pagaste $50.00 en una tienda", Date: "Mon, 17 Mar 2025 08:00:00 -0600"},
		{ID: "6", From: "a@nu.com.mx", Body: "Recibiste un abono de $60.00", Date: "Mon, 17 Mar 2025 08:00:00 -0600"},
		{ID: "7", From: "a@nu.com.mx", Body: "Cargo de $70.00 en tu tarjeta", Date: "Mon, 17 Mar 2025 08:00:00 -0600"},
		{ID: "8", From: "a@plata.com.mx", Body: "Compra en Amazon MX por $80.00", Date: "Mon, 17 Mar 2025 08:00:00 -0600"},
	}

	r := testRegistry()
	for _, e := range emails {
		tx, routed := r.Process(e)
		require.True(t, routed, "email %s", e.ID)
		require.NotNil(t, tx, "email %s", e.ID)

		switch tx.Type {
		case models.TypeIngreso:
			assert.True(t, tx.Amount.IsPositive(), "email %s: ingreso must be positive, got %s", e.ID, tx.Amount)
		case models.TypeCompra, models.TypeRetiro:
			assert.True(t, tx.Amount.IsNegative(), "email %s: %s must be negative, got %s", e.ID, tx.Type, tx.Amount)
		}
	}
}
