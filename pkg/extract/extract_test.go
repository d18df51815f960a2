package extract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movimail/movimail/pkg/models"
)

var testClock = time.Date(2025, 3, 17, 10, 30, 0, 0, time.UTC)

func TestAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"currency prefixed", "Cargo por compra en OXXO por $125.50", "125.50"},
		{"prefixed with space", "pagaste $ 89.99 con tu tarjeta", "89.99"},
		{"thousands separators", "Recibiste un pago de $1,234.56", "1234.56"},
		{"large amount", "$12,345,678.90", "12345678.90"},
		{"currency suffixed", "por un total de 450.00 MXN", "450.00"},
		{"pesos suffix", "pagaste 300 pesos en la tienda", "300"},
		{"bare number", "monto: 742.10", "742.10"},
		{"integer", "retiraste $500", "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Amount(tt.text)
			require.True(t, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestAmountNoMatch(t *testing.T) {
	for _, text := range []string{"", "sin monto alguno", "$,."} {
		_, ok := Amount(text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestAmountRoundTrip(t *testing.T) {
	// Formatting a known decimal with separators and extracting it back
	// must recover the exact value.
	got, ok := Amount("$1,234.56")
	require.True(t, ok)
	assert.True(t, got.Equal(decimal.New(123456, -2)))
}

func TestDateFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"day first slash", "tu compra del 05/03/2025 en OXXO", "2025-03-05T00:00:00Z"},
		{"day first dash", "fecha 17-03-2025", "2025-03-17T00:00:00Z"},
		{"year first", "registrada el 2025/03/28", "2025-03-28T00:00:00Z"},
		{"single digit day", "el 5/3/2025", "2025-03-05T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.text, "", testClock))
		})
	}
}

func TestDateFallsBackToHeader(t *testing.T) {
	got := Date("sin fecha en el cuerpo", "Mon, 17 Mar 2025 08:15:00 -0600", testClock)
	assert.Equal(t, "2025-03-17T14:15:00Z", got)
}

func TestDateFallsBackToClock(t *testing.T) {
	got := Date("sin fecha", "not a date header", testClock)
	assert.Equal(t, "2025-03-17T10:30:00Z", got)

	got = Date("", "", testClock)
	assert.Equal(t, "2025-03-17T10:30:00Z", got)
}

func TestDateSkipsImpossibleCalendarValues(t *testing.T) {
	// 13 is not a month, so the day-first read is rejected and the header
	// fallback wins.
	got := Date("05/13/2025", "Mon, 17 Mar 2025 00:00:00 +0000", testClock)
	assert.Equal(t, "2025-03-17T00:00:00Z", got)
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "Compra   en\t\tOXXO\n CENTRO", "Compra en OXXO CENTRO"},
		{"strips edge punctuation", "..Pago a Juan Pérez!!", "Pago a Juan Pérez"},
		{"trims", "  tienda  ", "tienda"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDescription(tt.in))
		})
	}
}

func TestNormalizeDescriptionTruncates(t *testing.T) {
	long := strings201()
	got := NormalizeDescription(long)
	r := []rune(got)
	assert.LessOrEqual(t, len(r), 200)
	assert.Equal(t, "...", string(r[len(r)-3:]))
}

func strings201() string {
	s := make([]rune, 201)
	for i := range s {
		s[i] = 'a'
	}
	return string(s)
}

func TestClassifyType(t *testing.T) {
	tests := []struct {
		text string
		want models.Type
	}{
		{"Cargo por compra en OXXO", models.TypeCompra},
		{"Recibiste un deposito", models.TypeIngreso},
		{"Retiro en cajero", models.TypeRetiro},
		{"Transferencia enviada", models.TypeTransferencia},
		{"Estado de cuenta disponible", models.TypeOtro},
		// Purchase keywords win when several groups match.
		{"pago recibido, abono a tu cuenta", models.TypeCompra},
		{"abono por retiro cancelado", models.TypeIngreso},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyType(tt.text), "text %q", tt.text)
	}
}

func TestIsTransactionText(t *testing.T) {
	assert.True(t, IsTransactionText("Notificación de compra", ""))
	assert.True(t, IsTransactionText("", "se registró un MOVIMIENTO en tu cuenta"))
	assert.False(t, IsTransactionText("Tu estado de cuenta", "ya está disponible"))
}
