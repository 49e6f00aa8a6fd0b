package money

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

func TestFormatUSD(t *testing.T) {
	usd := domain.USD.Ptr()
	assert.Equal(t, "$6.00", Format(6, usd))
	assert.Equal(t, "$1,234.50", Format(1234.5, usd))
	assert.Equal(t, "$0.13", Format(0.125, usd))
	assert.Equal(t, "-$2.50", Format(-2.5, usd))
}

func TestFormatWithoutCurrency(t *testing.T) {
	assert.Equal(t, "6.00", Format(6, nil))
	assert.Equal(t, "0.33", Format(1.0/3.0, nil))
	assert.Equal(t, "1234.57", Format(1234.567, nil))
}

func TestFormatSuffixCurrencies(t *testing.T) {
	rub := Format(1234.5, domain.RUB.Ptr())
	assert.True(t, strings.HasSuffix(rub, " ₽"), rub)
	assert.Contains(t, rub, "234,50")

	ils := Format(3, domain.ILS.Ptr())
	assert.True(t, strings.HasSuffix(ils, " ₪"), ils)
	assert.Contains(t, ils, "3.00")
}

func TestFormatNonFinite(t *testing.T) {
	assert.Equal(t, NotAvailable, Format(math.Inf(1), domain.USD.Ptr()))
	assert.Equal(t, NotAvailable, Format(math.Inf(-1), nil))
	assert.Equal(t, NotAvailable, Format(math.NaN(), domain.RUB.Ptr()))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{"1,5", 1.5},
		{" $2.25 ", 2.25},
		{"10 ₽", 10},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := Parse("cheap")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Parse("1e400")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tiny, err := Parse("1e-300")
	require.NoError(t, err)
	assert.Equal(t, 1e-300, tiny)
}
