package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtocol_Sanitize_NegativeTVL(t *testing.T) {
	p := Protocol{Name: "Morpho", TVL: -500}.Sanitize()
	assert.GreaterOrEqual(t, p.TVL, 0.0)
}

func TestProtocol_Sanitize_NaNTVL(t *testing.T) {
	p := Protocol{Name: "Morpho", TVL: math.NaN()}.Sanitize()
	assert.Equal(t, 0.0, p.TVL)
}

func TestProtocol_Sanitize_Placeholders(t *testing.T) {
	p := Protocol{Name: "Aerodrome"}.Sanitize()

	assert.Equal(t, PlaceholderDescription, p.Description)
	assert.Equal(t, PlaceholderCategory, p.Category)
	assert.Equal(t, PlaceholderWebsite, p.Website)
	assert.Equal(t, SourceAPI, p.Source)
	assert.False(t, p.LastUpdated.IsZero())
}

func TestProtocol_Sanitize_KeepsValidFields(t *testing.T) {
	p := Protocol{
		Name:        "Uniswap",
		Description: "AMM",
		Category:    "DEX",
		TVL:         4.2e9,
		Website:     "https://uniswap.org",
		Chains:      12,
		Change1d:    1.5,
		Source:      SourceLocal,
	}.Sanitize()

	assert.Equal(t, "AMM", p.Description)
	assert.Equal(t, "DEX", p.Category)
	assert.Equal(t, 4.2e9, p.TVL)
	assert.Equal(t, SourceLocal, p.Source)
}

func TestParseTVL(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"plain number", 1500.0, 1500},
		{"dollar millions", "$1.2M", 1.2e6},
		{"billions lowercase", "3.4b", 3.4e9},
		{"thousands with comma", "$12,500K", 12500e3},
		{"bare string", "42", 42},
		{"negative number", -10.0, 0},
		{"negative string", "-$5M", 0},
		{"garbage", "lots of money", 0},
		{"empty", "", 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseTVL(tt.input), 1e-6)
		})
	}
}

func TestFormatTVL(t *testing.T) {
	assert.Equal(t, "$1.20B", FormatTVL(1.2e9))
	assert.Equal(t, "$3.50M", FormatTVL(3.5e6))
	assert.Equal(t, "$9.00K", FormatTVL(9000))
	assert.Equal(t, "$12.00", FormatTVL(12))
}

func TestFormatTVL_RoundTripsParseTVL(t *testing.T) {
	assert.InDelta(t, 1.2e9, ParseTVL(FormatTVL(1.2e9)), 1e7)
}
