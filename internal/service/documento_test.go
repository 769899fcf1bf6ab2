package service

import (
	"testing"

	"viveiro/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizarDocumento(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"123.456.789-09", "12345678909", true},
		{"12.345.678/0001-95", "12345678000195", true},
		{"  12345678909 ", "12345678909", true},
		{"111.111.111-11", "", false},
		{"00000000000000", "", false},
		{"1234567890", "", false},
		{"123456789012", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizarDocumento(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBaseCodigoUnico(t *testing.T) {
	assert.Equal(t, "jodasisao12", baseCodigoUnico("João da Silva", "São Paulo", "123.456.789-09"))
	assert.Equal(t, "agflcur45", baseCodigoUnico("Agro Floresta", "Curitiba", "45678901000112"))
	assert.Equal(t, "", baseCodigoUnico("", "", ""))
}

func TestSemAcentos(t *testing.T) {
	assert.Equal(t, "Acai Pessego Mamao", semAcentos("Açaí Pêssego Mamão"))
}

func TestPareceDocumento(t *testing.T) {
	assert.True(t, pareceDocumento("123.456"))
	assert.True(t, pareceDocumento("12.345.678/0001-95"))
	assert.False(t, pareceDocumento("maria 12"))
	assert.False(t, pareceDocumento("..."))
	assert.False(t, pareceDocumento(""))
}
