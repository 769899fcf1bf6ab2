package service

import (
	"fmt"
	"strings"
	"unicode"

	"viveiro/internal/domain"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizarDocumento strips everything but digits and accepts a CPF (11)
// or CNPJ (14) that is not a single repeated digit.
func NormalizarDocumento(raw string) (string, error) {
	d := apenasDigitos(raw)
	if len(d) != 11 && len(d) != 14 {
		return "", fmt.Errorf("%w: CPF/CNPJ deve ter 11 ou 14 dígitos", domain.ErrInvalidInput)
	}
	if strings.Count(d, d[:1]) == len(d) {
		return "", fmt.Errorf("%w: CPF/CNPJ inválido, todos os dígitos são iguais", domain.ErrInvalidInput)
	}
	return d, nil
}

func apenasDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// semAcentos removes combining marks after canonical decomposition.
func semAcentos(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// baseCodigoUnico joins the first two letters of each name word, the first
// three letters of the city and the first two document digits, as a slug.
func baseCodigoUnico(nome, cidade, documento string) string {
	var b strings.Builder
	for _, w := range strings.Fields(nome) {
		b.WriteString(prefixo(w, 2))
	}
	b.WriteString(prefixo(strings.TrimSpace(cidade), 3))
	b.WriteString(prefixo(apenasDigitos(documento), 2))
	return slug(b.String())
}

func prefixo(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(semAcentos(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
