package afip

import (
	"errors"
	"fmt"
	"unicode"
)

// cuitWeights multiplicadores para el dígito verificador de CUIT/CUIL,
// aplicados a los 10 primeros dígitos de izquierda a derecha.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// ErrInvalidCheckDigit el dígito verificador no coincide.
var ErrInvalidCheckDigit = errors.New("afip: dígito verificador inválido")

// ValidateCUIT valida un CUIT/CUIL (con o sin guiones) por módulo 11.
// Acepta "20-12345678-6", "20 12345678 6" o "20123456786".
func ValidateCUIT(cuit string) error {
	digits := extractDigits(cuit)
	if len(digits) != 11 {
		return fmt.Errorf("afip: el CUIT debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	expected, err := checkDigit(digits[:10])
	if err != nil {
		return err
	}
	if digits[10] != expected {
		return fmt.Errorf("%w: esperado %c, recibido %c", ErrInvalidCheckDigit, expected, digits[10])
	}
	return nil
}

// ComputeCUITCheckDigit calcula el dígito verificador para los 10 primeros dígitos.
func ComputeCUITCheckDigit(prefix string) (byte, error) {
	digits := extractDigits(prefix)
	if len(digits) < 10 {
		return 0, fmt.Errorf("afip: se requieren 10 dígitos, se encontraron %d", len(digits))
	}
	return checkDigit(digits[:10])
}

// NormalizeCUIT devuelve solo los dígitos del CUIT.
func NormalizeCUIT(cuit string) string {
	return string(extractDigits(cuit))
}

// FormatCUIT formatea un CUIT de 11 dígitos como XX-XXXXXXXX-X.
// Si no tiene 11 dígitos lo devuelve sin cambios.
func FormatCUIT(cuit string) string {
	d := extractDigits(cuit)
	if len(d) != 11 {
		return cuit
	}
	return string(d[:2]) + "-" + string(d[2:10]) + "-" + string(d[10:])
}

// checkDigit: r = Σ(d·w) mod 11; r==0 → 0, r==1 → sin dígito posible (11-1=10), otro → 11-r.
func checkDigit(base []byte) (byte, error) {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * cuitWeights[i]
	}
	r := sum % 11
	switch r {
	case 0:
		return '0', nil
	case 1:
		return 0, fmt.Errorf("%w: el prefijo no admite dígito verificador", ErrInvalidCheckDigit)
	default:
		return byte('0' + (11 - r)), nil
	}
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < 128 {
			out = append(out, byte(r))
		}
	}
	return out
}
