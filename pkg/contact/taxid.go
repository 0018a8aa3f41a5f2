package contact

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del dígito de verificación NIT (módulo 11), aplicados a los 9 dígitos base de izquierda a derecha.
var nitWeights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// NormalizeTaxID limpia el identificador tributario (sin puntos ni espacios).
// Si tiene forma de NIT con dígito de verificación ("900123456-7") valida el dígito.
// Cualquier otro formato (cédula, RUT extranjero) se acepta tal cual.
func NormalizeTaxID(raw string) (string, error) {
	clean := strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	base, dv, ok := strings.Cut(clean, "-")
	if !ok || len(base) != 9 || len(dv) != 1 || !allDigits(base) || !allDigits(dv) {
		return clean, nil
	}
	expected := NITVerificationDigit(base)
	if dv[0] != expected {
		return "", fmt.Errorf("dígito de verificación del NIT inválido: esperado %c, recibido %s", expected, dv)
	}
	return clean, nil
}

// NITVerificationDigit calcula el dígito de verificación de los 9 dígitos base.
func NITVerificationDigit(base string) byte {
	var sum int
	for i := 0; i < 9 && i < len(base); i++ {
		sum += int(base[i]-'0') * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder)
	}
	return byte('0' + (11 - remainder))
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
