// Package contact normaliza datos de contacto de clientes y proveedores.
package contact

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhone devuelve el teléfono en formato E.164 si se puede interpretar para la región;
// si no, el valor sin espacios.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return strings.Join(strings.Fields(raw), "")
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
