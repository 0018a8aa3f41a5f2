package contact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/contact"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw, want string
	}{
		{"300 123 4567", "+573001234567"},
		{"+57 300 123 4567", "+573001234567"},
		{"  ", ""},
		{"ext 12", "ext12"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, contact.NormalizePhone(tc.raw, "CO"), tc.raw)
	}
}

func TestNormalizeTaxID_NITValido(t *testing.T) {
	got, err := contact.NormalizeTaxID("800.197.268-4")
	require.NoError(t, err)
	assert.Equal(t, "800197268-4", got)
	assert.Equal(t, byte('4'), contact.NITVerificationDigit("800197268"))
}

func TestNormalizeTaxID_DigitoIncorrecto(t *testing.T) {
	_, err := contact.NormalizeTaxID("800197268-5")
	assert.Error(t, err)
}

func TestNormalizeTaxID_OtrosFormatosSeAceptan(t *testing.T) {
	got, err := contact.NormalizeTaxID(" 1.020.304 ")
	require.NoError(t, err)
	assert.Equal(t, "1020304", got)

	got, err = contact.NormalizeTaxID("76.123.456-K")
	require.NoError(t, err)
	assert.Equal(t, "76123456-K", got)
}
