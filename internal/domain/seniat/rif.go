package seniat

import (
	"regexp"
	"strings"
)

// Patrones de RIF según SENIAT (Venezuela).
// Formato: [VEJPG]-[8-9 dígitos]-[dígito verificador].
// Solo E (extranjeros) admite 9 dígitos; J, V, G, P deben tener 8.
var (
	rifExtranjero = regexp.MustCompile(`^E-\d{9}-\d$`)
	rifEstandar   = regexp.MustCompile(`^[VJGP]-\d{8}-\d$`)
)

// ValidateRIF valida el formato de un RIF venezolano.
// Ejemplos válidos: J-12345678-9, V-12345678-0, E-123456789-1.
func ValidateRIF(rif string) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(rif))
	if trimmed == "" {
		return false
	}
	return rifExtranjero.MatchString(trimmed) || rifEstandar.MatchString(trimmed)
}

// StripRIF devuelve el RIF sin guiones, como lo exige el TXT SENIAT.
func StripRIF(rif string) string {
	return strings.ReplaceAll(strings.TrimSpace(rif), "-", "")
}
