package assettypes

import (
	"fmt"
	"strconv"
	"strings"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/textnorm"
)

const (
	CodeDigits    = 4
	maxCodeNumber = 9999
)

// CodeNumber returns the numeric suffix of code when it is prefix followed by
// exactly CodeDigits digits. Prefix comparison ignores case and accents.
func CodeNumber(prefix, code string) (int, bool) {
	rs := []rune(strings.TrimSpace(code))
	if len(rs) <= CodeDigits {
		return 0, false
	}
	head, suffix := string(rs[:len(rs)-CodeDigits]), string(rs[len(rs)-CodeDigits:])
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	if !textnorm.Equal(head, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CheckCode validates code against the type's prefix. Types without a prefix
// accept any non-blank code.
func CheckCode(t *Type, code string) error {
	if !t.HasPrefix() {
		return nil
	}
	prefix := *t.Prefix
	if _, ok := CodeNumber(prefix, code); ok {
		return nil
	}
	if !strings.HasPrefix(textnorm.Key(code), textnorm.Key(prefix)) {
		return apierr.Invalidf("El código debe empezar con %q (codificación del tipo seleccionado)", prefix)
	}
	return apierr.Invalidf("El código debe tener exactamente %d dígitos después de %q. Formato esperado: %s", CodeDigits, prefix, FormatCode(prefix, 1))
}

func FormatCode(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, CodeDigits, n)
}

// NextCode returns prefix + (highest existing number + 1).
func NextCode(prefix string, existing []string) (string, error) {
	highest := 0
	for _, c := range existing {
		if n, ok := CodeNumber(prefix, c); ok && n > highest {
			highest = n
		}
	}
	if highest >= maxCodeNumber {
		return "", apierr.Invalidf("No quedan códigos disponibles para la codificación %q", prefix)
	}
	return FormatCode(prefix, highest+1), nil
}
