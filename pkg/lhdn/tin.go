package lhdn

import (
	"fmt"
	"regexp"
	"strings"
)

// TIN genéricos publicados por LHDN para casos sin identificación del comprador.
const (
	TINGeneralPublic   = "EI00000000010"
	TINForeignBuyer    = "EI00000000020"
	TINForeignSupplier = "EI00000000030"
	TINGovernment      = "EI00000000040"
)

// Individuos: IG + 9..11 dígitos. No individuos: prefijo de categoría + dígitos.
var tinPattern = regexp.MustCompile(`^(IG\d{9,11}|(C|CS|D|E|F|FA|PT|TA|TC|TN|TR|TP|J|LE)\d{8,12}|EI\d{11})$`)

// NormalizeTIN elimina espacios y guiones y pasa a mayúsculas.
func NormalizeTIN(tin string) string {
	r := strings.NewReplacer(" ", "", "-", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(tin)))
}

// ValidateTIN valida el formato del Tax Identification Number.
func ValidateTIN(tin string) error {
	n := NormalizeTIN(tin)
	if n == "" {
		return fmt.Errorf("lhdn: TIN es obligatorio")
	}
	if !tinPattern.MatchString(n) {
		return fmt.Errorf("lhdn: TIN con formato inválido: %s", tin)
	}
	return nil
}

// IsGenericTIN indica si el TIN es uno de los genéricos EI.
func IsGenericTIN(tin string) bool {
	switch NormalizeTIN(tin) {
	case TINGeneralPublic, TINForeignBuyer, TINForeignSupplier, TINGovernment:
		return true
	}
	return false
}
