// Package lhdn contiene catálogos y validaciones alineados a la especificación
// de e-Invoice de LHDN (MyInvois, Malasia) versión 1.0.
package lhdn

// DocumentVersion versión del documento UBL enviado (sin firma digital).
const DocumentVersion = "1.0"

// =============================================================================
// Tipos de documento (e-Invoice Types)
// =============================================================================

const (
	DocTypeInvoice              = "01"
	DocTypeCreditNote           = "02"
	DocTypeDebitNote            = "03"
	DocTypeRefundNote           = "04"
	DocTypeSelfBilledInvoice    = "11"
	DocTypeSelfBilledCreditNote = "12"
	DocTypeSelfBilledDebitNote  = "13"
	DocTypeSelfBilledRefundNote = "14"
)

var documentTypeNames = map[string]string{
	DocTypeInvoice:              "Invoice",
	DocTypeCreditNote:           "Credit Note",
	DocTypeDebitNote:            "Debit Note",
	DocTypeRefundNote:           "Refund Note",
	DocTypeSelfBilledInvoice:    "Self-billed Invoice",
	DocTypeSelfBilledCreditNote: "Self-billed Credit Note",
	DocTypeSelfBilledDebitNote:  "Self-billed Debit Note",
	DocTypeSelfBilledRefundNote: "Self-billed Refund Note",
}

// IsValidDocumentType indica si code es un tipo de documento LHDN.
func IsValidDocumentType(code string) bool {
	_, ok := documentTypeNames[code]
	return ok
}

// DocumentTypeName nombre legible del tipo; vacío si no existe.
func DocumentTypeName(code string) string {
	return documentTypeNames[code]
}

// =============================================================================
// Tipos de impuesto (Tax Types)
// =============================================================================

const (
	TaxTypeSales         = "01" // Sales Tax
	TaxTypeService       = "02" // Service Tax
	TaxTypeTourism       = "03" // Tourism Tax
	TaxTypeHighValue     = "04" // High-Value Goods Tax
	TaxTypeLowValue      = "05" // Sales Tax on Low Value Goods
	TaxTypeNotApplicable = "06" // Not Applicable
	TaxTypeExempt        = "E"  // Tax exemption
)

// ValidTaxTypes tipos de impuesto aceptados en líneas.
var ValidTaxTypes = map[string]bool{
	TaxTypeSales: true, TaxTypeService: true, TaxTypeTourism: true, TaxTypeHighValue: true,
	TaxTypeLowValue: true, TaxTypeNotApplicable: true, TaxTypeExempt: true,
}

// =============================================================================
// Esquemas de identificación del comprador/proveedor
// =============================================================================

const (
	IDSchemeNRIC     = "NRIC"
	IDSchemePassport = "PASSPORT"
	IDSchemeBRN      = "BRN"
	IDSchemeArmy     = "ARMY"
)

// =============================================================================
// Unidades de medida frecuentes (UN/ECE Rec 20)
// =============================================================================

const (
	UnitPiece    = "C62"
	UnitKilogram = "KGM"
	UnitLitre    = "LTR"
	UnitHour     = "HUR"
	UnitDay      = "DAY"
	UnitService  = "E48"
)

// Clasificación por defecto de líneas ("022" = Others).
const ClassificationOthers = "022"

// País por defecto de direcciones.
const CountryMalaysia = "MYS"
