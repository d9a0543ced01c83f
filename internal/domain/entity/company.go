package entity

import "time"

// Company representa una organización/tenant del sistema (contribuyente en Malasia).
type Company struct {
	ID               string
	Name             string
	TIN              string // Tax Identification Number LHDN
	BRN              string // Business Registration Number (SSM)
	SSTNumber        string // registro SST; vacío = "NA"
	MSICCode         string // código de actividad económica (5 dígitos)
	BusinessActivity string
	Address          string
	City             string
	State            string // código de estado LHDN ("14" = W.P. Kuala Lumpur)
	Postcode         string
	Phone            string
	Email            string
	Status           string // active, suspended, inactive
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleBilling   = "billing"
	ModuleEInvoice  = "einvoice"
	ModuleInventory = "inventory"
)

// CompanyModule representa la activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
