package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa (contribuyente LHDN).
type CreateCompanyRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=200"`
	TIN              string `json:"tin" validate:"required,min=10,max=14"`
	BRN              string `json:"brn" validate:"required,max=20"`
	SSTNumber        string `json:"sst_number" validate:"omitempty,max=35"`
	MSICCode         string `json:"msic_code" validate:"omitempty,len=5,numeric"`
	BusinessActivity string `json:"business_activity" validate:"omitempty,max=300"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state" validate:"omitempty,len=2,numeric"`
	Postcode         string `json:"postcode" validate:"omitempty,max=10"`
	Phone            string `json:"phone"`
	Email            string `json:"email" validate:"omitempty,email"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	SSTNumber *string `json:"sst_number" validate:"omitempty,max=35"`
	MSICCode  *string `json:"msic_code" validate:"omitempty,len=5,numeric"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Status    *string `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	TIN              string    `json:"tin"`
	BRN              string    `json:"brn"`
	SSTNumber        string    `json:"sst_number,omitempty"`
	MSICCode         string    `json:"msic_code,omitempty"`
	BusinessActivity string    `json:"business_activity,omitempty"`
	Address          string    `json:"address"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Postcode         string    `json:"postcode,omitempty"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ActivateModuleRequest activa un módulo SaaS para la empresa.
type ActivateModuleRequest struct {
	Module    string     `json:"module" validate:"required,oneof=billing einvoice inventory"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ModuleResponse estado de un módulo contratado.
type ModuleResponse struct {
	Module      string     `json:"module"`
	IsActive    bool       `json:"is_active"`
	ActivatedAt time.Time  `json:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
