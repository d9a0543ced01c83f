package entity

import "time"

// Customer representa un comprador de la empresa (facturación).
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TIN       string
	IDScheme  string // NRIC, PASSPORT, BRN, ARMY
	IDValue   string
	SSTNumber string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	Postcode  string
	Country   string // ISO 3166-1 alpha-3
	CreatedAt time.Time
	UpdatedAt time.Time
}
