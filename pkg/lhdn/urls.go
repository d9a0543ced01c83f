package lhdn

import (
	"fmt"
	"strings"
)

// Ambientes MyInvois.
const (
	EnvDev        = "dev"
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

const (
	SandboxAPIBaseURL     = "https://preprod-api.myinvois.hasil.gov.my"
	SandboxIdentityURL    = "https://preprod-api.myinvois.hasil.gov.my"
	SandboxPortalURL      = "https://preprod.myinvois.hasil.gov.my"
	ProductionAPIBaseURL  = "https://api.myinvois.hasil.gov.my"
	ProductionIdentityURL = "https://api.myinvois.hasil.gov.my"
	ProductionPortalURL   = "https://myinvois.hasil.gov.my"
)

// PortalURL portal público según ambiente (dev usa sandbox).
func PortalURL(env string) string {
	if env == EnvProduction {
		return ProductionPortalURL
	}
	return SandboxPortalURL
}

// APIBaseURL base del API según ambiente (dev usa sandbox).
func APIBaseURL(env string) string {
	if env == EnvProduction {
		return ProductionAPIBaseURL
	}
	return SandboxAPIBaseURL
}

// IdentityURL servidor de tokens OAuth2 según ambiente.
func IdentityURL(env string) string {
	if env == EnvProduction {
		return ProductionIdentityURL
	}
	return SandboxIdentityURL
}

// ValidationURL enlace público de validación que se imprime como QR: {portal}/{uuid}/share/{longId}.
func ValidationURL(portal, uuid, longID string) (string, error) {
	if uuid == "" || longID == "" {
		return "", fmt.Errorf("lhdn: uuid y longId son obligatorios para la URL de validación")
	}
	return fmt.Sprintf("%s/%s/share/%s", strings.TrimRight(portal, "/"), uuid, longID), nil
}
