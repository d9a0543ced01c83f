package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
)

// ModuleService verifica qué módulos SaaS tiene activos una empresa.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si la empresa no tiene el módulo contratado.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}

// ActiveModules módulos vigentes (activos y sin vencer) de la empresa.
func (s *ModuleService) ActiveModules(ctx context.Context, companyID string) (map[string]bool, error) {
	if companyID == "" {
		return nil, fmt.Errorf("module: companyID es obligatorio")
	}
	list, err := s.companyRepo.ListModules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make(map[string]bool, len(list))
	for _, m := range list {
		if m.IsActive && (m.ExpiresAt == nil || m.ExpiresAt.After(now)) {
			out[m.ModuleName] = true
		}
	}
	return out, nil
}

// Activate activa (o reactiva) un módulo para la empresa.
func (s *ModuleService) Activate(ctx context.Context, companyID string, in dto.ActivateModuleRequest) (*dto.ModuleResponse, error) {
	switch in.Module {
	case entity.ModuleBilling, entity.ModuleEInvoice, entity.ModuleInventory:
	default:
		return nil, fmt.Errorf("%w: módulo %q", domain.ErrInvalidInput, in.Module)
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: expires_at debe ser futura", domain.ErrInvalidInput)
	}
	m := &entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ModuleName:  in.Module,
		IsActive:    true,
		ActivatedAt: now,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.companyRepo.ActivateModule(ctx, m); err != nil {
		return nil, err
	}
	return toModuleResponse(m), nil
}

// List módulos contratados por la empresa.
func (s *ModuleService) List(ctx context.Context, companyID string) ([]dto.ModuleResponse, error) {
	list, err := s.companyRepo.ListModules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toModuleResponse(m))
	}
	return out, nil
}

func toModuleResponse(m *entity.CompanyModule) *dto.ModuleResponse {
	return &dto.ModuleResponse{
		Module:      m.ModuleName,
		IsActive:    m.IsActive,
		ActivatedAt: m.ActivatedAt,
		ExpiresAt:   m.ExpiresAt,
	}
}
